package source

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trendwatch/internal/domain/monitor"
	"trendwatch/internal/service/scoring"
)

func TestEngagementMultiplierCapped(t *testing.T) {
	assert.Equal(t, 1.0, engagementMultiplier(50, 0, 0))
	assert.Equal(t, 1.5, engagementMultiplier(50, 20, 5))
	assert.Equal(t, scoring.EngagementCap, engagementMultiplier(50, 5000, 500))
	assert.Equal(t, 1.0, engagementMultiplier(0, 100, 100))
}

func TestProjectArticlesWeights(t *testing.T) {
	now := time.Now()
	fresh := now.Add(-1 * time.Hour)

	articles := []monitor.Article{
		{Title: "fresh story", PublishedAt: &fresh, Source: scoring.SourceNews},
		{Title: "undated story", Source: scoring.SourceNews},
	}

	result := projectArticles("widget", articles, 0, now)

	assert.Equal(t, "widget", result.Term)
	assert.Equal(t, 2, result.TotalCount)
	require.Len(t, result.Items, 2)

	// Fresh item near 1.0, undated item at the stale default.
	assert.InDelta(t, 1.0, result.Items[0].RecencyWeight, 0.05)
	assert.Equal(t, scoring.StaleRecencyWeight, result.Items[1].RecencyWeight)
	assert.InDelta(t, result.Items[0].RecencyWeight+0.5, result.WeightedCount, 0.001)
}

func TestProjectRedditPostsEngagement(t *testing.T) {
	now := time.Now()

	posts := []RedditPost{
		{Title: "hot widget thread", Permalink: "/r/widgets/1", Score: 40, NumComments: 10,
			Created: float64(now.Add(-2 * time.Hour).Unix())},
	}

	result := ProjectRedditPosts("widget", posts, 50, now)

	require.Equal(t, 1, result.TotalCount)
	item := result.Items[0]
	assert.Equal(t, "https://www.reddit.com/r/widgets/1", item.URL)
	assert.Equal(t, 40, item.Upvotes)

	// weightedCount = recency * min(2, 1+(40+10)/50) = recency * 2.
	assert.InDelta(t, item.RecencyWeight*2, result.WeightedCount, 0.001)
}

func TestProjectHNHits(t *testing.T) {
	now := time.Now()

	hits := []HNHit{
		{Title: "Show HN: widget toolkit", URL: "https://example.com/widget",
			Points: 15, NumComments: 15, CreatedAt: now.Add(-6 * time.Hour).Format(time.RFC3339)},
		{Title: "No timestamp story"},
	}

	result := ProjectHNHits("widget", hits, 30, now)

	require.Equal(t, 2, result.TotalCount)
	assert.NotNil(t, result.Items[0].PublishedAt)
	assert.Nil(t, result.Items[1].PublishedAt)
	assert.Equal(t, scoring.StaleRecencyWeight, result.Items[1].RecencyWeight)

	// First item: recency * min(2, 1+30/30) = recency * 2.
	expected := result.Items[0].RecencyWeight*2 + scoring.StaleRecencyWeight
	assert.InDelta(t, expected, result.WeightedCount, 0.001)
}

func TestBuildSignalRollup(t *testing.T) {
	results := []monitor.SourceResult{
		{Term: "widget", TotalCount: 3, WeightedCount: 2.1},
		{Term: "gadget", TotalCount: 0, WeightedCount: 0},
	}

	signal := buildSignal(scoring.SourceNews, results)

	assert.Equal(t, scoring.SourceNews, signal.Source)
	assert.Equal(t, 3, signal.TotalCount)
	assert.InDelta(t, 2.1, signal.WeightedCount, 0.001)
	assert.Equal(t, 1, signal.TermsWithData())
}
