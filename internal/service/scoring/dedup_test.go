package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trendwatch/internal/domain/monitor"
)

func TestDeduplicateTrackingParams(t *testing.T) {
	articles := []monitor.Article{
		{Title: "Widget shortage hits suppliers", URL: "https://example.com/widgets?utm_source=feed&utm_medium=rss", Source: "news"},
		{Title: "Widget shortage hits suppliers", URL: "https://example.com/widgets?fbclid=abc123", Source: "reddit"},
	}

	result := Deduplicate(articles, DefaultDedupThreshold)

	require.Len(t, result.Articles, 1)
	assert.Equal(t, 2, result.OriginalCount)
	assert.Equal(t, 1, result.DeduplicatedCount)
	assert.ElementsMatch(t, []string{"news", "reddit"}, result.Articles[0].Sources)
}

func TestDeduplicateSimilarTitles(t *testing.T) {
	articles := []monitor.Article{
		{Title: "Acme announces major widget recall across Europe", URL: "https://a.example.com/1", Source: "news"},
		{Title: "Acme announces major widget recall across Europe today", URL: "https://b.example.com/2", Source: "hackernews"},
	}

	result := Deduplicate(articles, DefaultDedupThreshold)

	require.Len(t, result.Articles, 1)
	assert.Equal(t, "https://a.example.com/1", result.Articles[0].URL)
	assert.ElementsMatch(t, []string{"news", "hackernews"}, result.Articles[0].Sources)
}

func TestDeduplicateDistinctArticles(t *testing.T) {
	articles := []monitor.Article{
		{Title: "Widget market expands rapidly", URL: "https://a.example.com/1", Source: "news"},
		{Title: "Gadget prices fall sharply overnight", URL: "https://b.example.com/2", Source: "reddit"},
		{Title: "Sprocket factory opens in Ohio", URL: "https://c.example.com/3", Source: "hackernews"},
	}

	result := Deduplicate(articles, DefaultDedupThreshold)

	assert.Len(t, result.Articles, 3)
	assert.Equal(t, 3, result.DeduplicatedCount)
}

func TestDeduplicatePreservesOrder(t *testing.T) {
	articles := []monitor.Article{
		{Title: "First story about widgets arriving", URL: "https://a.example.com/1", Source: "news"},
		{Title: "Second story about unrelated gadgets", URL: "https://b.example.com/2", Source: "news"},
		{Title: "First story about widgets arriving", URL: "https://a.example.com/1?utm_campaign=x", Source: "reddit"},
	}

	result := Deduplicate(articles, DefaultDedupThreshold)

	require.Len(t, result.Articles, 2)
	assert.Equal(t, "https://a.example.com/1", result.Articles[0].URL)
	assert.Equal(t, "https://b.example.com/2", result.Articles[1].URL)
}

func TestDeduplicateCountNeverGrows(t *testing.T) {
	articles := []monitor.Article{
		{Title: "Alpha beta gamma delta", URL: "https://a.example.com", Source: "news"},
		{Title: "Alpha beta gamma delta", URL: "https://a.example.com", Source: "news"},
		{Title: "Completely different headline here", Source: "trends"},
		{},
	}

	result := Deduplicate(articles, DefaultDedupThreshold)
	assert.LessOrEqual(t, result.DeduplicatedCount, result.OriginalCount)
}

func TestDeduplicateEmpty(t *testing.T) {
	result := Deduplicate(nil, DefaultDedupThreshold)
	assert.Zero(t, result.OriginalCount)
	assert.Zero(t, result.DeduplicatedCount)
	assert.Empty(t, result.Articles)
}

func TestNormalizeURL(t *testing.T) {
	assert.Equal(t,
		normalizeURL("https://example.com/a?id=1"),
		normalizeURL("https://EXAMPLE.com/a?id=1&utm_source=x&ref=feed&gclid=9"))
	assert.Equal(t, "", normalizeURL(""))
}

func TestJaccardBounds(t *testing.T) {
	a := titleTokens("acme widget recall announced")
	b := titleTokens("acme widget recall announced")
	c := titleTokens("completely unrelated words entirely")

	assert.InDelta(t, 1.0, jaccard(a, b), 0.001)
	assert.Zero(t, jaccard(a, c))
	assert.Zero(t, jaccard(a, titleTokens("")))
}
