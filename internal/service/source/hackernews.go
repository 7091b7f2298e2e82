package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"trendwatch/internal/domain/monitor"
	"trendwatch/internal/service/scoring"
)

// HackerNewsClient queries the Algolia Hacker News search API.
type HackerNewsClient struct {
	BaseURL     string
	HTTPClient  *http.Client
	EngagementK float64
}

// HNHit is one story from the Algolia search response.
type HNHit struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Points      int    `json:"points"`
	NumComments int    `json:"num_comments"`
	CreatedAt   string `json:"created_at"`
	ObjectID    string `json:"objectID"`
}

type hnSearchResponse struct {
	Hits []HNHit `json:"hits"`
}

// NewHackerNewsClient creates a new Hacker News search client.
func NewHackerNewsClient(timeout time.Duration) *HackerNewsClient {
	return &HackerNewsClient{
		BaseURL: "https://hn.algolia.com/api/v1",
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
		EngagementK: scoring.DefaultProfiles[scoring.SourceHackerNews].EngagementK,
	}
}

// Name returns the source name.
func (c *HackerNewsClient) Name() string { return scoring.SourceHackerNews }

// Fetch searches stories for each term and projects the hits.
func (c *HackerNewsClient) Fetch(ctx context.Context, terms []string) (monitor.SourceSignal, error) {
	now := time.Now()

	var results []monitor.SourceResult
	for _, term := range terms {
		hits, err := c.Search(ctx, term)
		if err != nil {
			return monitor.SourceSignal{}, fmt.Errorf("hackernews search for %q: %w", term, err)
		}
		results = append(results, ProjectHNHits(term, hits, c.EngagementK, now))
	}

	return buildSignal(scoring.SourceHackerNews, results), nil
}

// ProjectHNHits converts fetched stories into the uniform result shape.
func ProjectHNHits(term string, hits []HNHit, engagementK float64, now time.Time) monitor.SourceResult {
	articles := make([]monitor.Article, 0, len(hits))
	for _, hit := range hits {
		var published *time.Time
		if created, err := time.Parse(time.RFC3339, hit.CreatedAt); err == nil {
			published = &created
		}

		articles = append(articles, monitor.Article{
			Title:       hit.Title,
			URL:         hit.URL,
			PublishedAt: published,
			Source:      scoring.SourceHackerNews,
			Upvotes:     hit.Points,
			Comments:    hit.NumComments,
		})
	}

	return projectArticles(term, articles, engagementK, now)
}

// Search queries the Algolia index for recent stories matching the term.
func (c *HackerNewsClient) Search(ctx context.Context, term string) ([]HNHit, error) {
	endpoint := fmt.Sprintf("%s/search_by_date?query=%s&tags=story&hitsPerPage=30",
		c.BaseURL, url.QueryEscape(term))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to HN API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HN API returned status code %d", resp.StatusCode)
	}

	var parsed hnSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode HN API response: %w", err)
	}

	return parsed.Hits, nil
}
