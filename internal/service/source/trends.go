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

// TrendsClient queries a search-trend feed for term interest with a regional
// breakdown. It is the only source reporting direct term matches and regions.
type TrendsClient struct {
	BaseURL    string
	UserAgent  string
	HTTPClient *http.Client
}

// TrendEntry is one matched topic from the trends feed.
type TrendEntry struct {
	Topic    string         `json:"topic"`
	Interest int            `json:"interest"`
	Regions  map[string]int `json:"regions"`
}

type trendsResponse struct {
	Term    string       `json:"term"`
	Entries []TrendEntry `json:"entries"`
}

// NewTrendsClient creates a trends feed client.
func NewTrendsClient(baseURL, userAgent string, timeout time.Duration) *TrendsClient {
	return &TrendsClient{
		BaseURL:   baseURL,
		UserAgent: userAgent,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Name returns the source name.
func (c *TrendsClient) Name() string { return scoring.SourceTrends }

// Fetch queries the feed for each term and projects the results.
func (c *TrendsClient) Fetch(ctx context.Context, terms []string) (monitor.SourceSignal, error) {
	now := time.Now()
	regions := make(map[string]bool)
	termMatches := 0

	var results []monitor.SourceResult
	for _, term := range terms {
		entries, err := c.interest(ctx, term)
		if err != nil {
			return monitor.SourceSignal{}, fmt.Errorf("trends lookup for %q: %w", term, err)
		}

		matched := false
		var articles []monitor.Article
		for _, entry := range entries {
			if entry.Interest <= 0 {
				continue
			}
			matched = true
			for region, interest := range entry.Regions {
				if interest > 0 {
					regions[region] = true
				}
			}
			articles = append(articles, monitor.Article{
				Title:  entry.Topic,
				Source: scoring.SourceTrends,
			})
		}
		if matched {
			termMatches++
		}

		results = append(results, projectArticles(term, articles, 0, now))
	}

	signal := buildSignal(scoring.SourceTrends, results)
	signal.Regions = regions
	signal.TermMatches = termMatches
	return signal, nil
}

func (c *TrendsClient) interest(ctx context.Context, term string) ([]TrendEntry, error) {
	endpoint := fmt.Sprintf("%s/api/v1/interest?term=%s", c.BaseURL, url.QueryEscape(term))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.UserAgent)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach trends feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("trends feed returned status code %d", resp.StatusCode)
	}

	var parsed trendsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode trends response: %w", err)
	}

	return parsed.Entries, nil
}
