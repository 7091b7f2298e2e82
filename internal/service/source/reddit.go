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

// RedditClient handles interactions with the Reddit search API.
type RedditClient struct {
	BaseURL     string
	UserAgent   string
	HTTPClient  *http.Client
	EngagementK float64
}

// RedditPost represents a post from Reddit
type RedditPost struct {
	Title       string  `json:"title"`
	URL         string  `json:"url"`
	Permalink   string  `json:"permalink"`
	Score       int     `json:"score"`
	NumComments int     `json:"num_comments"`
	Subreddit   string  `json:"subreddit"`
	Created     float64 `json:"created_utc"`
	Author      string  `json:"author"`
}

// redditResponse represents the structure of the Reddit API response
type redditResponse struct {
	Kind string `json:"kind"`
	Data struct {
		After    string `json:"after"`
		Children []struct {
			Kind string     `json:"kind"`
			Data RedditPost `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// NewRedditClient creates a new Reddit API client
func NewRedditClient(userAgent string, timeout time.Duration) *RedditClient {
	return &RedditClient{
		BaseURL:   "https://www.reddit.com",
		UserAgent: userAgent,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
		EngagementK: scoring.DefaultProfiles[scoring.SourceReddit].EngagementK,
	}
}

// Name returns the source name.
func (c *RedditClient) Name() string { return scoring.SourceReddit }

// Fetch searches Reddit for each term and projects the matching posts.
func (c *RedditClient) Fetch(ctx context.Context, terms []string) (monitor.SourceSignal, error) {
	now := time.Now()

	var results []monitor.SourceResult
	for _, term := range terms {
		posts, err := c.Search(ctx, term, 25, "week")
		if err != nil {
			return monitor.SourceSignal{}, fmt.Errorf("reddit search for %q: %w", term, err)
		}
		results = append(results, ProjectRedditPosts(term, posts, c.EngagementK, now))
	}

	return buildSignal(scoring.SourceReddit, results), nil
}

// ProjectRedditPosts converts fetched posts into the uniform result shape.
func ProjectRedditPosts(term string, posts []RedditPost, engagementK float64, now time.Time) monitor.SourceResult {
	articles := make([]monitor.Article, 0, len(posts))
	for _, post := range posts {
		var published *time.Time
		if post.Created > 0 {
			t := time.Unix(int64(post.Created), 0)
			published = &t
		}

		link := post.URL
		if link == "" && post.Permalink != "" {
			link = "https://www.reddit.com" + post.Permalink
		}

		articles = append(articles, monitor.Article{
			Title:       post.Title,
			URL:         link,
			PublishedAt: published,
			Source:      scoring.SourceReddit,
			Upvotes:     post.Score,
			Comments:    post.NumComments,
		})
	}

	return projectArticles(term, articles, engagementK, now)
}

// Search queries Reddit's search endpoint for posts matching the term.
// timeRange can be: hour, day, week, month, year, all
func (c *RedditClient) Search(ctx context.Context, term string, limit int, timeRange string) ([]RedditPost, error) {
	if limit <= 0 {
		limit = 25 // Default limit
	}
	if timeRange == "" {
		timeRange = "week" // Default time range
	}

	endpoint := fmt.Sprintf("%s/search.json?q=%s&limit=%d&t=%s&sort=new",
		c.BaseURL, url.QueryEscape(term), limit, timeRange)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Set a User-Agent header to avoid rate limiting
	req.Header.Set("User-Agent", c.UserAgent)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Reddit API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Reddit API returned status code %d", resp.StatusCode)
	}

	var parsed redditResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode Reddit API response: %w", err)
	}

	posts := make([]RedditPost, 0, len(parsed.Data.Children))
	for _, child := range parsed.Data.Children {
		posts = append(posts, child.Data)
	}

	return posts, nil
}
