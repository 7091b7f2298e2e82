package source

import (
	"context"
	"fmt"
	"net/http"
	"time"

	twitter "github.com/g8rswimmer/go-twitter/v2"

	"trendwatch/internal/domain/monitor"
	"trendwatch/internal/service/scoring"
)

// bearerAuthorizer adds the bearer token to outgoing API requests.
type bearerAuthorizer struct {
	Token string
}

func (a bearerAuthorizer) Add(req *http.Request) {
	req.Header.Add("Authorization", "Bearer "+a.Token)
}

// TwitterClient fetches recent tweet activity per term via the v2 search API.
type TwitterClient struct {
	client      *twitter.Client
	EngagementK float64
}

// NewTwitterClient creates a Twitter API v2 client.
func NewTwitterClient(bearerToken string, timeout time.Duration) *TwitterClient {
	return &TwitterClient{
		client: &twitter.Client{
			Authorizer: bearerAuthorizer{Token: bearerToken},
			Client: &http.Client{
				Timeout: timeout,
			},
			Host: "https://api.twitter.com",
		},
		EngagementK: scoring.DefaultProfiles[scoring.SourceTwitter].EngagementK,
	}
}

// Name returns the source name.
func (c *TwitterClient) Name() string { return scoring.SourceTwitter }

// Fetch runs a recent search per term and projects the tweets.
func (c *TwitterClient) Fetch(ctx context.Context, terms []string) (monitor.SourceSignal, error) {
	now := time.Now()

	var results []monitor.SourceResult
	for _, term := range terms {
		opts := twitter.TweetRecentSearchOpts{
			MaxResults: 50,
			TweetFields: []twitter.TweetField{
				twitter.TweetFieldCreatedAt,
				twitter.TweetFieldPublicMetrics,
			},
		}

		resp, err := c.client.TweetRecentSearch(ctx, term+" -is:retweet", opts)
		if err != nil {
			return monitor.SourceSignal{}, fmt.Errorf("twitter search for %q: %w", term, err)
		}

		articles := make([]monitor.Article, 0, len(resp.Raw.Tweets))
		for _, tweet := range resp.Raw.Tweets {
			var published *time.Time
			if created, err := time.Parse(time.RFC3339, tweet.CreatedAt); err == nil {
				published = &created
			}

			upvotes, comments := 0, 0
			if tweet.PublicMetrics != nil {
				upvotes = tweet.PublicMetrics.Likes + tweet.PublicMetrics.Retweets
				comments = tweet.PublicMetrics.Replies + tweet.PublicMetrics.Quotes
			}

			articles = append(articles, monitor.Article{
				Title:       tweet.Text,
				PublishedAt: published,
				Source:      scoring.SourceTwitter,
				Upvotes:     upvotes,
				Comments:    comments,
			})
		}

		results = append(results, projectArticles(term, articles, c.EngagementK, now))
	}

	return buildSignal(scoring.SourceTwitter, results), nil
}
