package source

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/gofeed"

	"trendwatch/internal/domain/monitor"
	"trendwatch/internal/service/scoring"
)

// NewsFetcher pulls configured RSS feeds and projects items matching the
// monitor's terms.
type NewsFetcher struct {
	parser *gofeed.Parser
	feeds  []string
	maxAge time.Duration
}

// NewNewsFetcher creates an RSS news fetcher over the given feed URLs.
func NewNewsFetcher(feeds []string) *NewsFetcher {
	return &NewsFetcher{
		parser: gofeed.NewParser(),
		feeds:  feeds,
		maxAge: 7 * 24 * time.Hour,
	}
}

// Name returns the source name.
func (f *NewsFetcher) Name() string { return scoring.SourceNews }

// Fetch parses all feeds concurrently, then projects items per term. A feed
// that fails to parse is skipped; only a total failure surfaces as an error.
func (f *NewsFetcher) Fetch(ctx context.Context, terms []string) (monitor.SourceSignal, error) {
	now := time.Now()
	items := f.fetchAll(ctx, now)

	var results []monitor.SourceResult
	for _, term := range terms {
		var matched []monitor.Article
		for _, item := range items {
			if matchesTerm(item, term) {
				matched = append(matched, item)
			}
		}
		results = append(results, projectArticles(term, matched, 0, now))
	}

	return buildSignal(scoring.SourceNews, results), nil
}

func (f *NewsFetcher) fetchAll(ctx context.Context, now time.Time) []monitor.Article {
	var (
		mu    sync.Mutex
		items []monitor.Article
		wg    sync.WaitGroup
	)

	maxAge := now.Add(-f.maxAge)

	for _, feedURL := range f.feeds {
		wg.Add(1)
		go func(u string) {
			defer wg.Done()

			feed, err := f.parser.ParseURLWithContext(u, ctx)
			if err != nil {
				return
			}

			var parsed []monitor.Article
			for _, item := range feed.Items {
				var published *time.Time
				if item.PublishedParsed != nil {
					published = item.PublishedParsed
				} else if item.UpdatedParsed != nil {
					published = item.UpdatedParsed
				}

				// Skip stale items
				if published != nil && published.Before(maxAge) {
					continue
				}

				parsed = append(parsed, monitor.Article{
					Title:       item.Title,
					URL:         item.Link,
					PublishedAt: published,
					Source:      scoring.SourceNews,
				})
			}

			mu.Lock()
			items = append(items, parsed...)
			mu.Unlock()
		}(feedURL)
	}

	wg.Wait()
	return items
}

func matchesTerm(a monitor.Article, term string) bool {
	return strings.Contains(strings.ToLower(a.Title), strings.ToLower(term))
}
