package source

import (
	"math"
	"time"

	"trendwatch/internal/domain/monitor"
	"trendwatch/internal/service/scoring"
)

// Aggregators are pure projections: they accept already-fetched provider data
// and produce the uniform {term, totalCount, weightedCount, items} shape every
// downstream scorer consumes. Transport concerns live in the per-source
// clients; everything in this file is side-effect free.

// buildSignal rolls per-term results up into one source signal.
func buildSignal(source string, results []monitor.SourceResult) monitor.SourceSignal {
	signal := monitor.SourceSignal{Source: source, Results: results}
	for _, r := range results {
		signal.TotalCount += r.TotalCount
		signal.WeightedCount += r.WeightedCount
	}
	return signal
}

// itemWeight is an article's contribution to weightedCount: its recency decay
// weight, optionally scaled by the source's engagement multiplier.
func itemWeight(a monitor.Article, engagementK float64) float64 {
	weight := a.RecencyWeight
	if engagementK > 0 {
		weight *= engagementMultiplier(engagementK, a.Upvotes, a.Comments)
	}
	return weight
}

// engagementMultiplier folds upvotes and comments into a bounded multiplier.
func engagementMultiplier(k float64, upvotes, comments int) float64 {
	if k <= 0 {
		return 1
	}
	return math.Min(scoring.EngagementCap, 1+float64(upvotes+comments)/k)
}

// projectArticles turns a term's fetched articles into a SourceResult,
// applying recency weighting and engagement scaling per item.
func projectArticles(term string, articles []monitor.Article, engagementK float64, now time.Time) monitor.SourceResult {
	result := monitor.SourceResult{Term: term, TotalCount: len(articles)}
	for i := range articles {
		articles[i].RecencyWeight = scoring.RecencyWeight(articles[i].PublishedAt, now)
		result.WeightedCount += itemWeight(articles[i], engagementK)
	}
	result.Items = articles
	return result
}
