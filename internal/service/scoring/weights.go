package scoring

import "math"

// SourceProfile holds the hand-tuned constants for one source type.
type SourceProfile struct {
	// Reliability in [0,1], how much the source is trusted
	Reliability float64

	// Weight in [0,1], the source's share of the confidence base. Weights
	// across the full profile table sum to 1.0.
	Weight float64

	// Saturation is the item count at which the source's authority
	// contribution caps out at 100.
	Saturation float64

	// EngagementK divides upvotes+comments in the engagement multiplier.
	// Zero means the source carries no engagement metrics.
	EngagementK float64
}

// DefaultProfiles is the full set of supported source types. The confidence
// scorer derives maxSources from this table, so it must list every source the
// aggregators can produce.
var DefaultProfiles = map[string]SourceProfile{
	SourceTrends:     {Reliability: 0.85, Weight: 0.25, Saturation: 20},
	SourceNews:       {Reliability: 0.90, Weight: 0.25, Saturation: 25},
	SourceReddit:     {Reliability: 0.70, Weight: 0.20, Saturation: 30, EngagementK: 50},
	SourceHackerNews: {Reliability: 0.75, Weight: 0.15, Saturation: 30, EngagementK: 30},
	SourceTwitter:    {Reliability: 0.70, Weight: 0.15, Saturation: 40, EngagementK: 40},
}

// Source names shared between aggregators and profiles.
const (
	SourceTrends     = "trends"
	SourceNews       = "news"
	SourceReddit     = "reddit"
	SourceHackerNews = "hackernews"
	SourceTwitter    = "twitter"
)

// FactorWeights holds the trend score's factor mix.
type FactorWeights struct {
	Velocity  float64
	Relevance float64
	Authority float64
	Recency   float64
	Momentum  float64
	Sentiment float64
}

// DefaultFactorWeights is the tuned factor mix. Weights sum to 1.0.
var DefaultFactorWeights = FactorWeights{
	Velocity:  0.20,
	Relevance: 0.20,
	Authority: 0.15,
	Recency:   0.15,
	Momentum:  0.20,
	Sentiment: 0.10,
}

const (
	// RecencyHalfLifeDays halves an item's weight every three days.
	RecencyHalfLifeDays = 3.0

	// StaleRecencyWeight is used when an item carries no usable timestamp.
	StaleRecencyWeight = 0.5

	// SmoothingAlpha is the EMA factor: smoothed = α·raw + (1-α)·previous.
	SmoothingAlpha = 0.3

	// DefaultDedupThreshold is the minimum Jaccard title similarity for two
	// articles to be considered the same story.
	DefaultDedupThreshold = 0.6

	// RelevancePerMatch is the relevance awarded per direct term match in a
	// trend-style source.
	RelevancePerMatch = 25

	// NeutralScore is the no-signal default for every 0-100 factor.
	NeutralScore = 50

	// Confidence clamp bounds.
	ConfidenceFloor   = 10
	ConfidenceCeiling = 98

	// EngagementCap bounds the social engagement multiplier.
	EngagementCap = 2.0
)

// Regions is the fixed set of regional partitions the trends source reports.
var Regions = []string{"us", "gb", "in", "au"}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampScore(v float64) int {
	return int(math.Round(clamp(v, 0, 100)))
}
