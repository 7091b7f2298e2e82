package monitor

import (
	"time"
)

// Interval controls how often a monitor is scored.
type Interval string

const (
	IntervalDaily   Interval = "daily"
	IntervalWeekly  Interval = "weekly"
	IntervalMonthly Interval = "monthly"
)

// Valid reports whether the interval is one of the supported cadences.
func (i Interval) Valid() bool {
	switch i {
	case IntervalDaily, IntervalWeekly, IntervalMonthly:
		return true
	}
	return false
}

// Monitor is a named tracking configuration scored repeatedly over time.
type Monitor struct {
	ID        string     `json:"id"`
	Terms     []string   `json:"terms"`
	Threshold float64    `json:"threshold"`
	Interval  Interval   `json:"interval"`
	LastCheck *time.Time `json:"last_check,omitempty"`
	CreatedAt time.Time  `json:"created_at"`

	// Snapshot fields from the most recent scoring pass, nil until first run.
	PreviousTrendScore *int     `json:"trend_score,omitempty"`
	PreviousSmoothed   *float64 `json:"smoothed_score,omitempty"`
	PreviousCoherence  *int     `json:"coherence,omitempty"`
	PreviousConfidence *int     `json:"confidence,omitempty"`
	PreviousChange     *int     `json:"change_percent,omitempty"`
}

// Article is a single content item from any source. Articles live only within
// one scoring pass; the deduplicator merges or discards them.
type Article struct {
	Title         string
	URL           string
	PublishedAt   *time.Time
	Source        string
	Sources       []string
	RecencyWeight float64
	Upvotes       int
	Comments      int
}

// SourceResult is the uniform per-source, per-term projection every scorer
// consumes: exactly term, total count, weighted count and items.
type SourceResult struct {
	Term          string
	TotalCount    int
	WeightedCount float64
	Items         []Article
}

// SourceSignal is one source's rollup across all of a monitor's terms.
type SourceSignal struct {
	Source        string
	Results       []SourceResult
	TotalCount    int
	WeightedCount float64

	// Regions with any signal, populated only by sources that expose a
	// regional breakdown.
	Regions map[string]bool

	// Direct term matches reported by trend-style sources.
	TermMatches int
}

// Items returns all articles across the signal's per-term results.
func (s SourceSignal) Items() []Article {
	var items []Article
	for _, r := range s.Results {
		items = append(items, r.Items...)
	}
	return items
}

// TermsWithData returns how many of the monitor's terms produced any result.
func (s SourceSignal) TermsWithData() int {
	n := 0
	for _, r := range s.Results {
		if r.TotalCount > 0 {
			n++
		}
	}
	return n
}

// FactorScores holds the six named sub-scores of the trend score.
type FactorScores struct {
	Relevance int `json:"relevance"`
	Authority int `json:"authority"`
	Recency   int `json:"recency"`
	Momentum  int `json:"momentum"`
	Sentiment int `json:"sentiment"`
	Velocity  int `json:"velocity"`
}

// CoherenceResult measures cross-source agreement.
type CoherenceResult struct {
	Score   int            `json:"score"`
	Level   string         `json:"level"`
	Factors map[string]int `json:"factors"`
}

// ConfidenceResult measures data-quality-weighted reliability.
type ConfidenceResult struct {
	Score       int                `json:"score"`
	DataPoints  int                `json:"data_points"`
	Multipliers map[string]float64 `json:"multipliers"`
}

// ScoreSnapshot is the computed output of one scoring pass.
type ScoreSnapshot struct {
	MonitorID         string           `json:"monitor_id"`
	TrendScore        int              `json:"trend_score"`
	RawScore          int              `json:"raw_score"`
	SmoothedScore     float64          `json:"smoothed_score"`
	ChangePercent     int              `json:"change_percent"`
	Factors           FactorScores     `json:"factors"`
	Coherence         CoherenceResult  `json:"coherence"`
	Confidence        ConfidenceResult `json:"confidence"`
	Direction         string           `json:"direction"`
	DirectionStrength string           `json:"direction_strength"`
	Momentum          string           `json:"momentum"`
	SentimentLabel    string           `json:"sentiment_label"`
	DataSourcesUsed   int              `json:"data_sources_used"`
	OriginalArticles  int              `json:"original_articles"`
	DedupedArticles   int              `json:"deduped_articles"`
	Recommendations   []string         `json:"recommendations"`
	TopRecommendation string           `json:"top_recommendation"`
	ScoredAt          time.Time        `json:"scored_at"`
}

// Alert is raised when a snapshot's change percent crosses the monitor's
// threshold.
type Alert struct {
	ID        string        `json:"id"`
	MonitorID string        `json:"monitor_id"`
	Terms     []string      `json:"terms"`
	Summary   string        `json:"summary"`
	Snapshot  ScoreSnapshot `json:"snapshot"`
	CreatedAt time.Time     `json:"created_at"`
}
