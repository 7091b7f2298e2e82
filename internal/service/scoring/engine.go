package scoring

import (
	"math"
	"time"

	"trendwatch/internal/domain/monitor"
)

// EngineConfig contains the tunable constants for the trend score engine.
type EngineConfig struct {
	Profiles       map[string]SourceProfile
	Weights        FactorWeights
	DedupThreshold float64
}

// DefaultEngineConfig returns the hand-tuned defaults.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Profiles:       DefaultProfiles,
		Weights:        DefaultFactorWeights,
		DedupThreshold: DefaultDedupThreshold,
	}
}

// Engine computes the multi-factor trend score with EMA smoothing and
// velocity feedback. The injected history store is the only mutable state; the
// rest of the computation is a pure single pass over fetched signals.
type Engine struct {
	config  EngineConfig
	history HistoryStore
	now     func() time.Time
}

// NewEngine creates a scoring engine.
func NewEngine(config EngineConfig, history HistoryStore) *Engine {
	if config.Profiles == nil {
		config.Profiles = DefaultProfiles
	}
	if config.DedupThreshold <= 0 {
		config.DedupThreshold = DefaultDedupThreshold
	}
	return &Engine{
		config:  config,
		history: history,
		now:     time.Now,
	}
}

// Score runs one scoring pass for a monitor over its fetched source signals.
// Absent sources and empty item lists resolve to documented defaults; no input
// shape produces an error or a NaN.
func (e *Engine) Score(m monitor.Monitor, signals []monitor.SourceSignal) monitor.ScoreSnapshot {
	now := e.now()

	pooled := poolArticles(signals)
	dedup := Deduplicate(pooled, e.config.DedupThreshold)
	sentiment := SentimentBatch(articleTitles(dedup.Articles))

	relevance := e.relevanceFactor(signals)
	authority := e.authorityFactor(signals)
	recency := recencyFactor(signals)
	momentum := momentumFactor(signals)

	w := e.config.Weights

	// Provisional raw score holds velocity at neutral: velocity depends on the
	// smoothed score, which doesn't exist until the raw score is smoothed.
	rawScore := clampScore(
		w.Relevance*float64(relevance) +
			w.Authority*float64(authority) +
			w.Recency*float64(recency) +
			w.Momentum*float64(momentum) +
			w.Sentiment*float64(sentiment.Score) +
			w.Velocity*NeutralScore)

	previous, hasPrevious := e.history.Previous(m.ID)

	var smoothed float64
	if hasPrevious {
		smoothed = math.Round(SmoothingAlpha*float64(rawScore) + (1-SmoothingAlpha)*previous)
	} else {
		smoothed = float64(rawScore)
	}

	velocity := NeutralScore
	if hasPrevious && previous > 0 {
		velocity = clampScore(50 + ((smoothed-previous)/previous)*50)
	}

	finalScore := clampScore(
		w.Velocity*float64(velocity) +
			w.Relevance*float64(relevance) +
			w.Authority*float64(authority) +
			w.Recency*float64(recency) +
			w.Momentum*float64(momentum) +
			w.Sentiment*float64(sentiment.Score))

	changePercent := 0
	if hasPrevious && previous > 0 {
		changePercent = int(math.Round((float64(finalScore) - previous) / previous * 100))
	}

	e.history.Update(m.ID, smoothed)

	coherence := Coherence(signals, len(m.Terms))
	confidence := Confidence(signals, coherence.Score, e.config.Profiles)
	direction := Direction(changePercent)
	momentumLabel := Momentum(signals, now)
	recommendations := Recommend(finalScore, coherence.Score, confidence.Score, sentiment.Score)

	return monitor.ScoreSnapshot{
		MonitorID:     m.ID,
		TrendScore:    finalScore,
		RawScore:      rawScore,
		SmoothedScore: smoothed,
		ChangePercent: changePercent,
		Factors: monitor.FactorScores{
			Relevance: relevance,
			Authority: authority,
			Recency:   recency,
			Momentum:  momentum,
			Sentiment: sentiment.Score,
			Velocity:  velocity,
		},
		Coherence:         coherence,
		Confidence:        confidence,
		Direction:         direction.Label,
		DirectionStrength: direction.Strength,
		Momentum:          momentumLabel.Label,
		SentimentLabel:    sentiment.Label,
		DataSourcesUsed:   countReporting(signals),
		OriginalArticles:  dedup.OriginalCount,
		DedupedArticles:   dedup.DeduplicatedCount,
		Recommendations:   recommendations.Ranked,
		TopRecommendation: recommendations.Top,
		ScoredAt:          now,
	}
}

// relevanceFactor rewards direct term matches in the trend-style source.
func (e *Engine) relevanceFactor(signals []monitor.SourceSignal) int {
	for _, s := range signals {
		if s.Source == SourceTrends {
			return clampScore(math.Min(100, float64(s.TermMatches*RelevancePerMatch)))
		}
	}
	return 0
}

// authorityFactor is the reliability-weighted average of each source's
// saturation-capped volume. Weights are renormalized over the sources actually
// present so absent optional sources don't bias authority low.
func (e *Engine) authorityFactor(signals []monitor.SourceSignal) int {
	weightedSum := 0.0
	weightTotal := 0.0

	for _, s := range signals {
		profile, ok := e.config.Profiles[s.Source]
		if !ok || profile.Saturation <= 0 {
			continue
		}
		volume := math.Min(100, float64(s.TotalCount)/profile.Saturation*100)
		weightedSum += profile.Weight * profile.Reliability * volume
		weightTotal += profile.Weight
	}

	if weightTotal == 0 {
		return 0
	}

	return clampScore(weightedSum / weightTotal)
}

// recencyFactor averages weightedCount/totalCount equally across sources with
// data, not weighted by volume.
func recencyFactor(signals []monitor.SourceSignal) int {
	sum := 0.0
	counted := 0
	for _, s := range signals {
		if s.TotalCount == 0 {
			continue
		}
		sum += math.Min(100, s.WeightedCount/float64(s.TotalCount)*100)
		counted++
	}

	if counted == 0 {
		return NeutralScore
	}

	return clampScore(sum / float64(counted))
}

// momentumFactor is the fraction of monitored regions showing any signal.
func momentumFactor(signals []monitor.SourceSignal) int {
	coverage, ok := regionalCoverage(signals)
	if !ok {
		return NeutralScore
	}
	return coverage
}

func countReporting(signals []monitor.SourceSignal) int {
	n := 0
	for _, s := range signals {
		if s.TotalCount > 0 {
			n++
		}
	}
	return n
}

func poolArticles(signals []monitor.SourceSignal) []monitor.Article {
	var pooled []monitor.Article
	for _, s := range signals {
		pooled = append(pooled, s.Items()...)
	}
	return pooled
}

func articleTitles(articles []monitor.Article) []string {
	titles := make([]string, 0, len(articles))
	for _, a := range articles {
		if a.Title != "" {
			titles = append(titles, a.Title)
		}
	}
	return titles
}
