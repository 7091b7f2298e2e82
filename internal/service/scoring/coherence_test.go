package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"trendwatch/internal/domain/monitor"
)

func signalWithItems(source string, total int, weights ...float64) monitor.SourceSignal {
	now := time.Now()
	items := make([]monitor.Article, 0, len(weights))
	for _, w := range weights {
		published := now.Add(-6 * time.Hour)
		items = append(items, monitor.Article{
			Title:         "item",
			Source:        source,
			PublishedAt:   &published,
			RecencyWeight: w,
		})
	}

	weighted := 0.0
	for _, w := range weights {
		weighted += w
	}

	return monitor.SourceSignal{
		Source:        source,
		TotalCount:    total,
		WeightedCount: weighted,
		Results: []monitor.SourceResult{
			{Term: "widget", TotalCount: total, WeightedCount: weighted, Items: items},
		},
	}
}

func TestCoherenceZeroSources(t *testing.T) {
	result := Coherence(nil, 1)
	assert.Equal(t, 0, result.Score)
	assert.Equal(t, "Noise", result.Level)
	assert.Empty(t, result.Factors)
}

func TestCoherenceFullAgreement(t *testing.T) {
	signals := []monitor.SourceSignal{
		signalWithItems(SourceNews, 10, 0.9, 0.9),
		signalWithItems(SourceReddit, 10, 0.9, 0.9),
	}

	result := Coherence(signals, 1)

	assert.Equal(t, 100, result.Factors["direction_agreement"])
	assert.Equal(t, 100, result.Factors["magnitude_consistency"])
	assert.Equal(t, 100, result.Factors["term_correlation"])
}

func TestCoherenceSingleSourceMagnitude(t *testing.T) {
	signals := []monitor.SourceSignal{signalWithItems(SourceNews, 5, 0.8)}
	result := Coherence(signals, 1)
	assert.Equal(t, NeutralScore, result.Factors["magnitude_consistency"])
}

func TestCoherenceMagnitudeRatio(t *testing.T) {
	signals := []monitor.SourceSignal{
		signalWithItems(SourceNews, 4, 0.8),
		signalWithItems(SourceReddit, 16, 0.8),
	}
	result := Coherence(signals, 1)
	assert.Equal(t, 25, result.Factors["magnitude_consistency"])
}

func TestCoherenceTemporalDefault(t *testing.T) {
	// Source present but no timestamped items.
	signals := []monitor.SourceSignal{
		{Source: SourceTrends, TotalCount: 3, Results: []monitor.SourceResult{{Term: "widget", TotalCount: 3}}},
	}
	result := Coherence(signals, 1)
	assert.Equal(t, NeutralScore, result.Factors["temporal_consistency"])
}

func TestCoherenceLevels(t *testing.T) {
	assert.Equal(t, "High", coherenceLevel(75))
	assert.Equal(t, "Medium", coherenceLevel(50))
	assert.Equal(t, "Low", coherenceLevel(25))
	assert.Equal(t, "Noise", coherenceLevel(24))
}

func TestCoherenceScoreClamped(t *testing.T) {
	signals := []monitor.SourceSignal{
		signalWithItems(SourceNews, 100, 1.0, 1.0, 1.0),
		signalWithItems(SourceReddit, 100, 1.0, 1.0),
	}
	result := Coherence(signals, 1)
	assert.GreaterOrEqual(t, result.Score, 0)
	assert.LessOrEqual(t, result.Score, 100)
}
