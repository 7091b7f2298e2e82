package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"trendwatch/internal/domain/monitor"
)

func TestDirectionBands(t *testing.T) {
	cases := []struct {
		change   int
		label    string
		strength string
	}{
		{25, "Strong Uptrend", "strong"},
		{15, "Moderate Uptrend", "moderate"},
		{5, "Weak Uptrend", "weak"},
		{0, "Stable", "neutral"},
		{-3, "Stable", "neutral"},
		{-5, "Weak Downtrend", "weak"},
		{-15, "Moderate Downtrend", "moderate"},
		{-25, "Strong Downtrend", "strong"},
	}

	for _, tc := range cases {
		d := Direction(tc.change)
		assert.Equal(t, tc.label, d.Label, "change %d", tc.change)
		assert.Equal(t, tc.strength, d.Strength, "change %d", tc.change)
	}
}

func timestamped(source string, hoursAgo float64, now time.Time) monitor.Article {
	published := now.Add(-time.Duration(hoursAgo * float64(time.Hour)))
	return monitor.Article{Title: "item", Source: source, PublishedAt: &published}
}

func TestMomentumAccelerating(t *testing.T) {
	now := time.Now()

	// Four items in the last 24h against two in the previous window, with
	// full regional coverage.
	signals := []monitor.SourceSignal{
		{
			Source:  SourceTrends,
			Regions: map[string]bool{"us": true, "gb": true, "in": true, "au": true},
			Results: []monitor.SourceResult{{
				Term: "widget",
				Items: []monitor.Article{
					timestamped(SourceTrends, 2, now),
					timestamped(SourceTrends, 6, now),
					timestamped(SourceTrends, 10, now),
					timestamped(SourceTrends, 20, now),
					timestamped(SourceTrends, 30, now),
					timestamped(SourceTrends, 40, now),
				},
			}},
		},
	}

	result := Momentum(signals, now)
	assert.Equal(t, "Accelerating", result.Label)
}

func TestMomentumSteadyWithoutData(t *testing.T) {
	result := Momentum(nil, time.Now())
	assert.Equal(t, "Steady", result.Label)
	assert.Equal(t, 50, result.Score)
}

func TestMomentumDecelerating(t *testing.T) {
	now := time.Now()

	signals := []monitor.SourceSignal{
		{
			Source:  SourceTrends,
			Regions: map[string]bool{},
			Results: []monitor.SourceResult{{
				Term: "widget",
				Items: []monitor.Article{
					timestamped(SourceTrends, 26, now),
					timestamped(SourceTrends, 30, now),
					timestamped(SourceTrends, 40, now),
					timestamped(SourceTrends, 44, now),
				},
			}},
		},
	}

	result := Momentum(signals, now)
	assert.Equal(t, "Decelerating", result.Label)
}

func TestRegionalCoverage(t *testing.T) {
	signals := []monitor.SourceSignal{
		{Source: SourceTrends, Regions: map[string]bool{"us": true, "gb": true}},
	}

	coverage, ok := regionalCoverage(signals)
	assert.True(t, ok)
	assert.Equal(t, 50, coverage)

	_, ok = regionalCoverage([]monitor.SourceSignal{{Source: SourceNews}})
	assert.False(t, ok)
}
