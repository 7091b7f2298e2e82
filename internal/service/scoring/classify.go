package scoring

import (
	"time"

	"trendwatch/internal/domain/monitor"
)

// DirectionResult is a human-readable trend direction derived from the change
// percent.
type DirectionResult struct {
	Label    string
	Strength string
}

// Direction buckets the change percent into seven bands.
func Direction(changePercent int) DirectionResult {
	switch {
	case changePercent > 20:
		return DirectionResult{Label: "Strong Uptrend", Strength: "strong"}
	case changePercent > 10:
		return DirectionResult{Label: "Moderate Uptrend", Strength: "moderate"}
	case changePercent > 3:
		return DirectionResult{Label: "Weak Uptrend", Strength: "weak"}
	case changePercent >= -3:
		return DirectionResult{Label: "Stable", Strength: "neutral"}
	case changePercent >= -10:
		return DirectionResult{Label: "Weak Downtrend", Strength: "weak"}
	case changePercent >= -20:
		return DirectionResult{Label: "Moderate Downtrend", Strength: "moderate"}
	default:
		return DirectionResult{Label: "Strong Downtrend", Strength: "strong"}
	}
}

// Momentum classifier weights.
const (
	momentumRegionalWeight = 0.40
	momentumRecencyWeight  = 0.60
)

// MomentumResult is the acceleration label with its combined score.
type MomentumResult struct {
	Label string
	Score int
}

// Momentum combines regional coverage with a publication-rate comparison of
// the last 24 hours against the 24 hours before that.
func Momentum(signals []monitor.SourceSignal, now time.Time) MomentumResult {
	regional, ok := regionalCoverage(signals)
	if !ok {
		regional = NeutralScore
	}

	recencyTrend := recencyTrendScore(signals, now)

	combined := clampScore(float64(regional)*momentumRegionalWeight + float64(recencyTrend)*momentumRecencyWeight)

	label := "Decelerating"
	switch {
	case combined >= 70:
		label = "Accelerating"
	case combined >= 30:
		label = "Steady"
	}

	return MomentumResult{Label: label, Score: combined}
}

// regionalCoverage returns the fraction of monitored regions showing any
// signal, ok=false when no source exposes regional data.
func regionalCoverage(signals []monitor.SourceSignal) (int, bool) {
	covered := make(map[string]bool)
	found := false
	for _, s := range signals {
		if s.Regions == nil {
			continue
		}
		found = true
		for region, active := range s.Regions {
			if active {
				covered[region] = true
			}
		}
	}

	if !found || len(Regions) == 0 {
		return 0, false
	}

	hits := 0
	for _, region := range Regions {
		if covered[region] {
			hits++
		}
	}

	return clampScore(float64(hits) / float64(len(Regions)) * 100), true
}

// recencyTrendScore compares item counts published in the last 24h against
// the preceding 24-48h window.
func recencyTrendScore(signals []monitor.SourceSignal, now time.Time) int {
	recent, previous := 0, 0
	dayAgo := now.Add(-24 * time.Hour)
	twoDaysAgo := now.Add(-48 * time.Hour)

	for _, s := range signals {
		for _, item := range s.Items() {
			if item.PublishedAt == nil {
				continue
			}
			switch {
			case item.PublishedAt.After(dayAgo):
				recent++
			case item.PublishedAt.After(twoDaysAgo):
				previous++
			}
		}
	}

	if previous == 0 {
		if recent > 0 {
			return 100
		}
		return NeutralScore
	}

	ratio := float64(recent) / float64(previous)
	switch {
	case ratio > 1.5:
		return 100
	case ratio > 0.75:
		return 50
	default:
		return 0
	}
}
