package scoring

import (
	"math"

	"trendwatch/internal/domain/monitor"
)

// Coherence factor weights.
const (
	coherenceDirectionWeight = 0.30
	coherenceMagnitudeWeight = 0.25
	coherenceTemporalWeight  = 0.25
	coherenceTermWeight      = 0.20
)

// Coherence measures cross-source agreement that a signal exists and is
// consistent in strength and timing. Absent sources are simply omitted from
// the input; zero sources is a defined edge case scoring 0/Noise.
func Coherence(signals []monitor.SourceSignal, termCount int) monitor.CoherenceResult {
	if len(signals) == 0 {
		return monitor.CoherenceResult{Score: 0, Level: "Noise", Factors: map[string]int{}}
	}

	direction := directionAgreement(signals)
	magnitude := magnitudeConsistency(signals)
	temporal := temporalConsistency(signals)
	term := termCorrelation(signals, termCount)

	score := clampScore(
		float64(direction)*coherenceDirectionWeight +
			float64(magnitude)*coherenceMagnitudeWeight +
			float64(temporal)*coherenceTemporalWeight +
			float64(term)*coherenceTermWeight)

	return monitor.CoherenceResult{
		Score: score,
		Level: coherenceLevel(score),
		Factors: map[string]int{
			"direction_agreement":   direction,
			"magnitude_consistency": magnitude,
			"temporal_consistency":  temporal,
			"term_correlation":      term,
		},
	}
}

func coherenceLevel(score int) string {
	switch {
	case score >= 75:
		return "High"
	case score >= 50:
		return "Medium"
	case score >= 25:
		return "Low"
	default:
		return "Noise"
	}
}

// directionAgreement is the fraction of sources reporting any signal.
func directionAgreement(signals []monitor.SourceSignal) int {
	reporting := 0
	for _, s := range signals {
		if s.TotalCount > 0 {
			reporting++
		}
	}
	return clampScore(float64(reporting) / float64(len(signals)) * 100)
}

// magnitudeConsistency compares the smallest and largest source magnitudes.
// One source with data is a flat 50; none is 0.
func magnitudeConsistency(signals []monitor.SourceSignal) int {
	var magnitudes []float64
	for _, s := range signals {
		if s.TotalCount > 0 {
			magnitudes = append(magnitudes, float64(s.TotalCount))
		}
	}

	switch len(magnitudes) {
	case 0:
		return 0
	case 1:
		return NeutralScore
	}

	minMag, maxMag := magnitudes[0], magnitudes[0]
	for _, m := range magnitudes[1:] {
		minMag = math.Min(minMag, m)
		maxMag = math.Max(maxMag, m)
	}
	if maxMag == 0 {
		return 0
	}

	return clampScore(minMag / maxMag * 100)
}

// temporalConsistency averages the recency weight of items from the most
// temporally rich source, the one with the most timestamped items.
func temporalConsistency(signals []monitor.SourceSignal) int {
	var richest []monitor.Article
	richestCount := 0

	for _, s := range signals {
		items := s.Items()
		timestamped := 0
		for _, item := range items {
			if item.PublishedAt != nil {
				timestamped++
			}
		}
		if timestamped > richestCount {
			richestCount = timestamped
			richest = items
		}
	}

	if richestCount == 0 {
		return NeutralScore
	}

	sum := 0.0
	counted := 0
	for _, item := range richest {
		if item.PublishedAt != nil {
			sum += item.RecencyWeight
			counted++
		}
	}

	return clampScore(sum / float64(counted) * 100)
}

// termCorrelation averages, across sources with a termwise breakdown, the
// fraction of the monitor's terms that produced any result.
func termCorrelation(signals []monitor.SourceSignal, termCount int) int {
	if termCount <= 0 {
		return NeutralScore
	}

	sum := 0.0
	counted := 0
	for _, s := range signals {
		if len(s.Results) == 0 {
			continue
		}
		sum += float64(s.TermsWithData()) / float64(termCount)
		counted++
	}

	if counted == 0 {
		return NeutralScore
	}

	return clampScore(sum / float64(counted) * 100)
}
