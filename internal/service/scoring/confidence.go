package scoring

import (
	"math"

	"trendwatch/internal/domain/monitor"
)

// Confidence estimates how much the trend score can be trusted given how much
// data contributed and how well the sources agree. Each source adds
// reliability×weight to a base sum only when it produced data; three
// multipliers then scale the base by data completeness and agreement. The
// result is clamped into [ConfidenceFloor, ConfidenceCeiling] so downstream
// consumers never see absolute certainty either way.
func Confidence(signals []monitor.SourceSignal, coherenceScore int, profiles map[string]SourceProfile) monitor.ConfidenceResult {
	maxSources := len(profiles)

	base := 0.0
	dataPoints := 0
	for _, s := range signals {
		if s.TotalCount == 0 {
			continue
		}
		profile, ok := profiles[s.Source]
		if !ok {
			continue
		}
		base += profile.Reliability * profile.Weight
		dataPoints++
	}

	completeness := 0.0
	if maxSources > 0 {
		completeness = float64(dataPoints) / float64(maxSources)
	}

	freshness := 0.4 + 0.6*completeness
	sampleSize := 0.3 + 0.7*math.Min(1, completeness)
	agreement := 0.75 + 0.40*(float64(coherenceScore)/100)

	confidence := base * 100 * freshness * sampleSize * agreement
	score := int(math.Round(clamp(confidence, ConfidenceFloor, ConfidenceCeiling)))

	return monitor.ConfidenceResult{
		Score:      score,
		DataPoints: dataPoints,
		Multipliers: map[string]float64{
			"freshness":   freshness,
			"sample_size": sampleSize,
			"agreement":   agreement,
		},
	}
}
