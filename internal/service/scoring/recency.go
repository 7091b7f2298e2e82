package scoring

import (
	"math"
	"time"
)

// RecencyWeight converts a publication timestamp into a decay-weighted
// relevance multiplier in (0,1]. An item published now weighs 1.0 and loses
// half its weight every RecencyHalfLifeDays. Items without a usable timestamp
// are treated as moderately stale rather than rejected.
func RecencyWeight(publishedAt *time.Time, now time.Time) float64 {
	if publishedAt == nil || publishedAt.IsZero() {
		return StaleRecencyWeight
	}

	ageDays := now.Sub(*publishedAt).Hours() / 24
	if ageDays < 0 {
		ageDays = 0
	}

	return math.Exp2(-ageDays / RecencyHalfLifeDays)
}
