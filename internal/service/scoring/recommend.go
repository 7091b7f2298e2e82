package scoring

import "sort"

// Recommendation priorities.
const (
	priorityHigh = iota
	priorityMedium
	priorityLow
)

var priorityGlyphs = map[int]string{
	priorityHigh:   "🔴",
	priorityMedium: "🟡",
	priorityLow:    "🟢",
}

// DefaultRecommendation is returned as the top recommendation when no rule
// fires.
const DefaultRecommendation = "🟢 Maintain regular monitoring cadence"

var highRecommendations = []string{
	"Investigate the spike immediately and brief stakeholders",
	"Increase monitoring frequency while the signal is hot",
	"Prepare a response plan before coverage peaks",
}

var mediumRecommendations = []string{
	"Review the contributing sources for emerging angles",
	"Watch for threshold crossings on the next pass",
	"Compare against related keyword groups",
}

var lowRecommendations = []string{
	"Keep the monitor on its current schedule",
	"Consider broadening the search terms",
	"Re-evaluate the alert threshold if silence persists",
}

// RecommendationResult is the ranked action list for one scoring pass.
type RecommendationResult struct {
	Ranked []string
	Top    string
}

// Recommend maps the score tuple onto prioritized actions. Entries are
// ordered high to medium to low, stable within a tier, and truncated to the
// top three.
func Recommend(trendScore, coherenceScore, confidenceScore, sentimentFactor int) RecommendationResult {
	type entry struct {
		priority int
		text     string
	}
	var entries []entry

	add := func(priority int, texts ...string) {
		for _, text := range texts {
			entries = append(entries, entry{priority: priority, text: text})
		}
	}

	if trendScore > 70 && coherenceScore > 60 {
		add(priorityHigh, highRecommendations...)
	}
	if (trendScore >= 40 && trendScore <= 70) || (coherenceScore >= 40 && coherenceScore <= 60) {
		add(priorityMedium, mediumRecommendations...)
	}
	if trendScore < 40 {
		add(priorityLow, lowRecommendations...)
	}

	if confidenceScore < 30 {
		add(priorityMedium, "Add more data sources before acting on this score")
	} else if confidenceScore > 70 {
		add(priorityHigh, "Score is well supported, safe to act on")
	}

	if sentimentFactor < 40 {
		add(priorityMedium, "Negative sentiment detected, review coverage tone")
	} else if sentimentFactor > 60 {
		add(priorityMedium, "Positive sentiment detected, consider amplifying")
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].priority < entries[j].priority
	})

	if len(entries) > 3 {
		entries = entries[:3]
	}

	ranked := make([]string, 0, len(entries))
	for _, e := range entries {
		ranked = append(ranked, priorityGlyphs[e.priority]+" "+e.text)
	}

	top := DefaultRecommendation
	if len(ranked) > 0 {
		top = ranked[0]
	}

	return RecommendationResult{Ranked: ranked, Top: top}
}
