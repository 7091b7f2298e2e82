package scoring

import (
	"net/url"
	"strings"
	"unicode"

	"trendwatch/internal/domain/monitor"
)

// trackingParams are query parameters stripped before URL comparison.
var trackingParams = map[string]bool{
	"ref":     true,
	"source":  true,
	"fbclid":  true,
	"gclid":   true,
	"msclkid": true,
}

// DedupResult holds the merged article list alongside its before/after counts.
type DedupResult struct {
	Articles          []monitor.Article
	OriginalCount     int
	DeduplicatedCount int
}

// Deduplicate merges near-duplicate articles across sources. Phase one merges
// articles whose normalized URLs match exactly; phase two merges survivors
// whose title token sets overlap at or above the threshold. Matching is
// first-match-wins and output preserves first-seen order. Merged articles
// union their source names onto the first-seen article.
func Deduplicate(articles []monitor.Article, threshold float64) DedupResult {
	result := DedupResult{OriginalCount: len(articles)}
	if len(articles) == 0 {
		return result
	}

	// Phase 1: exact match on normalized URLs.
	byURL := make(map[string]int)
	var survivors []monitor.Article
	for _, a := range articles {
		if len(a.Sources) == 0 && a.Source != "" {
			a.Sources = []string{a.Source}
		}
		key := normalizeURL(a.URL)
		if key != "" {
			if idx, seen := byURL[key]; seen {
				survivors[idx].Sources = unionSources(survivors[idx].Sources, a.Sources)
				continue
			}
			byURL[key] = len(survivors)
		}
		survivors = append(survivors, a)
	}

	// Phase 2: title similarity against the first article of each group.
	type group struct {
		first  int
		tokens map[string]bool
	}
	var groups []group
	var deduped []monitor.Article

	for _, a := range survivors {
		tokens := titleTokens(a.Title)

		merged := false
		for _, g := range groups {
			if jaccard(tokens, g.tokens) >= threshold {
				deduped[g.first].Sources = unionSources(deduped[g.first].Sources, a.Sources)
				merged = true
				break
			}
		}
		if merged {
			continue
		}

		groups = append(groups, group{first: len(deduped), tokens: tokens})
		deduped = append(deduped, a)
	}

	result.Articles = deduped
	result.DeduplicatedCount = len(deduped)
	return result
}

// normalizeURL lowercases the URL and strips tracking query parameters.
// Returns "" for articles without a URL so they never collide.
func normalizeURL(raw string) string {
	if raw == "" {
		return ""
	}

	u, err := url.Parse(strings.ToLower(raw))
	if err != nil {
		return strings.ToLower(raw)
	}

	query := u.Query()
	for param := range query {
		if trackingParams[param] || strings.HasPrefix(param, "utm_") {
			query.Del(param)
		}
	}
	u.RawQuery = query.Encode()
	u.Fragment = ""

	return u.String()
}

// titleTokens lowercases, strips non-alphanumerics and discards tokens of two
// characters or fewer.
func titleTokens(title string) map[string]bool {
	tokens := make(map[string]bool)
	for _, field := range strings.Fields(strings.ToLower(title)) {
		var b strings.Builder
		for _, r := range field {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				b.WriteRune(r)
			}
		}
		tok := b.String()
		if len(tok) > 2 {
			tokens[tok] = true
		}
	}
	return tokens
}

func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	intersection := 0
	for tok := range a {
		if b[tok] {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection

	return float64(intersection) / float64(union)
}

func unionSources(existing, incoming []string) []string {
	seen := make(map[string]bool, len(existing))
	for _, s := range existing {
		seen[s] = true
	}
	for _, s := range incoming {
		if s != "" && !seen[s] {
			seen[s] = true
			existing = append(existing, s)
		}
	}
	return existing
}
