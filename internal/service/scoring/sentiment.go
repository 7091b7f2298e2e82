package scoring

import (
	_ "embed"
	"math"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

//go:embed lexicon.yaml
var lexiconYAML []byte

// lexicon maps lowercase words to integer valences in [-5,5].
var lexicon = mustLoadLexicon()

func mustLoadLexicon() map[string]int {
	m := make(map[string]int)
	if err := yaml.Unmarshal(lexiconYAML, &m); err != nil {
		panic("scoring: invalid embedded lexicon: " + err.Error())
	}
	return m
}

// SentimentResult is the batch sentiment output over a set of short texts.
type SentimentResult struct {
	Score    int    `json:"score"`
	Label    string `json:"label"`
	Analyzed int    `json:"analyzed"`
}

// SentimentScore scores free text into [0,100] where 50 is neutral. Tokens are
// looked up in a fixed valence lexicon; text with no lexicon hits is neutral,
// not an error.
func SentimentScore(text string) int {
	tokens := sentimentTokens(text)

	sum := 0
	matched := 0
	for _, tok := range tokens {
		if valence, ok := lexicon[tok]; ok {
			sum += valence
			matched++
		}
	}

	if matched == 0 {
		return NeutralScore
	}

	score := 50 + (float64(sum)/float64(matched))*10
	return clampScore(score)
}

// SentimentBatch scores each text independently and returns the mean with a
// classification label. An empty input yields the neutral default.
func SentimentBatch(texts []string) SentimentResult {
	if len(texts) == 0 {
		return SentimentResult{Score: NeutralScore, Label: sentimentLabel(NeutralScore)}
	}

	total := 0
	for _, text := range texts {
		total += SentimentScore(text)
	}

	mean := int(math.Round(float64(total) / float64(len(texts))))
	return SentimentResult{
		Score:    mean,
		Label:    sentimentLabel(mean),
		Analyzed: len(texts),
	}
}

func sentimentLabel(score int) string {
	switch {
	case score <= 30:
		return "Negative"
	case score <= 45:
		return "Somewhat Negative"
	case score <= 55:
		return "Neutral"
	case score <= 70:
		return "Somewhat Positive"
	default:
		return "Positive"
	}
}

// sentimentTokens lowercases and splits on whitespace, stripping punctuation
// but keeping hyphens and apostrophes inside words.
func sentimentTokens(text string) []string {
	var tokens []string
	for _, field := range strings.Fields(strings.ToLower(text)) {
		var b strings.Builder
		for _, r := range field {
			if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '\'' {
				b.WriteRune(r)
			}
		}
		tok := strings.Trim(b.String(), "-'")
		if tok != "" {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}
