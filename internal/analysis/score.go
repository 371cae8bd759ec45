package analysis

import (
	"math"
	"regexp"
	"strings"
	"unicode"
)

const (
	scoreBase = 0.5
	scoreMin  = 0.1
	scoreMax  = 0.95

	// share of significant question words that must appear in the text
	keywordCoverage = 0.7
)

// Score rates how much an answer built from text can be trusted. It only ever
// adds to the base, so it is monotonic in both counts.
func Score(text, question string, relevantSections, citations int) float64 {
	score := scoreBase

	switch {
	case relevantSections >= 3:
		score += 0.2
	case relevantSections >= 1:
		score += 0.1
	}

	switch {
	case citations >= 2:
		score += 0.2
	case citations >= 1:
		score += 0.1
	}

	if coversQuestion(text, question) {
		score += 0.1
	}

	score = math.Max(scoreMin, math.Min(scoreMax, score))
	return math.Round(score*100) / 100
}

func coversQuestion(text, question string) bool {
	words := SignificantWords(question)
	if len(words) == 0 {
		return false
	}
	lower := strings.ToLower(text)
	found := 0
	for _, w := range words {
		if strings.Contains(lower, w) {
			found++
		}
	}
	return float64(found)/float64(len(words)) >= keywordCoverage
}

// SignificantWords lowercases the question, trims punctuation and keeps words
// longer than three characters.
func SignificantWords(question string) []string {
	var words []string
	for _, f := range strings.Fields(strings.ToLower(question)) {
		w := strings.TrimFunc(f, func(r rune) bool {
			return unicode.IsPunct(r) || unicode.IsSymbol(r)
		})
		if len([]rune(w)) > 3 {
			words = append(words, w)
		}
	}
	return words
}

var citationPattern = regexp.MustCompile(`(?i)\[(?:page|p\.|section|clause)[^\]]*\]`)

// CountCitations counts bracketed page/section references such as [Page 2].
func CountCitations(answer string) int {
	return len(citationPattern.FindAllStringIndex(answer, -1))
}
