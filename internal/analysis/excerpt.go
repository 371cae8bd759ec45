package analysis

import (
	"strings"
)

const (
	excerptMaxChars   = 1500
	noMatchLeadChars  = 1000
	paragraphSplitter = "\n\n"
)

var stopwords = map[string]bool{
	"what": true, "when": true, "where": true, "which": true, "who": true,
	"whom": true, "whose": true, "does": true, "this": true, "that": true,
	"there": true, "their": true, "they": true, "them": true, "with": true,
	"from": true, "have": true, "been": true, "about": true, "into": true,
	"your": true, "tell": true, "please": true, "document": true, "would": true,
	"could": true, "should": true, "shall": true, "will": true, "these": true,
	"those": true, "were": true, "than": true, "then": true, "also": true,
}

// Keywords are the significant question words minus stopwords.
func Keywords(question string) []string {
	var out []string
	seen := map[string]bool{}
	for _, w := range SignificantWords(question) {
		if stopwords[w] || seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return out
}

// RelevantExcerpt returns the paragraphs mentioning a question keyword, cut
// at 1500 characters, and how many paragraphs matched. With no match it
// returns the start of the document and 0.
func RelevantExcerpt(text, question string) (string, int) {
	keywords := Keywords(question)

	paragraphs := splitParagraphs(text)
	var matched []string
	for _, p := range paragraphs {
		lower := strings.ToLower(p)
		for _, k := range keywords {
			if strings.Contains(lower, k) {
				matched = append(matched, strings.TrimSpace(p))
				break
			}
		}
	}

	if len(matched) == 0 {
		return cutRunes(strings.TrimSpace(text), noMatchLeadChars), 0
	}
	return cutRunes(strings.Join(matched, paragraphSplitter), excerptMaxChars), len(matched)
}

// splitParagraphs uses blank lines, falling back to single lines when the
// text has none (common for OCR output).
func splitParagraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	parts := strings.Split(text, paragraphSplitter)
	if len(parts) == 1 {
		parts = strings.Split(text, "\n")
	}
	out := parts[:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return out
}

func cutRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
