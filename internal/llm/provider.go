package llm

import (
	"context"
	"errors"
)

// ErrEmptyReply is returned when the model answered with no text.
var ErrEmptyReply = errors.New("model returned an empty reply")

// Answerer answers a question against document text. Callers cut the text
// to InputCeiling characters before calling Answer.
type Answerer interface {
	Answer(ctx context.Context, documentText string, question string) (string, error)
	InputCeiling() int
}

type Summarizer interface {
	Summarize(ctx context.Context, documentText string) (string, error)
}

// Provider is what a model vendor client offers the pipeline.
type Provider interface {
	Answerer
	Summarizer
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	if n <= 0 {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
