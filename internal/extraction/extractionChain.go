package extraction

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/akolanti/propdocs/internal/domain/commonModels"
	"github.com/akolanti/propdocs/internal/metrics"
	"github.com/akolanti/propdocs/pkg/logger_i"
)

var logger = logger_i.NewLogger("Extraction Chain")

// Method is one way of turning document bytes into text.
type Method interface {
	Name() string
	// MinChars is the length the trimmed output must exceed to count as content.
	MinChars() int
	Extract(ctx context.Context, doc commonModels.UploadedDocument) (string, commonModels.ConfidenceLevel, error)
}

type Result struct {
	Text       string
	Method     string
	Confidence commonModels.ConfidenceLevel
	Attempts   []commonModels.ExtractionAttempt
}

// ChainExhaustedError is returned when every method in the chain failed.
type ChainExhaustedError struct {
	DocType     commonModels.DocType
	Attempts    []commonModels.ExtractionAttempt
	Suggestions []string

	causes []error
}

func (e *ChainExhaustedError) Error() string {
	parts := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		reason := a.Err
		if reason == "" {
			reason = fmt.Sprintf("only %d chars", a.Chars)
		}
		parts = append(parts, a.Method+": "+reason)
	}
	return fmt.Sprintf("all extraction methods failed for %s (%s)", e.DocType, strings.Join(parts, "; "))
}

// Unwrap exposes the per-method errors so callers can errors.Is on them.
func (e *ChainExhaustedError) Unwrap() []error {
	return e.causes
}

// Chain runs its methods in order and stops at the first acceptable output.
type Chain struct {
	DocType commonModels.DocType
	Methods []Method
}

func NewChain(docType commonModels.DocType, methods ...Method) *Chain {
	return &Chain{DocType: docType, Methods: methods}
}

// Run never retries a method, it only advances. A cancelled context stops the
// loop and its error is returned as-is so callers can tell a timeout apart.
func (c *Chain) Run(ctx context.Context, doc commonModels.UploadedDocument) (Result, error) {
	log := logger.WithTrace(ctx).With("file", doc.FileName, "docType", c.DocType)
	var attempts []commonModels.ExtractionAttempt
	var causes []error

	for _, m := range c.Methods {
		if err := ctx.Err(); err != nil {
			log.Warn("extraction stopped before method", "method", m.Name(), "error", err)
			return Result{Attempts: attempts}, err
		}

		start := time.Now()
		text, conf, err := m.Extract(ctx, doc)
		elapsed := time.Since(start)
		metrics.CaptureExecutionMetrics("extract_"+m.Name(), elapsed)

		attempt := commonModels.ExtractionAttempt{
			Method:   m.Name(),
			Chars:    utf8.RuneCountInString(strings.TrimSpace(text)),
			Duration: elapsed,
		}

		switch {
		case err != nil:
			attempt.Err = err.Error()
			causes = append(causes, fmt.Errorf("%s: %w", m.Name(), err))
			log.Debug("extraction method failed", "method", m.Name(), "error", err)
		case attempt.Chars <= m.MinChars():
			log.Debug("extraction output below threshold", "method", m.Name(), "chars", attempt.Chars, "min", m.MinChars())
		default:
			attempt.Succeeded = true
			attempt.Text = text
			attempt.Confidence = conf
		}
		metrics.CountExtractionAttempt(m.Name(), attempt.Succeeded)
		attempts = append(attempts, attempt)

		if attempt.Succeeded {
			log.Info("extraction succeeded", "method", m.Name(), "chars", attempt.Chars, "confidence", conf)
			return Result{Text: text, Method: m.Name(), Confidence: conf, Attempts: attempts}, nil
		}

		// the method may have failed *because* the deadline passed
		if ctxErr := ctx.Err(); ctxErr != nil {
			log.Warn("extraction deadline reached", "method", m.Name(), "error", ctxErr)
			return Result{Attempts: attempts}, ctxErr
		}
	}

	log.Warn("extraction chain exhausted", "attempts", len(attempts))
	return Result{Attempts: attempts}, &ChainExhaustedError{
		DocType:     c.DocType,
		Attempts:    attempts,
		Suggestions: exhaustedSuggestions(c.DocType),
		causes:      causes,
	}
}

// OnlyServiceErrors is true when every attempt errored, i.e. no method got as
// far as producing (short) text.
func OnlyServiceErrors(err error) bool {
	var exhausted *ChainExhaustedError
	if !errors.As(err, &exhausted) || len(exhausted.Attempts) == 0 {
		return false
	}
	for _, a := range exhausted.Attempts {
		if a.Err == "" {
			return false
		}
	}
	return true
}

func exhaustedSuggestions(docType commonModels.DocType) []string {
	switch docType {
	case commonModels.PDF:
		return []string{
			"Re-upload a text-based version of the PDF (exported, not scanned)",
			"If you only have a scan, rescan it at a higher resolution",
		}
	case commonModels.DOCX:
		return []string{
			"Save the document as PDF and upload the PDF",
			"Check the Word document is not password protected",
		}
	case commonModels.IMAGE:
		return []string{
			"Take a sharper photo in good light, with the page filling the frame",
			"Upload the original PDF if you have one",
		}
	default:
		return []string{"Re-upload a text-based version of the document"}
	}
}
