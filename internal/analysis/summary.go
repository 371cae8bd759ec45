package analysis

import (
	"context"
	"strings"
	"time"

	"github.com/akolanti/propdocs/internal/config"
	"github.com/akolanti/propdocs/internal/llm"
	"github.com/akolanti/propdocs/internal/metrics"
	"github.com/akolanti/propdocs/pkg/logger_i"
)

const SummaryFallback = "A summary could not be generated for this document. The extracted text is available."

var logger = logger_i.NewLogger("Analysis")

// Summarize is best effort: it never returns an error, any failure gives the
// fallback sentence.
func Summarize(ctx context.Context, summarizer llm.Summarizer, text string) string {
	if summarizer == nil || strings.TrimSpace(text) == "" {
		return SummaryFallback
	}

	start := time.Now()
	summary, err := summarizer.Summarize(ctx, llm.Truncate(text, config.SummaryInputCeiling))
	metrics.CaptureExecutionMetrics("llm_summary", time.Since(start))
	if err != nil {
		logger.WithTrace(ctx).Warn("summary failed, using fallback", "error", err)
		return SummaryFallback
	}
	summary = strings.TrimSpace(summary)
	if summary == "" {
		return SummaryFallback
	}
	return summary
}
