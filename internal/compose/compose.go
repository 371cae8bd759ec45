package compose

import (
	"fmt"
	"math"
	"time"

	"github.com/akolanti/propdocs/internal/domain/commonModels"
	"github.com/akolanti/propdocs/internal/domain/jobModel"
	"github.com/akolanti/propdocs/internal/quickpath"
	"github.com/dustin/go-humanize"
)

const fallbackNote = "The answering model was unavailable, so these are the passages that best match your question."

// QuickSuccess carries the answer straight back to the caller.
func QuickSuccess(res quickpath.Result) commonModels.ProcessingOutcome {
	confidence := res.Confidence
	out := commonModels.ProcessingOutcome{
		Success:              true,
		PathTaken:            commonModels.PathQuick,
		ExtractedText:        res.Extraction.Text,
		Answer:               res.Answer,
		ConfidenceScore:      &confidence,
		ExtractionConfidence: res.Extraction.Confidence,
		ExtractionMethod:     res.Extraction.Method,
		Attempts:             res.Extraction.Attempts,
	}
	if res.UsedFallback {
		out.Message = fallbackNote
	}
	return out
}

// Escalated tells the caller the document went to background processing.
func Escalated(doc commonModels.UploadedDocument, question string, job jobModel.Job) commonModels.ProcessingOutcome {
	window := job.EstimatedWindow
	msg := fmt.Sprintf("Your document %q (%s) needs more time than a live answer allows. "+
		"We are still working on your question %q and expect an answer in about %s. "+
		"Your reference is %s.",
		doc.FileName, humanize.IBytes(uint64(doc.Size())), question, FormatWindow(window), job.Id)

	return commonModels.ProcessingOutcome{
		Success:         true,
		PathTaken:       commonModels.PathBackground,
		Message:         msg,
		JobReference:    job.Id,
		EstimatedWindow: &window,
		Alternatives:    Alternatives(question, MaxAlternatives),
	}
}

// TerminalError apologises and points at what the caller can do instead.
func TerminalError(reason string, suggestions []string, question string) commonModels.ProcessingOutcome {
	return commonModels.ProcessingOutcome{
		Success:      false,
		PathTaken:    commonModels.PathError,
		ErrorMessage: reason,
		Message:      "Sorry, we could not process your document: " + reason + ".",
		Suggestions:  suggestions,
		Alternatives: Alternatives(question, MaxAlternatives),
	}
}

// FormatWindow renders a window in whole minutes, e.g. "6-12 minutes".
func FormatWindow(w commonModels.CompletionWindow) string {
	lo := minutes(w.Min)
	hi := minutes(w.Max)
	if hi <= lo {
		if lo == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", lo)
	}
	return fmt.Sprintf("%d-%d minutes", lo, hi)
}

func minutes(d time.Duration) int {
	return max(int(math.Ceil(d.Minutes())), 1)
}
