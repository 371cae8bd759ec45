package docqa

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/akolanti/propdocs/internal/analysis"
	"github.com/akolanti/propdocs/internal/compose"
	"github.com/akolanti/propdocs/internal/config"
	"github.com/akolanti/propdocs/internal/data/blob"
	"github.com/akolanti/propdocs/internal/domain/commonModels"
	"github.com/akolanti/propdocs/internal/domain/jobModel"
	"github.com/akolanti/propdocs/internal/extraction"
	"github.com/akolanti/propdocs/internal/intake"
	"github.com/akolanti/propdocs/internal/metrics"
)

func (s *service) ProcessBackgroundJob(ctx context.Context, job jobModel.Job) jobModel.Job {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("background_job", time.Since(start)) }()

	log := s.logger.WithTrace(ctx).With("jobId", job.Id, "file", job.FileName)
	ctx, cancel := context.WithTimeout(ctx, config.BackgroundJobTimeout)
	defer cancel()

	job.Status = jobModel.JobStatusRunning

	// Blob fetch
	job = logOutput(job, jobModel.BlobFetch, log)
	data, err := s.fetchDocument(ctx, job)
	if err != nil {
		retry := !errors.Is(err, blob.ErrNotFound)
		return s.jobError(job, err, "BLOB_FETCH_FAILURE", retry,
			"the uploaded document is no longer available", []string{"Upload the document again"})
	}
	defer s.discardDocument(ctx, job)

	doc := commonModels.UploadedDocument{Data: data, FileName: job.FileName, MediaType: job.MediaType, DeclaredSize: job.FileSize}
	if doc.MediaType == "" {
		doc.MediaType = intake.MediaType(doc.FileName, data)
	}

	// Extraction
	job = logOutput(job, jobModel.ExtractionCall, log)
	extracted, err := s.executeExtractionStep(ctx, doc, job.Question)
	if err != nil {
		var exhausted *extraction.ChainExhaustedError
		suggestions := []string{"Re-upload a text-based version of the document"}
		if errors.As(err, &exhausted) {
			suggestions = exhausted.Suggestions
		}
		return s.jobError(job, err, "EXTRACTION_FAILURE", false, "no readable text could be extracted from the document", suggestions)
	}

	// LLM answer
	job = logOutput(job, jobModel.LLMCall, log)
	answer, sections, citations, usedFallback := s.executeLLMStep(ctx, extracted.Text, job.Question)

	// Summary
	job = logOutput(job, jobModel.SummaryCall, log)
	summary := analysis.Summarize(ctx, s.llmProvider, extracted.Text)

	score := analysis.Score(extracted.Text, job.Question, sections, citations)
	job.Result = &commonModels.ProcessingOutcome{
		Success:              true,
		PathTaken:            commonModels.PathBackground,
		Answer:               answer,
		Summary:              summary,
		ConfidenceScore:      &score,
		ExtractionConfidence: extracted.Confidence,
		ExtractionMethod:     extracted.Method,
		JobReference:         job.Id,
		Attempts:             extracted.Attempts,
	}
	if usedFallback {
		job.Result.Message = "The answering model was unavailable, so the answer is the passages that best match your question."
	}

	job.Status = jobModel.JobStatusComplete
	job = logOutput(job, jobModel.Complete, log)
	log.Info("background job finished", "method", extracted.Method, "confidence", score, "elapsed", time.Since(start))
	return job
}

// jobError records a failed job together with a terminal outcome the caller
// can read from GET /jobs/{id}.
func (s *service) jobError(job jobModel.Job, err error, code string, canRetry bool, reason string, suggestions []string) jobModel.Job {
	s.logger.Error(code, "jobId", job.Id, "error", err)

	job.Error = jobModel.JobError{
		Code:    http.StatusInternalServerError,
		Message: code,
		Retry:   canRetry,
	}
	outcome := compose.TerminalError(reason, suggestions, job.Question)
	outcome.JobReference = job.Id
	job.Result = &outcome
	job.Status = jobModel.JobStatusError
	job.CurrentStep = jobModel.Error
	return job
}
