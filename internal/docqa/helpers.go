package docqa

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/akolanti/propdocs/internal/analysis"
	"github.com/akolanti/propdocs/internal/config"
	"github.com/akolanti/propdocs/internal/domain/commonModels"
	"github.com/akolanti/propdocs/internal/domain/jobModel"
	"github.com/akolanti/propdocs/internal/extraction"
	"github.com/akolanti/propdocs/internal/intake"
	"github.com/akolanti/propdocs/internal/llm"
	"github.com/akolanti/propdocs/internal/metrics"
	"github.com/akolanti/propdocs/pkg/logger_i"
)

func logOutput(job jobModel.Job, status jobModel.InternalStatus, log *logger_i.Logger) jobModel.Job {
	job.CurrentStep = status
	log.Debug("ProcessBackgroundJob", "Current Status", job.CurrentStep)
	return job
}

func (s *service) fetchDocument(ctx context.Context, job jobModel.Job) ([]byte, error) {
	if s.blobs == nil {
		return nil, errors.New("no blob store configured")
	}
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("blob_fetch", time.Since(start)) }()

	return s.blobs.Get(ctx, job.DocumentRef)
}

func (s *service) discardDocument(ctx context.Context, job jobModel.Job) {
	if err := s.blobs.Delete(context.WithoutCancel(ctx), job.DocumentRef); err != nil {
		s.logger.Warn("failed to remove processed document", "jobId", job.Id, "ref", job.DocumentRef, "error", err)
	}
}

func (s *service) executeExtractionStep(ctx context.Context, doc commonModels.UploadedDocument, question string) (extraction.Result, error) {
	docType := intake.Classify(doc.FileName, head(doc.Data))
	chain, err := extraction.ChainFor(docType, s.extraction, question)
	if err != nil {
		return extraction.Result{}, err
	}
	return chain.Run(ctx, doc)
}

// executeLLMStep answers like the quick path does, falling back to the
// keyword excerpt when the model fails.
func (s *service) executeLLMStep(ctx context.Context, text, question string) (answer string, sections, citations int, usedFallback bool) {
	excerpt, sections := analysis.RelevantExcerpt(text, question)
	if s.llmProvider == nil {
		return excerpt, sections, 0, true
	}

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("llm_answer_background", time.Since(start)) }()

	ceiling := s.llmProvider.InputCeiling()
	if ceiling <= 0 {
		ceiling = config.AnalysisInputCeiling
	}
	reply, err := s.llmProvider.Answer(ctx, llm.Truncate(text, ceiling), question)
	reply = strings.TrimSpace(reply)
	if err != nil || reply == "" {
		s.logger.WithTrace(ctx).Warn("background answer failed, using keyword excerpt", "error", err)
		return excerpt, sections, 0, true
	}
	return reply, sections, analysis.CountCitations(reply), false
}
