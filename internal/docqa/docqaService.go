package docqa

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/akolanti/propdocs/internal/compose"
	"github.com/akolanti/propdocs/internal/data/blob"
	"github.com/akolanti/propdocs/internal/domain/commonModels"
	"github.com/akolanti/propdocs/internal/domain/jobModel"
	"github.com/akolanti/propdocs/internal/extraction"
	"github.com/akolanti/propdocs/internal/intake"
	"github.com/akolanti/propdocs/internal/job"
	"github.com/akolanti/propdocs/internal/llm"
	"github.com/akolanti/propdocs/internal/metrics"
	"github.com/akolanti/propdocs/internal/quickpath"
	"github.com/akolanti/propdocs/internal/routing"
	"github.com/akolanti/propdocs/pkg/logger_i"
)

/*
Service is the public contract the handlers and workers call. The private
service struct holds the extraction services, the model client and the
submitter, so callers never reach those directly and tests can swap every
one of them for a mock through NewService.
*/
type Service interface {
	// ProcessUpload answers live when it can and queues the document when it
	// cannot. It always returns an outcome, never an error.
	ProcessUpload(ctx context.Context, doc commonModels.UploadedDocument, q Question) commonModels.ProcessingOutcome
	// ProcessBackgroundJob runs a queued document without the quick path
	// deadline and stores the outcome on the returned job.
	ProcessBackgroundJob(ctx context.Context, job jobModel.Job) jobModel.Job
}

// Submitter is the background hand-off, satisfied by *job.Service.
type Submitter interface {
	Submit(ctx context.Context, doc commonModels.UploadedDocument, sub job.Submission) (jobModel.Job, error)
}

type Question struct {
	Text        string
	BuildingRef string
	Priority    jobModel.Priority
}

type Dependencies struct {
	Extraction extraction.Services
	Provider   llm.Provider
	Submitter  Submitter
	Blobs      blob.Store

	MaxUploadBytes   int64
	QuickPathTimeout time.Duration
	AnalysisTimeout  time.Duration
}

type service struct {
	extraction     extraction.Services
	llmProvider    llm.Provider
	submitter      Submitter
	blobs          blob.Store
	maxUploadBytes int64
	quick          *quickpath.Orchestrator
	logger         *logger_i.Logger
}

func NewService(deps Dependencies) Service {
	s := &service{
		extraction:     deps.Extraction,
		llmProvider:    deps.Provider,
		submitter:      deps.Submitter,
		blobs:          deps.Blobs,
		maxUploadBytes: deps.MaxUploadBytes,
		logger:         logger_i.NewLogger("DocQA Service"),
	}
	s.quick = &quickpath.Orchestrator{
		Services:        deps.Extraction,
		Timeout:         deps.QuickPathTimeout,
		AnalysisTimeout: deps.AnalysisTimeout,
	}
	if deps.Provider != nil {
		s.quick.Answerer = deps.Provider
	}
	return s
}

func (s *service) ProcessUpload(ctx context.Context, doc commonModels.UploadedDocument, q Question) commonModels.ProcessingOutcome {
	log := s.logger.WithTrace(ctx).With("file", doc.FileName, "size", doc.Size())
	outcome := s.processUpload(ctx, log, doc, q)
	metrics.CountPathTaken(string(outcome.PathTaken))
	log.Info("upload processed", "path", outcome.PathTaken, "success", outcome.Success)
	return outcome
}

func (s *service) processUpload(ctx context.Context, log *logger_i.Logger, doc commonModels.UploadedDocument, q Question) commonModels.ProcessingOutcome {
	question := strings.TrimSpace(q.Text)
	if question == "" {
		return compose.TerminalError("no question was asked",
			[]string{"Type the question you want answered about the document"}, "")
	}

	if v := intake.Validate(doc.Data, doc.FileName, s.maxUploadBytes); !v.Valid {
		log.Warn("document rejected", "code", v.Err.Code, "reason", v.Err.Message)
		return compose.TerminalError(v.Err.Message, v.Err.Suggestions, question)
	}

	docType := intake.Classify(doc.FileName, head(doc.Data))
	if docType == commonModels.UNKNOWN {
		return compose.TerminalError("the document type could not be recognised", intake.ConversionSuggestions, question)
	}
	if doc.MediaType == "" {
		doc.MediaType = intake.MediaType(doc.FileName, doc.Data)
	}

	decision := routing.Decide(doc.Size(), question)
	log.Debug("escalation decision", "quick", decision.Quick, "rationale", decision.Rationale)

	reason := decision.Rationale
	if decision.Quick {
		res := s.quick.Run(ctx, doc, docType, question)
		if res.Succeeded() {
			return compose.QuickSuccess(res)
		}
		reason = fmt.Sprintf("quick path ended %s: %s", res.State, res.Failure)
		log.Info("escalating after quick path", "state", res.State, "failure", res.Failure)
	}

	return s.escalate(ctx, log, doc, question, q, reason)
}

func (s *service) escalate(ctx context.Context, log *logger_i.Logger, doc commonModels.UploadedDocument, question string, q Question, reason string) commonModels.ProcessingOutcome {
	if s.submitter == nil {
		return compose.TerminalError("background processing is not available",
			[]string{"Try again later", "Upload a smaller document so it can be answered immediately"}, question)
	}

	// submission outlives a cancelled request so an accepted upload is never lost
	queued, err := s.submitter.Submit(context.WithoutCancel(ctx), doc, job.Submission{
		Question:    question,
		BuildingRef: q.BuildingRef,
		Priority:    q.Priority,
		Reason:      reason,
	})
	if err != nil {
		log.Error("background submission failed", "error", err)
		if errors.Is(err, job.ErrUnauthenticated) {
			return compose.TerminalError("you need to be signed in to queue a document for background processing",
				[]string{"Sign in and upload the document again"}, question)
		}
		return compose.TerminalError("the document could not be queued for background processing",
			[]string{"Try again in a few minutes", "Upload a smaller document so it can be answered immediately"}, question)
	}
	return compose.Escalated(doc, question, queued)
}

func head(data []byte) []byte {
	return data[:min(len(data), 512)]
}

var _ Submitter = (*job.Service)(nil)
