package quickpath

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/akolanti/propdocs/internal/analysis"
	"github.com/akolanti/propdocs/internal/config"
	"github.com/akolanti/propdocs/internal/domain/commonModels"
	"github.com/akolanti/propdocs/internal/extraction"
	"github.com/akolanti/propdocs/internal/llm"
	"github.com/akolanti/propdocs/internal/metrics"
	"github.com/akolanti/propdocs/pkg/logger_i"
)

type State string

const (
	StateIdle       State = "Idle"
	StateExtracting State = "Extracting"
	StateAnalyzing  State = "Analyzing"
	StateSucceeded  State = "Succeeded"
	StateTimedOut   State = "TimedOut"
	StateFailed     State = "Failed"
)

type FailureKind string

const (
	FailureTimeout         FailureKind = "Timeout"
	FailureServiceError    FailureKind = "ServiceError"
	FailureTooLarge        FailureKind = "TooLarge"
	FailureExtractionEmpty FailureKind = "ExtractionEmpty"
)

// Result of one quick path run. Every failure means the caller escalates.
type Result struct {
	State   State
	Failure FailureKind
	Err     error
	// Trail is every state entered, in order, starting at Idle.
	Trail []State

	Extraction       extraction.Result
	Answer           string
	UsedFallback     bool
	RelevantSections int
	Citations        int
	Confidence       float64
}

func (r Result) Succeeded() bool {
	return r.State == StateSucceeded
}

type Orchestrator struct {
	Services extraction.Services
	Answerer llm.Answerer

	// Timeout bounds the whole run; AnalysisTimeout bounds the answer call
	// and is derived from the outer deadline so it cannot outlive it.
	Timeout         time.Duration
	AnalysisTimeout time.Duration
}

var logger = logger_i.NewLogger("Quick Path")

func (o *Orchestrator) Run(ctx context.Context, doc commonModels.UploadedDocument, docType commonModels.DocType, question string) Result {
	start := time.Now()
	log := logger.WithTrace(ctx).With("file", doc.FileName, "size", doc.Size())

	res := Result{State: StateIdle, Trail: []State{StateIdle}}
	defer func() {
		metrics.CaptureQuickPathMetrics(string(res.State), time.Since(start))
		log.Info("quick path finished", "state", res.State, "failure", res.Failure, "trail", res.Trail, "elapsed", time.Since(start))
	}()

	timeout := o.Timeout
	if timeout <= 0 {
		timeout = config.QuickPathTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	res.enter(StateExtracting)
	chain, err := extraction.ChainFor(docType, o.Services, question)
	if err != nil {
		res.fail(StateFailed, FailureServiceError, err)
		return res
	}

	extracted, err := chain.Run(ctx, doc)
	res.Extraction = extracted
	if err != nil {
		state, kind := classify(ctx, err)
		res.fail(state, kind, err)
		log.Warn("quick path extraction failed", "failure", kind, "error", err)
		return res
	}

	res.enter(StateAnalyzing)
	o.analyze(ctx, &res, question)
	res.enter(StateSucceeded)
	return res
}

func (o *Orchestrator) analyze(ctx context.Context, res *Result, question string) {
	text := res.Extraction.Text
	excerpt, sections := analysis.RelevantExcerpt(text, question)
	res.RelevantSections = sections

	answer, err := o.answer(ctx, text, question)
	if err != nil {
		logger.WithTrace(ctx).Warn("analysis failed, using keyword excerpt", "error", err)
		res.Answer = excerpt
		res.UsedFallback = true
	} else {
		res.Answer = answer
		res.Citations = analysis.CountCitations(answer)
	}
	res.Confidence = analysis.Score(text, question, res.RelevantSections, res.Citations)
}

func (o *Orchestrator) answer(ctx context.Context, text, question string) (string, error) {
	if o.Answerer == nil {
		return "", errors.New("no answering model configured")
	}
	analysisTimeout := o.AnalysisTimeout
	if analysisTimeout <= 0 {
		analysisTimeout = config.AnalysisTimeout
	}
	actx, cancel := context.WithTimeout(ctx, analysisTimeout)
	defer cancel()

	ceiling := o.Answerer.InputCeiling()
	if ceiling <= 0 {
		ceiling = config.AnalysisInputCeiling
	}

	start := time.Now()
	answer, err := o.Answerer.Answer(actx, llm.Truncate(text, ceiling), question)
	metrics.CaptureExecutionMetrics("llm_answer", time.Since(start))
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(answer) == "" {
		return "", llm.ErrEmptyReply
	}
	return strings.TrimSpace(answer), nil
}

func classify(ctx context.Context, err error) (State, FailureKind) {
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		return StateTimedOut, FailureTimeout
	case errors.Is(err, extraction.ErrPayloadTooLarge):
		return StateFailed, FailureTooLarge
	case errors.Is(err, context.Canceled), extraction.OnlyServiceErrors(err):
		return StateFailed, FailureServiceError
	default:
		return StateFailed, FailureExtractionEmpty
	}
}

func (r *Result) enter(s State) {
	r.State = s
	r.Trail = append(r.Trail, s)
}

func (r *Result) fail(s State, kind FailureKind, err error) {
	r.enter(s)
	r.Failure = kind
	r.Err = err
}
