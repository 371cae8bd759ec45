package job

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/akolanti/propdocs/internal/auth"
	"github.com/akolanti/propdocs/internal/config"
	"github.com/akolanti/propdocs/internal/data/blob"
	"github.com/akolanti/propdocs/internal/domain/commonModels"
	"github.com/akolanti/propdocs/internal/domain/jobModel"
	"github.com/akolanti/propdocs/internal/metrics"
	"github.com/akolanti/propdocs/pkg/logger_i"
	"github.com/google/uuid"
)

var logger = logger_i.NewLogger("Job Service")

// Service owns the background hand-off: blob storage for the document, the
// job store for status lookups and the queue the workers read.
type Service struct {
	JobStore          jobModel.JobStore
	Queue             jobModel.Queue
	Blobs             blob.Store
	DispatcherChannel chan bool
	RequestCount      int64
	Timeout           time.Duration

	now func() time.Time
}

type ServiceConfig struct {
	JobStore          jobModel.JobStore
	Queue             jobModel.Queue
	Blobs             blob.Store
	DispatcherChannel chan bool
	Timeout           time.Duration
}

func InitJobService(cfg ServiceConfig) *Service {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.SubmissionTimeout
	}
	return &Service{
		JobStore:          cfg.JobStore,
		Queue:             cfg.Queue,
		Blobs:             cfg.Blobs,
		DispatcherChannel: cfg.DispatcherChannel,
		Timeout:           timeout,
		now:               time.Now,
	}
}

// Submission is everything the background worker needs besides the bytes.
type Submission struct {
	Question    string
	BuildingRef string
	Priority    jobModel.Priority
	// Reason records why the quick path was skipped or abandoned.
	Reason string
}

// Submit stores the document, records the descriptor and queues it. Every
// failure is a *SubmissionError.
func (s *Service) Submit(ctx context.Context, doc commonModels.UploadedDocument, sub Submission) (jobModel.Job, error) {
	caller, ok := auth.CallerFromContext(ctx)
	if !ok {
		return jobModel.Job{}, &SubmissionError{Op: "auth", Err: ErrUnauthenticated}
	}

	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	id := uuid.NewString()
	log := logger.WithTrace(ctx).With("jobId", id, "file", doc.FileName)

	ref, err := s.Blobs.Put(ctx, id+strings.ToLower(filepath.Ext(doc.FileName)), doc.Data)
	if err != nil {
		log.Error("failed to store document", "error", err)
		return jobModel.Job{}, &SubmissionError{Op: "store document", Err: err}
	}

	priority := sub.Priority
	if priority == "" {
		priority = jobModel.PriorityNormal
	}
	newJob := jobModel.Job{
		Id:              id,
		TraceId:         logger_i.TraceID(ctx),
		DocumentRef:     ref,
		FileName:        doc.FileName,
		FileSize:        doc.Size(),
		MediaType:       doc.MediaType,
		Question:        sub.Question,
		BuildingId:      sub.BuildingRef,
		UserId:          caller.UserID,
		Priority:        priority,
		EscalationNote:  sub.Reason,
		SubmittedAt:     s.now().UTC(),
		EstimatedWindow: EstimateWindow(doc.Size(), priority),
		Status:          jobModel.JobStatusQueued,
		CurrentStep:     jobModel.Submitted,
	}

	if err := s.JobStore.SaveJob(ctx, newJob); err != nil {
		s.discardBlob(ctx, ref, log)
		return jobModel.Job{}, &SubmissionError{Op: "save job", Err: err}
	}
	if err := s.Queue.Enqueue(ctx, newJob); err != nil {
		log.Error("failed to enqueue job", "error", err)
		s.JobStore.DeleteJob(ctx, id)
		s.discardBlob(ctx, ref, log)
		return jobModel.Job{}, &SubmissionError{Op: "enqueue", Err: fmt.Errorf("queue unreachable: %w", err)}
	}

	log.Info("job queued", "size", newJob.FileSize, "priority", priority, "window", newJob.EstimatedWindow.Max)
	s.signalDispatcher()
	return newJob, nil
}

func (s *Service) GetJob(ctx context.Context, id string) (jobModel.Job, bool) {
	if id == "" {
		return jobModel.Job{}, false
	}
	return s.JobStore.GetJob(ctx, id)
}

// signalDispatcher asks for one more worker every RequestsPerNewWorkerCount
// submissions. It never blocks the request.
func (s *Service) signalDispatcher() {
	count := atomic.AddInt64(&s.RequestCount, 1)
	if s.DispatcherChannel == nil || count%config.RequestsPerNewWorkerCount != 0 {
		return
	}
	select {
	case s.DispatcherChannel <- true:
		metrics.StartDispatcherSignalCount()
	default:
	}
}

func (s *Service) discardBlob(ctx context.Context, ref string, log *logger_i.Logger) {
	if err := s.Blobs.Delete(context.WithoutCancel(ctx), ref); err != nil {
		log.Warn("failed to remove orphaned document", "ref", ref, "error", err)
	}
}
