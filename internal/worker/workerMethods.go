package worker

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/akolanti/propdocs/internal/compose"
	"github.com/akolanti/propdocs/internal/config"
	jobmodel "github.com/akolanti/propdocs/internal/domain/jobModel"
	"github.com/akolanti/propdocs/internal/metrics"
)

func executeJob(job jobmodel.Job) {
	start := time.Now()
	defer func() {
		// Record total time at the end
		metrics.CaptureJobMetrics(string(job.Status), time.Since(start))
	}()
	// jobs already dequeued run to completion even when the pool is stopping
	ctxTrace := context.WithValue(context.Background(), config.TRACE_ID_KEY, job.TraceId)
	ctx, cancel := context.WithTimeout(ctxTrace, jobTimeout)
	defer cancel()
	log := logger.WithTrace(ctx).With("jobId", job.Id)

	// Submit deletes the record when enqueueing fails, but a push that timed
	// out client-side can still land. Such orphans are dropped here.
	if _, found := _jobService.JobStore.GetJob(ctx, job.Id); !found {
		log.Warn("Skipping job without a stored record")
		job.Status = jobmodel.JobStatusError
		return
	}
	log.Debug("Processing job")

	job.Status = jobmodel.JobStatusRunning
	saveJobState(ctx, job)

	job = runBackgroundJob(ctx, job)

	job.EndTime = time.Now().UTC()
	// the job context may have expired; the terminal state still has to land
	saveCtx, cancelSave := context.WithTimeout(context.WithoutCancel(ctx), config.SubmissionTimeout)
	defer cancelSave()
	saveJobState(saveCtx, job)
	log.Info("Job finished", "status", job.Status, "step", job.CurrentStep)
}

// runBackgroundJob turns a panic inside the document libraries into a failed
// job so the worker survives and the caller sees a terminal outcome.
func runBackgroundJob(ctx context.Context, job jobmodel.Job) (out jobmodel.Job) {
	defer func() {
		if r := recover(); r != nil {
			logger.WithTrace(ctx).Error("Background job panicked", "jobId", job.Id, "panic", fmt.Sprint(r))
			out = job
			out.Status = jobmodel.JobStatusError
			out.CurrentStep = jobmodel.Error
			out.Error = jobmodel.JobError{Code: http.StatusInternalServerError, Message: "WORKER_PANIC", Retry: true}
			outcome := compose.TerminalError("an unexpected error stopped processing",
				[]string{"Upload the document again", "Convert the document to PDF and try again"}, job.Question)
			outcome.JobReference = job.Id
			out.Result = &outcome
		}
	}()
	return _docqaService.ProcessBackgroundJob(ctx, job)
}

func removeWorker(reason string) {
	workerWaitGroup.Done()
	count := atomic.AddInt64(&currentWorkerCount, -1)
	logger.Info("Removed worker", "reason", reason, "workerCount", count)
	metrics.DecrementActiveWorkerCount()
}

func saveJobState(ctx context.Context, job jobmodel.Job) {
	if err := _jobService.JobStore.SaveJob(ctx, job); err != nil {
		logger.WithTrace(ctx).Error("Failed to save job state", "jobId", job.Id, "err", err)
	}
}
