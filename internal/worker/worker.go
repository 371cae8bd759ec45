package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/akolanti/propdocs/internal/config"
	"github.com/akolanti/propdocs/internal/docqa"
	"github.com/akolanti/propdocs/internal/job"
	"github.com/akolanti/propdocs/internal/metrics"
	"github.com/akolanti/propdocs/pkg/logger_i"
)

var (
	_jobService        *job.Service
	_docqaService      docqa.Service
	stopWorkerChannel  chan bool
	workerWaitGroup    *sync.WaitGroup
	dispatcherChannel  chan bool
	poolContext        context.Context
	currentWorkerCount int64
	logger             = logger_i.NewLogger("WorkerPool")
	minWorkerCount     = config.MinWorkerCount
	idleWorkerTimeout  = config.IdleWorkerTimeout
	pollTimeout        = config.QueuePollTimeout
	// outlives the docqa deadline so the worker still holds a live context
	// when a timed-out job reports back
	jobTimeout         = config.BackgroundJobTimeout + config.SubmissionTimeout
)

func InitServices(jobService *job.Service, docqaService docqa.Service) {
	_jobService = jobService
	_docqaService = docqaService
	dispatcherChannel = jobService.DispatcherChannel
}

// InitWorkerPool starts the dispatcher. Closing stopWorkerChan retires every
// worker once its current job is done.
func InitWorkerPool(stopWorkerChan chan bool, waitGroup *sync.WaitGroup) {
	stopWorkerChannel = stopWorkerChan
	workerWaitGroup = waitGroup

	ctx, cancel := context.WithCancel(context.Background())
	poolContext = ctx
	go func() {
		<-stopWorkerChan
		cancel()
	}()

	logger.Info("Initializing worker pool")
	go dispatcher()
}

func dispatcher() {
	createWorker()
	logger.Info("Dispatcher started")
	for range dispatcherChannel {
		if atomic.LoadInt64(&currentWorkerCount) < config.MaxWorkerCount {
			logger.Info("Creating new worker", "workerCount", atomic.LoadInt64(&currentWorkerCount))
			createWorker()
		}
	}
}

func createWorker() {
	workerWaitGroup.Add(1)
	atomic.AddInt64(&currentWorkerCount, 1)
	metrics.IncrementActiveWorkerCount()
	go worker()
	logger.Info("Created new worker")
}

func worker() {
	lastJob := time.Now()
	for {
		select {
		case <-stopWorkerChannel:
			removeWorker("Stop worker signal received")
			return
		default:
		}

		currentJob, ok, err := _jobService.Queue.Dequeue(poolContext, pollTimeout)
		switch {
		case err != nil:
			if poolContext.Err() == nil {
				logger.Error("Failed to read job queue", "err", err)
				time.Sleep(pollTimeout)
			}

		case ok:
			executeJob(currentJob)
			lastJob = time.Now()

		case time.Since(lastJob) >= idleWorkerTimeout:
			// Worker was idle for too long, retire it unless the pool is at its floor
			if atomic.LoadInt64(&currentWorkerCount) > atomic.LoadInt64(&minWorkerCount) {
				removeWorker("Idle worker timeout - Removed worker")
				return
			}
			lastJob = time.Now()
		}
	}
}
