package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var HttpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "http_requests_total",
	Help: "Total number of requests labelled by path and status",
}, []string{"path", "status"})

var countJobsInQueue = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "count_jobs_in_queue",
	Help: "Number of jobs in queue",
})

var dispatcherSignalCount = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "dispatcher_signal_count",
	Help: "How often the dispatcher has signaled to start worker",
})

var activeWorkerCount = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "active_worker_count",
	Help: "Number of active workers",
})

type HttpStatusRecorder struct {
	http.ResponseWriter
	Status int
}

func (r *HttpStatusRecorder) WriteHeader(code int) {
	r.Status = code
	r.ResponseWriter.WriteHeader(code)
}

func IncrementJobsInQueue() {
	countJobsInQueue.Inc()
}

func DecrementJobsInQueue() {
	countJobsInQueue.Dec()
}

func StartDispatcherSignalCount() {
	dispatcherSignalCount.Inc()
}

func IncrementActiveWorkerCount() {
	activeWorkerCount.Inc()
}
func DecrementActiveWorkerCount() {
	activeWorkerCount.Dec()
}

var requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "process_request_duration_seconds",
	Help:    "Total time spent in ProcessRequest.",
	Buckets: []float64{.1, .5, 1, 2, 5, 10, 30},
}, []string{"status"})

var dependencyLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "dependency_latency_seconds",
	Help:    "Latency of external service calls.",
	Buckets: []float64{.05, .1, .25, .5, 1, 2, 5, 10},
}, []string{"service"})

func CaptureExecutionMetrics(label string, timeElapsed time.Duration) {
	//dependencyLatency.WithLabelValues(label).Observe(time.Since(timeElapsed).Seconds())
	dependencyLatency.WithLabelValues(label).Observe(timeElapsed.Seconds())
}

func CaptureJobMetrics(label string, timeElapsed time.Duration) {
	requestDuration.WithLabelValues(label).Observe(timeElapsed.Seconds())
}

var extractionAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "extraction_attempts_total",
	Help: "Extraction attempts labelled by method and whether they produced usable text",
}, []string{"method", "outcome"})

var pathTaken = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "document_path_taken_total",
	Help: "Uploads by the path that answered them (quick, background, error)",
}, []string{"path"})

var quickPathDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "quick_path_duration_seconds",
	Help:    "Time spent in the quick path labelled by final state.",
	Buckets: []float64{.5, 1, 2, 5, 10, 30, 60, 90},
}, []string{"state"})

func CountExtractionAttempt(method string, succeeded bool) {
	outcome := "failed"
	if succeeded {
		outcome = "succeeded"
	}
	extractionAttempts.WithLabelValues(method, outcome).Inc()
}

func CountPathTaken(path string) {
	pathTaken.WithLabelValues(path).Inc()
}

func CaptureQuickPathMetrics(state string, timeElapsed time.Duration) {
	quickPathDuration.WithLabelValues(state).Observe(timeElapsed.Seconds())
}
