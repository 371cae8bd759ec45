package jobModel

import (
	"context"
	"time"

	"github.com/akolanti/propdocs/internal/domain/commonModels"
)

type JobStatus string
type InternalStatus string

type Priority string

const (
	JobStatusQueued   JobStatus = "QUEUED"
	JobStatusRunning  JobStatus = "RUNNING"
	JobStatusComplete JobStatus = "COMPLETE"
	JobStatusError    JobStatus = "Error"

	Submitted      InternalStatus = "Submitted"
	BlobFetch      InternalStatus = "BlobFetch"
	ExtractionCall InternalStatus = "Extraction"
	LLMCall        InternalStatus = "LLM"
	SummaryCall    InternalStatus = "Summary"
	Error          InternalStatus = "Error"
	Complete       InternalStatus = "Complete"

	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
)

// Job is the descriptor handed to the background queue.
type Job struct {
	Id              string                          `json:"id"`
	TraceId         string                          `json:"trace_id"`
	DocumentRef     string                          `json:"document_ref"`
	FileName        string                          `json:"file_name"`
	FileSize        int64                           `json:"file_size"`
	MediaType       string                          `json:"media_type,omitempty"`
	Question        string                          `json:"question"`
	BuildingId      string                          `json:"building_id,omitempty"`
	UserId          string                          `json:"user_id"`
	Priority        Priority                        `json:"priority"`
	EscalationNote  string                          `json:"escalation_note,omitempty"`
	SubmittedAt     time.Time                       `json:"submitted_at"`
	EstimatedWindow commonModels.CompletionWindow   `json:"estimated_window"`
	EndTime         time.Time                       `json:"end_time,omitempty"`
	Status          JobStatus                       `json:"status"`
	CurrentStep     InternalStatus                  `json:"current_step"`
	Result          *commonModels.ProcessingOutcome `json:"result,omitempty"`
	Error           JobError                        `json:"error,omitempty"`
}

type JobError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Retry   bool   `json:"retry"`
}

func ParsePriority(p string) Priority {
	switch Priority(p) {
	case PriorityLow, PriorityHigh:
		return Priority(p)
	default:
		return PriorityNormal
	}
}

type JobStore interface {
	GetJob(ctx context.Context, jobId string) (Job, bool)
	SaveJob(ctx context.Context, job Job) error
	DeleteJob(ctx context.Context, jobID string)
}

// Queue is the hand-off to background processing.
type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	// Dequeue blocks up to wait; ok is false when nothing arrived.
	Dequeue(ctx context.Context, wait time.Duration) (job Job, ok bool, err error)
	Len(ctx context.Context) int64
}
