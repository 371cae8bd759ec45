package api

import "time"

type JobExternalStatus string

const (
	JobStatusError JobExternalStatus = "Error"
)

// AskResponse is the reply to POST /documents/ask. Which fields are set
// depends on pathTaken: quick carries answer and confidence, background
// carries jobId and alternatives, error carries message and suggestions.
type AskResponse struct {
	Success              bool             `json:"success" example:"true"`
	PathTaken            string           `json:"pathTaken" example:"quick"`
	Answer               string           `json:"answer,omitempty" example:"The rent is £1,200 per calendar month [Section 2]."`
	Confidence           *float64         `json:"confidence,omitempty" example:"0.8"`
	ExtractionConfidence string           `json:"extractionConfidence,omitempty" example:"high"`
	ExtractionMethod     string           `json:"extractionMethod,omitempty" example:"pdf_text"`
	Message              string           `json:"message,omitempty"`
	JobId                string           `json:"jobId,omitempty" example:"0f8fad5b-d9cb-469f-a165-70867728950e"`
	EstimatedWindow      *EstimatedWindow `json:"estimatedWindow,omitempty"`
	Alternatives         []string         `json:"alternatives,omitempty"`
	Suggestions          []string         `json:"suggestions,omitempty"`
}

type EstimatedWindow struct {
	MinMinutes int `json:"minMinutes" example:"6"`
	MaxMinutes int `json:"maxMinutes" example:"12"`
}

type JobResponse struct {
	Id              string            `json:"id" example:"0f8fad5b-d9cb-469f-a165-70867728950e"`
	FileName        string            `json:"file_name,omitempty" example:"survey.pdf"`
	Question        string            `json:"question,omitempty" example:"Summarise this document"`
	Result          Result            `json:"result"`
	Error           *JobOutgoingError `json:"error,omitempty"`
	EstimatedWindow *EstimatedWindow  `json:"estimated_window,omitempty"`
	StartTime       time.Time         `json:"start_time"`
	EndTime         time.Time         `json:"end_time,omitempty"`
}

type JobOutgoingError struct {
	Code    int    `json:"code" example:"400"`
	Message string `json:"message" example:"Job not found"`
	Retry   bool   `json:"can_retry" example:"false"`
}

type Result struct {
	Status      string      `json:"status" example:"COMPLETE"`
	CurrentStep string      `json:"current_step,omitempty" example:"Summary"`
	Outcome     *JobOutcome `json:"outcome,omitempty"`
}

// JobOutcome is the background answer once the job has finished.
type JobOutcome struct {
	Success              bool     `json:"success"`
	Answer               string   `json:"answer,omitempty"`
	Summary              string   `json:"summary,omitempty"`
	Confidence           *float64 `json:"confidence,omitempty"`
	ExtractionConfidence string   `json:"extractionConfidence,omitempty"`
	Message              string   `json:"message,omitempty"`
	Suggestions          []string `json:"suggestions,omitempty"`
	Alternatives         []string `json:"alternatives,omitempty"`
}

type HealthResponse struct {
	Status     string `json:"status" example:"ok"`
	QueueDepth int64  `json:"queueDepth" example:"3"`
}
