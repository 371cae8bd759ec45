package commonModels

import "time"

type DocType string

var PDF DocType = "PDF"
var DOCX DocType = "DOCX"
var TXT DocType = "TXT"
var IMAGE DocType = "IMAGE"
var UNKNOWN DocType = "UNKNOWN"

type ConfidenceLevel string

const (
	ConfidenceHigh   ConfidenceLevel = "high"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceLow    ConfidenceLevel = "low"
)

type PathTaken string

const (
	PathQuick      PathTaken = "quick"
	PathBackground PathTaken = "background"
	PathError      PathTaken = "error"
)

// UploadedDocument lives for a single request.
type UploadedDocument struct {
	Data         []byte
	FileName     string
	DeclaredSize int64
	MediaType    string
}

// Size prefers the real byte count over what the client declared.
func (d UploadedDocument) Size() int64 {
	if d.Data != nil {
		return int64(len(d.Data))
	}
	return d.DeclaredSize
}

type ExtractionAttempt struct {
	Method     string          `json:"method"`
	Text       string          `json:"-"`
	Chars      int             `json:"chars"`
	Confidence ConfidenceLevel `json:"confidence,omitempty"`
	Succeeded  bool            `json:"succeeded"`
	Err        string          `json:"error,omitempty"`
	Duration   time.Duration   `json:"duration"`
}

type CompletionWindow struct {
	Min time.Duration `json:"min"`
	Max time.Duration `json:"max"`
}

type ProcessingOutcome struct {
	Success              bool                `json:"success"`
	PathTaken            PathTaken           `json:"path_taken"`
	ExtractedText        string              `json:"extracted_text,omitempty"`
	Answer               string              `json:"answer,omitempty"`
	Summary              string              `json:"summary,omitempty"`
	ConfidenceScore      *float64            `json:"confidence_score,omitempty"`
	ExtractionConfidence ConfidenceLevel     `json:"extraction_confidence,omitempty"`
	ExtractionMethod     string              `json:"extraction_method,omitempty"`
	ErrorMessage         string              `json:"error_message,omitempty"`
	Message              string              `json:"message,omitempty"`
	Suggestions          []string            `json:"suggestions,omitempty"`
	Alternatives         []string            `json:"alternatives,omitempty"`
	JobReference         string              `json:"job_reference,omitempty"`
	EstimatedWindow      *CompletionWindow   `json:"estimated_window,omitempty"`
	Attempts             []ExtractionAttempt `json:"attempts,omitempty"`
}
