package adapter

import (
	"math"
	"time"

	"github.com/akolanti/propdocs/internal/api"
	"github.com/akolanti/propdocs/internal/domain/commonModels"
	"github.com/akolanti/propdocs/internal/domain/jobModel"
)

func ToAskResponse(outcome commonModels.ProcessingOutcome) api.AskResponse {
	res := api.AskResponse{
		Success:              outcome.Success,
		PathTaken:            string(outcome.PathTaken),
		Answer:               outcome.Answer,
		Confidence:           outcome.ConfidenceScore,
		ExtractionConfidence: string(outcome.ExtractionConfidence),
		ExtractionMethod:     outcome.ExtractionMethod,
		Message:              outcome.Message,
		JobId:                outcome.JobReference,
		Alternatives:         outcome.Alternatives,
		Suggestions:          outcome.Suggestions,
	}
	if outcome.EstimatedWindow != nil {
		res.EstimatedWindow = toWindow(*outcome.EstimatedWindow)
	}
	if res.Message == "" && outcome.ErrorMessage != "" {
		res.Message = outcome.ErrorMessage
	}
	return res
}

func ToAPIResponse(job jobModel.Job) api.JobResponse {

	var errorPtr *api.JobOutgoingError
	if job.Error.Message != "" || job.Error.Code != 0 {
		errorPtr = &api.JobOutgoingError{
			Code:    job.Error.Code,
			Message: job.Error.Message,
			Retry:   job.Error.Retry,
		}
	}

	result := api.Result{
		Status:      string(job.Status),
		CurrentStep: string(job.CurrentStep),
		Outcome:     ToJobOutcome(job.Result),
	}

	return api.JobResponse{
		Id:              job.Id,
		FileName:        job.FileName,
		Question:        job.Question,
		StartTime:       job.SubmittedAt,
		EndTime:         job.EndTime,
		EstimatedWindow: toWindow(job.EstimatedWindow),
		Error:           errorPtr,
		Result:          result,
	}
}

func ToJobOutcome(outcome *commonModels.ProcessingOutcome) *api.JobOutcome {
	if outcome == nil {
		return nil
	}
	return &api.JobOutcome{
		Success:              outcome.Success,
		Answer:               outcome.Answer,
		Summary:              outcome.Summary,
		Confidence:           outcome.ConfidenceScore,
		ExtractionConfidence: string(outcome.ExtractionConfidence),
		Message:              outcome.Message,
		Suggestions:          outcome.Suggestions,
		Alternatives:         outcome.Alternatives,
	}
}

func BadRequest(id string, error string, code int) api.JobResponse {
	return api.JobResponse{
		Id:        id,
		StartTime: time.Time{},
		EndTime:   time.Time{},
		Result: api.Result{
			Status: string(api.JobStatusError),
		},
		Error: &api.JobOutgoingError{
			Code:    code,
			Message: error,
			Retry:   false,
		},
	}
}

func toWindow(w commonModels.CompletionWindow) *api.EstimatedWindow {
	if w.Max <= 0 {
		return nil
	}
	return &api.EstimatedWindow{
		MinMinutes: int(math.Ceil(w.Min.Minutes())),
		MaxMinutes: int(math.Ceil(w.Max.Minutes())),
	}
}
