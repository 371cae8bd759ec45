package docqa_test

import (
	"context"

	"github.com/akolanti/propdocs/internal/domain/commonModels"
	"github.com/akolanti/propdocs/internal/domain/jobModel"
	"github.com/akolanti/propdocs/internal/extraction"
	"github.com/akolanti/propdocs/internal/job"
)

// MockStructured implements extraction.StructuredExtractor
type MockStructured struct {
	OnExtract func(ctx context.Context, data []byte) (extraction.StructuredText, error)
	Calls     int
}

func (m *MockStructured) ExtractStructured(ctx context.Context, data []byte) (extraction.StructuredText, error) {
	m.Calls++
	if m.OnExtract != nil {
		return m.OnExtract(ctx, data)
	}
	return extraction.StructuredText{}, nil
}

// MockVision implements extraction.VisionExtractor
type MockVision struct {
	OnExtract func(ctx context.Context, data []byte, mime string) (string, error)
}

func (m *MockVision) ExtractVision(ctx context.Context, data []byte, mime string) (string, error) {
	if m.OnExtract != nil {
		return m.OnExtract(ctx, data, mime)
	}
	return "", nil
}

// MockOCR implements extraction.OCRService
type MockOCR struct {
	OnRecognize func(ctx context.Context, data []byte, mime string) (string, error)
}

func (m *MockOCR) Recognize(ctx context.Context, data []byte, mime string) (string, error) {
	if m.OnRecognize != nil {
		return m.OnRecognize(ctx, data, mime)
	}
	return "", nil
}

// MockLLM implements llm.Provider
type MockLLM struct {
	OnAnswer    func(ctx context.Context, text, question string) (string, error)
	OnSummarize func(ctx context.Context, text string) (string, error)
}

func (m *MockLLM) Answer(ctx context.Context, text, question string) (string, error) {
	if m.OnAnswer != nil {
		return m.OnAnswer(ctx, text, question)
	}
	return "mocked llm answer [Page 1]", nil
}

func (m *MockLLM) Summarize(ctx context.Context, text string) (string, error) {
	if m.OnSummarize != nil {
		return m.OnSummarize(ctx, text)
	}
	return "mocked summary", nil
}

func (m *MockLLM) InputCeiling() int { return 8000 }

// MockSubmitter implements docqa.Submitter
type MockSubmitter struct {
	OnSubmit  func(ctx context.Context, doc commonModels.UploadedDocument, sub job.Submission) (jobModel.Job, error)
	Submitted []job.Submission
}

func (m *MockSubmitter) Submit(ctx context.Context, doc commonModels.UploadedDocument, sub job.Submission) (jobModel.Job, error) {
	m.Submitted = append(m.Submitted, sub)
	if m.OnSubmit != nil {
		return m.OnSubmit(ctx, doc, sub)
	}
	return jobModel.Job{
		Id:              "job-1",
		Question:        sub.Question,
		EstimatedWindow: job.EstimateWindow(doc.Size(), sub.Priority),
	}, nil
}
