package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/akolanti/propdocs/internal/api"
	"github.com/akolanti/propdocs/internal/data/store"
	"github.com/akolanti/propdocs/internal/docqa"
	"github.com/akolanti/propdocs/internal/domain/commonModels"
	"github.com/akolanti/propdocs/internal/domain/jobModel"
	"github.com/akolanti/propdocs/internal/job"
	"github.com/go-chi/chi/v5"
)

type mockDocqa struct {
	OnUpload func(ctx context.Context, doc commonModels.UploadedDocument, q docqa.Question) commonModels.ProcessingOutcome
	lastDoc  commonModels.UploadedDocument
	lastQ    docqa.Question
}

func (m *mockDocqa) ProcessUpload(ctx context.Context, doc commonModels.UploadedDocument, q docqa.Question) commonModels.ProcessingOutcome {
	m.lastDoc, m.lastQ = doc, q
	return m.OnUpload(ctx, doc, q)
}

func (m *mockDocqa) ProcessBackgroundJob(ctx context.Context, j jobModel.Job) jobModel.Job {
	return j
}

func setup(t *testing.T, m *mockDocqa, limit int64) *store.InMemoryJobStore {
	t.Helper()
	jobs := store.InitInMemoryJobStore()
	handlerInstance = &JobHandler{
		service:        job.InitJobService(job.ServiceConfig{JobStore: jobs}),
		docqa:          m,
		maxUploadBytes: limit,
	}
	return jobs
}

func multipartBody(t *testing.T, fields map[string]string, fileName string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for k, v := range fields {
		mw.WriteField(k, v)
	}
	if fileName != "" {
		fw, err := mw.CreateFormFile("document", fileName)
		if err != nil {
			t.Fatal(err)
		}
		fw.Write(data)
	}
	mw.Close()
	return body, mw.FormDataContentType()
}

func TestAskHandler_Paths(t *testing.T) {
	score := 0.8
	tests := []struct {
		name     string
		outcome  commonModels.ProcessingOutcome
		wantCode int
	}{
		{"quick", commonModels.ProcessingOutcome{Success: true, PathTaken: commonModels.PathQuick, Answer: "£1,200", ConfidenceScore: &score}, http.StatusOK},
		{"background", commonModels.ProcessingOutcome{Success: true, PathTaken: commonModels.PathBackground, JobReference: "job-1", Alternatives: []string{"a"}}, http.StatusAccepted},
		{"error", commonModels.ProcessingOutcome{PathTaken: commonModels.PathError, ErrorMessage: "the uploaded file is empty"}, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &mockDocqa{OnUpload: func(ctx context.Context, doc commonModels.UploadedDocument, q docqa.Question) commonModels.ProcessingOutcome {
				return tt.outcome
			}}
			setup(t, m, 1<<20)

			body, ct := multipartBody(t, map[string]string{"question": "What is the rent?", "building_id": "bld-3", "priority": "high"}, "lease.pdf", []byte("%PDF-1.4 text"))
			req := httptest.NewRequest(http.MethodPost, "/documents/ask", body)
			req.Header.Set("Content-Type", ct)
			rec := httptest.NewRecorder()

			AskHandler(rec, req)

			if rec.Code != tt.wantCode {
				t.Fatalf("status %d; want %d", rec.Code, tt.wantCode)
			}
			var res api.AskResponse
			if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
				t.Fatal(err)
			}
			if res.PathTaken != string(tt.outcome.PathTaken) || res.Success != tt.outcome.Success {
				t.Errorf("response %+v", res)
			}
			if m.lastDoc.FileName != "lease.pdf" || string(m.lastDoc.Data) != "%PDF-1.4 text" {
				t.Errorf("document not passed through: %+v", m.lastDoc.FileName)
			}
			if m.lastQ.Text != "What is the rent?" || m.lastQ.BuildingRef != "bld-3" || m.lastQ.Priority != jobModel.PriorityHigh {
				t.Errorf("question not passed through: %+v", m.lastQ)
			}
		})
	}
}

func TestAskHandler_RequestErrors(t *testing.T) {
	m := &mockDocqa{OnUpload: func(ctx context.Context, doc commonModels.UploadedDocument, q docqa.Question) commonModels.ProcessingOutcome {
		t.Error("pipeline should not run")
		return commonModels.ProcessingOutcome{}
	}}
	setup(t, m, 1024)

	t.Run("missing document", func(t *testing.T) {
		body, ct := multipartBody(t, map[string]string{"question": "rent?"}, "", nil)
		req := httptest.NewRequest(http.MethodPost, "/documents/ask", body)
		req.Header.Set("Content-Type", ct)
		rec := httptest.NewRecorder()
		AskHandler(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status %d", rec.Code)
		}
	})

	t.Run("not multipart", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/documents/ask", bytes.NewBufferString(`{"question":"rent?"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		AskHandler(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status %d", rec.Code)
		}
	})

	t.Run("over the limit", func(t *testing.T) {
		body, ct := multipartBody(t, map[string]string{"question": "rent?"}, "big.pdf", make([]byte, 3<<20))
		req := httptest.NewRequest(http.MethodPost, "/documents/ask", body)
		req.Header.Set("Content-Type", ct)
		rec := httptest.NewRecorder()
		AskHandler(rec, req)
		if rec.Code != http.StatusRequestEntityTooLarge {
			t.Fatalf("status %d", rec.Code)
		}
		var res api.AskResponse
		json.NewDecoder(rec.Body).Decode(&res)
		if res.Success || res.PathTaken != "error" || len(res.Suggestions) == 0 {
			t.Errorf("response %+v", res)
		}
	})
}

func TestGetStatusHandler(t *testing.T) {
	jobs := setup(t, &mockDocqa{}, 0)
	const jobID = "0f8fad5b-d9cb-469f-a165-70867728950e"
	jobs.SaveJob(context.Background(), jobModel.Job{Id: jobID, Status: jobModel.JobStatusComplete,
		Result: &commonModels.ProcessingOutcome{Success: true, Answer: "done", Summary: "A lease."}})

	r := chi.NewRouter()
	r.Get("/jobs/{id}", GetStatusHandler)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/jobs/"+jobID, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	var res api.JobResponse
	json.NewDecoder(rec.Body).Decode(&res)
	if res.Result.Status != "COMPLETE" || res.Result.Outcome == nil || res.Result.Outcome.Summary != "A lease." {
		t.Errorf("response %+v", res)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/jobs/7c9e6679-7425-40de-944b-e07fc1f90ae7", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing job status %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/jobs/not-a-job", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("malformed id status %d", rec.Code)
	}
}

func TestGetHandler_ReportsQueueDepth(t *testing.T) {
	queue := store.InitInMemoryQueue(10)
	queue.Enqueue(context.Background(), jobModel.Job{Id: "a"})
	queue.Enqueue(context.Background(), jobModel.Job{Id: "b"})
	handlerInstance = &JobHandler{service: job.InitJobService(job.ServiceConfig{Queue: queue})}

	rec := httptest.NewRecorder()
	GetHandler(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	var res api.HealthResponse
	json.NewDecoder(rec.Body).Decode(&res)
	if rec.Code != http.StatusOK || res.Status != "ok" || res.QueueDepth != 2 {
		t.Errorf("got %d %+v", rec.Code, res)
	}
}
