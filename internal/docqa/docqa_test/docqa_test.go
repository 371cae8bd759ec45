package docqa_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/akolanti/propdocs/internal/analysis"
	"github.com/akolanti/propdocs/internal/data/blob"
	"github.com/akolanti/propdocs/internal/docqa"
	"github.com/akolanti/propdocs/internal/domain/commonModels"
	"github.com/akolanti/propdocs/internal/domain/jobModel"
	"github.com/akolanti/propdocs/internal/extraction"
	"github.com/akolanti/propdocs/internal/job"
)

const leaseText = "PARTIES\nLandlord: Acme Estates Ltd. Tenant: Jane Smith.\n\n" +
	"RENT\nThe rent is £1,200 per calendar month payable in advance on the first day of each month.\n\n" +
	"TERM\nTwelve months from 1 March 2024."

func pdfOf(size int) commonModels.UploadedDocument {
	return commonModels.UploadedDocument{Data: make([]byte, size), FileName: "lease.pdf"}
}

func nativeText(text string) *MockStructured {
	return &MockStructured{OnExtract: func(ctx context.Context, data []byte) (extraction.StructuredText, error) {
		return extraction.StructuredText{Text: text}, nil
	}}
}

func TestProcessUpload_QuickPath(t *testing.T) {
	sub := &MockSubmitter{}
	svc := docqa.NewService(docqa.Dependencies{
		Extraction: extraction.Services{PDF: nativeText(leaseText)},
		Provider: &MockLLM{OnAnswer: func(ctx context.Context, text, question string) (string, error) {
			return "The rent is £1,200 per month [Section 2].", nil
		}},
		Submitter: sub,
	})

	out := svc.ProcessUpload(context.Background(), pdfOf(1<<20), docqa.Question{Text: "What is the rent?"})

	if !out.Success || out.PathTaken != commonModels.PathQuick {
		t.Fatalf("expected quick success, got %+v", out)
	}
	if out.ExtractedText == "" || out.ConfidenceScore == nil {
		t.Error("quick success must carry text and a score")
	}
	if out.Answer != "The rent is £1,200 per month [Section 2]." {
		t.Errorf("answer %q", out.Answer)
	}
	if len(sub.Submitted) != 0 {
		t.Error("nothing should be queued on quick success")
	}
}

func TestProcessUpload_LargeOpenQuestionGoesBackground(t *testing.T) {
	pdf := &MockStructured{}
	sub := &MockSubmitter{}
	svc := docqa.NewService(docqa.Dependencies{
		Extraction: extraction.Services{PDF: pdf},
		Provider:   &MockLLM{},
		Submitter:  sub,
	})

	out := svc.ProcessUpload(context.Background(), pdfOf(8<<20), docqa.Question{Text: "Summarise this document"})

	if !out.Success || out.PathTaken != commonModels.PathBackground {
		t.Fatalf("expected background, got %+v", out)
	}
	if out.JobReference == "" || out.ExtractedText != "" {
		t.Errorf("background outcome needs a job id and no text: %+v", out)
	}
	if n := len(out.Alternatives); n < 1 || n > 4 {
		t.Errorf("got %d alternatives", n)
	}
	if pdf.Calls != 0 {
		t.Error("the quick path must not be attempted for an 8 MiB document")
	}
	if len(sub.Submitted) != 1 || sub.Submitted[0].Question != "Summarise this document" {
		t.Errorf("submission %+v", sub.Submitted)
	}
}

func TestProcessUpload_ScannedPDFLowConfidence(t *testing.T) {
	svc := docqa.NewService(docqa.Dependencies{
		Extraction: extraction.Services{
			PDF: nativeText(strings.Repeat("x", 40)),
			Vision: &MockVision{OnExtract: func(ctx context.Context, data []byte, mime string) (string, error) {
				return "", errors.New("vision service 503")
			}},
			OCR: &MockOCR{OnRecognize: func(ctx context.Context, data []byte, mime string) (string, error) {
				return strings.Repeat("rent due monthly ", 18)[:300], nil
			}},
		},
		Provider:  &MockLLM{},
		Submitter: &MockSubmitter{},
	})

	out := svc.ProcessUpload(context.Background(), pdfOf(1<<20), docqa.Question{Text: "What is the rent?"})

	if out.PathTaken != commonModels.PathQuick || out.ExtractionConfidence != commonModels.ConfidenceLow {
		t.Errorf("expected quick with low confidence, got %s/%s", out.PathTaken, out.ExtractionConfidence)
	}
	if len(out.Attempts) != 3 {
		t.Errorf("expected three attempts, got %d", len(out.Attempts))
	}
}

func TestProcessUpload_EmptyFile(t *testing.T) {
	sub := &MockSubmitter{}
	svc := docqa.NewService(docqa.Dependencies{Submitter: sub})

	for _, name := range []string{"lease.pdf", "notes.txt", "photo.exe"} {
		out := svc.ProcessUpload(context.Background(), commonModels.UploadedDocument{FileName: name}, docqa.Question{Text: "rent?"})
		if out.Success || out.PathTaken != commonModels.PathError {
			t.Fatalf("%s: expected error, got %+v", name, out)
		}
		if out.ErrorMessage != "the uploaded file is empty" || len(out.Suggestions) == 0 {
			t.Errorf("%s: got %q", name, out.ErrorMessage)
		}
	}
	if len(sub.Submitted) != 0 {
		t.Error("invalid uploads must not be queued")
	}
}

func TestProcessUpload_AnalysisTimeoutUsesExcerpt(t *testing.T) {
	svc := docqa.NewService(docqa.Dependencies{
		Extraction: extraction.Services{PDF: nativeText(leaseText)},
		Provider: &MockLLM{OnAnswer: func(ctx context.Context, text, question string) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		}},
		Submitter:        &MockSubmitter{},
		QuickPathTimeout: time.Second,
		AnalysisTimeout:  20 * time.Millisecond,
	})

	out := svc.ProcessUpload(context.Background(), pdfOf(1<<20), docqa.Question{Text: "What is the rent?"})

	want, _ := analysis.RelevantExcerpt(leaseText, "What is the rent?")
	if !out.Success || out.Answer != want {
		t.Errorf("expected keyword excerpt, got %+v", out)
	}
}

func TestProcessUpload_QuickFailureEscalates(t *testing.T) {
	sub := &MockSubmitter{}
	svc := docqa.NewService(docqa.Dependencies{
		Extraction: extraction.Services{PDF: nativeText("too short")},
		Provider:   &MockLLM{},
		Submitter:  sub,
	})

	out := svc.ProcessUpload(context.Background(), pdfOf(1<<20), docqa.Question{Text: "What is the rent?", Priority: jobModel.PriorityHigh})

	if out.PathTaken != commonModels.PathBackground {
		t.Fatalf("expected escalation, got %+v", out)
	}
	if len(sub.Submitted) != 1 || !strings.Contains(sub.Submitted[0].Reason, "ExtractionEmpty") {
		t.Errorf("submission %+v", sub.Submitted)
	}
	if sub.Submitted[0].Priority != jobModel.PriorityHigh {
		t.Error("priority should be passed through")
	}
}

func TestProcessUpload_SubmissionErrorIsTerminal(t *testing.T) {
	sub := &MockSubmitter{OnSubmit: func(ctx context.Context, doc commonModels.UploadedDocument, s job.Submission) (jobModel.Job, error) {
		return jobModel.Job{}, &job.SubmissionError{Op: "enqueue", Err: errors.New("redis down")}
	}}
	svc := docqa.NewService(docqa.Dependencies{Submitter: sub})

	out := svc.ProcessUpload(context.Background(), pdfOf(8<<20), docqa.Question{Text: "Summarise this document"})

	if out.Success || out.PathTaken != commonModels.PathError || len(out.Alternatives) == 0 {
		t.Errorf("expected terminal error with alternatives, got %+v", out)
	}
}

func TestProcessUpload_MissingQuestion(t *testing.T) {
	svc := docqa.NewService(docqa.Dependencies{})
	out := svc.ProcessUpload(context.Background(), pdfOf(10), docqa.Question{Text: "  "})
	if out.Success || out.PathTaken != commonModels.PathError {
		t.Errorf("got %+v", out)
	}
}

func TestProcessUpload_UnsupportedType(t *testing.T) {
	svc := docqa.NewService(docqa.Dependencies{})
	out := svc.ProcessUpload(context.Background(), commonModels.UploadedDocument{Data: []byte("x"), FileName: "sheet.xlsx"}, docqa.Question{Text: "rent?"})
	if out.PathTaken != commonModels.PathError || len(out.Suggestions) == 0 {
		t.Errorf("got %+v", out)
	}
	if !strings.Contains(out.ErrorMessage, "not supported") {
		t.Errorf("message %q", out.ErrorMessage)
	}
}

func queuedJob(t *testing.T, blobs blob.Store, data []byte) jobModel.Job {
	t.Helper()
	ref, err := blobs.Put(context.Background(), "job-9.pdf", data)
	if err != nil {
		t.Fatal(err)
	}
	return jobModel.Job{Id: "job-9", DocumentRef: ref, FileName: "survey.pdf", FileSize: int64(len(data)), Question: "Summarise this document", Status: jobModel.JobStatusQueued}
}

func TestProcessBackgroundJob_Success(t *testing.T) {
	blobs, err := blob.NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	svc := docqa.NewService(docqa.Dependencies{
		Extraction: extraction.Services{PDF: nativeText(leaseText)},
		Provider:   &MockLLM{},
		Blobs:      blobs,
	})
	j := queuedJob(t, blobs, make([]byte, 8<<20))

	done := svc.ProcessBackgroundJob(context.Background(), j)

	if done.Status != jobModel.JobStatusComplete || done.CurrentStep != jobModel.Complete {
		t.Fatalf("got %s/%s", done.Status, done.CurrentStep)
	}
	if done.Result == nil || done.Result.Summary != "mocked summary" || done.Result.Answer != "mocked llm answer [Page 1]" {
		t.Fatalf("result %+v", done.Result)
	}
	if done.Result.PathTaken != commonModels.PathBackground || done.Result.JobReference != "job-9" {
		t.Errorf("result %+v", done.Result)
	}
	if _, err := blobs.Get(context.Background(), j.DocumentRef); !errors.Is(err, blob.ErrNotFound) {
		t.Error("processed document should be removed")
	}
}

func TestProcessBackgroundJob_Failures(t *testing.T) {
	tests := []struct {
		name      string
		pdf       *MockStructured
		storeBlob bool
		wantRetry bool
		wantCode  string
	}{
		{"missing document", nativeText(leaseText), false, false, "BLOB_FETCH_FAILURE"},
		{"nothing extracted", nativeText("short"), true, false, "EXTRACTION_FAILURE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blobs, err := blob.NewLocalStore(t.TempDir())
			if err != nil {
				t.Fatal(err)
			}
			svc := docqa.NewService(docqa.Dependencies{
				Extraction: extraction.Services{PDF: tt.pdf},
				Provider:   &MockLLM{},
				Blobs:      blobs,
			})
			j := jobModel.Job{Id: "job-9", DocumentRef: "local://job-9.pdf", FileName: "survey.pdf", Question: "rent"}
			if tt.storeBlob {
				j = queuedJob(t, blobs, []byte("%PDF-1.4"))
			}

			done := svc.ProcessBackgroundJob(context.Background(), j)

			if done.Status != jobModel.JobStatusError || done.Error.Message != tt.wantCode || done.Error.Retry != tt.wantRetry {
				t.Errorf("got status=%s error=%+v", done.Status, done.Error)
			}
			if done.Result == nil || done.Result.Success || len(done.Result.Suggestions) == 0 {
				t.Errorf("failed jobs need a terminal outcome, got %+v", done.Result)
			}
		})
	}
}
