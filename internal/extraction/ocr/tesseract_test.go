package ocr

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/akolanti/propdocs/internal/extraction"
)

type mockRunner struct {
	OnRun func(ctx context.Context, name string, args ...string) ([]byte, []byte, error)
	calls []string
}

func (m *mockRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	m.calls = append(m.calls, name)
	return m.OnRun(ctx, name, args...)
}

func TestRecognize_Image(t *testing.T) {
	runner := &mockRunner{OnRun: func(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
		if name != "tesseract" {
			t.Fatalf("unexpected binary %s", name)
		}
		if !strings.HasSuffix(args[0], ".jpg") {
			t.Errorf("expected jpg input, got %s", args[0])
		}
		return []byte("  GAS SAFETY RECORD ||| \n"), nil, nil
	}}
	svc := newService(Config{}, runner)

	text, err := svc.Recognize(context.Background(), []byte("img"), "image/jpeg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "GAS SAFETY RECORD" {
		t.Errorf("got %q", text)
	}
}

func TestRecognize_PDFRasterisesThenReadsEachPage(t *testing.T) {
	runner := &mockRunner{}
	runner.OnRun = func(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
		switch name {
		case "pdftoppm":
			prefix := args[len(args)-1]
			for _, n := range []string{"1", "2", "3"} {
				if err := os.WriteFile(prefix+"-"+n+".png", []byte("png"), 0o600); err != nil {
					t.Fatal(err)
				}
			}
			return nil, nil, nil
		case "tesseract":
			return []byte("page text"), nil, nil
		}
		return nil, nil, errors.New("unexpected")
	}
	svc := newService(Config{MaxPages: 2}, runner)

	text, err := svc.Recognize(context.Background(), []byte("%PDF"), "application/pdf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "page text\n\npage text" {
		t.Errorf("got %q", text)
	}
	// one raster call, then MaxPages tesseract calls
	if len(runner.calls) != 3 {
		t.Errorf("expected 3 exec calls, got %v", runner.calls)
	}
}

func TestRecognize_BinaryFailureIsServiceError(t *testing.T) {
	runner := &mockRunner{OnRun: func(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
		return nil, []byte("not installed"), errors.New("exit status 127")
	}}
	svc := newService(Config{}, runner)

	_, err := svc.Recognize(context.Background(), []byte("img"), "image/png")
	if !errors.Is(err, extraction.ErrServiceUnavailable) {
		t.Errorf("expected ErrServiceUnavailable, got %v", err)
	}
}
