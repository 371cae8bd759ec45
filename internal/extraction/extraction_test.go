package extraction

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/akolanti/propdocs/internal/domain/commonModels"
)

type mockStructured struct {
	OnExtract func(ctx context.Context, data []byte) (StructuredText, error)
	calls     int
}

func (m *mockStructured) ExtractStructured(ctx context.Context, data []byte) (StructuredText, error) {
	m.calls++
	if m.OnExtract != nil {
		return m.OnExtract(ctx, data)
	}
	return StructuredText{}, nil
}

type mockVision struct {
	OnExtract func(ctx context.Context, data []byte, mime string) (string, error)
	calls     int
}

func (m *mockVision) ExtractVision(ctx context.Context, data []byte, mime string) (string, error) {
	m.calls++
	if m.OnExtract != nil {
		return m.OnExtract(ctx, data, mime)
	}
	return "", nil
}

type mockOCR struct {
	OnRecognize func(ctx context.Context, data []byte, mime string) (string, error)
	calls       int
}

func (m *mockOCR) Recognize(ctx context.Context, data []byte, mime string) (string, error) {
	m.calls++
	if m.OnRecognize != nil {
		return m.OnRecognize(ctx, data, mime)
	}
	return "", nil
}

func textOf(n int) string {
	return strings.Repeat("a", n)
}

func structuredReturning(text string) *mockStructured {
	return &mockStructured{OnExtract: func(ctx context.Context, data []byte) (StructuredText, error) {
		return StructuredText{Text: text}, nil
	}}
}

func pdfDoc() commonModels.UploadedDocument {
	return commonModels.UploadedDocument{Data: []byte("%PDF-1.4"), FileName: "lease.pdf", MediaType: "application/pdf"}
}

func TestChain_ScannedPDFFallsThroughToOCR(t *testing.T) {
	native := structuredReturning(textOf(40))
	vision := &mockVision{OnExtract: func(ctx context.Context, data []byte, mime string) (string, error) {
		return "", ErrServiceUnavailable
	}}
	ocr := &mockOCR{OnRecognize: func(ctx context.Context, data []byte, mime string) (string, error) {
		return textOf(300), nil
	}}

	chain, err := ChainFor(commonModels.PDF, Services{PDF: native, Vision: vision, OCR: ocr}, "who is the tenant")
	if err != nil {
		t.Fatalf("ChainFor: %v", err)
	}
	res, err := chain.Run(context.Background(), pdfDoc())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Method != MethodOCR || res.Confidence != commonModels.ConfidenceLow {
		t.Errorf("expected ocr/low, got %s/%s", res.Method, res.Confidence)
	}
	if len(res.Attempts) != 3 {
		t.Fatalf("expected 3 attempts, got %d", len(res.Attempts))
	}
	if res.Attempts[0].Succeeded || res.Attempts[0].Chars != 40 {
		t.Errorf("native attempt should be recorded as short: %+v", res.Attempts[0])
	}
	if res.Attempts[1].Err == "" {
		t.Error("vision attempt should carry its error")
	}
	if !res.Attempts[2].Succeeded {
		t.Error("ocr attempt should succeed")
	}
}

func TestChain_StopsAtFirstAcceptableMethod(t *testing.T) {
	native := structuredReturning(textOf(101))
	vision := &mockVision{}
	ocr := &mockOCR{}

	chain, _ := ChainFor(commonModels.PDF, Services{PDF: native, Vision: vision, OCR: ocr}, "")
	res, err := chain.Run(context.Background(), pdfDoc())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Method != MethodPDFText || res.Confidence != commonModels.ConfidenceHigh {
		t.Errorf("got %s/%s", res.Method, res.Confidence)
	}
	if vision.calls != 0 || ocr.calls != 0 {
		t.Error("later methods must not run after a success")
	}
}

func TestChain_ThresholdIsStrict(t *testing.T) {
	tests := []struct {
		name    string
		docType commonModels.DocType
		chars   int
		want    bool
	}{
		{"pdf at 100 fails", commonModels.PDF, 100, false},
		{"pdf at 101 passes", commonModels.PDF, 101, true},
		{"docx at 50 fails", commonModels.DOCX, 50, false},
		{"docx at 51 passes", commonModels.DOCX, 51, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := structuredReturning(textOf(tt.chars))
			chain, _ := ChainFor(tt.docType, Services{PDF: svc, Doc: svc}, "")
			_, err := chain.Run(context.Background(), pdfDoc())
			if (err == nil) != tt.want {
				t.Errorf("chars=%d: got err %v", tt.chars, err)
			}
		})
	}
}

func TestChain_WhitespaceDoesNotCount(t *testing.T) {
	svc := structuredReturning("   \n\n" + textOf(60) + strings.Repeat(" ", 200))
	chain, _ := ChainFor(commonModels.PDF, Services{PDF: svc}, "")
	_, err := chain.Run(context.Background(), pdfDoc())

	var exhausted *ChainExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("expected ChainExhaustedError, got %v", err)
	}
}

func TestChain_ImageUsesLowerThreshold(t *testing.T) {
	vision := &mockVision{OnExtract: func(ctx context.Context, data []byte, mime string) (string, error) {
		return "EPC rating: C (72)", nil
	}}
	chain, _ := ChainFor(commonModels.IMAGE, Services{Vision: vision, OCR: &mockOCR{}}, "")
	doc := commonModels.UploadedDocument{Data: []byte("png"), FileName: "epc.png", MediaType: "image/png"}

	_, err := chain.Run(context.Background(), doc)
	if err == nil {
		t.Fatal("18 chars must not pass the image threshold of 20")
	}

	vision.OnExtract = func(ctx context.Context, data []byte, mime string) (string, error) {
		return "EPC rating: C (72) valid to 2031", nil
	}
	res, err := chain.Run(context.Background(), doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Confidence != commonModels.ConfidenceMedium {
		t.Errorf("short vision text should be medium, got %s", res.Confidence)
	}
}

func TestChain_PlainTextRoundTrip(t *testing.T) {
	body := "Tenant: J. Smith\nRent: £1,200 pcm\n"
	chain, err := ChainFor(commonModels.TXT, Services{}, "")
	if err != nil {
		t.Fatalf("ChainFor: %v", err)
	}
	res, err := chain.Run(context.Background(), commonModels.UploadedDocument{Data: []byte(body), FileName: "notes.txt"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Text != body || res.Confidence != commonModels.ConfidenceHigh {
		t.Errorf("got %q/%s", res.Text, res.Confidence)
	}
}

func TestChain_AllFailedListsEveryAttempt(t *testing.T) {
	native := &mockStructured{OnExtract: func(ctx context.Context, data []byte) (StructuredText, error) {
		return StructuredText{}, errors.New("corrupt xref")
	}}
	vision := &mockVision{OnExtract: func(ctx context.Context, data []byte, mime string) (string, error) {
		return "", ErrPayloadTooLarge
	}}
	ocr := &mockOCR{OnRecognize: func(ctx context.Context, data []byte, mime string) (string, error) {
		return "", ErrServiceUnavailable
	}}

	chain, _ := ChainFor(commonModels.PDF, Services{PDF: native, Vision: vision, OCR: ocr}, "")
	_, err := chain.Run(context.Background(), pdfDoc())

	var exhausted *ChainExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("expected ChainExhaustedError, got %v", err)
	}
	if len(exhausted.Attempts) != 3 || len(exhausted.Suggestions) == 0 {
		t.Errorf("got %+v", exhausted)
	}
	if !errors.Is(err, ErrPayloadTooLarge) || !errors.Is(err, ErrServiceUnavailable) {
		t.Error("sentinel errors should be reachable through the exhausted error")
	}
	if !OnlyServiceErrors(err) {
		t.Error("every attempt errored")
	}
}

func TestChain_DeadlineStopsTheLoop(t *testing.T) {
	native := &mockStructured{OnExtract: func(ctx context.Context, data []byte) (StructuredText, error) {
		<-ctx.Done()
		return StructuredText{}, ctx.Err()
	}}
	vision := &mockVision{}

	chain, _ := ChainFor(commonModels.PDF, Services{PDF: native, Vision: vision}, "")
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	res, err := chain.Run(ctx, pdfDoc())
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if vision.calls != 0 {
		t.Error("no method may start after the deadline")
	}
	if len(res.Attempts) != 1 {
		t.Errorf("expected the timed out attempt to be recorded, got %d", len(res.Attempts))
	}
}

func TestChainFor_UnknownType(t *testing.T) {
	if _, err := ChainFor(commonModels.UNKNOWN, Services{PDF: &mockStructured{}}, ""); !errors.Is(err, ErrNoMethods) {
		t.Errorf("expected ErrNoMethods, got %v", err)
	}
}

func TestVisionMethod_RejectsOversizedPayload(t *testing.T) {
	vision := &mockVision{}
	m := VisionMethod(minScanChars, vision)
	doc := commonModels.UploadedDocument{Data: make([]byte, 20<<20+1)}

	_, _, err := m.Extract(context.Background(), doc)
	if !errors.Is(err, ErrPayloadTooLarge) || vision.calls != 0 {
		t.Errorf("expected local rejection, got %v (calls %d)", err, vision.calls)
	}
}

func TestVisionConfidence(t *testing.T) {
	tests := []struct {
		text string
		want commonModels.ConfidenceLevel
	}{
		{textOf(600), commonModels.ConfidenceHigh},
		{textOf(499), commonModels.ConfidenceMedium},
		{textOf(600) + " the lower half is Illegible", commonModels.ConfidenceLow},
		{"This is a scanned copy. " + textOf(600), commonModels.ConfidenceLow},
	}
	for _, tt := range tests {
		if got := VisionConfidence(tt.text); got != tt.want {
			t.Errorf("VisionConfidence(%.30q) = %s; want %s", tt.text, got, tt.want)
		}
	}
}
