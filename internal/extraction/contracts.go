package extraction

import (
	"context"
	"errors"
)

var (
	// ErrPayloadTooLarge means a service refused the document because of its size.
	ErrPayloadTooLarge = errors.New("payload too large for extraction service")
	// ErrServiceUnavailable covers 5xx replies and malformed responses.
	ErrServiceUnavailable = errors.New("extraction service unavailable")
)

type StructuredText struct {
	Text string
	// Pages holds per-page text when the format has pages; may be nil.
	Pages     []string
	PageCount int
	WordCount int
}

// StructuredExtractor parses a document format natively (PDF text layer, DOCX xml).
type StructuredExtractor interface {
	ExtractStructured(ctx context.Context, data []byte) (StructuredText, error)
}

// VisionExtractor asks a multimodal model to transcribe the document. The
// chain infers confidence from the output, the service does not report it.
type VisionExtractor interface {
	ExtractVision(ctx context.Context, data []byte, mimeType string) (string, error)
}

// OCRService turns page images (or a PDF) into text.
type OCRService interface {
	Recognize(ctx context.Context, data []byte, mimeType string) (string, error)
}
