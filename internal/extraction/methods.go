package extraction

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/akolanti/propdocs/internal/config"
	"github.com/akolanti/propdocs/internal/domain/commonModels"
)

const (
	MethodPDFText   = "pdf_text"
	MethodPageRange = "pdf_page_range"
	MethodDocText   = "doc_text"
	MethodVision    = "vision"
	MethodOCR       = "ocr"
	MethodPlainText = "plain_text"
)

// minimum trimmed lengths an attempt must exceed
const (
	minPDFChars    = 100
	minScanChars   = 50
	minDocChars    = 50
	minImageChars  = 20
	minPlainChars  = 0
	visionLongText = 500
)

var ErrNoMethods = errors.New("no extraction method available for document type")

// Services are the extractors a chain can be built from. A nil service is
// skipped, so a deployment without a vision key still gets native + OCR.
type Services struct {
	PDF    StructuredExtractor
	Doc    StructuredExtractor
	Vision VisionExtractor
	OCR    OCRService
}

// ChainFor builds the ordered fallback chain for a document type. The question
// is only used to narrow PDF native text to a targeted page.
func ChainFor(docType commonModels.DocType, svc Services, question string) (*Chain, error) {
	var methods []Method

	switch docType {
	case commonModels.PDF:
		if svc.PDF != nil {
			native := StructuredMethod(MethodPDFText, minPDFChars, svc.PDF)
			if target, ok := ParsePageTarget(question); ok {
				native = &PageRangeMethod{Inner: svc.PDF, Target: target}
			}
			methods = append(methods, native)
		}
		if svc.Vision != nil {
			methods = append(methods, VisionMethod(minScanChars, svc.Vision))
		}
		if svc.OCR != nil {
			methods = append(methods, OCRMethod(minScanChars, svc.OCR))
		}
	case commonModels.DOCX:
		if svc.Doc != nil {
			methods = append(methods, StructuredMethod(MethodDocText, minDocChars, svc.Doc))
		}
		if svc.Vision != nil {
			methods = append(methods, VisionMethod(minDocChars, svc.Vision))
		}
	case commonModels.TXT:
		methods = append(methods, PlainTextMethod{})
	case commonModels.IMAGE:
		if svc.Vision != nil {
			methods = append(methods, VisionMethod(minImageChars, svc.Vision))
		}
		if svc.OCR != nil {
			methods = append(methods, OCRMethod(minImageChars, svc.OCR))
		}
	}

	if len(methods) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoMethods, docType)
	}
	return NewChain(docType, methods...), nil
}

type structuredMethod struct {
	name      string
	min       int
	extractor StructuredExtractor
}

// StructuredMethod wraps a native parser; its output is always high confidence.
func StructuredMethod(name string, minChars int, extractor StructuredExtractor) Method {
	return structuredMethod{name: name, min: minChars, extractor: extractor}
}

func (m structuredMethod) Name() string  { return m.name }
func (m structuredMethod) MinChars() int { return m.min }

func (m structuredMethod) Extract(ctx context.Context, doc commonModels.UploadedDocument) (string, commonModels.ConfidenceLevel, error) {
	st, err := m.extractor.ExtractStructured(ctx, doc.Data)
	if err != nil {
		return "", commonModels.ConfidenceLow, err
	}
	return st.Text, commonModels.ConfidenceHigh, nil
}

type visionMethod struct {
	min    int
	vision VisionExtractor
}

func VisionMethod(minChars int, vision VisionExtractor) Method {
	return visionMethod{min: minChars, vision: vision}
}

func (m visionMethod) Name() string  { return MethodVision }
func (m visionMethod) MinChars() int { return m.min }

func (m visionMethod) Extract(ctx context.Context, doc commonModels.UploadedDocument) (string, commonModels.ConfidenceLevel, error) {
	if len(doc.Data) > config.VisionMaxInlineBytes {
		return "", commonModels.ConfidenceLow, ErrPayloadTooLarge
	}
	text, err := m.vision.ExtractVision(ctx, doc.Data, doc.MediaType)
	if err != nil {
		return "", commonModels.ConfidenceLow, err
	}
	return text, VisionConfidence(text), nil
}

// VisionConfidence guesses how trustworthy a model transcription is. The
// model is asked to say when parts are unreadable, so those words are the
// signal; this will also fire on documents that legitimately mention them.
func VisionConfidence(text string) commonModels.ConfidenceLevel {
	lower := strings.ToLower(text)
	for _, marker := range []string{"scanned", "illegible", "unreadable"} {
		if strings.Contains(lower, marker) {
			return commonModels.ConfidenceLow
		}
	}
	if utf8.RuneCountInString(strings.TrimSpace(text)) < visionLongText {
		return commonModels.ConfidenceMedium
	}
	return commonModels.ConfidenceHigh
}

type ocrMethod struct {
	min int
	ocr OCRService
}

func OCRMethod(minChars int, ocr OCRService) Method {
	return ocrMethod{min: minChars, ocr: ocr}
}

func (m ocrMethod) Name() string  { return MethodOCR }
func (m ocrMethod) MinChars() int { return m.min }

func (m ocrMethod) Extract(ctx context.Context, doc commonModels.UploadedDocument) (string, commonModels.ConfidenceLevel, error) {
	text, err := m.ocr.Recognize(ctx, doc.Data, doc.MediaType)
	return text, commonModels.ConfidenceLow, err
}

// PlainTextMethod returns a .txt upload verbatim.
type PlainTextMethod struct{}

func (PlainTextMethod) Name() string  { return MethodPlainText }
func (PlainTextMethod) MinChars() int { return minPlainChars }

func (PlainTextMethod) Extract(_ context.Context, doc commonModels.UploadedDocument) (string, commonModels.ConfidenceLevel, error) {
	if !utf8.Valid(doc.Data) {
		return strings.ToValidUTF8(string(doc.Data), "�"), commonModels.ConfidenceMedium, nil
	}
	return string(doc.Data), commonModels.ConfidenceHigh, nil
}
