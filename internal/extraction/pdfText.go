package extraction

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dslipak/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

const pageExtractTimeout = 10 * time.Second

var errPageTimeout = errors.New("page extraction timeout")

// PDFText reads the embedded text layer of a PDF. Scans have no text layer
// and come back (nearly) empty, which is what moves the chain on to vision.
type PDFText struct{}

func (PDFText) ExtractStructured(ctx context.Context, data []byte) (StructuredText, error) {
	reader, err := openPDF(data)
	if err != nil {
		return StructuredText{}, err
	}

	numPages := reader.NumPage()
	pages := make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return StructuredText{}, err
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		content, err := protectExtract(ctx, page)
		if err != nil {
			if ctx.Err() != nil {
				return StructuredText{}, ctx.Err()
			}
			// one broken page should not lose the rest of the document
			logger.Warn("error parsing page content", "page", i, "error", err)
			content = ""
		}
		pages = append(pages, content)
	}

	text := strings.Join(pages, "\n\n")
	return StructuredText{
		Text:      text,
		Pages:     pages,
		PageCount: pageCount(data, numPages),
		WordCount: len(strings.Fields(text)),
	}, nil
}

// openPDF guards against the parser panicking on malformed input.
func openPDF(data []byte) (r *pdf.Reader, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("failed to open pdf: %v", p)
		}
	}()
	r, err = pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}
	return r, nil
}

func protectExtract(ctx context.Context, page pdf.Page) (string, error) {
	type result struct {
		content string
		err     error
	}
	resChan := make(chan result, 1)

	go func() {
		defer func() {
			if p := recover(); p != nil {
				resChan <- result{err: fmt.Errorf("page parser panic: %v", p)}
			}
		}()
		content, err := page.GetPlainText(nil)
		resChan <- result{content, err}
	}()

	select {
	case r := <-resChan:
		return r.content, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(pageExtractTimeout):
		return "", errPageTimeout
	}
}

// pageCount prefers pdfcpu's count from the page tree, which is right even
// when the text parser skipped pages.
func pageCount(data []byte, fallback int) int {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	n, err := api.PageCount(bytes.NewReader(data), conf)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
