package extraction

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/lu4p/cat"
)

// ErrUnsupportedWordFormat is returned for uploads cat cannot parse, such as
// legacy OLE .doc files. The chain falls through to vision on it.
var ErrUnsupportedWordFormat = errors.New("unsupported word document format")

// ErrUnreadableText is returned when a parser produced binary rather than text.
var ErrUnreadableText = errors.New("extracted text is not readable")

// wordFormats are the MIME types cat has a real parser for. Anything else goes
// to its plain-text fallback, which hands back the raw bytes.
var wordFormats = map[string]bool{
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/vnd.oasis.opendocument.text":                                 true,
	"text/rtf": true,
}

// DocText extracts DOCX, ODT and RTF documents in memory.
type DocText struct{}

func (DocText) ExtractStructured(ctx context.Context, data []byte) (StructuredText, error) {
	if err := ctx.Err(); err != nil {
		return StructuredText{}, err
	}

	mime := mimetype.Detect(data)
	if !wordFormats[mime.String()] {
		return StructuredText{}, fmt.Errorf("%w: %s", ErrUnsupportedWordFormat, mime.String())
	}

	text, err := cat.FromBytes(data)
	if err != nil {
		return StructuredText{}, fmt.Errorf("failed to extract %s: %w", mime.Extension(), err)
	}
	if !readable(text) {
		return StructuredText{}, fmt.Errorf("%w: %s", ErrUnreadableText, mime.Extension())
	}
	return StructuredText{
		Text:      text,
		PageCount: 1,
		WordCount: len(strings.Fields(text)),
	}, nil
}

func readable(text string) bool {
	if !utf8.ValidString(text) {
		return false
	}
	for _, r := range text {
		if r == '\n' || r == '\r' || r == '\t' {
			continue
		}
		if unicode.IsControl(r) {
			return false
		}
	}
	return true
}
