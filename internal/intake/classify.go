package intake

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/akolanti/propdocs/internal/domain/commonModels"
)

// ConversionSuggestions is returned alongside an UNKNOWN classification.
var ConversionSuggestions = []string{
	"Save or print the document as PDF and upload the PDF",
	"For scanned paperwork, upload a JPG or PNG photo of each page",
	"Copy the text into a .txt file if only the wording matters",
}

// Classify maps a filename to a handling strategy. The extension always wins;
// the content is only sniffed when there is no extension at all.
func Classify(fileName string, head []byte) commonModels.DocType {
	ext := strings.ToLower(filepath.Ext(fileName))
	if ext != "" {
		return fromExtension(ext)
	}
	if len(head) == 0 {
		return commonModels.UNKNOWN
	}
	return fromMediaType(http.DetectContentType(head))
}

func fromExtension(ext string) commonModels.DocType {
	switch ext {
	case ".pdf":
		return commonModels.PDF
	case ".docx", ".doc":
		return commonModels.DOCX
	case ".txt":
		return commonModels.TXT
	case ".jpg", ".jpeg", ".png", ".gif":
		return commonModels.IMAGE
	default:
		return commonModels.UNKNOWN
	}
}

func fromMediaType(mediaType string) commonModels.DocType {
	switch {
	case strings.HasPrefix(mediaType, "application/pdf"):
		return commonModels.PDF
	case strings.HasPrefix(mediaType, "image/jpeg"),
		strings.HasPrefix(mediaType, "image/png"),
		strings.HasPrefix(mediaType, "image/gif"):
		return commonModels.IMAGE
	case strings.HasPrefix(mediaType, "text/plain"):
		return commonModels.TXT
	default:
		return commonModels.UNKNOWN
	}
}

// MediaType is the mime hint passed to vision and OCR services.
func MediaType(fileName string, data []byte) string {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".pdf":
		return "application/pdf"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case ".doc":
		return "application/msword"
	case ".txt":
		return "text/plain"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	}
	return http.DetectContentType(data)
}
