package intake

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/akolanti/propdocs/internal/config"
)

type FailureCode string

const (
	FailureTooLarge        FailureCode = "TooLarge"
	FailureEmpty           FailureCode = "Empty"
	FailureUnsupportedType FailureCode = "UnsupportedType"
)

var supportedExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
	".doc":  true,
	".txt":  true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

// ValidationError is terminal: bad input is never retried.
type ValidationError struct {
	Code        FailureCode
	Message     string
	Suggestions []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

type ValidationResult struct {
	Valid bool
	Err   *ValidationError
}

// Validate checks emptiness, size and extension, in that order. An empty file
// fails as Empty whatever its extension. maxSizeBytes <= 0 means the default.
func Validate(data []byte, fileName string, maxSizeBytes int64) ValidationResult {
	if maxSizeBytes <= 0 {
		maxSizeBytes = config.MaxUploadSizeBytes
	}

	if len(data) == 0 {
		return invalid(FailureEmpty, "the uploaded file is empty",
			"Check the file opens correctly on your device, then upload it again",
			"If the file was exported from another system, export it again")
	}

	if int64(len(data)) > maxSizeBytes {
		return invalid(FailureTooLarge,
			fmt.Sprintf("the file is %d bytes, the limit is %d bytes", len(data), maxSizeBytes),
			"Compress the PDF or reduce image resolution before uploading",
			"Split the document into smaller parts (for example one section per file)",
			"Upload only the pages relevant to your question")
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	if !supportedExtensions[ext] {
		return invalid(FailureUnsupportedType,
			fmt.Sprintf("file type %q is not supported", ext),
			"Convert the document to PDF and upload it again",
			"Supported types are PDF, Word (DOCX/DOC), plain text and images (JPG, PNG, GIF)")
	}

	return ValidationResult{Valid: true}
}

func invalid(code FailureCode, msg string, suggestions ...string) ValidationResult {
	return ValidationResult{
		Valid: false,
		Err: &ValidationError{
			Code:        code,
			Message:     msg,
			Suggestions: suggestions,
		},
	}
}
