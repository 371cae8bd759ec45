package llm

import (
	"fmt"
	"net/http"

	"github.com/akolanti/propdocs/internal/extraction"
)

// ClassifyStatus maps a vendor HTTP status onto the extraction sentinels so
// the quick path can tell a rejected payload from an outage.
func ClassifyStatus(status int, err error) error {
	switch {
	case status == http.StatusRequestEntityTooLarge:
		return fmt.Errorf("%w: %v", extraction.ErrPayloadTooLarge, err)
	case status >= 500:
		return fmt.Errorf("%w: %v", extraction.ErrServiceUnavailable, err)
	default:
		return err
	}
}
