package job

import (
	"errors"
	"fmt"
)

var ErrUnauthenticated = errors.New("background processing requires a signed-in caller")

// SubmissionError is terminal for the request: the document was neither
// answered nor queued.
type SubmissionError struct {
	Op  string
	Err error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("job submission failed at %s: %v", e.Op, e.Err)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}
