package board

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when the requested thread does not exist. Posting
// a reply against a missing parent is rejected with it rather than recording
// an orphan.
var ErrNotFound = errors.New("thread not found")

// ValidationError rejects a request with empty or oversized user text. It is
// a client error, never logged as a system fault.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
