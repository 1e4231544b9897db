package contacts

import (
	"errors"
	"fmt"
)

// ErrMalformedInput matches any *MalformedInputError via errors.Is.
var ErrMalformedInput = errors.New("malformed input")

// MalformedInputError is returned when raw CSV text cannot be ingested at
// all: it has no data row under the header, or the reader itself failed.
type MalformedInputError struct {
	Records int   // records read before giving up
	Err     error // underlying parse error, if any
}

func (e *MalformedInputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed input: %v", e.Err)
	}
	return fmt.Sprintf("malformed input: csv must contain a header and at least one data row, got %d line(s)", e.Records)
}

func (e *MalformedInputError) Is(target error) bool {
	return target == ErrMalformedInput
}

func (e *MalformedInputError) Unwrap() error {
	return e.Err
}
