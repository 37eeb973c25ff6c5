package rle

import (
	"errors"
	"fmt"
)

// ErrFormatTooLarge is matched by every FormatTooLargeError.
var ErrFormatTooLarge = errors.New("pattern too large")

// FormatTooLargeError reports a document whose live-cell count went past the
// hard limit. Count is the number of cells emitted at the moment decoding
// stopped.
type FormatTooLargeError struct {
	ID    string
	Count int
	Limit int
}

// Error implements the error interface.
func (e *FormatTooLargeError) Error() string {
	return fmt.Sprintf("pattern too large (%d live cells, limit %d) in %s", e.Count, e.Limit, e.ID)
}

// Is reports whether target is ErrFormatTooLarge.
func (e *FormatTooLargeError) Is(target error) bool {
	return target == ErrFormatTooLarge
}
