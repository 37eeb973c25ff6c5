package catalog

import (
	"errors"
	"fmt"
)

// ErrDuplicateIdentifier is matched by every DuplicateIdentifierError.
var ErrDuplicateIdentifier = errors.New("duplicate pattern id")

// DuplicateIdentifierError reports a second document resolving to an ID that
// is already in the catalog. Path is the second document's path.
type DuplicateIdentifierError struct {
	ID   string
	Path string
}

// Error implements the error interface.
func (e *DuplicateIdentifierError) Error() string {
	return fmt.Sprintf("duplicate pattern id '%s' from %s", e.ID, e.Path)
}

// Is reports whether target is ErrDuplicateIdentifier.
func (e *DuplicateIdentifierError) Is(target error) bool {
	return target == ErrDuplicateIdentifier
}
