package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	ErrNotFound        = errors.New("resource not found")
	ErrFileNotFound    = fmt.Errorf("%w: uploaded file", ErrNotFound)
	ErrProfileNotFound = fmt.Errorf("%w: profile", ErrNotFound)
	ErrSnapshotMissing = fmt.Errorf("%w: snapshot", ErrNotFound)

	ErrUnsupportedFile = errors.New("unsupported file type")
	ErrEmptySheet      = errors.New("spreadsheet has no header row")
	ErrInvalidKind     = errors.New("invalid data kind")
	ErrInvalidSource   = errors.New("invalid source type")

	// ErrSuperseded is returned by a derivation run that lost to a newer one.
	ErrSuperseded = errors.New("aggregation superseded by a newer run")
)

// NewNotFoundError builds a not-found error carrying the resource and id
func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

// IsNotFoundError reports whether err is any not-found error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}
