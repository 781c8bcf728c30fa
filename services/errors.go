package services

import (
	"errors"
	"fmt"

	"movimenta_server/store"
)

// Error kinds surfaced to callers. Controllers map them to status codes with errors.Is.
var (
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrInvalid       = errors.New("invalid request")
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

// notFound converts store.ErrNotFound into ErrNotFound with context and passes
// other errors through unchanged.
func notFound(err error, format string, args ...any) error {
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
	}
	return err
}
