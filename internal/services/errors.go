package services

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is returned when a required field is missing or malformed.
	ErrValidation = errors.New("invalid request")

	// ErrNotFound is returned when a board, list, card or user id does not resolve.
	ErrNotFound = errors.New("not found")

	// ErrAccessDenied is returned when the caller is neither owner nor member of the board.
	ErrAccessDenied = errors.New("access denied")

	// ErrConflict is returned when the caller's view of an ordering is stale or
	// another write bumped the parent version first.
	ErrConflict = errors.New("conflict")

	// ErrStore is returned when the underlying persistence layer fails.
	ErrStore = errors.New("store failure")
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func notFound(entity string) error {
	return fmt.Errorf("%s %w", entity, ErrNotFound)
}

// storeErr wraps a persistence error unless it already carries one of the
// package sentinels.
func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	for _, known := range []error{ErrValidation, ErrNotFound, ErrAccessDenied, ErrConflict, ErrStore} {
		if errors.Is(err, known) {
			return err
		}
	}
	return fmt.Errorf("%w: %s: %v", ErrStore, op, err)
}

var errConcurrentOrdering = fmt.Errorf("%w: ordering changed concurrently, reload and retry", ErrConflict)
