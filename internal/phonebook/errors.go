package phonebook

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is matched by errors.Is for every failed id lookup.
	ErrNotFound = errors.New("phonebook: entry not found")

	// ErrIndexOutOfRange is returned when an edit targets a position the
	// store does not have.
	ErrIndexOutOfRange = errors.New("phonebook: index out of range")
)

// NotFoundError reports the id that had no matching entry.
type NotFoundError struct {
	ID int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("phonebook: no entry with id %d", e.ID)
}

// Is reports ErrNotFound so callers need not know the concrete type.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
