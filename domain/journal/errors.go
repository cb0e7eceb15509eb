package journal

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation indicates bad input to a domain operation.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound indicates a referenced id does not exist where existence was required.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateID indicates an Add collided with an existing id.
	ErrDuplicateID = errors.New("duplicate id")
	// ErrStorageUnavailable indicates the durable backend cannot be read or written.
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrUnitOfWorkClosed indicates use of a unit of work after commit or rollback.
	ErrUnitOfWorkClosed = errors.New("unit of work closed")
)

// ValidationError describes which field of a domain operation's input was rejected.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrValidation.Error(), e.Field, e.Reason)
}

// Is makes errors.Is(err, ErrValidation) true for every ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
