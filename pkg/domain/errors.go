package domain

import (
	"errors"
	"fmt"
)

// The four error conditions callers branch on. NotFound, Duplicate, and
// Validation are typed and named; anything else bubbling out of a repository
// is an upstream store failure wrapped with the failing operation and must be
// presented generically by the transport layer.

// NotFoundError indicates an entity id has no backing document.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Entity)
	}
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// DuplicateError indicates a natural-key collision: a second attendance
// record for the same school and day, or a username already taken.
type DuplicateError struct {
	Entity  string
	Message string
}

func (e DuplicateError) Error() string { return e.Message }

// ValidationError indicates missing or out-of-range input rejected before
// any write was attempted.
type ValidationError struct {
	Message string
}

func (e ValidationError) Error() string { return e.Message }

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var nf NotFoundError
	return errors.As(err, &nf)
}

// IsDuplicate reports whether err is (or wraps) a DuplicateError.
func IsDuplicate(err error) bool {
	var d DuplicateError
	return errors.As(err, &d)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var v ValidationError
	return errors.As(err, &v)
}
