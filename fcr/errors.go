/*
errors.go - Centralized error types for the record engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Callers branch on sentinels with errors.Is and pull context out of the
  structured types with errors.As.

ERROR CATEGORIES:
  1. Validation errors - bad input, blocks the whole operation
  2. Duplicate errors  - a write attempted without the override grant
  3. Not-found errors  - edit/delete referencing a missing row
  4. Persistence errors - storage write failed; in-memory state stays valid

None of these are fatal: every operation in this engine is local and
synchronous, so the worst outcome is a warning and an untouched store.
*/
package fcr

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrValidation is the root of all user-input failures.
	ErrValidation = errors.New("validation failed")

	// ErrDuplicateBlocked is returned when an upsert collides on
	// (date, flock) without the overwrite grant. The store is untouched.
	ErrDuplicateBlocked = errors.New("duplicate record blocked")

	// ErrNotFound is returned when an edit or delete references a
	// record, event, or flock that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrPersistence is returned when a storage write fails. In-memory
	// state remains authoritative for the rest of the session.
	ErrPersistence = errors.New("persistence failed")

	// ErrStaleResolution is returned when a commit is attempted with a
	// resolution that was already consumed or never granted.
	ErrStaleResolution = errors.New("resolution not granted or already used")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ValidationError reports a user-facing input problem. The message is
// meant to be shown directly to the user.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// DuplicateError reports a blocked write for an occupied (date, flock) slot.
type DuplicateError struct {
	Key        RecordID
	Date       Day
	FlockName  string
	ExistingID RecordID
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("record already exists for %s / %q (id: %s)",
		e.Date, e.FlockName, e.ExistingID)
}

func (e *DuplicateError) Unwrap() error { return ErrDuplicateBlocked }

// NotFoundError identifies what was missing.
type NotFoundError struct {
	Kind string // "record", "flock", "event"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// PersistenceError wraps a failed storage write with the operation name.
type PersistenceError struct {
	Op  string // e.g. "persist history", "persist calendar"
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return ErrPersistence }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError reports whether the error is the caller's fault
// (bad input or a gated duplicate) rather than the engine's.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrDuplicateBlocked) ||
		errors.Is(err, ErrStaleResolution)
}

// IsNotFound reports whether the error indicates a missing entity.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
