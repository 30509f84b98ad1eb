package application

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound is returned when the requested resource does not exist,
	// most commonly an unknown or inactive employee.
	ErrNotFound = errors.New("application: not found")
)

// ValidationError captures field level validation issues that callers can
// surface to users. It always indicates a caller bug, never a transient state.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	if v == nil {
		return ""
	}
	return "validation failed"
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// add records a field level validation error.
func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}

// ConflictError reports that the requested window was no longer free at
// admission time. It is distinct from generic failure so callers can offer
// alternative slots instead of a retry.
type ConflictError struct {
	EmployeeID string
	Start      time.Time
	End        time.Time
}

// Error implements the error interface.
func (c *ConflictError) Error() string {
	if c == nil {
		return ""
	}
	return fmt.Sprintf("booking conflict: employee %s window %s-%s is taken",
		c.EmployeeID,
		c.Start.Format(time.RFC3339),
		c.End.Format(time.RFC3339))
}

// StorageError wraps a transient persistence failure. Callers may retry with
// backoff; the engine never retries writes internally to avoid duplicate
// bookings.
type StorageError struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (s *StorageError) Error() string {
	if s == nil {
		return ""
	}
	return fmt.Sprintf("storage failure during %s: %v", s.Op, s.Err)
}

// Unwrap exposes the underlying persistence error.
func (s *StorageError) Unwrap() error {
	return s.Err
}

func storageErr(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}
