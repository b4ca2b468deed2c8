package service

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrNotFound covers both "note does not exist" and "note belongs to a
	// different owner". The two cases are indistinguishable to callers so
	// note IDs cannot be enumerated across owners.
	ErrNotFound = errors.New("not found")

	ErrInvalidCredentials = errors.New("invalid username or password")
)

// ConflictError reports a duplicate username or email, naming the field.
type ConflictError struct {
	Field string // "Username" or "Email"
}

func (e *ConflictError) Error() string {
	return e.Field + " already in use"
}

// ValidationError carries per-field messages for rejected input. It is
// returned before any store write happens.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for f, m := range e.Fields {
		msgs = append(msgs, f+": "+m)
	}
	sort.Strings(msgs)
	return "validation failed: " + strings.Join(msgs, "; ")
}

// AsValidationError returns the ValidationError wrapped in err, if any.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	ok := errors.As(err, &ve)
	return ve, ok
}

// AsConflictError returns the ConflictError wrapped in err, if any.
func AsConflictError(err error) (*ConflictError, bool) {
	var ce *ConflictError
	ok := errors.As(err, &ce)
	return ce, ok
}
