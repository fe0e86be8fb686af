package core

import (
	"errors"
)

// Validation errors are returned synchronously to the caller and never
// retried. Each one maps to a distinct user-visible outcome.
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrPostNotFound    = errors.New("post not found")
	ErrCommentNotFound = errors.New("comment not found")
	ErrInvalidParent   = errors.New("parent comment does not exist or belongs to a different post")
	ErrInvalidInput    = errors.New("invalid input")
	ErrBlocked         = errors.New("recipient has blocked the sender")
	ErrDraftExpired    = errors.New("post draft expired")
	ErrNotAuthorized   = errors.New("not authorized")
)

// ErrConflict signals a constraint violation from a concurrent write.
// Callers retry the operation once before surfacing it as a validation error.
var ErrConflict = errors.New("conflicting concurrent write")

// ErrMirrorUnavailable wraps messenger failures during a mirror refresh.
// It never fails the enclosing operation - the thread data is already
// durably committed by the time the mirror is touched.
var ErrMirrorUnavailable = errors.New("mirror update failed")

// IsValidationError reports whether err belongs to the validation class,
// i.e. the caller sent something that can never succeed as-is.
func IsValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrPostNotFound),
		errors.Is(err, ErrCommentNotFound),
		errors.Is(err, ErrInvalidParent),
		errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrBlocked),
		errors.Is(err, ErrDraftExpired),
		errors.Is(err, ErrNotAuthorized):
		return true
	}
	return false
}

// IsNotFoundError checks if an error is a "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrPostNotFound) ||
		errors.Is(err, ErrCommentNotFound)
}

// IsConflictError checks if an error is a concurrent-write conflict.
func IsConflictError(err error) bool {
	return errors.Is(err, ErrConflict)
}
