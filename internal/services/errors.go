package services

import (
	"errors"
	"fmt"
)

// ErrorKind tags the closed set of failure classes the task service
// produces. Handlers map kinds to HTTP status codes; the message carried
// alongside the kind is the exact wire-visible text.
type ErrorKind int

const (
	// KindValidation marks malformed, missing, or out-of-range input.
	// Validation failures never reach the store.
	KindValidation ErrorKind = iota

	// KindConflict marks a uniqueness violation on create.
	KindConflict

	// KindNotFound marks a referenced task that does not exist.
	KindNotFound

	// KindPersistence marks any storage failure not otherwise classified.
	// The underlying cause is discarded in favor of a canonical message.
	KindPersistence
)

type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func validationError(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func conflictError(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func notFoundError(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func persistenceError(message string) *Error {
	return &Error{Kind: KindPersistence, Message: message}
}

// KindOf extracts the service error kind from err. The second return
// value is false for errors raised outside the service taxonomy.
func KindOf(err error) (ErrorKind, bool) {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind, true
	}
	return 0, false
}
