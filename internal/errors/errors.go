// Package errors provides the coded error type used across vibemcp.
//
// Every user-facing failure carries one of the Kind values below so that
// the operation façade can translate it into a structured OperationError
// without leaking Go error internals across the external boundary.
package errors

import "fmt"

// Kind is the closed error taxonomy from the design's error handling section.
type Kind string

const (
	// KindInputInvalid covers unsafe paths, bad status transitions, unknown
	// event types, short secrets, and other caller-supplied violations.
	KindInputInvalid Kind = "input-invalid"
	// KindAuthDenied covers read-only rejections and bearer token mismatches.
	KindAuthDenied Kind = "authorization-denied"
	// KindNotFound covers missing documents, projects, or subscriptions.
	KindNotFound Kind = "not-found"
	// KindConflict covers create operations whose target already exists.
	KindConflict Kind = "conflict"
	// KindIOTransient covers per-file read/stat/decode failures during indexing.
	// Never fatal: callers log and skip.
	KindIOTransient Kind = "io-transient"
	// KindDeliveryFailed covers webhook delivery failures (never propagated
	// to the write that triggered them).
	KindDeliveryFailed Kind = "delivery-failed"
	// KindFatalInit covers unrecoverable startup failures (db open,
	// workspace root resolution).
	KindFatalInit Kind = "fatal-init"
)

// Error is the structured error type for vibemcp.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap supports errors.Is/As against the wrapped cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports equality by Kind, so errors.Is(err, errors.New(KindNotFound, "")) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// New creates an Error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates an Error of the given kind around an existing cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// Invalid is a convenience constructor for KindInputInvalid.
func Invalid(format string, args ...any) *Error {
	return New(KindInputInvalid, fmt.Sprintf(format, args...))
}

// Denied is a convenience constructor for KindAuthDenied.
func Denied(message string) *Error {
	return New(KindAuthDenied, message)
}

// NotFound is a convenience constructor for KindNotFound.
func NotFound(format string, args ...any) *Error {
	return New(KindNotFound, fmt.Sprintf(format, args...))
}

// Conflict is a convenience constructor for KindConflict.
func Conflict(format string, args ...any) *Error {
	return New(KindConflict, fmt.Sprintf(format, args...))
}

// KindOf extracts the Kind from an error, or "" if it is not an *Error.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	if e, ok := err.(*Error); ok {
		return e.Kind
	}
	return ""
}
