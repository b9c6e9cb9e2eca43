package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// Category classifies errors by their nature and appropriate handling
// strategy.
type Category int

const (
	// CategoryUser represents errors caused by an invalid request:
	// duplicate names, malformed rows, type mismatches. These are
	// synchronous, recoverable rejections - the caller must correct
	// the request, retrying will not help.
	CategoryUser Category = iota

	// CategorySystem represents errors originating in a storage
	// collaborator or the surrounding infrastructure. The engine does
	// not wrap or reinterpret these; they propagate unchanged.
	CategorySystem
)

// Stable codes for every user-facing rejection the engine produces.
const (
	CodeDuplicateName    = "DUPLICATE_NAME"
	CodeEmptyName        = "EMPTY_NAME"
	CodeUnknownDataStore = "UNKNOWN_DATA_STORE"
	CodeUnknownColumn    = "UNKNOWN_COLUMN"
	CodeEmptySchema      = "EMPTY_SCHEMA"
	CodeKeyCountMismatch = "KEY_COUNT_MISMATCH"
	CodeUnknownColumnKey = "UNKNOWN_COLUMN_KEY"
	CodeTypeMismatch     = "TYPE_MISMATCH"
	CodeInvalidColumn    = "INVALID_COLUMN"
)

// CodeCorruptMetadata marks system errors raised when stored metadata
// cannot be decoded. Unlike the user codes above it is never caused by
// the request.
const CodeCorruptMetadata = "CORRUPT_METADATA"

// Error is a structured application error carrying a stable code, a
// category, and a human-readable message.
type Error struct {
	// Code is a unique identifier for this error type, e.g.
	// "DUPLICATE_NAME" or "TYPE_MISMATCH".
	Code string

	// Category classifies the error for handling strategy.
	Category Category

	// Message is a human-readable description of what went wrong.
	Message string

	// Detail provides additional context about the specific instance,
	// e.g. the offending value and the expected type.
	Detail string

	// Cause is the underlying error, if any. It enables error chain
	// traversal with errors.Is and errors.As.
	Cause error
}

// New creates a new Error with the given category, code and message.
func New(category Category, code, message string) *Error {
	return &Error{
		Code:     code,
		Category: category,
		Message:  message,
	}
}

// Invalid creates a user-facing invalid-request error. The message is
// formatted with fmt.Sprintf when args are supplied.
func Invalid(code, format string, args ...any) *Error {
	return &Error{
		Code:     code,
		Category: CategoryUser,
		Message:  fmt.Sprintf(format, args...),
	}
}

// WithDetail returns e with its Detail set. The receiver is returned
// to allow chaining at the call site.
func (e *Error) WithDetail(format string, args ...any) *Error {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// WithCause returns e with its underlying cause set.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// Error implements the error interface.
//
// The format follows the pattern:
// [CODE] Message: Detail caused by: underlying error
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if e.Detail != "" {
		b.WriteString(fmt.Sprintf(": %s", e.Detail))
	}

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(" caused by: %v", e.Cause))
	}

	return b.String()
}

// Unwrap returns the underlying cause error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsUserError reports whether err (or anything it wraps) is a
// user-facing invalid-request rejection.
func IsUserError(err error) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Category == CategoryUser
	}
	return false
}

// HasCode reports whether err carries the given stable code.
func HasCode(err error, code string) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}
