// Package apperr is the error taxonomy shared by services and the HTTP responder.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for the responder.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindBadRequest
	KindNotFound
	KindUnauthenticated
	KindForbidden
	KindConflict
	KindUpload
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindBadRequest:
		return "bad_request"
	case KindNotFound:
		return "not_found"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindConflict:
		return "conflict"
	case KindUpload:
		return "upload"
	default:
		return "internal"
	}
}

// Error carries a kind, the HTTP status it maps to and a user-facing message.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches another *Error by kind, so errors.Is(err, apperr.ErrNotFound) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == ""
}

// Kind sentinels for errors.Is.
var (
	ErrValidation      = &Error{Kind: KindValidation}
	ErrBadRequest      = &Error{Kind: KindBadRequest}
	ErrNotFound        = &Error{Kind: KindNotFound}
	ErrUnauthenticated = &Error{Kind: KindUnauthenticated}
	ErrForbidden       = &Error{Kind: KindForbidden}
	ErrConflict        = &Error{Kind: KindConflict}
	ErrUpload          = &Error{Kind: KindUpload}
)

func newErr(kind Kind, status int, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Status: status, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...interface{}) *Error {
	return newErr(KindValidation, http.StatusBadRequest, format, args...)
}

func BadRequest(format string, args ...interface{}) *Error {
	return newErr(KindBadRequest, http.StatusBadRequest, format, args...)
}

func NotFound(format string, args ...interface{}) *Error {
	return newErr(KindNotFound, http.StatusNotFound, format, args...)
}

func Unauthenticated(format string, args ...interface{}) *Error {
	return newErr(KindUnauthenticated, http.StatusUnauthorized, format, args...)
}

func Forbidden(format string, args ...interface{}) *Error {
	return newErr(KindForbidden, http.StatusForbidden, format, args...)
}

func Conflict(format string, args ...interface{}) *Error {
	return newErr(KindConflict, http.StatusConflict, format, args...)
}

// Upload reports a rejected file (bad type, size or missing file).
func Upload(format string, args ...interface{}) *Error {
	return newErr(KindUpload, http.StatusBadRequest, format, args...)
}

// UploadFailed reports a storage failure while persisting an upload.
func UploadFailed(cause error) *Error {
	return &Error{Kind: KindUpload, Status: http.StatusInternalServerError, Message: "Problem with file upload", Cause: cause}
}

// Internal wraps an unexpected failure.
func Internal(cause error) *Error {
	return &Error{Kind: KindInternal, Status: http.StatusInternalServerError, Message: "Server Error", Cause: cause}
}

// As extracts an *Error from err, wrapping unknown errors as internal.
func As(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal(err)
}
