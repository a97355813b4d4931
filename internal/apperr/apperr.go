// Package apperr defines the tagged error taxonomy shared by the engine and
// the HTTP layer.
//
// Lower layers construct *Error values with a Kind; the API layer maps the
// Kind to an HTTP status. Errors raised by third-party code (SQLite, the
// filesystem) are classified once, at the boundary, by FromForeign.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"
)

// Kind identifies a taxonomy entry.
type Kind string

// Taxonomy entries.
const (
	KindMalformedRequest Kind = "MalformedRequest"
	KindValidation       Kind = "ValidationError"
	KindNotFound         Kind = "NotFound"
	KindRateLimited      Kind = "RateLimited"
	KindForbidden        Kind = "Forbidden"
	KindInternal         Kind = "InternalError"
)

// HTTPStatus returns the status code for the kind.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindMalformedRequest, KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Error is a tagged error.
type Error struct {
	Kind    Kind
	Message string
	Details string
	Err     error

	// Stack is captured for internal errors only.
	Stack string
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error of the same kind, so errors.Is(err,
// &Error{Kind: KindNotFound}) works through wrapping.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind && t.Message == ""
}

// New creates a tagged error.
func New(kind Kind, format string, args ...any) *Error {
	e := &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
	if kind == KindInternal {
		e.Stack = string(debug.Stack())
	}
	return e
}

// Wrap tags err with kind and a message.
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	e := New(kind, format, args...)
	e.Err = err
	return e
}

// WithDetails returns a copy of e carrying details.
func (e *Error) WithDetails(details string) *Error {
	c := *e
	c.Details = details
	return &c
}

// Malformed builds a MalformedRequest error.
func Malformed(err error, format string, args ...any) *Error {
	return Wrap(KindMalformedRequest, err, format, args...)
}

// Validation builds a ValidationError.
func Validation(format string, args ...any) *Error {
	return New(KindValidation, format, args...)
}

// NotFound builds a NotFound error.
func NotFound(format string, args ...any) *Error {
	return New(KindNotFound, format, args...)
}

// RateLimited builds a RateLimited error.
func RateLimited(format string, args ...any) *Error {
	return New(KindRateLimited, format, args...)
}

// KindOf returns the Kind of err. Untagged errors are classified by
// FromForeign.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return FromForeign(err).Kind
}

// foreignKeywords maps message fragments from third-party errors to kinds.
// Order matters: the first match wins.
var foreignKeywords = []struct { //nolint:gochecknoglobals // Constant lookup table
	kind     Kind
	keywords []string
}{
	{KindRateLimited, []string{"quota", "rate limit", "too many requests", "limit exceeded"}},
	{KindForbidden, []string{"permission", "access denied", "forbidden", "read-only"}},
	{KindNotFound, []string{"not found", "no such file", "no such table"}},
	{KindValidation, []string{"invalid", "required", "must be"}},
}

// FromForeign classifies an error raised outside this module by inspecting
// its message. Already-tagged errors are returned unchanged.
func FromForeign(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}

	msg := strings.ToLower(err.Error())
	for _, entry := range foreignKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(msg, kw) {
				return Wrap(entry.kind, err, "%s", strings.ToLower(string(entry.kind)))
			}
		}
	}
	return Wrap(KindInternal, err, "internal error")
}
