package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies failures so callers can decide how to surface them.
type Kind string

const (
	KindNotAuthenticated   Kind = "not_authenticated"
	KindBackendUnavailable Kind = "backend_unavailable"
	KindNotFound           Kind = "not_found"
	KindValidation         Kind = "validation_error"
	KindOAuth              Kind = "oauth_error"
	KindConflict           Kind = "conflict_error"
	KindUpstream           Kind = "upstream_error"
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func NotAuthenticated(message string) *Error { return New(KindNotAuthenticated, message) }

func BackendUnavailable(message string, err error) *Error {
	return Wrap(KindBackendUnavailable, message, err)
}

func NotFound(message string) *Error   { return New(KindNotFound, message) }
func Validation(message string) *Error { return New(KindValidation, message) }
func OAuth(message string) *Error      { return New(KindOAuth, message) }
func Conflict(message string) *Error   { return New(KindConflict, message) }

// KindOf returns the kind of the first *Error in the chain, or "" if none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// MessageOr returns the user-facing message of err, or fallback.
func MessageOr(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return fallback
}
