package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Failure kinds. Match with errors.Is against any error the engine returns.
var (
	ErrInvalidToken           = errors.New("invalid_token")
	ErrUnknownStateVariant    = errors.New("unknown_state_variant")
	ErrRemoteAuthority        = errors.New("remote_authority_failure")
	ErrPSUCredentialsInvalid  = errors.New("psu_credentials_invalid")
	ErrIllegalTransition      = errors.New("illegal_transition")
	ErrFormat                 = errors.New("format_error")
	ErrReplayGuardUnavailable = errors.New("replay_guard_unavailable")
	ErrLinkUnavailable        = errors.New("sca_link_unavailable")
)

// Error is the failure half of the caller-facing envelope.
type Error struct {
	// Kind is one of the Err* sentinels above.
	Kind error
	// Message is safe to show to the caller.
	Message string
	// StatusCode of the remote authority response, 0 when there was none.
	StatusCode int
	// Cause is the underlying error, kept for logs.
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Kind, e.Cause}
	}
	return []error{e.Kind}
}

// Code is the machine readable kind, e.g. "illegal_transition".
func (e *Error) Code() string { return e.Kind.Error() }

// Technical reports a server-side or transport failure, as opposed to a
// logical rejection the PSU or TPP can act upon.
func (e *Error) Technical() bool {
	switch {
	case errors.Is(e.Kind, ErrReplayGuardUnavailable), errors.Is(e.Kind, ErrLinkUnavailable):
		return true
	case errors.Is(e.Kind, ErrRemoteAuthority):
		return e.StatusCode == 0 || e.StatusCode >= 500
	}
	return false
}

// HTTPStatus maps the kind onto the caller-facing status code.
func (e *Error) HTTPStatus() int {
	switch {
	case errors.Is(e.Kind, ErrInvalidToken), errors.Is(e.Kind, ErrUnknownStateVariant), errors.Is(e.Kind, ErrFormat):
		return http.StatusBadRequest
	case errors.Is(e.Kind, ErrPSUCredentialsInvalid):
		return http.StatusUnauthorized
	case errors.Is(e.Kind, ErrIllegalTransition):
		return http.StatusConflict
	case errors.Is(e.Kind, ErrReplayGuardUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(e.Kind, ErrLinkUnavailable):
		return http.StatusInternalServerError
	case errors.Is(e.Kind, ErrRemoteAuthority):
		if e.Technical() {
			return http.StatusBadGateway
		}
		return http.StatusFailedDependency
	}
	return http.StatusInternalServerError
}

// Errorf builds an *Error of the given kind.
func Errorf(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// AsError converts any error into an *Error, treating unknown errors as a
// technical authority failure.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{Kind: ErrRemoteAuthority, Message: "unexpected failure", Cause: err}
}
