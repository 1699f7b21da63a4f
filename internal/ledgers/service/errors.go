package service

import "errors"

// Errors returned by the sandbox services. The http layer maps each to the
// ledgersdk error of the same code.
var (
	ErrInvalidRequest        = errors.New("invalid_request")
	ErrPSUCredentialsInvalid = errors.New("psu_credentials_invalid")
	ErrInvalidToken          = errors.New("invalid_token")
	ErrNotFound              = errors.New("not_found")
	ErrIllegalState          = errors.New("illegal_state")
	ErrInvalidGrant          = errors.New("invalid_grant")
	ErrInvalidClient         = errors.New("invalid_client")
)
