package otp

import "errors"

var (
	// ErrInvalidEmail is returned when the address does not parse.
	ErrInvalidEmail = errors.New("invalid email address")

	// ErrEmailNotAllowed is returned for addresses outside ADMIN_EMAILS.
	ErrEmailNotAllowed = errors.New("email not allowed")

	// ErrRateLimited is returned when an address asks for codes too often.
	ErrRateLimited = errors.New("too many otp requests")

	// ErrNoAllowList is returned when admin tokens are enabled but
	// ADMIN_EMAILS is empty, which would make every mailbox an admin.
	ErrNoAllowList = errors.New("admin tokens require ADMIN_EMAILS")

	// ErrInvalidCode is returned when the submitted code is empty or malformed.
	ErrInvalidCode = errors.New("otp code is required")
)
