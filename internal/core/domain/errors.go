package domain

import "errors"

var (
	// ErrInvalidCredentials covers a wrong email/password pair and malformed
	// sign-in input.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrIdentityNotFound is returned when no principal exists for the given
	// email or id.
	ErrIdentityNotFound = errors.New("identity not found")

	// ErrEmailTaken is returned by sign-up when the email is already registered.
	ErrEmailTaken = errors.New("email already registered")

	// ErrUnknownRole marks a role value outside the four recognized roles.
	// It is never coerced to a default; callers fail closed.
	ErrUnknownRole = errors.New("unknown role")

	// ErrNotConfirmed is returned by sign-in when the account has not
	// completed email verification.
	ErrNotConfirmed = errors.New("account not confirmed")

	// ErrInvalidCode is returned when a confirmation or password-reset code
	// does not match.
	ErrInvalidCode = errors.New("invalid verification code")

	// ErrNoSession is returned when a session record has expired or been
	// invalidated.
	ErrNoSession = errors.New("no active session")

	// ErrLoginSuperseded is returned to a login attempt whose response
	// arrived after a newer attempt (or a logout) was issued. The stale
	// result is discarded and session state is left untouched.
	ErrLoginSuperseded = errors.New("login attempt superseded")
)
