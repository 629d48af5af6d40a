package auth

import "errors"

var (
	// ErrInvalidCredentials is returned when the email or password does not match.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrEmailTaken is returned when registering an email that already has an account.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidInput is returned for malformed registration or login input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthenticated is returned for a missing, unknown or expired session.
	ErrUnauthenticated = errors.New("not authenticated")

	// ErrRateLimited is returned when a client exceeds the login attempt rate.
	ErrRateLimited = errors.New("too many login attempts")
)
