package domain

import "errors"

var (
	// ErrNotFound indicates the requested record was not found.
	ErrNotFound = errors.New("not found")
	// ErrEmailTaken indicates an account already exists for the email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials is returned when email/password do not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken indicates the provided token could not be validated.
	ErrInvalidToken = errors.New("invalid token")
	// ErrSignInRequired indicates an operation that needs a session was
	// attempted without one.
	ErrSignInRequired = errors.New("sign in required")
)
