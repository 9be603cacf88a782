package auth

import "errors"

var (
	// ErrInvalidCredentials is returned when login or refresh fails.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken signals a token that failed signature, shape or expiry
	// checks. The cause is deliberately not distinguished.
	ErrInvalidToken = errors.New("invalid token")
	// ErrUnauthorized represents missing or invalid authentication tokens.
	ErrUnauthorized = errors.New("unauthorized")
)
