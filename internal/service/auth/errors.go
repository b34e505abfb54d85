package auth

import "errors"

// Common authentication service errors
var (
	// ErrInvalidToken indicates the token format is invalid or signature doesn't match
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken indicates the token has expired
	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrMissingToken indicates a token was expected but not provided
	ErrMissingToken = errors.New("authentication token is missing")

	// ErrRevokedToken indicates the token was invalidated by a logout
	ErrRevokedToken = errors.New("authentication token has been revoked")

	// ErrInvalidCredentials is returned by login for an unknown email or a
	// wrong password alike
	ErrInvalidCredentials = errors.New("invalid credentials")
)
