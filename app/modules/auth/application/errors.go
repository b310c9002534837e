package authservice

import "errors"

var (
	// ErrInvalidToken is returned when the token is invalid.
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken is returned when the token has expired.
	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrMissingToken is returned when no token is provided.
	ErrMissingToken = errors.New("missing authentication token")

	// ErrInvalidRequest is returned when sign-in details fail validation.
	ErrInvalidRequest = errors.New("invalid sign-in request")

	// ErrInvalidCredentials is returned for an unknown email or a wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrGenerateToken is returned when token generation fails.
	ErrGenerateToken = errors.New("failed to generate token")
)
