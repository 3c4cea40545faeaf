// Package auth issues and verifies session tokens and throttles login attempts.
// Credential checks themselves belong to the external identity provider
// (ports.CredentialVerifier).
package auth

import "errors"

var (
	// ErrInvalidCredentials covers every failed login: unknown user, wrong password, disabled account.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrTooManyAttempts is returned when a username exceeds its login rate.
	ErrTooManyAttempts = errors.New("too many login attempts")

	// ErrInvalidToken is returned for tokens with a bad signature, algorithm or claims.
	ErrInvalidToken = errors.New("invalid session token")
)
