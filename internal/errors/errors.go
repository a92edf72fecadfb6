package errors

import (
	"errors"
	"fmt"
)

// Common error types for the authorization server
var (
	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidUsername    = errors.New("invalid username")

	// Authorize errors
	ErrUnsupportedResponseType = errors.New("unsupported response type")
	ErrClientNotFound          = errors.New("client not found")
	ErrAccessDenied            = errors.New("access denied")

	// Token errors
	ErrInvalidClient = errors.New("invalid client")
	ErrInvalidGrant  = errors.New("invalid grant")

	// Code redemption errors. All of these surface to token callers as
	// ErrInvalidGrant; they stay distinct so logs and metrics can tell
	// a replay from an expiry.
	ErrCodeNotFound    = errors.New("authorization code not found")
	ErrCodeExpired     = errors.New("authorization code expired")
	ErrCodeAlreadyUsed = errors.New("authorization code already used")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")

	// General errors
	ErrNotFound = errors.New("not found")
	ErrInternal = errors.New("internal error")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
