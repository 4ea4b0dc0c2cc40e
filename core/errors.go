package core

import (
	"errors"
	"fmt"
)

// ErrNotFound is a sentinel error for "not found" cases
var ErrNotFound = errors.New("not found")

var (
	// ErrValidation marks caller input that was rejected before reaching a store or upstream
	ErrValidation = errors.New("validation failed")

	// ErrStoreUnavailable wraps every persistence-layer failure. It is never retried internally.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrUpstreamUnavailable wraps failures talking to Discord (REST or gateway)
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrPermissionDenied means the bot or the caller lacks access to the requested guild
	ErrPermissionDenied = errors.New("permission denied")

	// ErrMissingAuthorizationCode is terminal for a login attempt
	ErrMissingAuthorizationCode = errors.New("missing authorization code")

	// ErrAuthorizationExchangeFailed is terminal for a login attempt
	ErrAuthorizationExchangeFailed = errors.New("authorization code exchange failed")

	// ErrInvalidSession means the presented session token is missing, malformed, forged or expired
	ErrInvalidSession = errors.New("invalid session")
)

// IsNotFoundError checks if an error is a "not found" error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// StoreError wraps a persistence failure so that errors.Is(err, ErrStoreUnavailable) holds
// while keeping the driver error reachable through errors.Unwrap / errors.As.
func StoreError(op string, err error) error {
	return fmt.Errorf("failed to %s: %w: %w", op, ErrStoreUnavailable, err)
}

// ValidationError builds an ErrValidation with a human readable reason
func ValidationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
