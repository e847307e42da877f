package errors

import (
	"errors"
	"fmt"
)

// Common error types for the portal client
var (
	// Session errors
	ErrNoToken = errors.New("no auth token")
	ErrNoUser  = errors.New("no cached user")

	// Storage errors
	ErrNotFound    = errors.New("not found")
	ErrInvalidKey  = errors.New("invalid storage key")
	ErrStoreClosed = errors.New("store closed")
	ErrDecrypt     = errors.New("unable to decrypt stored data")

	// Navigation errors
	ErrRouteNotFound = errors.New("route not found")
	ErrRedirectLoop  = errors.New("too many redirects")

	// Input errors
	ErrInvalidLanguage = errors.New("invalid language tag")
	ErrCooldown        = errors.New("action submitted too soon")
	ErrInvalidRequest  = errors.New("invalid request")
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

// New is errors.New, re-exported so callers only import one errors package
func New(text string) error {
	return errors.New(text)
}
