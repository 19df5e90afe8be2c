package errors

import (
	"errors"
	"fmt"
)

// Common error types for the club portal runtime
var (
	// Session errors
	ErrNoSession = errors.New("no active session")
	ErrNoClub    = errors.New("no club selected")

	// Validation errors
	ErrValidation      = errors.New("validation failed")
	ErrReasonRequired  = errors.New("reason is required")
	ErrAmountInvalid   = errors.New("amount must be greater than zero")
	ErrMissingField    = errors.New("required field missing")
	ErrDocumentMissing = errors.New("identity document is required")

	// Upload errors
	ErrFileTooLarge = errors.New("file exceeds the allowed size")
	ErrBadFileType  = errors.New("unsupported file type")

	// Cache errors
	ErrQueryNotRegistered = errors.New("query not registered")
	ErrCacheClosed        = errors.New("cache closed")

	// Realtime errors
	ErrTransportClosed = errors.New("realtime transport closed")

	// General errors
	ErrNotFound    = errors.New("not found")
	ErrInternal    = errors.New("internal error")
	ErrUnsupported = errors.New("unsupported operation")
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
