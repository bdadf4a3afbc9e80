// Package errors provides standardized error handling for the structure
// generator. It includes error classification, standard error variables,
// and helper functions for consistent error wrapping across the system.
package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrorClass represents the classification of errors for handling purposes
type ErrorClass int

const (
	// ErrorTransient represents temporary errors that may be retried
	ErrorTransient ErrorClass = iota
	// ErrorInvalid represents errors due to invalid input or state
	ErrorInvalid
	// ErrorFatal represents unrecoverable errors that should stop processing
	ErrorFatal
)

// String returns the string representation of ErrorClass
func (ec ErrorClass) String() string {
	switch ec {
	case ErrorTransient:
		return "transient"
	case ErrorInvalid:
		return "invalid"
	case ErrorFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Standard error variables for common conditions
var (
	// Graph structure errors
	ErrNodeNotFound     = errors.New("node not found")
	ErrEdgeNotFound     = errors.New("edge not found")
	ErrDatasetMissing   = errors.New("no dataset node in graph")
	ErrDatasetProtected = errors.New("dataset node cannot be deleted")
	ErrDatasetExists    = errors.New("graph already has a dataset node")
	ErrInvalidKind      = errors.New("invalid node kind")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionClosed   = errors.New("session store is closed")

	// Data and boundary errors
	ErrInvalidData   = errors.New("invalid data format")
	ErrParsingFailed = errors.New("parsing failed")

	// Storage and persistence errors
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrSnapshotNotFound   = errors.New("snapshot not found")
	ErrSnapshotConflict   = errors.New("snapshot was modified by another writer")

	// Configuration errors
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrMissingConfig = errors.New("missing required configuration")

	// Collaborator errors
	ErrLookupFailed      = errors.New("remote lookup failed")
	ErrConnectionTimeout = errors.New("connection timeout")
	ErrRateLimited       = errors.New("rate limited")
)

// ClassifiedError wraps an error with its classification
type ClassifiedError struct {
	Class     ErrorClass
	Err       error
	Message   string
	Component string
	Operation string
}

// Error implements the error interface
func (ce *ClassifiedError) Error() string {
	if ce.Message != "" {
		return ce.Message
	}
	return ce.Err.Error()
}

// Unwrap returns the underlying error
func (ce *ClassifiedError) Unwrap() error {
	return ce.Err
}

// IsTransient checks if an error is transient and should be retried
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Class == ErrorTransient
	}

	if errors.Is(err, ErrConnectionTimeout) ||
		errors.Is(err, ErrStorageUnavailable) ||
		errors.Is(err, ErrSessionClosed) ||
		errors.Is(err, ErrLookupFailed) ||
		errors.Is(err, ErrRateLimited) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) {
		return true
	}

	// Check error message for common transient patterns
	errStr := strings.ToLower(err.Error())
	transientPatterns := []string{
		"timeout",
		"connection",
		"network",
		"temporary",
		"unavailable",
	}
	for _, pattern := range transientPatterns {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}

	return false
}

// IsFatal checks if an error is fatal and should stop processing
func IsFatal(err error) bool {
	if err == nil {
		return false
	}

	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Class == ErrorFatal
	}

	return errors.Is(err, ErrInvalidConfig) ||
		errors.Is(err, ErrMissingConfig)
}

// IsInvalid checks if an error is due to invalid input or state
func IsInvalid(err error) bool {
	if err == nil {
		return false
	}

	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Class == ErrorInvalid
	}

	return errors.Is(err, ErrNodeNotFound) ||
		errors.Is(err, ErrEdgeNotFound) ||
		errors.Is(err, ErrDatasetMissing) ||
		errors.Is(err, ErrDatasetProtected) ||
		errors.Is(err, ErrDatasetExists) ||
		errors.Is(err, ErrInvalidKind) ||
		errors.Is(err, ErrSessionNotFound) ||
		errors.Is(err, ErrSnapshotNotFound) ||
		errors.Is(err, ErrInvalidData) ||
		errors.Is(err, ErrParsingFailed)
}

// IsNotFound reports whether the error stems from a missing node, edge,
// session, or snapshot. Used by the API layer for HTTP status mapping.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNodeNotFound) ||
		errors.Is(err, ErrEdgeNotFound) ||
		errors.Is(err, ErrSessionNotFound) ||
		errors.Is(err, ErrSnapshotNotFound)
}

// Classify returns the error class for an error
func Classify(err error) ErrorClass {
	if err == nil {
		return ErrorTransient
	}

	if IsInvalid(err) {
		return ErrorInvalid
	}
	if IsFatal(err) {
		return ErrorFatal
	}

	// Default to transient for unknown errors to allow retry
	return ErrorTransient
}

// newClassified creates a new classified error.
// Internal helper - use WrapTransient(), WrapFatal(), or WrapInvalid() instead.
func newClassified(class ErrorClass, err error, component, operation, message string) *ClassifiedError {
	return &ClassifiedError{
		Class:     class,
		Err:       err,
		Message:   message,
		Component: component,
		Operation: operation,
	}
}

// Wrap creates a standardized error with context following the pattern:
// "component.method: action failed: %w"
func Wrap(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s.%s: %s failed: %w", component, method, action, err)
}

// WrapTransient wraps an error as transient with context
func WrapTransient(err error, component, method, action string) error {
	if err == nil {
		err = errors.New(action)
	}
	wrappedErr := Wrap(err, component, method, action)
	return newClassified(ErrorTransient, wrappedErr, component, method, wrappedErr.Error())
}

// WrapFatal wraps an error as fatal with context
func WrapFatal(err error, component, method, action string) error {
	if err == nil {
		err = errors.New(action)
	}
	wrappedErr := Wrap(err, component, method, action)
	return newClassified(ErrorFatal, wrappedErr, component, method, wrappedErr.Error())
}

// WrapInvalid wraps an error as invalid with context
func WrapInvalid(err error, component, method, action string) error {
	if err == nil {
		err = errors.New(action)
	}
	wrappedErr := Wrap(err, component, method, action)
	return newClassified(ErrorInvalid, wrappedErr, component, method, wrappedErr.Error())
}
