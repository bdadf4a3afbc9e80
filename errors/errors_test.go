package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorClass_String(t *testing.T) {
	tests := []struct {
		class    ErrorClass
		expected string
	}{
		{ErrorTransient, "transient"},
		{ErrorInvalid, "invalid"},
		{ErrorFatal, "fatal"},
		{ErrorClass(999), "unknown"},
	}

	for _, test := range tests {
		t.Run(test.expected, func(t *testing.T) {
			result := test.class.String()
			if result != test.expected {
				t.Errorf("expected %s, got %s", test.expected, result)
			}
		})
	}
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"connection timeout", ErrConnectionTimeout, true},
		{"storage unavailable", ErrStorageUnavailable, true},
		{"session closed", ErrSessionClosed, true},
		{"lookup failed", ErrLookupFailed, true},
		{"rate limited", ErrRateLimited, true},
		{"context deadline exceeded", context.DeadlineExceeded, true},
		{"context canceled", context.Canceled, true},
		{"invalid data", ErrInvalidData, false},
		{"timeout in message", fmt.Errorf("operation timeout occurred"), true},
		{"network error", fmt.Errorf("network connection failed"), true},
		{"classified transient", &ClassifiedError{Class: ErrorTransient, Err: fmt.Errorf("test")}, true},
		{"classified fatal", &ClassifiedError{Class: ErrorFatal, Err: fmt.Errorf("test")}, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := IsTransient(test.err)
			if result != test.expected {
				t.Errorf("expected %v, got %v for error: %v", test.expected, result, test.err)
			}
		})
	}
}

func TestIsInvalid(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"node not found", ErrNodeNotFound, true},
		{"edge not found", ErrEdgeNotFound, true},
		{"dataset missing", ErrDatasetMissing, true},
		{"dataset protected", ErrDatasetProtected, true},
		{"dataset exists", ErrDatasetExists, true},
		{"invalid kind", ErrInvalidKind, true},
		{"session not found", ErrSessionNotFound, true},
		{"snapshot not found", ErrSnapshotNotFound, true},
		{"invalid data", ErrInvalidData, true},
		{"parsing failed", ErrParsingFailed, true},
		{"storage unavailable", ErrStorageUnavailable, false},
		{"wrapped", fmt.Errorf("lookup: %w", ErrNodeNotFound), true},
		{"classified invalid", &ClassifiedError{Class: ErrorInvalid, Err: fmt.Errorf("test")}, true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := IsInvalid(test.err)
			if result != test.expected {
				t.Errorf("expected %v, got %v for error: %v", test.expected, result, test.err)
			}
		})
	}
}

func TestIsFatal(t *testing.T) {
	if !IsFatal(ErrInvalidConfig) {
		t.Error("expected invalid config to be fatal")
	}
	if !IsFatal(ErrMissingConfig) {
		t.Error("expected missing config to be fatal")
	}
	if IsFatal(ErrNodeNotFound) {
		t.Error("expected node not found to not be fatal")
	}
	if IsFatal(nil) {
		t.Error("expected nil to not be fatal")
	}
}

func TestIsNotFound(t *testing.T) {
	for _, err := range []error{ErrNodeNotFound, ErrEdgeNotFound, ErrSessionNotFound, ErrSnapshotNotFound} {
		if !IsNotFound(err) {
			t.Errorf("expected %v to report not found", err)
		}
	}
	if IsNotFound(ErrDatasetExists) {
		t.Error("expected dataset exists to not report not found")
	}
	if IsNotFound(nil) {
		t.Error("expected nil to not report not found")
	}
}

func TestWrapFormat(t *testing.T) {
	base := errors.New("boom")
	err := Wrap(base, "store", "Create", "put record")

	expected := "store.Create: put record failed: boom"
	if err.Error() != expected {
		t.Errorf("expected %q, got %q", expected, err.Error())
	}
	if !errors.Is(err, base) {
		t.Error("expected wrapped error to unwrap to base")
	}
	if Wrap(nil, "store", "Create", "put record") != nil {
		t.Error("expected nil wrap to stay nil")
	}
}

func TestWrapClassified(t *testing.T) {
	base := errors.New("boom")

	transient := WrapTransient(base, "i14y", "search", "execute request")
	if !IsTransient(transient) {
		t.Error("expected transient classification")
	}
	if !errors.Is(transient, base) {
		t.Error("expected classified error to unwrap to base")
	}
	if !strings.Contains(transient.Error(), "i14y.search") {
		t.Errorf("expected component context in message, got %q", transient.Error())
	}

	invalid := WrapInvalid(base, "schema", "AddNode", "validate kind")
	if !IsInvalid(invalid) {
		t.Error("expected invalid classification")
	}

	fatal := WrapFatal(nil, "config", "Load", "no layers")
	if !IsFatal(fatal) {
		t.Error("expected fatal classification")
	}
}

func TestClassify(t *testing.T) {
	if Classify(ErrNodeNotFound) != ErrorInvalid {
		t.Error("expected invalid class")
	}
	if Classify(ErrInvalidConfig) != ErrorFatal {
		t.Error("expected fatal class")
	}
	if Classify(errors.New("some unknown failure")) != ErrorTransient {
		t.Error("expected unknown errors to default to transient")
	}
}
