package statesync

import (
	"errors"
	"fmt"

	"github.com/statesync/client-go/internal/api"
	"github.com/statesync/client-go/internal/envelope"
)

// Sentinel errors for errors.Is() checks
var (
	// ErrMissingBaseURL is returned when no store base URL is configured.
	ErrMissingBaseURL = errors.New("store base URL is required")

	// ErrClientClosed is returned when operations are attempted on a closed client.
	ErrClientClosed = errors.New("client has been closed")

	// ErrDerivation is returned when key derivation inputs are invalid.
	ErrDerivation = errors.New("key derivation failed")

	// ErrFormat is returned when an envelope is malformed or its plaintext
	// is not valid JSON.
	ErrFormat = errors.New("malformed envelope")

	// ErrIntegrity is returned when envelope authentication fails.
	ErrIntegrity = errors.New("integrity check failed")

	// ErrNetwork is returned when the store is unreachable or responds
	// with an unexpected HTTP status.
	ErrNetwork = errors.New("store request failed")
)

// StateSyncError is implemented by all SDK errors.
type StateSyncError interface {
	error
	StateSyncError() // marker method
}

// DerivationError indicates invalid inputs to the key derivation stack.
type DerivationError struct {
	Reason string
}

func (e *DerivationError) Error() string {
	return fmt.Sprintf("key derivation failed: %s", e.Reason)
}

// StateSyncError implements the StateSyncError interface.
func (e *DerivationError) StateSyncError() {}

// Is implements errors.Is for sentinel error matching.
func (e *DerivationError) Is(target error) bool {
	return target == ErrDerivation
}

// FormatError indicates a structurally invalid envelope or non-JSON plaintext.
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("malformed envelope: %s", e.Reason)
}

// StateSyncError implements the StateSyncError interface.
func (e *FormatError) StateSyncError() {}

// Is implements errors.Is for sentinel error matching.
func (e *FormatError) Is(target error) bool {
	return target == ErrFormat
}

// IntegrityError indicates that envelope authentication failed. It never
// distinguishes a MAC mismatch from an AEAD tag failure.
type IntegrityError struct{}

func (e *IntegrityError) Error() string {
	return "integrity check failed"
}

// StateSyncError implements the StateSyncError interface.
func (e *IntegrityError) StateSyncError() {}

// Is implements errors.Is for sentinel error matching.
func (e *IntegrityError) Is(target error) bool {
	return target == ErrIntegrity
}

// NetworkError represents a transport failure or unexpected HTTP status
// from the store.
type NetworkError struct {
	Err        error
	StatusCode int // zero when the failure was transport-level
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("store request failed with status %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("store request failed: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// StateSyncError implements the StateSyncError interface.
func (e *NetworkError) StateSyncError() {}

// Is implements errors.Is for sentinel error matching.
func (e *NetworkError) Is(target error) bool {
	return target == ErrNetwork
}

// wrapError converts internal errors to public errors so that errors.Is()
// checks work against the public sentinels.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	var derivErr *envelope.DerivationError
	if errors.As(err, &derivErr) {
		return &DerivationError{Reason: derivErr.Reason}
	}

	var formatErr *envelope.FormatError
	if errors.As(err, &formatErr) {
		reason := formatErr.Reason
		if formatErr.Field != "" {
			reason = fmt.Sprintf("field %q: %s", formatErr.Field, formatErr.Reason)
		}
		return &FormatError{Reason: reason}
	}

	var integrityErr *envelope.IntegrityError
	if errors.As(err, &integrityErr) {
		return &IntegrityError{}
	}

	var statusErr *api.StatusError
	if errors.As(err, &statusErr) {
		return &NetworkError{Err: statusErr, StatusCode: statusErr.StatusCode}
	}

	var netErr *api.NetworkError
	if errors.As(err, &netErr) {
		return &NetworkError{Err: netErr}
	}

	return err
}
