package envelope

import (
	"errors"
	"fmt"
)

var (
	// ErrDerivation is returned when key derivation inputs are invalid.
	ErrDerivation = errors.New("key derivation failed")

	// ErrFormat is returned when an envelope is structurally malformed or
	// the decrypted plaintext is not valid JSON.
	ErrFormat = errors.New("malformed envelope")

	// ErrIntegrity is returned when authentication of an envelope fails.
	ErrIntegrity = errors.New("integrity check failed")
)

// DerivationError indicates invalid inputs to the key derivation stack.
type DerivationError struct {
	Reason string
}

func (e *DerivationError) Error() string {
	return fmt.Sprintf("key derivation failed: %s", e.Reason)
}

// Is implements errors.Is for sentinel error matching.
func (e *DerivationError) Is(target error) bool {
	return target == ErrDerivation
}

// FormatError indicates a structurally invalid envelope or non-JSON plaintext.
type FormatError struct {
	Field  string
	Reason string
}

func (e *FormatError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("malformed envelope: field %q: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("malformed envelope: %s", e.Reason)
}

// Is implements errors.Is for sentinel error matching.
func (e *FormatError) Is(target error) bool {
	return target == ErrFormat
}

// IntegrityError indicates that envelope authentication failed. It carries
// no detail: a MAC mismatch and an AEAD tag failure must be presented
// identically to callers to avoid acting as a decryption oracle.
type IntegrityError struct{}

func (e *IntegrityError) Error() string {
	return "integrity check failed"
}

// Is implements errors.Is for sentinel error matching.
func (e *IntegrityError) Is(target error) bool {
	return target == ErrIntegrity
}
