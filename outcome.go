package statesync

import "encoding/json"

// ErrorClass is the structured discriminant carried by every load outcome.
// Fallback logic branches on it directly; error message text is never
// inspected.
type ErrorClass int

const (
	// ErrorNone means the load completed without error. State may still
	// be absent: a fresh bucket with no versions is not an error.
	ErrorNone ErrorClass = iota
	// ErrorNetwork means the store was unreachable or responded with an
	// unexpected HTTP status.
	ErrorNetwork
	// ErrorIntegrity means state exists remotely but no stored version
	// could be authenticated and decrypted.
	ErrorIntegrity
)

func (e ErrorClass) String() string {
	switch e {
	case ErrorNone:
		return "none"
	case ErrorNetwork:
		return "network"
	case ErrorIntegrity:
		return "integrity"
	default:
		return "unknown"
	}
}

// Outcome is the result of every load attempt. Load never returns a Go
// error; it collapses all internal failures into the Err discriminant.
type Outcome struct {
	// State is the recovered JSON state, or nil when absent.
	State json.RawMessage
	// Err classifies the failure, if any.
	Err ErrorClass
}

// HasState reports whether the outcome carries recovered state.
func (o Outcome) HasState() bool {
	return o.State != nil
}

// Unmarshal decodes the recovered state into v.
func (o Outcome) Unmarshal(v any) error {
	return json.Unmarshal(o.State, v)
}
