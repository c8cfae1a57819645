package protocol

import "errors"

// Protocol failure taxonomy. Every failure a session or codec operation
// returns wraps one of these (or one of the crypto package sentinels), so
// callers branch with errors.Is and handle each mode exhaustively.
var (
	// ErrPhaseViolation is returned when an operation is invoked while the
	// session is not in its required phase. Non-retryable: call in order or
	// Reset.
	ErrPhaseViolation = errors.New("operation not valid in current phase")

	// ErrMalformedWireData is returned when deserialization encounters a
	// length field inconsistent with the remaining buffer, or otherwise
	// untrusted input that cannot be accepted. The data is rejected rather
	// than partially recovered.
	ErrMalformedWireData = errors.New("malformed wire data")
)
