// Package protocol implements the client side of the secure-aggregation
// (SecAgg+) round protocol used to hand a locally trained model update to an
// aggregation server without revealing the raw update.
//
// # Client Workflow
//
// A Session walks a strict four-step state machine, one active session per
// client:
//
//  1. BeginSession: the coordinator assigns a session id, a 1-based client
//     index and the round configuration; the client draws a fresh 32-byte
//     mask seed.
//  2. GenerateKeyShares: the mask seed is chunked into field elements and
//     Shamir-shared with threshold t across all n participants; the client
//     returns the serialized share bundle for the server to distribute.
//  3. MaskModelUpdate: the opaque weight delta is XORed with the stream
//     expanded from the mask seed and uploaded in place of the raw update.
//  4. ProvideUnmaskingShares: once the server reports which clients never
//     delivered an update, the client emits its unmasking report so the
//     server can reconstruct absent seeds from the collected shares and
//     strip each mask individually.
//
// Reset returns a session to idle from any phase and is the only
// cancellation primitive. Out-of-order calls fail with ErrPhaseViolation and
// leave the session untouched.
//
// # Masking Scheme
//
// Each client applies a single self-derived mask and later helps the server
// reveal individual seeds. This is deliberately the captured variant of the
// protocol, not canonical pairwise SecAgg where masks cancel under
// summation: the server here can unmask any single client whose share
// bundle it holds once the threshold cooperates. The privacy guarantee is
// correspondingly weaker and holds only against a server that follows the
// reveal policy.
//
// # Wire Format
//
// Share bundles use a big-endian, length-prefixed binary layout (see
// encoding.go); everything else crosses the wire as JSON envelopes.
package protocol
