// Package crypto provides cryptographic primitives for client-side secure
// aggregation.
//
// This package implements the low-level operations the session protocol is
// built from:
//
//   - Field arithmetic over the Mersenne prime 2^61 - 1 (mask seed shares)
//   - Shamir secret sharing with Lagrange reconstruction at x = 0
//   - Deterministic seed expansion and XOR masking of opaque payloads
//   - Key encapsulation (X25519 + HKDF) and AES-GCM sealing for share
//     payloads handed to an untrusted relay
//
// Randomness is always drawn from an explicit io.Reader so tests can
// substitute deterministic sources; production callers pass crypto/rand.Reader.
// Note: field and polynomial math is not constant-time.
package crypto
