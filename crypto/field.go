package crypto

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math/bits"
)

// FieldOrder is the prime modulus for all share arithmetic: the Mersenne
// prime 2^61 - 1. Reduced elements fit in a uint64 and the product of two of
// them fits in a single 128-bit widening multiply, so no arbitrary-precision
// arithmetic is needed.
const FieldOrder uint64 = 1<<61 - 1

var (
	// ErrNoInverse is returned when the zero element is inverted.
	ErrNoInverse = errors.New("zero has no multiplicative inverse")

	// ErrRandomnessUnavailable wraps failures of the secure random source.
	// Fatal for the operation that hit it; callers should abort the round.
	ErrRandomnessUnavailable = errors.New("secure randomness unavailable")
)

// FieldAdd returns (a + b) mod FieldOrder. Operands must already be reduced.
func FieldAdd(a, b uint64) uint64 {
	// a, b < 2^61 so the sum cannot wrap a uint64.
	s := a + b
	if s >= FieldOrder {
		s -= FieldOrder
	}
	return s
}

// FieldSub returns (a - b) mod FieldOrder. Operands must already be reduced.
func FieldSub(a, b uint64) uint64 {
	if a >= b {
		return a - b
	}
	return a + FieldOrder - b
}

// FieldMul returns (a * b) mod FieldOrder. Operands must already be reduced.
func FieldMul(a, b uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	return bits.Rem64(hi, lo, FieldOrder)
}

// FieldInverse returns the multiplicative inverse of a modulo FieldOrder,
// computed with the extended Euclidean algorithm. Inverting zero returns
// ErrNoInverse.
func FieldInverse(a uint64) (uint64, error) {
	a %= FieldOrder
	if a == 0 {
		return 0, ErrNoInverse
	}

	// All intermediate magnitudes stay below 2^61, so signed 64-bit
	// arithmetic is exact here.
	var t, newT int64 = 0, 1
	var r, newR int64 = int64(FieldOrder), int64(a)
	for newR != 0 {
		q := r / newR
		t, newT = newT, t-q*newT
		r, newR = newR, r-q*newR
	}
	if t < 0 {
		t += int64(FieldOrder)
	}
	return uint64(t), nil
}

// RandomFieldElement draws a uniform element of [0, FieldOrder) from rng via
// rejection sampling. The Mersenne modulus doubles as the 61-bit mask, so
// only the all-ones draw is ever rejected.
func RandomFieldElement(rng io.Reader) (uint64, error) {
	var buf [8]byte
	for {
		if _, err := io.ReadFull(rng, buf[:]); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrRandomnessUnavailable, err)
		}
		v := binary.BigEndian.Uint64(buf[:]) & FieldOrder
		if v < FieldOrder {
			return v, nil
		}
	}
}
