package crypto

import (
	"bytes"
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/edgeml-ai/secagg-go/testutil"
)

func TestFieldAdd(t *testing.T) {
	require.Equal(t, uint64(5), FieldAdd(2, 3))
	require.Equal(t, uint64(0), FieldAdd(FieldOrder-1, 1))
	require.Equal(t, FieldOrder-2, FieldAdd(FieldOrder-1, FieldOrder-1))
}

func TestFieldSub(t *testing.T) {
	require.Equal(t, uint64(1), FieldSub(3, 2))
	require.Equal(t, FieldOrder-1, FieldSub(0, 1))
	require.Equal(t, uint64(0), FieldSub(FieldOrder-1, FieldOrder-1))
}

func TestFieldMul(t *testing.T) {
	require.Equal(t, uint64(6), FieldMul(2, 3))
	// (p-1)^2 = p^2 - 2p + 1 = 1 (mod p)
	require.Equal(t, uint64(1), FieldMul(FieldOrder-1, FieldOrder-1))
	require.Equal(t, uint64(0), FieldMul(FieldOrder-1, 0))
}

func TestFieldInverse(t *testing.T) {
	rng := testutil.SeededRand(1)

	samples := []uint64{1, 2, 3, 12345, FieldOrder - 1}
	for i := 0; i < 50; i++ {
		v, err := RandomFieldElement(rng)
		require.NoError(t, err)
		if v != 0 {
			samples = append(samples, v)
		}
	}

	for _, a := range samples {
		inv, err := FieldInverse(a)
		require.NoError(t, err)
		require.Less(t, inv, FieldOrder)
		require.Equal(t, uint64(1), FieldMul(a, inv), "a=%d", a)
	}
}

func TestFieldInverseOfZero(t *testing.T) {
	_, err := FieldInverse(0)
	require.ErrorIs(t, err, ErrNoInverse)

	_, err = FieldInverse(FieldOrder)
	require.ErrorIs(t, err, ErrNoInverse)
}

func TestRandomFieldElementDeterministic(t *testing.T) {
	a, err := RandomFieldElement(bytes.NewReader([]byte{1, 2, 3, 4, 5, 6, 7, 8}))
	require.NoError(t, err)
	b, err := RandomFieldElement(bytes.NewReader([]byte{1, 2, 3, 4, 5, 6, 7, 8}))
	require.NoError(t, err)
	require.Equal(t, a, b)
	require.Less(t, a, FieldOrder)
}

func TestRandomFieldElementRejectsAllOnes(t *testing.T) {
	// First 8 bytes mask down to exactly FieldOrder and must be rejected;
	// the next draw is 1.
	src := bytes.NewReader([]byte{
		0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
		0, 0, 0, 0, 0, 0, 0, 1,
	})
	v, err := RandomFieldElement(src)
	require.NoError(t, err)
	require.Equal(t, uint64(1), v)
}

func TestRandomFieldElementSourceFailure(t *testing.T) {
	_, err := RandomFieldElement(&testutil.FaultyRand{})
	require.ErrorIs(t, err, ErrRandomnessUnavailable)

	// Partial reads surface the same way.
	_, err = RandomFieldElement(&testutil.FaultyRand{Limit: 3})
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrRandomnessUnavailable))
}

func FuzzFieldAdd(f *testing.F) {
	f.Add(uint64(0), uint64(0))
	f.Add(uint64(1), FieldOrder-1)
	f.Add(FieldOrder-1, FieldOrder-1)

	f.Fuzz(func(t *testing.T, a, b uint64) {
		a %= FieldOrder
		b %= FieldOrder

		result := FieldAdd(a, b)

		// Invariant 1: result is in range [0, FieldOrder)
		if result >= FieldOrder {
			t.Errorf("result >= field order: %d", result)
		}

		// Invariant 2: result matches big.Int reference
		expected := new(big.Int).Add(new(big.Int).SetUint64(a), new(big.Int).SetUint64(b))
		expected.Mod(expected, new(big.Int).SetUint64(FieldOrder))
		if result != expected.Uint64() {
			t.Errorf("incorrect result: got %d, want %d", result, expected.Uint64())
		}

		// Invariant 3: commutativity
		if result != FieldAdd(b, a) {
			t.Errorf("commutativity failed for %d + %d", a, b)
		}

		// Invariant 4: subtraction undoes addition
		if FieldSub(result, b) != a {
			t.Errorf("(%d + %d) - %d != %d", a, b, b, a)
		}
	})
}

func FuzzFieldMul(f *testing.F) {
	f.Add(uint64(0), uint64(0))
	f.Add(uint64(2), uint64(3))
	f.Add(FieldOrder-1, FieldOrder-1)

	f.Fuzz(func(t *testing.T, a, b uint64) {
		a %= FieldOrder
		b %= FieldOrder

		result := FieldMul(a, b)

		if result >= FieldOrder {
			t.Errorf("result >= field order: %d", result)
		}

		expected := new(big.Int).Mul(new(big.Int).SetUint64(a), new(big.Int).SetUint64(b))
		expected.Mod(expected, new(big.Int).SetUint64(FieldOrder))
		if result != expected.Uint64() {
			t.Errorf("incorrect result: got %d, want %d", result, expected.Uint64())
		}

		if result != FieldMul(b, a) {
			t.Errorf("commutativity failed for %d * %d", a, b)
		}

		// Multiplying by an inverse cancels
		if b != 0 {
			inv, err := FieldInverse(b)
			if err != nil {
				t.Fatalf("inverse of %d: %v", b, err)
			}
			if FieldMul(result, inv) != a {
				t.Errorf("(%d * %d) * %d^-1 != %d", a, b, b, a)
			}
		}
	})
}
