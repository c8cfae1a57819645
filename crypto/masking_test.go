package crypto

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/edgeml-ai/secagg-go/testutil"
)

func TestExpandSeedDeterministic(t *testing.T) {
	seed := testutil.RandomBytes(MaskSeedLength)
	for _, length := range []int{1, 31, 32, 33, 100, 4096} {
		a := ExpandSeed(seed, length)
		b := ExpandSeed(seed, length)
		require.Len(t, a, length)
		require.Equal(t, a, b)
	}
}

func TestExpandSeedPrefixConsistent(t *testing.T) {
	// Longer expansions extend shorter ones of the same seed.
	seed := []byte("fixed-seed")
	short := ExpandSeed(seed, 40)
	long := ExpandSeed(seed, 100)
	require.Equal(t, short, long[:40])
}

func TestExpandSeedDistinctSeeds(t *testing.T) {
	a := ExpandSeed([]byte{1}, 64)
	b := ExpandSeed([]byte{2}, 64)
	require.NotEqual(t, a, b)
}

func TestExpandSeedZeroLength(t *testing.T) {
	require.Empty(t, ExpandSeed([]byte{1, 2, 3}, 0))
	require.Empty(t, ExpandSeed([]byte{1, 2, 3}, -1))
}

func TestMaskPayloadSelfInverse(t *testing.T) {
	seed := testutil.RandomBytes(MaskSeedLength)
	data := []byte{0x01, 0x02, 0x03, 0x04}

	masked := MaskPayload(data, seed)
	require.Len(t, masked, len(data))
	require.NotEqual(t, data, masked)

	unmasked := MaskPayload(masked, seed)
	require.Equal(t, data, unmasked)
}

func TestMaskPayloadLeavesInputIntact(t *testing.T) {
	seed := []byte("seed")
	data := []byte{9, 9, 9, 9}
	orig := bytes.Clone(data)
	_ = MaskPayload(data, seed)
	require.Equal(t, orig, data)
}

func TestXorInplace(t *testing.T) {
	dst := []byte{0xff, 0x00, 0xaa}
	XorInplace(dst, []byte{0x0f, 0xf0, 0xaa})
	require.Equal(t, []byte{0xf0, 0xf0, 0x00}, dst)
}

func FuzzMaskPayload(f *testing.F) {
	f.Add([]byte{1, 2, 3, 4}, []byte{0})
	f.Add([]byte{}, []byte("seed"))
	f.Add(make([]byte, 100), make([]byte, 32))

	f.Fuzz(func(t *testing.T, data, seed []byte) {
		masked := MaskPayload(data, seed)

		// Invariant 1: length preserved
		if len(masked) != len(data) {
			t.Fatalf("length changed: %d -> %d", len(data), len(masked))
		}

		// Invariant 2: masking twice is the identity
		restored := MaskPayload(masked, seed)
		if !bytes.Equal(restored, data) {
			t.Errorf("double mask did not restore input")
		}

		// Invariant 3: the mask is the expanded stream
		stream := ExpandSeed(seed, len(data))
		for i := range data {
			if masked[i] != data[i]^stream[i] {
				t.Fatalf("byte %d not XORed with stream", i)
			}
		}
	})
}
