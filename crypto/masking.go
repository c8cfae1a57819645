package crypto

import (
	"encoding/binary"

	"golang.org/x/crypto/sha3"
)

// MaskSeedLength is the byte length of a session mask seed.
const MaskSeedLength = 32

// ExpandSeed deterministically stretches seed into length pseudorandom bytes
// by hashing seed || bigEndian64(counter) with SHA3-256 for counter = 0, 1,
// ... and concatenating the digests. Identical (seed, length) inputs always
// produce identical output.
func ExpandSeed(seed []byte, length int) []byte {
	if length <= 0 {
		return []byte{}
	}

	buf := make([]byte, len(seed)+8)
	copy(buf, seed)

	out := make([]byte, 0, length+32)
	for counter := uint64(0); len(out) < length; counter++ {
		binary.BigEndian.PutUint64(buf[len(seed):], counter)
		digest := sha3.Sum256(buf)
		out = append(out, digest[:]...)
	}
	return out[:length]
}

// MaskPayload XORs data with the seed-derived stream. XOR is self-inverse, so
// masking a masked payload with the same seed restores the original; this one
// primitive serves as both mask and unmask.
func MaskPayload(data, seed []byte) []byte {
	stream := ExpandSeed(seed, len(data))
	masked := make([]byte, len(data))
	for i := range data {
		masked[i] = data[i] ^ stream[i]
	}
	return masked
}

// XorInplace XORs src into dst byte by byte. dst must not be longer than src.
func XorInplace(dst, src []byte) {
	for i := range dst {
		dst[i] ^= src[i]
	}
}
