package testutil

import (
	"crypto/rand"
	"errors"
	"io"
	unsafe_rand "math/rand"
)

// SeededRand returns a deterministic byte source for tests that need
// reproducible randomness. Not cryptographically secure.
func SeededRand(seed int64) io.Reader {
	return unsafe_rand.New(unsafe_rand.NewSource(seed))
}

// ErrEntropy is the error returned by FaultyRand.
var ErrEntropy = errors.New("entropy source broken")

// FaultyRand is a byte source that fails after Limit bytes. A zero value
// fails immediately.
type FaultyRand struct {
	Limit int
	read  int
}

func (f *FaultyRand) Read(p []byte) (int, error) {
	if f.read >= f.Limit {
		return 0, ErrEntropy
	}
	n := f.Limit - f.read
	if n > len(p) {
		n = len(p)
	}
	for i := 0; i < n; i++ {
		p[i] = byte(f.read + i)
	}
	f.read += n
	return n, nil
}

// RandomBytes generates a slice of random bytes with the specified length.
func RandomBytes(length int) []byte {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return buf
}
