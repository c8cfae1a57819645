package crypto

import (
	"errors"
	"fmt"
	"io"
)

// Share is a single Shamir share: the evaluation of a secret polynomial at a
// participant's 1-based index. Index 0 is the secret's own evaluation point
// and never leaves the dealer.
type Share struct {
	Index uint32
	Value uint64
}

// ErrInsufficientShares is returned when fewer share lists than the
// reconstruction threshold are supplied. The caller must gather more shares
// before retrying; reconstructing below the threshold is never attempted.
var ErrInsufficientShares = errors.New("not enough shares to reconstruct")

// GenerateShares splits each secret into totalShares shares with
// reconstruction threshold t. For every secret a random polynomial of degree
// t-1 with the secret as constant term is evaluated at x = 1..totalShares.
// The outer result index is the participant (0..totalShares-1); participant i
// receives one share per secret, all at index i+1.
func GenerateShares(secrets []uint64, threshold, totalShares int, rng io.Reader) ([][]Share, error) {
	if threshold < 1 || threshold > totalShares {
		return nil, fmt.Errorf("threshold %d outside [1, %d]", threshold, totalShares)
	}

	out := make([][]Share, totalShares)
	for i := range out {
		out[i] = make([]Share, 0, len(secrets))
	}

	coeffs := make([]uint64, threshold)
	for _, secret := range secrets {
		coeffs[0] = secret % FieldOrder
		for j := 1; j < threshold; j++ {
			c, err := RandomFieldElement(rng)
			if err != nil {
				return nil, err
			}
			coeffs[j] = c
		}

		for i := 0; i < totalShares; i++ {
			out[i] = append(out[i], Share{
				Index: uint32(i + 1),
				Value: evalPoly(coeffs, uint64(i+1)),
			})
		}
	}

	return out, nil
}

// evalPoly evaluates coeffs[0] + coeffs[1]*x + ... with Horner's rule.
func evalPoly(coeffs []uint64, x uint64) uint64 {
	var y uint64
	for j := len(coeffs) - 1; j >= 0; j-- {
		y = FieldAdd(FieldMul(y, x), coeffs[j])
	}
	return y
}

// ReconstructSecrets recovers the shared secrets from the share lists of at
// least threshold participants, interpolating each secret's polynomial at
// x = 0. Exactly the first threshold lists are used; any t correct lists
// recover the same secrets. Each list must come from one participant: all its
// shares carry that participant's index, one share per secret.
func ReconstructSecrets(shares [][]Share, threshold int) ([]uint64, error) {
	if threshold < 1 {
		return nil, fmt.Errorf("threshold %d is not positive", threshold)
	}
	if len(shares) < threshold {
		return nil, fmt.Errorf("%w: have %d lists, need %d", ErrInsufficientShares, len(shares), threshold)
	}

	chosen := shares[:threshold]
	nSecrets := len(chosen[0])
	for _, list := range chosen {
		if len(list) != nSecrets {
			return nil, fmt.Errorf("ragged share lists: %d vs %d shares", len(list), nSecrets)
		}
		for _, sh := range list {
			if sh.Index != list[0].Index {
				return nil, fmt.Errorf("mixed participant indices %d and %d in one list", list[0].Index, sh.Index)
			}
		}
	}
	if nSecrets == 0 {
		return []uint64{}, nil
	}

	// The Lagrange basis at x = 0 depends only on the participant indices;
	// compute it once and reuse it for every secret.
	basis := make([]uint64, threshold)
	for i := range chosen {
		xi := uint64(chosen[i][0].Index)
		num, den := uint64(1), uint64(1)
		for j := range chosen {
			if j == i {
				continue
			}
			xj := uint64(chosen[j][0].Index)
			num = FieldMul(num, FieldSub(0, xj))
			den = FieldMul(den, FieldSub(xi, xj))
		}
		inv, err := FieldInverse(den)
		if err != nil {
			return nil, fmt.Errorf("duplicate share index %d", xi)
		}
		basis[i] = FieldMul(num, inv)
	}

	secrets := make([]uint64, nSecrets)
	for k := range secrets {
		var acc uint64
		for i := range chosen {
			acc = FieldAdd(acc, FieldMul(basis[i], chosen[i][k].Value%FieldOrder))
		}
		secrets[k] = acc
	}
	return secrets, nil
}
