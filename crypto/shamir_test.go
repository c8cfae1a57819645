package crypto

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/edgeml-ai/secagg-go/testutil"
)

func TestShamirRoundTrip(t *testing.T) {
	secrets := []uint64{42}
	shares, err := GenerateShares(secrets, 3, 5, rand.Reader)
	require.NoError(t, err)
	require.Len(t, shares, 5)
	for i, list := range shares {
		require.Len(t, list, 1)
		require.Equal(t, uint32(i+1), list[0].Index)
	}

	// Participants {1, 3, 5}
	subset := [][]Share{shares[0], shares[2], shares[4]}
	recovered, err := ReconstructSecrets(subset, 3)
	require.NoError(t, err)
	require.Equal(t, []uint64{42}, recovered)
}

func TestShamirAnySubsetRecovers(t *testing.T) {
	rng := testutil.SeededRand(7)
	secrets := []uint64{1, FieldOrder - 1, 7777777}

	shares, err := GenerateShares(secrets, 3, 5, rng)
	require.NoError(t, err)

	subsets := [][]int{
		{0, 1, 2}, {2, 3, 4}, {0, 2, 4}, {4, 1, 3}, {3, 0, 1},
	}
	for _, idxs := range subsets {
		subset := [][]Share{shares[idxs[0]], shares[idxs[1]], shares[idxs[2]]}
		recovered, err := ReconstructSecrets(subset, 3)
		require.NoError(t, err, "subset %v", idxs)
		require.Equal(t, secrets, recovered, "subset %v", idxs)
	}
}

func TestShamirThresholdExtremes(t *testing.T) {
	rng := testutil.SeededRand(8)

	// t = 1: every single share is the secret
	shares, err := GenerateShares([]uint64{99}, 1, 4, rng)
	require.NoError(t, err)
	for _, list := range shares {
		recovered, err := ReconstructSecrets([][]Share{list}, 1)
		require.NoError(t, err)
		require.Equal(t, []uint64{99}, recovered)
	}

	// t = n: all shares needed
	shares, err = GenerateShares([]uint64{12345}, 4, 4, rng)
	require.NoError(t, err)
	recovered, err := ReconstructSecrets(shares, 4)
	require.NoError(t, err)
	require.Equal(t, []uint64{12345}, recovered)
}

func TestShamirInsufficientShares(t *testing.T) {
	shares, err := GenerateShares([]uint64{42}, 3, 5, rand.Reader)
	require.NoError(t, err)

	_, err = ReconstructSecrets(shares[:2], 3)
	require.ErrorIs(t, err, ErrInsufficientShares)

	_, err = ReconstructSecrets(nil, 1)
	require.ErrorIs(t, err, ErrInsufficientShares)
}

func TestShamirInvalidParameters(t *testing.T) {
	_, err := GenerateShares([]uint64{1}, 0, 5, rand.Reader)
	require.Error(t, err)

	_, err = GenerateShares([]uint64{1}, 6, 5, rand.Reader)
	require.Error(t, err)

	_, err = ReconstructSecrets([][]Share{}, 0)
	require.Error(t, err)
}

func TestShamirDuplicateIndicesRejected(t *testing.T) {
	shares, err := GenerateShares([]uint64{42}, 2, 3, rand.Reader)
	require.NoError(t, err)

	_, err = ReconstructSecrets([][]Share{shares[0], shares[0]}, 2)
	require.Error(t, err)
}

func TestShamirRandomnessFailurePropagates(t *testing.T) {
	_, err := GenerateShares([]uint64{42}, 3, 5, &testutil.FaultyRand{Limit: 8})
	require.ErrorIs(t, err, ErrRandomnessUnavailable)
}

func TestShamirNoShareAtZero(t *testing.T) {
	shares, err := GenerateShares([]uint64{42, 43}, 2, 5, rand.Reader)
	require.NoError(t, err)
	for _, list := range shares {
		for _, sh := range list {
			require.NotZero(t, sh.Index)
		}
	}
}

func FuzzShamirRoundTrip(f *testing.F) {
	f.Add(uint64(0), 1, 1, int64(0))
	f.Add(uint64(42), 3, 5, int64(1))
	f.Add(FieldOrder-1, 5, 5, int64(2))

	f.Fuzz(func(t *testing.T, secret uint64, threshold, total int, seed int64) {
		secret %= FieldOrder
		if threshold < 1 || total < threshold || total > 16 {
			t.Skip()
		}

		shares, err := GenerateShares([]uint64{secret}, threshold, total, testutil.SeededRand(seed))
		if err != nil {
			t.Fatalf("generate: %v", err)
		}

		recovered, err := ReconstructSecrets(shares, threshold)
		if err != nil {
			t.Fatalf("reconstruct: %v", err)
		}
		if recovered[0] != secret {
			t.Errorf("recovered %d, want %d", recovered[0], secret)
		}

		// Last t lists must recover the same secret as the first t.
		recovered, err = ReconstructSecrets(shares[total-threshold:], threshold)
		if err != nil {
			t.Fatalf("reconstruct tail: %v", err)
		}
		if recovered[0] != secret {
			t.Errorf("tail subset recovered %d, want %d", recovered[0], secret)
		}
	})
}
