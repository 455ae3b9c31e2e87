// Copyright (c) 2025 Justin Cranford

package shamir

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"

	cryptoutilSharedApperr "neurallog/internal/shared/apperr"
)

func TestSplitReconstruct_ExactThreshold(t *testing.T) {
	t.Parallel()

	secret := []byte("master secret material 1234567890")

	shares, err := Split(secret, 5, 3)
	require.NoError(t, err)
	require.Len(t, shares, 5)

	recovered, err := Reconstruct(shares[:3], 3, len(secret))
	require.NoError(t, err)
	require.Equal(t, secret, recovered)
}

func TestSplitReconstruct_AnyThresholdSubset(t *testing.T) {
	t.Parallel()

	secret := []byte{0x01, 0x02, 0x03, 0xFF, 0x00}

	shares, err := Split(secret, 5, 3)
	require.NoError(t, err)

	subset := []Share{shares[0], shares[2], shares[4]}

	recovered, err := Reconstruct(subset, 3, len(secret))
	require.NoError(t, err)
	require.Equal(t, secret, recovered)
}

func TestReconstruct_InsufficientShares(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")

	shares, err := Split(secret, 5, 3)
	require.NoError(t, err)

	_, err = Reconstruct(shares[:2], 3, len(secret))
	require.ErrorIs(t, err, cryptoutilSharedApperr.ErrInsufficientShares)
}

func TestReconstruct_DuplicateXRejected(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")

	shares, err := Split(secret, 5, 3)
	require.NoError(t, err)

	dup := []Share{shares[0], shares[0], shares[1]}

	_, err = Reconstruct(dup, 3, len(secret))
	require.ErrorIs(t, err, cryptoutilSharedApperr.ErrDuplicateShareX)
}

func TestSplit_RejectsEmptySecret(t *testing.T) {
	t.Parallel()

	_, err := Split(nil, 5, 3)
	require.ErrorIs(t, err, cryptoutilSharedApperr.ErrCantBeEmpty)
}

func TestSplit_RejectsThresholdOutOfRange(t *testing.T) {
	t.Parallel()

	_, err := Split([]byte("secret"), 3, 4)
	require.ErrorIs(t, err, cryptoutilSharedApperr.ErrInvalidShareLength)
}

func TestReconstruct_RejectsWrongShareLength(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")

	shares, err := Split(secret, 5, 3)
	require.NoError(t, err)

	bad := append([]Share(nil), shares[:3]...)
	bad[0].Y = append(bad[0].Y, 0x00)

	_, err = Reconstruct(bad, 3, len(secret))
	require.ErrorIs(t, err, cryptoutilSharedApperr.ErrInvalidShareLength)
}

// TestSplitReconstructProperty checks that any secret, split with any valid
// (n, threshold) pair, reconstructs from any threshold-sized subset of shares.
func TestSplitReconstructProperty(t *testing.T) {
	t.Parallel()

	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)

	properties.Property("split then reconstruct from threshold shares recovers secret", prop.ForAll(
		func(secret []byte, n int) bool {
			if len(secret) == 0 {
				secret = []byte{0x00}
			}

			threshold := n/2 + 1

			shares, err := Split(secret, n, threshold)
			if err != nil {
				return false
			}

			recovered, err := Reconstruct(shares[:threshold], threshold, len(secret))
			if err != nil {
				return false
			}

			return string(recovered) == string(secret)
		},
		gen.SliceOf(gen.UInt8Range(0, 255)).Map(func(bs []uint8) []byte {
			out := make([]byte, len(bs))
			for i, b := range bs {
				out[i] = byte(b)
			}

			return out
		}),
		gen.IntRange(2, 8),
	))

	properties.TestingRun(t)
}
