// Copyright (c) 2025 Justin Cranford

package apikeyauth

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"

	cryptoutilCryptoKeyhierarchy "neurallog/internal/crypto/keyhierarchy"
	cryptoutilSharedApperr "neurallog/internal/shared/apperr"
)

func newTestHierarchy(t *testing.T) *cryptoutilCryptoKeyhierarchy.Hierarchy {
	t.Helper()

	h, err := cryptoutilCryptoKeyhierarchy.InitWithRecoveryPhrase("tenant-1", "correct horse battery staple", nil)
	require.NoError(t, err)

	return h
}

func TestNewKeyID_ProducesDistinctIDs(t *testing.T) {
	t.Parallel()

	a, err := NewKeyID()
	require.NoError(t, err)

	b, err := NewKeyID()
	require.NoError(t, err)

	require.NotEqual(t, a, b)
	require.Len(t, a, 32)
}

func TestMint_ProducesVerifiableKey(t *testing.T) {
	t.Parallel()

	h := newTestHierarchy(t)

	keyID, err := NewKeyID()
	require.NoError(t, err)

	apiKey, verificationHash, err := Mint(h, "v1", keyID)
	require.NoError(t, err)
	require.Contains(t, apiKey, keyID+".")
	require.True(t, VerifyHash(apiKey, verificationHash))
}

func TestMint_UnknownVersionFails(t *testing.T) {
	t.Parallel()

	h := newTestHierarchy(t)

	_, _, err := Mint(h, "v99", "key-id")
	require.ErrorIs(t, err, cryptoutilSharedApperr.ErrUnknownKEKVersion)
}

func TestVerifyHash_RejectsWrongKey(t *testing.T) {
	t.Parallel()

	h := newTestHierarchy(t)

	keyID, err := NewKeyID()
	require.NoError(t, err)

	apiKey, verificationHash, err := Mint(h, "v1", keyID)
	require.NoError(t, err)

	require.False(t, VerifyHash(apiKey+"x", verificationHash))
}

func TestProveVerifyProof_RoundTrip(t *testing.T) {
	t.Parallel()

	h := newTestHierarchy(t)

	keyID, err := NewKeyID()
	require.NoError(t, err)

	apiKey, _, err := Mint(h, "v1", keyID)
	require.NoError(t, err)

	proof, err := Prove(apiKey)
	require.NoError(t, err)
	require.True(t, VerifyProof(apiKey, proof))
}

func TestVerifyProof_RejectsWrongKey(t *testing.T) {
	t.Parallel()

	h := newTestHierarchy(t)

	keyID, err := NewKeyID()
	require.NoError(t, err)

	apiKey, _, err := Mint(h, "v1", keyID)
	require.NoError(t, err)

	proof, err := Prove(apiKey)
	require.NoError(t, err)
	require.False(t, VerifyProof(apiKey+"tampered", proof))
}

func TestProve_NoncesAreDistinct(t *testing.T) {
	t.Parallel()

	a, err := Prove("api-key")
	require.NoError(t, err)

	b, err := Prove("api-key")
	require.NoError(t, err)

	require.NotEqual(t, a.Nonce, b.Nonce)
}

func TestMarshalUnmarshalProof_RoundTrip(t *testing.T) {
	t.Parallel()

	proof, err := Prove("api-key")
	require.NoError(t, err)

	data, err := MarshalProof(proof)
	require.NoError(t, err)

	decoded, err := UnmarshalProof(data)
	require.NoError(t, err)
	require.Equal(t, proof, decoded)
}

func TestSplitAPIKey_Succeeds(t *testing.T) {
	t.Parallel()

	keyID, signature, err := SplitAPIKey("key123.signaturepart")
	require.NoError(t, err)
	require.Equal(t, "key123", keyID)
	require.Equal(t, "signaturepart", signature)
}

func TestSplitAPIKey_RejectsMissingSeparator(t *testing.T) {
	t.Parallel()

	_, _, err := SplitAPIKey("no-separator-here")
	require.ErrorIs(t, err, cryptoutilSharedApperr.ErrInvalidCiphertextFormat)
}

// TestVerifyHash_Property is spec invariant 9: VerifyHash accepts the
// correct (apiKey, hash) pair and rejects it as soon as either side is
// perturbed by even one bit.
func TestVerifyHash_Property(t *testing.T) {
	t.Parallel()

	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)

	properties.Property("verification hash accepts only the exact key and rejects any perturbation", prop.ForAll(
		func(raw []byte, flipBit uint8) bool {
			apiKey := nonEmptyKey(raw)
			hash := VerificationHashOf(apiKey)

			if !VerifyHash(apiKey, hash) {
				return false
			}

			if flipBit == 0 {
				flipBit = 1
			}

			tamperedKeyBytes := []byte(apiKey)
			tamperedKeyBytes[0] ^= flipBit
			tamperedKey := string(tamperedKeyBytes)

			if VerifyHash(tamperedKey, hash) {
				return false
			}

			tamperedHashBytes := []byte(hash)
			tamperedHashBytes[0] ^= flipBit
			tamperedHash := string(tamperedHashBytes)

			return !VerifyHash(apiKey, tamperedHash)
		},
		gen.SliceOf(gen.UInt8Range(33, 126)),
		gen.UInt8Range(1, 255),
	))

	properties.TestingRun(t)
}

func nonEmptyKey(raw []byte) string {
	if len(raw) == 0 {
		return "x"
	}

	return string(raw)
}
