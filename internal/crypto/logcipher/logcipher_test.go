// Copyright (c) 2025 Justin Cranford

package logcipher

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

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	t.Parallel()

	h := newTestHierarchy(t)
	cipher := New(h)

	payload, err := cipher.Encrypt([]byte("log line one"))
	require.NoError(t, err)
	require.Equal(t, "v1", payload.KEKVersion)
	require.NotEmpty(t, payload.IV)
	require.NotEmpty(t, payload.Data)

	plaintext, err := cipher.Decrypt(payload)
	require.NoError(t, err)
	require.Equal(t, []byte("log line one"), plaintext)
}

func TestDecrypt_LegacyPayloadWithoutKEKVersionUsesCurrent(t *testing.T) {
	t.Parallel()

	h := newTestHierarchy(t)
	cipher := New(h)

	payload, err := cipher.Encrypt([]byte("legacy entry"))
	require.NoError(t, err)

	legacy := &Payload{IV: payload.IV, Data: payload.Data}

	plaintext, err := cipher.Decrypt(legacy)
	require.NoError(t, err)
	require.Equal(t, []byte("legacy entry"), plaintext)
}

func TestEncrypt_RejectsWhenNoActiveKEK(t *testing.T) {
	t.Parallel()

	h := cryptoutilCryptoKeyhierarchy.New("tenant-1")
	cipher := New(h)

	_, err := cipher.Encrypt([]byte("data"))
	require.ErrorIs(t, err, cryptoutilSharedApperr.ErrNoActiveKEK)
}

func TestDecrypt_UnknownVersionFails(t *testing.T) {
	t.Parallel()

	h := newTestHierarchy(t)
	cipher := New(h)

	payload, err := cipher.Encrypt([]byte("data"))
	require.NoError(t, err)

	payload.KEKVersion = "v99"

	_, err = cipher.Decrypt(payload)
	require.ErrorIs(t, err, cryptoutilSharedApperr.ErrUnknownKEKVersion)
}

func TestReencrypt_MovesPayloadToNewVersion(t *testing.T) {
	t.Parallel()

	h := newTestHierarchy(t)
	cipher := New(h)

	original, err := cipher.Encrypt([]byte("rotate me"))
	require.NoError(t, err)

	newVersion, err := h.Rotate("scheduled")
	require.NoError(t, err)

	reencrypted, err := cipher.Reencrypt(original, "v1", newVersion)
	require.NoError(t, err)
	require.Equal(t, newVersion, reencrypted.KEKVersion)

	plaintext, err := cipher.Decrypt(reencrypted)
	require.NoError(t, err)
	require.Equal(t, []byte("rotate me"), plaintext)
}

// TestRotate_PreservesOldCiphertextProperty is spec invariant 7: rotating
// the hierarchy never invalidates payloads already encrypted under a prior
// version, and newly encrypted payloads are stamped with the new version.
func TestRotate_PreservesOldCiphertextProperty(t *testing.T) {
	t.Parallel()

	h := newTestHierarchy(t)
	cipher := New(h)

	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)

	properties.Property("rotation preserves old payloads and stamps new ones", prop.ForAll(
		func(plaintext []byte) bool {
			before, err := cipher.Encrypt(plaintext)
			if err != nil {
				return false
			}

			newVersion, err := h.Rotate("property test")
			if err != nil {
				return false
			}

			after, err := cipher.Encrypt(plaintext)
			if err != nil {
				return false
			}

			if after.KEKVersion != newVersion {
				return false
			}

			decodedOld, err := cipher.Decrypt(before)
			if err != nil {
				return false
			}

			return string(decodedOld) == string(plaintext)
		},
		gen.SliceOf(gen.UInt8Range(0, 255)),
	))

	properties.TestingRun(t)
}
