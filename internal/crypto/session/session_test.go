// Copyright (c) 2025 Justin Cranford

package session

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	cryptoutilCryptoMnemonic "neurallog/internal/crypto/mnemonic"
	cryptoutilSharedApperr "neurallog/internal/shared/apperr"
)

func TestBootstrap_RecoveryPhrase(t *testing.T) {
	t.Parallel()

	s, err := Bootstrap("tenant-1", BootstrapOptions{RecoveryPhrase: "correct horse battery staple"})
	require.NoError(t, err)
	require.Equal(t, "v1", s.Hierarchy.CurrentVersion())
}

func TestBootstrap_Password(t *testing.T) {
	t.Parallel()

	a, err := Bootstrap("tenant-1", BootstrapOptions{Username: "alice", Password: "hunter2hunter2"})
	require.NoError(t, err)

	b, err := Bootstrap("tenant-1", BootstrapOptions{Username: "bob", Password: "hunter2hunter2"})
	require.NoError(t, err)

	keyA, err := a.Hierarchy.OpKEK("v1")
	require.NoError(t, err)

	keyB, err := b.Hierarchy.OpKEK("v1")
	require.NoError(t, err)

	require.Equal(t, keyA, keyB, "username must not affect the derived hierarchy")
}

func TestBootstrap_Mnemonic(t *testing.T) {
	t.Parallel()

	phrase, err := cryptoutilCryptoMnemonic.Generate(256)
	require.NoError(t, err)

	s, err := Bootstrap("tenant-1", BootstrapOptions{Mnemonic: phrase})
	require.NoError(t, err)
	require.Equal(t, "v1", s.Hierarchy.CurrentVersion())
}

func TestBootstrap_APIKey(t *testing.T) {
	t.Parallel()

	s, err := Bootstrap("tenant-1", BootstrapOptions{APIKey: "nl_live_abcdef0123456789"})
	require.NoError(t, err)
	require.Equal(t, "v1", s.Hierarchy.CurrentVersion())
}

func TestBootstrap_RejectsEmptyOptions(t *testing.T) {
	t.Parallel()

	_, err := Bootstrap("tenant-1", BootstrapOptions{})
	require.ErrorIs(t, err, cryptoutilSharedApperr.ErrCantBeEmpty)
}

func TestSession_EncryptDecryptLogsAndNames(t *testing.T) {
	t.Parallel()

	s, err := Bootstrap("tenant-1", BootstrapOptions{RecoveryPhrase: "correct horse battery staple"})
	require.NoError(t, err)

	payload, err := s.Logs.Encrypt([]byte("log entry"))
	require.NoError(t, err)

	plaintext, err := s.Logs.Decrypt(payload)
	require.NoError(t, err)
	require.Equal(t, []byte("log entry"), plaintext)

	encryptedName, err := s.Names.EncryptLogName("service-errors")
	require.NoError(t, err)

	name, err := s.Names.DecryptLogName(encryptedName)
	require.NoError(t, err)
	require.Equal(t, "service-errors", name)
}

func TestSession_MintAPIKey(t *testing.T) {
	t.Parallel()

	s, err := Bootstrap("tenant-1", BootstrapOptions{RecoveryPhrase: "correct horse battery staple"})
	require.NoError(t, err)

	apiKey, verificationHash, err := s.MintAPIKey("")
	require.NoError(t, err)
	require.NotEmpty(t, apiKey)
	require.NotEmpty(t, verificationHash)
}

func TestSession_RecoverVersions(t *testing.T) {
	t.Parallel()

	s, err := Bootstrap("tenant-1", BootstrapOptions{RecoveryPhrase: "correct horse battery staple"})
	require.NoError(t, err)

	require.NoError(t, s.RecoverVersions("v2"))
	require.True(t, s.Hierarchy.HasVersion("v2"))
}

// TestBootstrap_APIKeyLogRoundTrip is end-to-end scenario S2: bootstrapping
// from an API key and round-tripping a log payload through Logs.
func TestBootstrap_APIKeyLogRoundTrip(t *testing.T) {
	t.Parallel()

	apiKey := "k1." + strings.Repeat("A", 43) // base64url of 32 zero bytes

	s, err := Bootstrap("tenant-1", BootstrapOptions{APIKey: apiKey})
	require.NoError(t, err)

	payload, err := s.Logs.Encrypt([]byte(`{"msg":"hello"}`))
	require.NoError(t, err)

	plaintext, err := s.Logs.Decrypt(payload)
	require.NoError(t, err)
	require.JSONEq(t, `{"msg":"hello"}`, string(plaintext))
}

// TestSession_RotateThenReadRequiresRecovery is end-to-end scenario S5: a
// log stored under v1 is unreadable by a session that only recovered v2,
// until v1 is explicitly recovered too.
func TestSession_RotateThenReadRequiresRecovery(t *testing.T) {
	t.Parallel()

	before, err := Bootstrap("tenant-1", BootstrapOptions{RecoveryPhrase: "correct horse battery staple", Versions: []string{"v1"}})
	require.NoError(t, err)

	oldPayload, err := before.Logs.Encrypt([]byte("pre-rotation entry"))
	require.NoError(t, err)
	require.Equal(t, "v1", oldPayload.KEKVersion)

	after, err := Bootstrap("tenant-1", BootstrapOptions{RecoveryPhrase: "correct horse battery staple", Versions: []string{"v2"}})
	require.NoError(t, err)

	_, err = after.Logs.Decrypt(oldPayload)
	require.ErrorIs(t, err, cryptoutilSharedApperr.ErrUnknownKEKVersion)

	require.NoError(t, after.RecoverVersions("v1"))

	plaintext, err := after.Logs.Decrypt(oldPayload)
	require.NoError(t, err)
	require.Equal(t, []byte("pre-rotation entry"), plaintext)
}
