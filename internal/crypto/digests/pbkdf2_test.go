// Copyright (c) 2025 Justin Cranford

package digests

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPBKDF2MasterSecret_Deterministic(t *testing.T) {
	t.Parallel()

	a, err := PBKDF2MasterSecret("correct horse battery staple", "tenant-1")
	require.NoError(t, err)
	require.Len(t, a, 32)

	b, err := PBKDF2MasterSecret("correct horse battery staple", "tenant-1")
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestPBKDF2MasterSecret_TenantIsolation(t *testing.T) {
	t.Parallel()

	a, err := PBKDF2MasterSecret("same phrase", "tenant-a")
	require.NoError(t, err)

	b, err := PBKDF2MasterSecret("same phrase", "tenant-b")
	require.NoError(t, err)

	require.NotEqual(t, a, b)
}

func TestPBKDF2_RejectsEmptyPassword(t *testing.T) {
	t.Parallel()

	_, err := PBKDF2([]byte{}, []byte("salt"), 1000, 32, "SHA256")
	require.ErrorIs(t, err, ErrInvalidEmptyPassword)
}

func TestPBKDF2_RejectsNonPositiveIterations(t *testing.T) {
	t.Parallel()

	_, err := PBKDF2([]byte("password"), []byte("salt"), 0, 32, "SHA256")
	require.ErrorIs(t, err, ErrInvalidIterations)
}
