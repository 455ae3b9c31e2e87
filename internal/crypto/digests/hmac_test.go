// Copyright (c) 2025 Justin Cranford

package digests

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHMACSHA256_Deterministic(t *testing.T) {
	t.Parallel()

	key := []byte("key")
	data := []byte("data")

	require.Equal(t, HMACSHA256(key, data), HMACSHA256(key, data))
}

func TestHMACSHA256_KeySensitive(t *testing.T) {
	t.Parallel()

	data := []byte("data")
	require.NotEqual(t, HMACSHA256([]byte("key-a"), data), HMACSHA256([]byte("key-b"), data))
}

func TestConstantTimeCompare(t *testing.T) {
	t.Parallel()

	mac := HMACSHA256([]byte("key"), []byte("data"))

	require.True(t, ConstantTimeCompare(mac, mac))
	require.False(t, ConstantTimeCompare(mac, HMACSHA256([]byte("key"), []byte("other"))))
}

func TestHMAC_UnknownDigest(t *testing.T) {
	t.Parallel()

	_, err := HMAC("SHA1", []byte("key"), []byte("data"))
	require.ErrorIs(t, err, ErrInvalidNilDigestFunction)
}
