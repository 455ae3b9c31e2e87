// Copyright (c) 2025 Justin Cranford

package digests

import (
	"crypto/hmac"
	"crypto/sha256"
)

// HMAC computes HMAC(key, data) using the named digest (SHA256/SHA384/SHA512).
func HMAC(digestName string, key, data []byte) ([]byte, error) {
	hasher, _, err := newHasher(digestName)
	if err != nil {
		return nil, err
	}

	mac := hmac.New(hasher, key)
	mac.Write(data)

	return mac.Sum(nil), nil
}

// HMACSHA256 is the common-case shorthand: every HMAC use in the key
// hierarchy, NameCipher, and ApiKeyAuth is HMAC-SHA256.
func HMACSHA256(key, data []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(data)

	return mac.Sum(nil)
}

// ConstantTimeCompare wraps hmac.Equal for verification-hash comparisons.
func ConstantTimeCompare(a, b []byte) bool {
	return hmac.Equal(a, b)
}
