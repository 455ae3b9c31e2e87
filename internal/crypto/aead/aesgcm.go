// Copyright (c) 2025 Justin Cranford

package aead

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"

	cryptoutilSharedApperr "neurallog/internal/shared/apperr"
	cryptoutilSharedMagic "neurallog/internal/shared/magic"
)

// Encrypt runs AES-256-GCM over plaintext with the given 32-byte key and
// 12-byte iv, returning ciphertext||16-byte-tag. No additional authenticated
// data is used; the caller (LogCipher/NameCipher) authenticates structure by
// binding the iv itself to context (plaintext, for NameCipher's deterministic
// scheme).
func Encrypt(key, iv, plaintext []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", cryptoutilSharedApperr.ErrEncryptionFailed, err)
	}

	if len(iv) != cryptoutilSharedMagic.AESGCMNonceSize {
		return nil, fmt.Errorf("%w: iv must be %d bytes", cryptoutilSharedApperr.ErrEncryptionFailed, cryptoutilSharedMagic.AESGCMNonceSize)
	}

	return gcm.Seal(nil, iv, plaintext, nil), nil
}

// Decrypt inverts Encrypt. Any tag mismatch or malformed input returns
// ErrDecryptionFailed; the underlying AEAD's constant-time tag comparison is
// relied on, not reimplemented here.
func Decrypt(key, iv, ciphertextTag []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", cryptoutilSharedApperr.ErrDecryptionFailed, err)
	}

	if len(iv) != cryptoutilSharedMagic.AESGCMNonceSize {
		return nil, fmt.Errorf("%w: iv must be %d bytes", cryptoutilSharedApperr.ErrDecryptionFailed, cryptoutilSharedMagic.AESGCMNonceSize)
	}

	plaintext, err := gcm.Open(nil, iv, ciphertextTag, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", cryptoutilSharedApperr.ErrDecryptionFailed, err)
	}

	return plaintext, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != cryptoutilSharedMagic.AESGCMKeySize {
		return nil, fmt.Errorf("key must be %d bytes, got %d", cryptoutilSharedMagic.AESGCMKeySize, len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	return cipher.NewGCM(block)
}
