// Copyright (c) 2025 Justin Cranford

package digests

import (
	"errors"

	"golang.org/x/crypto/pbkdf2"

	cryptoutilSharedMagic "neurallog/internal/shared/magic"
)

var (
	ErrInvalidNilPassword = errors.New("password must not be nil")
	ErrInvalidEmptyPassword = errors.New("password must not be empty")
	ErrInvalidIterations    = errors.New("iterations must be positive")
)

// PBKDF2 derives length bytes from password/salt using the named digest and
// iteration count. Used for recovery-phrase Master Secret derivation; the
// mnemonic package derives its BIP-39 seed through go-bip39 instead.
func PBKDF2(password, salt []byte, iterations, length int, digestName string) ([]byte, error) {
	hasher, _, err := newHasher(digestName)
	if err != nil {
		return nil, err
	}

	if password == nil {
		return nil, ErrInvalidNilPassword
	}

	if len(password) == 0 {
		return nil, ErrInvalidEmptyPassword
	}

	if iterations <= 0 {
		return nil, ErrInvalidIterations
	}

	switch {
	case length < 0:
		return nil, ErrInvalidOutputBytesLengthNegative
	case length == 0:
		return nil, ErrInvalidOutputBytesLengthZero
	}

	key := pbkdf2.Key(password, salt, iterations, length, hasher)

	return key, nil
}

// PBKDF2MasterSecret derives the 32-byte Master Secret from a recovery
// phrase, per spec §4.3: PBKDF2(phrase, salt="NeuralLog-"<tenantId>"-MasterSecret", 100_000, SHA-256, 32).
func PBKDF2MasterSecret(phrase, tenantID string) ([]byte, error) {
	salt := []byte(cryptoutilSharedMagic.HKDFSaltMasterSecretPrefix + tenantID + "-MasterSecret")

	return PBKDF2([]byte(phrase), salt, cryptoutilSharedMagic.PBKDF2Iterations, cryptoutilSharedMagic.MasterSecretSize, cryptoutilSharedMagic.SHA256)
}
