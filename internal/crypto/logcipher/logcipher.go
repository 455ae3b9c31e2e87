// Copyright (c) 2025 Justin Cranford

// Package logcipher implements spec §4.4: authenticated encryption of log
// payloads with per-version embedded metadata, and re-encryption across
// versions for rotation fan-out.
package logcipher

import (
	"fmt"

	cryptoutilCryptoAead "neurallog/internal/crypto/aead"
	cryptoutilCryptoKeyhierarchy "neurallog/internal/crypto/keyhierarchy"
	cryptoutilSharedApperr "neurallog/internal/shared/apperr"
	cryptoutilSharedCodec "neurallog/internal/shared/codec"
	cryptoutilSharedMagic "neurallog/internal/shared/magic"
)

// Payload is the wire record exchanged with the storage collaborator
// (spec §6): algorithm is always "aes-256-gcm"; iv and data are base64;
// kekVersion identifies the OpKEK the log key was derived from.
type Payload struct {
	Algorithm  string `json:"algorithm"`
	IV         string `json:"iv"`
	Data       string `json:"data"`
	KEKVersion string `json:"kekVersion,omitempty"`
}

// Cipher encrypts/decrypts log payloads against a key hierarchy.
type Cipher struct {
	hierarchy *cryptoutilCryptoKeyhierarchy.Hierarchy
}

// New returns a LogCipher drawing log keys from hierarchy.
func New(hierarchy *cryptoutilCryptoKeyhierarchy.Hierarchy) *Cipher {
	return &Cipher{hierarchy: hierarchy}
}

// Encrypt seals plaintext under the currently active OpKEK's log subkey,
// with a fresh random 12-byte IV, and stamps kekVersion with the version
// used at the moment of encryption.
func (c *Cipher) Encrypt(plaintext []byte) (*Payload, error) {
	version := c.hierarchy.CurrentVersion()
	if version == "" {
		return nil, cryptoutilSharedApperr.ErrNoActiveKEK
	}

	logKey, err := c.hierarchy.LogKey(version)
	if err != nil {
		return nil, err
	}

	iv, err := cryptoutilCryptoAead.RandomBytes(cryptoutilSharedMagic.AESGCMNonceSize)
	if err != nil {
		return nil, err
	}

	ciphertextTag, err := cryptoutilCryptoAead.Encrypt(logKey, iv, plaintext)
	if err != nil {
		return nil, err
	}

	return &Payload{
		Algorithm:  cryptoutilSharedMagic.AlgorithmAES256GCM,
		IV:         cryptoutilSharedCodec.Base64Encode(iv),
		Data:       cryptoutilSharedCodec.Base64Encode(ciphertextTag),
		KEKVersion: version,
	}, nil
}

// Decrypt looks up the OpKEK named by payload.KEKVersion (or the current
// version, for legacy payloads with no kekVersion field), derives the log
// key, and opens the AEAD. UnknownKEKVersion signals the caller should try
// RecoverVersions and retry.
func (c *Cipher) Decrypt(payload *Payload) ([]byte, error) {
	version := payload.KEKVersion
	if version == "" {
		version = c.hierarchy.CurrentVersion()
		if version == "" {
			return nil, cryptoutilSharedApperr.ErrNoActiveKEK
		}
	}

	logKey, err := c.hierarchy.LogKey(version)
	if err != nil {
		return nil, err
	}

	iv, err := cryptoutilSharedCodec.Base64Decode(payload.IV)
	if err != nil {
		return nil, fmt.Errorf("%w: iv: %w", cryptoutilSharedApperr.ErrInvalidCiphertextFormat, err)
	}

	ciphertextTag, err := cryptoutilSharedCodec.Base64Decode(payload.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: data: %w", cryptoutilSharedApperr.ErrInvalidCiphertextFormat, err)
	}

	return cryptoutilCryptoAead.Decrypt(logKey, iv, ciphertextTag)
}

// Reencrypt decrypts payload under oldVersion and re-encrypts the recovered
// plaintext under newVersion, for rotation fan-out. No metadata carries
// over beyond the plaintext itself: a fresh IV and the new kekVersion are
// stamped. oldVersion/newVersion override whatever versions are embedded in
// payload or currently active, so callers can drive rotation sweeps
// explicitly.
func (c *Cipher) Reencrypt(payload *Payload, oldVersion, newVersion string) (*Payload, error) {
	decryptFrom := &Payload{IV: payload.IV, Data: payload.Data, KEKVersion: oldVersion}

	plaintext, err := c.Decrypt(decryptFrom)
	if err != nil {
		return nil, err
	}

	newLogKey, err := c.hierarchy.LogKey(newVersion)
	if err != nil {
		return nil, err
	}

	iv, err := cryptoutilCryptoAead.RandomBytes(cryptoutilSharedMagic.AESGCMNonceSize)
	if err != nil {
		return nil, err
	}

	ciphertextTag, err := cryptoutilCryptoAead.Encrypt(newLogKey, iv, plaintext)
	if err != nil {
		return nil, err
	}

	return &Payload{
		Algorithm:  cryptoutilSharedMagic.AlgorithmAES256GCM,
		IV:         cryptoutilSharedCodec.Base64Encode(iv),
		Data:       cryptoutilSharedCodec.Base64Encode(ciphertextTag),
		KEKVersion: newVersion,
	}, nil
}
