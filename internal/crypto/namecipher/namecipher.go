// Copyright (c) 2025 Justin Cranford

// Package namecipher implements spec §4.5: deterministic log-name
// encryption (a stable lookup key across sessions) and deterministic search
// tokens over tokenized query terms.
package namecipher

import (
	"fmt"
	"strings"

	cryptoutilCryptoAead "neurallog/internal/crypto/aead"
	cryptoutilCryptoDigests "neurallog/internal/crypto/digests"
	cryptoutilCryptoKeyhierarchy "neurallog/internal/crypto/keyhierarchy"
	cryptoutilSharedApperr "neurallog/internal/shared/apperr"
	cryptoutilSharedCodec "neurallog/internal/shared/codec"
	cryptoutilSharedMagic "neurallog/internal/shared/magic"
)

// Cipher encrypts log names and derives search tokens against a key
// hierarchy.
type Cipher struct {
	hierarchy *cryptoutilCryptoKeyhierarchy.Hierarchy
}

// New returns a NameCipher drawing log-name/search subkeys from hierarchy.
func New(hierarchy *cryptoutilCryptoKeyhierarchy.Hierarchy) *Cipher {
	return &Cipher{hierarchy: hierarchy}
}

// EncryptLogName deterministically encrypts name under the currently active
// OpKEK: the IV is HMAC-SHA256(logNameKey, "iv:"+name)[:12], so the same
// (key, name) pair always produces byte-identical output (spec property 3),
// while two distinct names can never legitimately collide on IV (spec
// property 4) because the AEAD tag still authenticates. The wire format is
// [1B verLen][verBytes][12B iv][ciphertext||16B tag], URL-safe Base64
// unpadded.
func (c *Cipher) EncryptLogName(name string) (string, error) {
	version := c.hierarchy.CurrentVersion()
	if version == "" {
		return "", cryptoutilSharedApperr.ErrNoActiveKEK
	}

	return c.encryptLogNameWithVersion(name, version)
}

func (c *Cipher) encryptLogNameWithVersion(name, version string) (string, error) {
	if len(version) > 0xFF {
		return "", fmt.Errorf("%w: version id too long to encode in 1 byte", cryptoutilSharedApperr.ErrInvalidCiphertextFormat)
	}

	logNameKey, err := c.hierarchy.LogNameKey(version)
	if err != nil {
		return "", err
	}

	iv := deterministicIV(logNameKey, name)

	ciphertextTag, err := cryptoutilCryptoAead.Encrypt(logNameKey, iv, []byte(name))
	if err != nil {
		return "", err
	}

	wire := make([]byte, 0, 1+len(version)+len(iv)+len(ciphertextTag))
	wire = append(wire, byte(len(version)))
	wire = append(wire, []byte(version)...)
	wire = append(wire, iv...)
	wire = append(wire, ciphertextTag...)

	return cryptoutilSharedCodec.Base64URLEncode(wire), nil
}

// deterministicIV computes HMAC-SHA256(logNameKey, "iv:"+plaintext)[:12].
// AES-GCM nonce reuse under the same key with different plaintexts is
// catastrophic; keying the IV off the plaintext guarantees two distinct
// plaintexts never share an IV under the same key (spec §4.5, §9).
func deterministicIV(logNameKey []byte, plaintext string) []byte {
	mac := cryptoutilCryptoDigests.HMACSHA256(logNameKey, []byte(cryptoutilSharedMagic.LogNameIVInfoPrefix+plaintext))

	return mac[:cryptoutilSharedMagic.AESGCMNonceSize]
}

// DecryptLogName inverts EncryptLogName: decode the wire format, look up the
// embedded version's OpKEK, derive the log-name key, and open the AEAD.
func (c *Cipher) DecryptLogName(encrypted string) (string, error) {
	wire, err := cryptoutilSharedCodec.Base64URLDecode(encrypted)
	if err != nil {
		return "", fmt.Errorf("%w: %w", cryptoutilSharedApperr.ErrInvalidCiphertextFormat, err)
	}

	if len(wire) < 1 {
		return "", fmt.Errorf("%w: empty input", cryptoutilSharedApperr.ErrInvalidCiphertextFormat)
	}

	verLen := int(wire[0])
	offset := 1

	if len(wire) < offset+verLen+cryptoutilSharedMagic.AESGCMNonceSize {
		return "", fmt.Errorf("%w: truncated header", cryptoutilSharedApperr.ErrInvalidCiphertextFormat)
	}

	version := string(wire[offset : offset+verLen])
	offset += verLen

	iv := wire[offset : offset+cryptoutilSharedMagic.AESGCMNonceSize]
	offset += cryptoutilSharedMagic.AESGCMNonceSize

	ciphertextTag := wire[offset:]

	logNameKey, err := c.hierarchy.LogNameKey(version)
	if err != nil {
		return "", err
	}

	plaintext, err := cryptoutilCryptoAead.Decrypt(logNameKey, iv, ciphertextTag)
	if err != nil {
		return "", err
	}

	return string(plaintext), nil
}

// SearchTokens tokenizes query by lowercasing and splitting on whitespace,
// and returns one deterministic HMAC-SHA256-derived token per term,
// URL-safe Base64 unpadded. Depends only on (query, current OpKEK).
func (c *Cipher) SearchTokens(query string) ([]string, error) {
	version := c.hierarchy.CurrentVersion()
	if version == "" {
		return nil, cryptoutilSharedApperr.ErrNoActiveKEK
	}

	searchKey, err := c.hierarchy.SearchKey(version)
	if err != nil {
		return nil, err
	}

	terms := tokenize(query)
	tokens := make([]string, len(terms))

	for i, term := range terms {
		tokenHash := cryptoutilCryptoDigests.HMACSHA256(searchKey, []byte(term))
		tokens[i] = cryptoutilSharedCodec.Base64URLEncode(tokenHash)
	}

	return tokens, nil
}

// tokenize lowercases and splits on whitespace, per spec §4.5.
func tokenize(s string) []string {
	return strings.Fields(strings.ToLower(s))
}
