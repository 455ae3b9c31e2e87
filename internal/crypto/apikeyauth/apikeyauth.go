// Copyright (c) 2025 Justin Cranford

// Package apikeyauth implements spec §4.6: API key minting, verification
// hashes, and the zero-knowledge challenge-response proof that lets a
// holder authenticate without ever transmitting the key itself.
package apikeyauth

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	cryptoutilCryptoAead "neurallog/internal/crypto/aead"
	cryptoutilCryptoDigests "neurallog/internal/crypto/digests"
	cryptoutilCryptoKeyhierarchy "neurallog/internal/crypto/keyhierarchy"
	cryptoutilSharedApperr "neurallog/internal/shared/apperr"
	cryptoutilSharedCodec "neurallog/internal/shared/codec"
	cryptoutilSharedMagic "neurallog/internal/shared/magic"
)

// Proof is the zero-knowledge challenge-response JSON body (spec §6).
type Proof struct {
	Nonce string `json:"nonce"`
	Proof string `json:"proof"`
}

// NewKeyID returns a fresh 16-byte random key id, hex-encoded to 32 chars.
func NewKeyID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("%w: %w", cryptoutilSharedApperr.ErrRandomSourceFailed, err)
	}

	return fmt.Sprintf("%x", id[:]), nil
}

// Mint derives an API key from the OpKEK named by version in hierarchy:
// apiKey = keyId + "." + base64url(HMAC-SHA256(OpKEK, "api_key:"<tenantId>":"<keyId>)).
// It returns both the API key (held by the caller only) and the
// verification hash (Base64 of HMAC-SHA256(apiKey, "verification")), which
// is the only value sent to the auth service.
func Mint(hierarchy *cryptoutilCryptoKeyhierarchy.Hierarchy, version, keyID string) (apiKey, verificationHash string, err error) {
	opKEK, err := hierarchy.OpKEK(version)
	if err != nil {
		return "", "", err
	}

	tenantID := hierarchy.TenantID()
	mac := cryptoutilCryptoDigests.HMACSHA256(opKEK, []byte(cryptoutilSharedMagic.APIKeyHMACInfoPrefix+tenantID+":"+keyID))
	apiKey = keyID + "." + cryptoutilSharedCodec.Base64URLEncode(mac)
	verificationHash = VerificationHashOf(apiKey)

	return apiKey, verificationHash, nil
}

// VerificationHashOf computes Base64(HMAC-SHA256(apiKey, "verification")).
func VerificationHashOf(apiKey string) string {
	mac := cryptoutilCryptoDigests.HMACSHA256([]byte(apiKey), []byte(cryptoutilSharedMagic.APIKeyVerificationLabel))

	return cryptoutilSharedCodec.Base64Encode(mac)
}

// VerifyHash returns true iff HMAC-SHA256(apiKey, "verification") matches
// storedVerificationHash, compared in constant time.
func VerifyHash(apiKey, storedVerificationHash string) bool {
	expected, err := cryptoutilSharedCodec.Base64Decode(storedVerificationHash)
	if err != nil {
		return false
	}

	actual := cryptoutilCryptoDigests.HMACSHA256([]byte(apiKey), []byte(cryptoutilSharedMagic.APIKeyVerificationLabel))

	return cryptoutilCryptoDigests.ConstantTimeCompare(actual, expected)
}

// Prove generates a zero-knowledge challenge-response: a fresh 16-byte
// nonce and proof = HMAC-SHA256(apiKey, base64(nonce)). A verifier holding
// the full apiKey can recompute and compare; a verifier holding only the
// verification hash cannot, which is the point — the proof only ever
// travels to endpoints that can call back to whatever holds the apiKey.
func Prove(apiKey string) (*Proof, error) {
	nonce, err := cryptoutilCryptoAead.RandomBytes(cryptoutilSharedMagic.ProofNonceSize)
	if err != nil {
		return nil, err
	}

	nonceB64 := cryptoutilSharedCodec.Base64Encode(nonce)
	proof := cryptoutilCryptoDigests.HMACSHA256([]byte(apiKey), []byte(nonceB64))

	return &Proof{
		Nonce: nonceB64,
		Proof: cryptoutilSharedCodec.Base64Encode(proof),
	}, nil
}

// VerifyProof recomputes proof.Proof from apiKey and proof.Nonce and
// compares in constant time. Only usable by a verifier that holds the full
// apiKey (e.g. the issuing tenant checking offline).
func VerifyProof(apiKey string, proof *Proof) bool {
	expectedMAC, err := cryptoutilSharedCodec.Base64Decode(proof.Proof)
	if err != nil {
		return false
	}

	actualMAC := cryptoutilCryptoDigests.HMACSHA256([]byte(apiKey), []byte(proof.Nonce))

	return cryptoutilCryptoDigests.ConstantTimeCompare(actualMAC, expectedMAC)
}

// MarshalProof / UnmarshalProof round-trip a Proof through the wire JSON shape.
func MarshalProof(p *Proof) ([]byte, error) {
	return json.Marshal(p)
}

func UnmarshalProof(data []byte) (*Proof, error) {
	var p Proof
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}

	return &p, nil
}

// SplitAPIKey splits an apiKey string into its keyId and signature parts,
// for callers that need the keyId without holding the hierarchy (e.g. to
// look up which tenant/version minted it).
func SplitAPIKey(apiKey string) (keyID, signature string, err error) {
	idx := strings.IndexByte(apiKey, '.')
	if idx < 0 {
		return "", "", fmt.Errorf("%w: missing '.' separator", cryptoutilSharedApperr.ErrInvalidCiphertextFormat)
	}

	return apiKey[:idx], apiKey[idx+1:], nil
}
