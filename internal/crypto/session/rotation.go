// Copyright (c) 2025 Justin Cranford

package session

import (
	"fmt"
	"time"

	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwe"
	"github.com/lestrrat-go/jwx/v3/jwk"

	cryptoutilSharedApperr "neurallog/internal/shared/apperr"
)

// RotationResult is the outcome of Rotate: the freshly minted version id and
// one JWE blob per still-authorized recipient, each decryptable only by the
// holder of the matching private key.
type RotationResult struct {
	NewVersion string
	UserBlobs  map[string][]byte // userId -> JWE-serialized blob
}

// Recipient names a still-authorized user and the public JWK their rotation
// blob should be encrypted to. Revoked users are simply omitted by the
// caller; the core never sees a revocation list, only who remains
// authorized (spec §4.7 step 3/4, Invariant).
type Recipient struct {
	UserID      string
	PublicJWK   jwk.Key
	KeyEncAlg   jwa.KeyEncryptionAlgorithm     // e.g. jwa.RSA_OAEP_256(), jwa.ECDH_ES_A256KW()
	ContentEnc  jwa.ContentEncryptionAlgorithm // e.g. jwa.A256GCM()
}

// Rotate generates a fresh OpKEK, makes it current, and encrypts it under
// each recipient's public key as a JWE blob for out-of-band delivery
// (spec §4.7 steps 1-3). Log re-encryption itself is lazy and happens via
// LogCipher.Reencrypt as entries are read or swept, outside the core.
func (s *Session) Rotate(reason string, recipients []Recipient) (*RotationResult, error) {
	newVersion, err := s.Hierarchy.Rotate(reason)
	if err != nil {
		return nil, err
	}

	opKEK, err := s.Hierarchy.OpKEK(newVersion)
	if err != nil {
		return nil, err
	}

	blobs := make(map[string][]byte, len(recipients))

	for _, r := range recipients {
		blob, err := encryptOpKEKForRecipient(opKEK, newVersion, r)
		if err != nil {
			return nil, fmt.Errorf("rotation blob for user %s: %w", r.UserID, err)
		}

		blobs[r.UserID] = blob
	}

	return &RotationResult{NewVersion: newVersion, UserBlobs: blobs}, nil
}

// encryptOpKEKForRecipient wraps opKEK in a JWE addressed to recipient's
// public JWK, following the teacher's JOSE JWE usage pattern: per-recipient
// protected headers carry kid/enc/alg, then jwe.Encrypt.
func encryptOpKEKForRecipient(opKEK []byte, version string, r Recipient) ([]byte, error) {
	if r.PublicJWK == nil {
		return nil, cryptoutilSharedApperr.ErrCantBeNil
	}

	var kid string
	if err := r.PublicJWK.Get(jwk.KeyIDKey, &kid); err != nil {
		kid = r.UserID
	}

	headers := jwe.NewHeaders()
	if err := headers.Set(jwk.KeyIDKey, kid); err != nil {
		return nil, err
	}

	if err := headers.Set("enc", r.ContentEnc); err != nil {
		return nil, err
	}

	if err := headers.Set(jwk.AlgorithmKey, r.KeyEncAlg); err != nil {
		return nil, err
	}

	if err := headers.Set("kekVersion", version); err != nil {
		return nil, err
	}

	if err := headers.Set("iat", time.Now().UTC().Unix()); err != nil {
		return nil, err
	}

	return jwe.Encrypt(opKEK, jwe.WithKey(r.KeyEncAlg, r.PublicJWK, jwe.WithPerRecipientHeaders(headers)))
}

// DecryptRotationBlob recovers the OpKEK and version id from a rotation
// blob, given the recipient's private JWK, and installs it into the
// session's hierarchy so Logs/Names can use it immediately.
func (s *Session) DecryptRotationBlob(blob []byte, privateJWK jwk.Key, keyEncAlg jwa.KeyEncryptionAlgorithm) (string, error) {
	parsed, err := jwe.Parse(blob)
	if err != nil {
		return "", fmt.Errorf("%w: %w", cryptoutilSharedApperr.ErrInvalidCiphertextFormat, err)
	}

	var version string
	if err := parsed.ProtectedHeaders().Get("kekVersion", &version); err != nil {
		return "", fmt.Errorf("%w: missing kekVersion header: %w", cryptoutilSharedApperr.ErrInvalidCiphertextFormat, err)
	}

	opKEK, err := jwe.Decrypt(blob, jwe.WithKey(keyEncAlg, privateJWK))
	if err != nil {
		return "", fmt.Errorf("%w: %w", cryptoutilSharedApperr.ErrDecryptionFailed, err)
	}

	if err := s.Hierarchy.InstallVersion(version, opKEK); err != nil {
		return "", err
	}

	return version, nil
}
