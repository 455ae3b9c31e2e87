// Copyright (c) 2025 Justin Cranford

// Package session implements spec §4.7 and Design Notes §9: a single flat
// Session value wrapping a key hierarchy plus the log/name ciphers and API
// key auth that draw from it. Higher layers compose by passing a *Session
// around; there is no cyclic AuthManager<->KeyHierarchyManager pair and no
// BaseClient inheritance chain, only this struct and the wrap helper below.
package session

import (
	"fmt"

	cryptoutilCryptoApikeyauth "neurallog/internal/crypto/apikeyauth"
	cryptoutilCryptoKeyhierarchy "neurallog/internal/crypto/keyhierarchy"
	cryptoutilCryptoLogcipher "neurallog/internal/crypto/logcipher"
	cryptoutilCryptoNamecipher "neurallog/internal/crypto/namecipher"
	cryptoutilSharedApperr "neurallog/internal/shared/apperr"
)

// BootstrapOptions mirrors the recognized bootstrap inputs from spec §4.7:
// exactly one of Password+Username, Mnemonic, RecoveryPhrase, or APIKey
// must be set. Versions is an optional multi-version recovery list, used
// only by the Mnemonic/RecoveryPhrase paths.
type BootstrapOptions struct {
	Username       string
	Password       string
	Mnemonic       string
	RecoveryPhrase string
	APIKey         string
	Versions       []string
}

// Session holds the key hierarchy and the two ciphers that draw from it.
// It is the single value every higher layer composes around (Design Notes §9).
type Session struct {
	TenantID  string
	Hierarchy *cryptoutilCryptoKeyhierarchy.Hierarchy
	Logs      *cryptoutilCryptoLogcipher.Cipher
	Names     *cryptoutilCryptoNamecipher.Cipher
}

// Bootstrap populates a Session for tenantID from exactly one recognized
// input in opts. Password+Username bootstrap is treated as a recovery
// phrase (spec §4.3's recovery-phrase path is the only PBKDF2-backed,
// username-independent secret the core defines); username is accepted for
// API symmetry with the external auth service but never enters any
// derivation, so changing it alone cannot change the hierarchy.
func Bootstrap(tenantID string, opts BootstrapOptions) (*Session, error) {
	hierarchy, err := bootstrapHierarchy(tenantID, opts)
	if err != nil {
		return nil, err
	}

	return newSession(tenantID, hierarchy), nil
}

func bootstrapHierarchy(tenantID string, opts BootstrapOptions) (*cryptoutilCryptoKeyhierarchy.Hierarchy, error) {
	switch {
	case opts.Mnemonic != "":
		return wrap("InitWithMnemonic", func() (*cryptoutilCryptoKeyhierarchy.Hierarchy, error) {
			return cryptoutilCryptoKeyhierarchy.InitWithMnemonic(tenantID, opts.Mnemonic, opts.Versions)
		})
	case opts.RecoveryPhrase != "":
		return wrap("InitWithRecoveryPhrase", func() (*cryptoutilCryptoKeyhierarchy.Hierarchy, error) {
			return cryptoutilCryptoKeyhierarchy.InitWithRecoveryPhrase(tenantID, opts.RecoveryPhrase, opts.Versions)
		})
	case opts.Password != "":
		return wrap("InitWithRecoveryPhrase(password)", func() (*cryptoutilCryptoKeyhierarchy.Hierarchy, error) {
			return cryptoutilCryptoKeyhierarchy.InitWithRecoveryPhrase(tenantID, opts.Password, opts.Versions)
		})
	case opts.APIKey != "":
		return wrap("InitWithAPIKey", func() (*cryptoutilCryptoKeyhierarchy.Hierarchy, error) {
			return cryptoutilCryptoKeyhierarchy.InitWithAPIKey(tenantID, opts.APIKey)
		})
	default:
		return nil, fmt.Errorf("%w: bootstrap requires one of mnemonic, recoveryPhrase, password, or apiKey", cryptoutilSharedApperr.ErrCantBeEmpty)
	}
}

func newSession(tenantID string, hierarchy *cryptoutilCryptoKeyhierarchy.Hierarchy) *Session {
	return &Session{
		TenantID:  tenantID,
		Hierarchy: hierarchy,
		Logs:      cryptoutilCryptoLogcipher.New(hierarchy),
		Names:     cryptoutilCryptoNamecipher.New(hierarchy),
	}
}

// wrap replaces the teacher's BaseClient inheritance chain (Design Notes §9):
// it names the failing operation in the error without needing a base type.
func wrap[T any](op string, fn func() (T, error)) (T, error) {
	result, err := fn()
	if err != nil {
		var zero T

		return zero, fmt.Errorf("%s: %w", op, err)
	}

	return result, nil
}

// RecoverVersions derives any of the named OpKEK versions not already known,
// so a caller that sees UnknownKEKVersion on Decrypt can retry afterward.
func (s *Session) RecoverVersions(versions ...string) error {
	return s.Hierarchy.RecoverVersions(versions...)
}

// MintAPIKey mints a fresh API key + verification hash under the named
// OpKEK version (or the current version, if version is "").
func (s *Session) MintAPIKey(version string) (apiKey, verificationHash string, err error) {
	if version == "" {
		version = s.Hierarchy.CurrentVersion()
	}

	keyID, err := cryptoutilCryptoApikeyauth.NewKeyID()
	if err != nil {
		return "", "", err
	}

	return cryptoutilCryptoApikeyauth.Mint(s.Hierarchy, version, keyID)
}
