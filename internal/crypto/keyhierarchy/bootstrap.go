// Copyright (c) 2025 Justin Cranford

package keyhierarchy

import (
	"fmt"
	"sort"

	cryptoutilCryptoDigests "neurallog/internal/crypto/digests"
	cryptoutilCryptoMnemonic "neurallog/internal/crypto/mnemonic"
	cryptoutilSharedApperr "neurallog/internal/shared/apperr"
	cryptoutilSharedMagic "neurallog/internal/shared/magic"
)

// InitWithRecoveryPhrase bootstraps Master Secret from a low-level recovery
// phrase via PBKDF2 (spec §4.3), then derives the Master KEK and an OpKEK
// for every version in versions (defaulting to just "v1" when empty). When
// more than one version is given with no designated current, the
// lexicographically largest is chosen, per spec §4.3's tie-break rule.
func InitWithRecoveryPhrase(tenantID, phrase string, versions []string) (*Hierarchy, error) {
	masterSecret, err := cryptoutilCryptoDigests.PBKDF2MasterSecret(phrase, tenantID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", cryptoutilSharedApperr.ErrInvalidRecoveryPhrase, err)
	}

	return bootstrapFromMasterSecret(tenantID, masterSecret, versions)
}

// InitWithMnemonic bootstraps Master Secret from a BIP-39 mnemonic: validate
// checksum, compute the BIP-39 seed (passphrase = tenantID), then
// Master Secret = HKDF(seed, salt="neurallog:"<tenantId>, info="master-secret", 32, SHA-256).
func InitWithMnemonic(tenantID, phrase string, versions []string) (*Hierarchy, error) {
	if !cryptoutilCryptoMnemonic.Validate(phrase) {
		return nil, cryptoutilSharedApperr.ErrInvalidMnemonic
	}

	seed, err := cryptoutilCryptoMnemonic.ToSeed(phrase, tenantID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", cryptoutilSharedApperr.ErrInvalidMnemonic, err)
	}

	salt := []byte(cryptoutilSharedMagic.MnemonicSaltPrefix + tenantID)

	masterSecret, err := cryptoutilCryptoDigests.HKDFwithSHA256(seed, salt, []byte(cryptoutilSharedMagic.MnemonicMasterSecretInfo), cryptoutilSharedMagic.MasterSecretSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", cryptoutilSharedApperr.ErrHKDFFailed, err)
	}

	return bootstrapFromMasterSecret(tenantID, masterSecret, versions)
}

// InitWithAPIKey derives a single OpKEK directly from the API key:
// HMAC-SHA256(apiKey, "kek:"<tenantId>). Master Secret/Master KEK are left
// unset; this hierarchy can never rotate to a second version via the
// recovery-phrase/mnemonic path, only via Rotate.
func InitWithAPIKey(tenantID, apiKey string) (*Hierarchy, error) {
	opKEK := cryptoutilCryptoDigests.HMACSHA256([]byte(apiKey), []byte(cryptoutilSharedMagic.APIKeyEncryptedKEKPrefix+tenantID))

	h := New(tenantID)
	h.insertLocked("v1", opKEK)
	h.current = "v1"

	return h, nil
}

// bootstrapFromMasterSecret derives the Master KEK, then one OpKEK per
// requested version (default ["v1"]), and picks current per the tie-break rule.
func bootstrapFromMasterSecret(tenantID string, masterSecret []byte, versions []string) (*Hierarchy, error) {
	masterKEK, err := deriveMasterKEK(masterSecret)
	if err != nil {
		return nil, err
	}

	if len(versions) == 0 {
		versions = []string{"v1"}
	}

	h := New(tenantID)
	h.masterSecret = masterSecret
	h.masterKEK = masterKEK

	for _, v := range versions {
		opKEK, err := deriveOpKEK(masterKEK, v)
		if err != nil {
			return nil, err
		}

		h.insertLocked(v, opKEK)
	}

	h.current = pickCurrent(versions)

	return h, nil
}

// pickCurrent implements spec §4.3's tie-break: the lexicographically
// largest version id, when no explicit current is designated.
func pickCurrent(versions []string) string {
	sorted := make([]string, len(versions))
	copy(sorted, versions)
	sort.Strings(sorted)

	return sorted[len(sorted)-1]
}

// RecoverVersions idempotently derives any versions not already present in
// the map, from the Master KEK. It fails if the hierarchy has no Master KEK
// (i.e. it was bootstrapped via InitWithAPIKey, which never learns the
// Master Secret/Master KEK and therefore cannot derive arbitrary versions).
func (h *Hierarchy) RecoverVersions(versions ...string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.masterKEK == nil {
		return fmt.Errorf("%w: hierarchy has no master KEK to recover versions from", cryptoutilSharedApperr.ErrNoActiveKEK)
	}

	for _, v := range versions {
		if _, ok := h.opKEKs[v]; ok {
			continue // idempotent: already known
		}

		opKEK, err := deriveOpKEK(h.masterKEK, v)
		if err != nil {
			return err
		}

		h.insertLocked(v, opKEK)
	}

	return nil
}
