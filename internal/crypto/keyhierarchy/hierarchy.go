// Copyright (c) 2025 Justin Cranford

// Package keyhierarchy implements spec §4.3: Master Secret -> Master KEK ->
// per-version Operational KEK -> per-purpose subkeys, plus the version map
// and rotation state machine. It is the one package in the core with
// mutable state (§5): readers take an RLock, writers (rotate, recover,
// setCurrent) take a Lock.
package keyhierarchy

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	cryptoutilCryptoAead "neurallog/internal/crypto/aead"
	cryptoutilCryptoDigests "neurallog/internal/crypto/digests"
	cryptoutilSharedApperr "neurallog/internal/shared/apperr"
	cryptoutilSharedMagic "neurallog/internal/shared/magic"
)

// Hierarchy owns the tenant's Master Secret/Master KEK (when bootstrapped
// from a recovery phrase or mnemonic) and the version -> OpKEK map.
type Hierarchy struct {
	mu sync.RWMutex

	tenantID     string
	masterSecret []byte // nil in the initWithApiKey bootstrap path
	masterKEK    []byte // nil in the initWithApiKey bootstrap path

	opKEKs  map[string][]byte
	current string // "" means UNSET
}

// New returns an empty, UNSET hierarchy for tenantID. Bootstrap it via
// InitWithRecoveryPhrase, InitWithMnemonic, or InitWithAPIKey.
func New(tenantID string) *Hierarchy {
	return &Hierarchy{
		tenantID: tenantID,
		opKEKs:   make(map[string][]byte),
	}
}

// TenantID returns the tenant this hierarchy is scoped to.
func (h *Hierarchy) TenantID() string {
	return h.tenantID
}

// deriveMasterKEK computes HKDF(MasterSecret, salt="NeuralLog-MasterKEK", info="master-key-encryption-key", 32, SHA-256).
func deriveMasterKEK(masterSecret []byte) ([]byte, error) {
	kek, err := cryptoutilCryptoDigests.HKDFwithSHA256(masterSecret, []byte(cryptoutilSharedMagic.HKDFSaltMasterKEK), []byte(cryptoutilSharedMagic.HKDFInfoMasterKEK), cryptoutilSharedMagic.MasterKEKSize)
	if err != nil {
		return nil, fmt.Errorf("%w: master KEK: %w", cryptoutilSharedApperr.ErrHKDFFailed, err)
	}

	return kek, nil
}

// deriveOpKEK computes HKDF(MasterKEK, salt="NeuralLog-OpKEK-"<v>, info="operational-key-encryption-key", 32, SHA-256).
func deriveOpKEK(masterKEK []byte, version string) ([]byte, error) {
	salt := []byte(cryptoutilSharedMagic.HKDFSaltOpKEKPrefix + version)

	opKEK, err := cryptoutilCryptoDigests.HKDFwithSHA256(masterKEK, salt, []byte(cryptoutilSharedMagic.HKDFInfoOpKEK), cryptoutilSharedMagic.OpKEKSize)
	if err != nil {
		return nil, fmt.Errorf("%w: operational KEK version %s: %w", cryptoutilSharedApperr.ErrHKDFFailed, version, err)
	}

	return opKEK, nil
}

// derivedSubkey computes HKDF(OpKEK, salt, info, 32, SHA-256) for one of the
// three fixed purposes: logs, log-names, search.
func derivedSubkey(opKEK []byte, salt, info string) ([]byte, error) {
	key, err := cryptoutilCryptoDigests.HKDFwithSHA256(opKEK, []byte(salt), []byte(info), cryptoutilSharedMagic.SubkeySize)
	if err != nil {
		return nil, fmt.Errorf("%w: subkey %s: %w", cryptoutilSharedApperr.ErrHKDFFailed, info, err)
	}

	return key, nil
}

// LogKey returns the ephemeral log-encryption subkey for the given OpKEK version.
func (h *Hierarchy) LogKey(version string) ([]byte, error) {
	opKEK, err := h.OpKEK(version)
	if err != nil {
		return nil, err
	}

	return derivedSubkey(opKEK, cryptoutilSharedMagic.HKDFSaltLogKey, cryptoutilSharedMagic.HKDFInfoLogs)
}

// LogNameKey returns the ephemeral log-name subkey for the given OpKEK version.
func (h *Hierarchy) LogNameKey(version string) ([]byte, error) {
	opKEK, err := h.OpKEK(version)
	if err != nil {
		return nil, err
	}

	return derivedSubkey(opKEK, cryptoutilSharedMagic.HKDFSaltLogNameKey, cryptoutilSharedMagic.HKDFInfoLogNames)
}

// SearchKey returns the ephemeral search-token subkey for the given OpKEK version.
func (h *Hierarchy) SearchKey(version string) ([]byte, error) {
	opKEK, err := h.OpKEK(version)
	if err != nil {
		return nil, err
	}

	return derivedSubkey(opKEK, cryptoutilSharedMagic.HKDFSaltSearchKey, cryptoutilSharedMagic.HKDFInfoSearch)
}

// CurrentVersion returns the active version id, or "" if UNSET.
func (h *Hierarchy) CurrentVersion() string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return h.current
}

// OpKEK returns a copy of the OpKEK bytes for version, or ErrUnknownKEKVersion.
func (h *Hierarchy) OpKEK(version string) ([]byte, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if version == "" {
		if h.current == "" {
			return nil, cryptoutilSharedApperr.ErrNoActiveKEK
		}

		version = h.current
	}

	kek, ok := h.opKEKs[version]
	if !ok {
		return nil, fmt.Errorf("%w: %s", cryptoutilSharedApperr.ErrUnknownKEKVersion, version)
	}

	out := make([]byte, len(kek))
	copy(out, kek)

	return out, nil
}

// HasVersion reports whether version is present in the map.
func (h *Hierarchy) HasVersion(version string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	_, ok := h.opKEKs[version]

	return ok
}

// SetCurrent makes version the active version; it must already be in the map.
func (h *Hierarchy) SetCurrent(version string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.opKEKs[version]; !ok {
		return fmt.Errorf("%w: %s", cryptoutilSharedApperr.ErrUnknownKEKVersion, version)
	}

	h.current = version

	return nil
}

// insertLocked inserts an OpKEK under version; caller must hold h.mu (write).
func (h *Hierarchy) insertLocked(version string, opKEK []byte) {
	h.opKEKs[version] = opKEK
}

// InstallVersion inserts an externally obtained OpKEK (e.g. decrypted from a
// rotation blob) under version, without changing which version is current.
// It never shrinks the map and is idempotent: reinstalling the same version
// overwrites with the (by construction, identical) bytes.
func (h *Hierarchy) InstallVersion(version string, opKEK []byte) error {
	if len(opKEK) != cryptoutilSharedMagic.OpKEKSize {
		return fmt.Errorf("%w: OpKEK must be %d bytes", cryptoutilSharedApperr.ErrInvalidCiphertextFormat, cryptoutilSharedMagic.OpKEKSize)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.insertLocked(version, opKEK)

	return nil
}

// Rotate generates a fresh random 32-byte OpKEK under a new random version
// id, inserts it, and makes it current. reason is accepted for audit/logging
// by callers (the core itself never logs it).
func (h *Hierarchy) Rotate(reason string) (string, error) {
	_ = reason

	opKEK, err := cryptoutilCryptoAead.RandomBytes(cryptoutilSharedMagic.OpKEKSize)
	if err != nil {
		return "", err
	}

	version, err := newVersionID()
	if err != nil {
		return "", err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.insertLocked(version, opKEK)
	h.current = version

	return version, nil
}

// newVersionID returns a 16-byte hex rotation id, per spec §3's "16-byte hex
// id for rotations" using google/uuid's random-bytes source for entropy.
func newVersionID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("%w: %w", cryptoutilSharedApperr.ErrRandomSourceFailed, err)
	}

	raw := id[:] // 16 bytes

	return fmt.Sprintf("%x", raw), nil
}
