// Copyright (c) 2025 Justin Cranford

// Package mnemonic implements the BIP-39 half of the core's Primitives
// component: mnemonic generation, checksum validation, and seed derivation.
package mnemonic

import (
	"fmt"

	"github.com/tyler-smith/go-bip39"
	"golang.org/x/text/unicode/norm"

	cryptoutilSharedApperr "neurallog/internal/shared/apperr"
)

// Generate returns a fresh BIP-39 mnemonic phrase with the requested entropy
// strength in bits (128, 160, 192, 224, or 256).
func Generate(strengthBits int) (string, error) {
	entropy, err := bip39.NewEntropy(strengthBits)
	if err != nil {
		return "", fmt.Errorf("%w: %w", cryptoutilSharedApperr.ErrRandomSourceFailed, err)
	}

	phrase, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("%w: %w", cryptoutilSharedApperr.ErrInvalidMnemonic, err)
	}

	return phrase, nil
}

// Validate reports whether phrase is a checksum-valid BIP-39 mnemonic.
func Validate(phrase string) bool {
	return bip39.IsMnemonicValid(phrase)
}

// ToSeed derives the 64-byte BIP-39 seed from phrase and an optional
// passphrase. The phrase and passphrase are NFKD-normalized first, per the
// BIP-39 "Generating the seed" algorithm, using golang.org/x/text/unicode/norm
// (bip39.NewSeed runs PBKDF2 over the bytes it is given without normalizing
// them, and NeuralLog's initWithMnemonic uses tenantId as the passphrase, so
// normalization is applied explicitly here).
func ToSeed(phrase, passphrase string) ([]byte, error) {
	if !Validate(phrase) {
		return nil, cryptoutilSharedApperr.ErrInvalidMnemonic
	}

	normalizedPhrase := norm.NFKD.String(phrase)
	normalizedPassphrase := norm.NFKD.String(passphrase)

	return bip39.NewSeed(normalizedPhrase, normalizedPassphrase), nil
}
