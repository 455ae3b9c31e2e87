// Copyright (c) 2025 Justin Cranford

// Package apperr defines the crypto core's error taxonomy as sentinel
// errors. Core operations return these (wrapped with context via %w)
// instead of ad-hoc strings, so callers can branch with errors.Is; the
// digests package defines its own input-validation sentinels.
package apperr

import "errors"

var (
	// Bootstrap / derivation failures.
	ErrInvalidMnemonic        = errors.New("invalid mnemonic")
	ErrInvalidRecoveryPhrase  = errors.New("invalid recovery phrase")
	ErrPBKDFFailed            = errors.New("pbkdf2 derivation failed")
	ErrHKDFFailed             = errors.New("hkdf derivation failed")

	// Hierarchy state errors.
	ErrNoActiveKEK      = errors.New("no active operational KEK")
	ErrUnknownKEKVersion = errors.New("unknown KEK version")
	ErrKEKMapEmpty      = errors.New("KEK version map is empty")

	// Primitive failures.
	ErrEncryptionFailed        = errors.New("encryption failed")
	ErrDecryptionFailed        = errors.New("decryption failed")
	ErrInvalidCiphertextFormat = errors.New("invalid ciphertext format")

	// Shamir errors.
	ErrInsufficientShares = errors.New("insufficient shares to reconstruct secret")
	ErrDuplicateShareX    = errors.New("duplicate share x-coordinate")
	ErrInvalidShareLength = errors.New("invalid share length")

	// Fatal.
	ErrRandomSourceFailed = errors.New("random source failed")

	// Primitive input validation, mirrored from the teacher's apperr shape.
	ErrCantBeNil   = errors.New("can't be nil")
	ErrCantBeEmpty = errors.New("can't be empty")
)

// Errs lists every sentinel this package defines, for exhaustiveness tests.
var Errs = []error{
	ErrInvalidMnemonic,
	ErrInvalidRecoveryPhrase,
	ErrPBKDFFailed,
	ErrHKDFFailed,
	ErrNoActiveKEK,
	ErrUnknownKEKVersion,
	ErrKEKMapEmpty,
	ErrEncryptionFailed,
	ErrDecryptionFailed,
	ErrInvalidCiphertextFormat,
	ErrInsufficientShares,
	ErrDuplicateShareX,
	ErrInvalidShareLength,
	ErrRandomSourceFailed,
	ErrCantBeNil,
	ErrCantBeEmpty,
}

// IsAppErr reports whether err is (or wraps) one of the sentinels in Errs.
func IsAppErr(err error) bool {
	if err == nil {
		return false
	}

	return ContainsError(Errs, err)
}

// ContainsError reports whether target matches any error in errs via errors.Is.
func ContainsError(errs []error, target error) bool {
	if target == nil {
		return false
	}

	for _, e := range errs {
		if errors.Is(target, e) {
			return true
		}
	}

	return false
}
