// Copyright (c) 2025 Justin Cranford

// Package aead implements the core's random-bytes source and AES-256-GCM
// AEAD, the two primitives spec §4.1 groups under "Primitives" alongside
// digests. It is split from digests because it is the one package that
// touches the platform CSPRNG directly.
package aead

import (
	"crypto/rand"
	"fmt"

	cryptoutilSharedApperr "neurallog/internal/shared/apperr"
)

// RandomBytes returns n cryptographically random bytes from the platform
// CSPRNG. Failure here is fatal per spec §7 (ErrRandomSourceFailed).
func RandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("%w: %w", cryptoutilSharedApperr.ErrRandomSourceFailed, err)
	}

	return b, nil
}
