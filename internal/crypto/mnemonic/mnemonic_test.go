// Copyright (c) 2025 Justin Cranford

package mnemonic

import (
	"testing"

	"github.com/stretchr/testify/require"

	cryptoutilSharedApperr "neurallog/internal/shared/apperr"
)

func TestGenerate_DefaultStrengthIsValid(t *testing.T) {
	t.Parallel()

	phrase, err := Generate(256)
	require.NoError(t, err)
	require.True(t, Validate(phrase))
}

func TestGenerate_AllSupportedStrengths(t *testing.T) {
	t.Parallel()

	for _, strength := range []int{128, 160, 192, 224, 256} {
		phrase, err := Generate(strength)
		require.NoError(t, err)
		require.True(t, Validate(phrase))
	}
}

func TestGenerate_RejectsInvalidStrength(t *testing.T) {
	t.Parallel()

	_, err := Generate(100)
	require.Error(t, err)
}

func TestValidate_RejectsGarbage(t *testing.T) {
	t.Parallel()

	require.False(t, Validate("not a real mnemonic phrase at all"))
}

func TestToSeed_Deterministic(t *testing.T) {
	t.Parallel()

	phrase, err := Generate(256)
	require.NoError(t, err)

	a, err := ToSeed(phrase, "tenant-1")
	require.NoError(t, err)
	require.Len(t, a, 64)

	b, err := ToSeed(phrase, "tenant-1")
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestToSeed_PassphraseChangesSeed(t *testing.T) {
	t.Parallel()

	phrase, err := Generate(256)
	require.NoError(t, err)

	a, err := ToSeed(phrase, "tenant-1")
	require.NoError(t, err)

	b, err := ToSeed(phrase, "tenant-2")
	require.NoError(t, err)

	require.NotEqual(t, a, b)
}

func TestToSeed_RejectsInvalidMnemonic(t *testing.T) {
	t.Parallel()

	_, err := ToSeed("invalid mnemonic phrase", "tenant-1")
	require.ErrorIs(t, err, cryptoutilSharedApperr.ErrInvalidMnemonic)
}
