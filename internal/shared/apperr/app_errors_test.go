// Copyright (c) 2025 Justin Cranford

package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsAppErr_WrappedSentinel(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("context: %w", ErrNoActiveKEK)
	require.True(t, IsAppErr(wrapped))
}

func TestIsAppErr_UnknownError(t *testing.T) {
	t.Parallel()

	require.False(t, IsAppErr(errors.New("not one of ours")))
	require.False(t, IsAppErr(nil))
}

func TestContainsError_Exhaustive(t *testing.T) {
	t.Parallel()

	for _, sentinel := range Errs {
		require.True(t, ContainsError(Errs, sentinel), "sentinel %v should be found in Errs", sentinel)
	}
}

func TestContainsError_NilTarget(t *testing.T) {
	t.Parallel()

	require.False(t, ContainsError(Errs, nil))
}
