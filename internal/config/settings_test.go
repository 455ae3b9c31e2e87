// Copyright (c) 2025 Justin Cranford

package config

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func newTestCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	BindFlags(cmd)

	return cmd
}

func TestNew_ResolvesDefaults(t *testing.T) {
	cmd := newTestCommand()

	settings, err := New(cmd)
	require.NoError(t, err)
	require.Equal(t, "neurallog", settings.ServiceName)
	require.Equal(t, "INFO", settings.LogLevel)
	require.False(t, settings.OTLPEnabled)
	require.True(t, settings.OTLPInsecure)
}

func TestNew_RespectsExplicitFlags(t *testing.T) {
	cmd := newTestCommand()
	require.NoError(t, cmd.PersistentFlags().Set("otlp-service", "custom-service"))
	require.NoError(t, cmd.PersistentFlags().Set("otlp-enabled", "true"))

	settings, err := New(cmd)
	require.NoError(t, err)
	require.Equal(t, "custom-service", settings.ServiceName)
	require.True(t, settings.OTLPEnabled)
	require.True(t, settings.ServiceNameFromFlag)
}

func TestNew_DefaultServiceNameNotFlaggedAsExplicit(t *testing.T) {
	cmd := newTestCommand()

	settings, err := New(cmd)
	require.NoError(t, err)
	require.False(t, settings.ServiceNameFromFlag)
}

func TestRequireNewForTest_ProducesIsolatedSettings(t *testing.T) {
	t.Parallel()

	settings := RequireNewForTest("sample")
	require.Equal(t, "neurallog-test-sample", settings.ServiceName)
	require.False(t, settings.OTLPEnabled)
	require.Equal(t, "DEBUG", settings.LogLevel)
}
