// Copyright (c) 2025 Justin Cranford

// Package main is the entry point for the neurallog CLI, a thin cobra shell
// around the crypto core for local bootstrap, encrypt/decrypt, rotation, and
// API-key minting without ever needing the rest of the NeuralLog stack.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	cryptoutilConfig "neurallog/internal/config"
	cryptoutilTelemetry "neurallog/internal/telemetry"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "neurallog",
		Short: "Client-side cryptographic core for NeuralLog",
	}

	cryptoutilConfig.BindFlags(root)

	root.AddCommand(
		newBootstrapCommand(),
		newEncryptCommand(),
		newDecryptCommand(),
		newEncryptNameCommand(),
		newDecryptNameCommand(),
		newSearchTokensCommand(),
		newMintAPIKeyCommand(),
		newRotateCommand(),
	)

	return root
}

// withTelemetry resolves Settings and a TelemetryService for cmd, running fn
// with both, and always shutting telemetry down afterward.
func withTelemetry(cmd *cobra.Command, fn func(ctx context.Context, settings *cryptoutilConfig.Settings, telemetry *cryptoutilTelemetry.TelemetryService) error) error {
	settings, err := cryptoutilConfig.New(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	service, err := cryptoutilTelemetry.NewTelemetryService(ctx, settings)
	if err != nil {
		return err
	}

	defer service.Shutdown()

	return fn(ctx, settings, service)
}
