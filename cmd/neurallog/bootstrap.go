// Copyright (c) 2025 Justin Cranford

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	cryptoutilConfig "neurallog/internal/config"
	cryptoutilCryptoMnemonic "neurallog/internal/crypto/mnemonic"
	cryptoutilTelemetry "neurallog/internal/telemetry"
)

func newBootstrapCommand() *cobra.Command {
	var (
		tenant       string
		strengthBits int
	)

	cmd := &cobra.Command{
		Use:   "bootstrap",
		Short: "Generate a fresh BIP-39 recovery mnemonic for a tenant",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withTelemetry(cmd, func(ctx context.Context, settings *cryptoutilConfig.Settings, telemetry *cryptoutilTelemetry.TelemetryService) error {
				return runBootstrap(ctx, telemetry, tenant, strengthBits)
			})
		},
	}

	cmd.Flags().StringVar(&tenant, "tenant", "", "tenant id the mnemonic will be bound to")
	cmd.Flags().IntVar(&strengthBits, "strength", 256, "mnemonic entropy strength in bits (128, 160, 192, 224, 256)")
	_ = cmd.MarkFlagRequired("tenant")

	return cmd
}

func runBootstrap(ctx context.Context, telemetry *cryptoutilTelemetry.TelemetryService, tenant string, strengthBits int) error {
	phrase, err := cryptoutilCryptoMnemonic.Generate(strengthBits)
	if err != nil {
		return err
	}

	telemetry.Slogger.InfoContext(ctx, "generated recovery mnemonic", "tenant", tenant, "strengthBits", strengthBits)
	fmt.Fprintln(os.Stdout, phrase)

	return nil
}
