// Copyright (c) 2025 Justin Cranford

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	cryptoutilConfig "neurallog/internal/config"
	cryptoutilTelemetry "neurallog/internal/telemetry"
)

func newMintAPIKeyCommand() *cobra.Command {
	var version string

	cmd := &cobra.Command{
		Use:   "mint-api-key",
		Short: "Mint a fresh API key and its verification hash",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withTelemetry(cmd, func(ctx context.Context, settings *cryptoutilConfig.Settings, telemetry *cryptoutilTelemetry.TelemetryService) error {
				session, err := sessionFromFlags(cmd, settings)
				if err != nil {
					return err
				}

				apiKey, verificationHash, err := session.MintAPIKey(version)
				if err != nil {
					return err
				}

				telemetry.Slogger.InfoContext(ctx, "minted API key", "tenant", session.TenantID)
				fmt.Fprintf(os.Stdout, "apiKey: %s\nverificationHash: %s\n", apiKey, verificationHash)

				return nil
			})
		},
	}

	addSessionFlags(cmd)
	cmd.Flags().StringVar(&version, "kek-version", "", "OpKEK version to mint under (defaults to current)")

	return cmd
}
