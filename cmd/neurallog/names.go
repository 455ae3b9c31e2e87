// Copyright (c) 2025 Justin Cranford

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	cryptoutilConfig "neurallog/internal/config"
	cryptoutilTelemetry "neurallog/internal/telemetry"
)

func newEncryptNameCommand() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "encrypt-name",
		Short: "Deterministically encrypt a log name",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withTelemetry(cmd, func(ctx context.Context, settings *cryptoutilConfig.Settings, telemetry *cryptoutilTelemetry.TelemetryService) error {
				session, err := sessionFromFlags(cmd, settings)
				if err != nil {
					return err
				}

				encrypted, err := session.Names.EncryptLogName(name)
				if err != nil {
					return err
				}

				telemetry.Slogger.InfoContext(ctx, "encrypted log name", "tenant", session.TenantID)
				fmt.Fprintln(os.Stdout, encrypted)

				return nil
			})
		},
	}

	addSessionFlags(cmd)
	cmd.Flags().StringVar(&name, "name", "", "log name to encrypt")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newDecryptNameCommand() *cobra.Command {
	var encrypted string

	cmd := &cobra.Command{
		Use:   "decrypt-name",
		Short: "Decrypt a previously encrypted log name",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withTelemetry(cmd, func(ctx context.Context, settings *cryptoutilConfig.Settings, telemetry *cryptoutilTelemetry.TelemetryService) error {
				session, err := sessionFromFlags(cmd, settings)
				if err != nil {
					return err
				}

				name, err := session.Names.DecryptLogName(encrypted)
				if err != nil {
					return err
				}

				telemetry.Slogger.InfoContext(ctx, "decrypted log name", "tenant", session.TenantID)
				fmt.Fprintln(os.Stdout, name)

				return nil
			})
		},
	}

	addSessionFlags(cmd)
	cmd.Flags().StringVar(&encrypted, "encrypted", "", "encrypted log name")
	_ = cmd.MarkFlagRequired("encrypted")

	return cmd
}

func newSearchTokensCommand() *cobra.Command {
	var query string

	cmd := &cobra.Command{
		Use:   "search-tokens",
		Short: "Derive deterministic search tokens for a query",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withTelemetry(cmd, func(ctx context.Context, settings *cryptoutilConfig.Settings, telemetry *cryptoutilTelemetry.TelemetryService) error {
				session, err := sessionFromFlags(cmd, settings)
				if err != nil {
					return err
				}

				tokens, err := session.Names.SearchTokens(query)
				if err != nil {
					return err
				}

				telemetry.Slogger.InfoContext(ctx, "derived search tokens", "tenant", session.TenantID, "count", len(tokens))
				fmt.Fprintln(os.Stdout, strings.Join(tokens, " "))

				return nil
			})
		},
	}

	addSessionFlags(cmd)
	cmd.Flags().StringVar(&query, "query", "", "search query to tokenize")
	_ = cmd.MarkFlagRequired("query")

	return cmd
}
