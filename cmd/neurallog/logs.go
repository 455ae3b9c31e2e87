// Copyright (c) 2025 Justin Cranford

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	cryptoutilConfig "neurallog/internal/config"
	cryptoutilCryptoLogcipher "neurallog/internal/crypto/logcipher"
	cryptoutilTelemetry "neurallog/internal/telemetry"
)

func newEncryptCommand() *cobra.Command {
	var plaintext string

	cmd := &cobra.Command{
		Use:   "encrypt",
		Short: "Encrypt a log payload under the current OpKEK",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withTelemetry(cmd, func(ctx context.Context, settings *cryptoutilConfig.Settings, telemetry *cryptoutilTelemetry.TelemetryService) error {
				session, err := sessionFromFlags(cmd, settings)
				if err != nil {
					return err
				}

				payload, err := session.Logs.Encrypt([]byte(plaintext))
				if err != nil {
					return err
				}

				telemetry.Slogger.InfoContext(ctx, "encrypted log payload", "tenant", session.TenantID, "kekVersion", payload.KEKVersion)

				return json.NewEncoder(os.Stdout).Encode(payload)
			})
		},
	}

	addSessionFlags(cmd)
	cmd.Flags().StringVar(&plaintext, "plaintext", "", "log payload to encrypt")
	_ = cmd.MarkFlagRequired("plaintext")

	return cmd
}

func newDecryptCommand() *cobra.Command {
	var payloadJSON string

	cmd := &cobra.Command{
		Use:   "decrypt",
		Short: "Decrypt a log payload JSON document",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withTelemetry(cmd, func(ctx context.Context, settings *cryptoutilConfig.Settings, telemetry *cryptoutilTelemetry.TelemetryService) error {
				session, err := sessionFromFlags(cmd, settings)
				if err != nil {
					return err
				}

				var payload cryptoutilCryptoLogcipher.Payload
				if err := json.Unmarshal([]byte(payloadJSON), &payload); err != nil {
					return fmt.Errorf("neurallog: invalid payload JSON: %w", err)
				}

				plaintext, err := session.Logs.Decrypt(&payload)
				if err != nil {
					return err
				}

				telemetry.Slogger.InfoContext(ctx, "decrypted log payload", "tenant", session.TenantID)
				fmt.Fprintln(os.Stdout, string(plaintext))

				return nil
			})
		},
	}

	addSessionFlags(cmd)
	cmd.Flags().StringVar(&payloadJSON, "payload", "", "log payload JSON document to decrypt")
	_ = cmd.MarkFlagRequired("payload")

	return cmd
}
