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

// newRotateCommand rotates the session's own OpKEK without delivering a
// JWE blob to any recipient; multi-user rotation delivery is a library-only
// operation (session.Rotate) since it needs each recipient's public JWK,
// which has no sane CLI flag representation.
func newRotateCommand() *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "rotate",
		Short: "Rotate to a fresh OpKEK version for this session only",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withTelemetry(cmd, func(ctx context.Context, settings *cryptoutilConfig.Settings, telemetry *cryptoutilTelemetry.TelemetryService) error {
				session, err := sessionFromFlags(cmd, settings)
				if err != nil {
					return err
				}

				result, err := session.Rotate(reason, nil)
				if err != nil {
					return err
				}

				telemetry.Slogger.InfoContext(ctx, "rotated OpKEK", "tenant", session.TenantID, "newVersion", result.NewVersion, "reason", reason)
				fmt.Fprintln(os.Stdout, result.NewVersion)

				return nil
			})
		},
	}

	addSessionFlags(cmd)
	cmd.Flags().StringVar(&reason, "reason", "", "audit reason for the rotation")

	return cmd
}
