// Copyright (c) 2025 Justin Cranford

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	cryptoutilConfig "neurallog/internal/config"
	cryptoutilCryptoSession "neurallog/internal/crypto/session"
)

// addSessionFlags registers the bootstrap-input flags shared by every
// command that needs a live Session: exactly one of --mnemonic,
// --recovery-phrase, or --api-key must resolve to a non-empty value.
func addSessionFlags(cmd *cobra.Command) {
	cmd.Flags().String("tenant", "", "tenant id")
	cmd.Flags().String("mnemonic", "", "BIP-39 recovery mnemonic")
	cmd.Flags().String("recovery-phrase", "", "low-level recovery phrase (falls back to the configured env var)")
	cmd.Flags().String("api-key", "", "API key (limits the session to the key's own OpKEK version)")
	cmd.Flags().StringSlice("kek-versions", nil, "known OpKEK version ids to derive eagerly")
}

func sessionFromFlags(cmd *cobra.Command, settings *cryptoutilConfig.Settings) (*cryptoutilCryptoSession.Session, error) {
	tenant, _ := cmd.Flags().GetString("tenant")
	mnemonic, _ := cmd.Flags().GetString("mnemonic")
	recoveryPhrase, _ := cmd.Flags().GetString("recovery-phrase")
	apiKey, _ := cmd.Flags().GetString("api-key")
	versions, _ := cmd.Flags().GetStringSlice("kek-versions")

	if recoveryPhrase == "" && mnemonic == "" && apiKey == "" {
		recoveryPhrase = os.Getenv(settings.RecoveryPhraseEnv)
	}

	if tenant == "" {
		tenant = settings.DefaultTenantID
	}

	if tenant == "" {
		return nil, fmt.Errorf("neurallog: --tenant is required")
	}

	return cryptoutilCryptoSession.Bootstrap(tenant, cryptoutilCryptoSession.BootstrapOptions{
		Mnemonic:       mnemonic,
		RecoveryPhrase: recoveryPhrase,
		APIKey:         apiKey,
		Versions:       versions,
	})
}
