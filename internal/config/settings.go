// Copyright (c) 2025 Justin Cranford

// Package config binds the CLI's flags, environment variables, and defaults
// into a single Settings value using the teacher's pflag+viper pattern: flags
// are registered once, viper.BindPFlags mirrors them into env-overridable
// keys, and a Setting wrapper remembers whether a value came from a flag or
// a default so callers can tell the two apart.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Setting pairs a resolved value with whether it was explicitly set on the
// command line (as opposed to falling back to its default or an env var).
type Setting struct {
	Value     any
	WasSetCLI bool
}

func RegisterAsBoolSetting(s *Setting) bool     { return s.Value.(bool) }
func RegisterAsStringSetting(s *Setting) string { return s.Value.(string) }

// resolveBoolSetting/resolveStringSetting read key through viper (so
// NEURALLOG_* env vars and --flag both resolve) and record whether cmd's
// flag was explicitly set, as opposed to viper falling back to the flag's
// registered default.
func resolveBoolSetting(cmd *cobra.Command, key string) *Setting {
	flag := cmd.Flag(key)

	return &Setting{Value: viper.GetBool(key), WasSetCLI: flag != nil && flag.Changed}
}

func resolveStringSetting(cmd *cobra.Command, key string) *Setting {
	flag := cmd.Flag(key)

	return &Setting{Value: viperString(key), WasSetCLI: flag != nil && flag.Changed}
}

// Settings is the ambient configuration shared by every neurallog CLI
// subcommand: telemetry wiring plus the handful of bootstrap-time values
// that can't live purely in command arguments (tenant id defaults, the
// name of the environment variable holding the recovery phrase).
type Settings struct {
	ServiceName string
	DevMode     bool
	VerboseMode bool
	LogLevel    string

	OTLPService  string
	OTLPEnabled  bool
	OTLPConsole  bool
	OTLPEndpoint string
	OTLPInsecure bool

	DefaultTenantID   string
	RecoveryPhraseEnv string

	// ServiceNameFromFlag reports whether ServiceName came from an explicit
	// --otlp-service flag, as opposed to its registered default or an
	// environment override; telemetry startup logging uses this to tell an
	// operator-chosen name from the binary's own default when reporting
	// what it's about to connect as.
	ServiceNameFromFlag bool
}

const (
	defaultOTLPEndpoint      = "http://localhost:4318"
	defaultRecoveryPhraseEnv = "NEURALLOG_RECOVERY_PHRASE"
)

// BindFlags registers the ambient flags on cmd's persistent flag set, in the
// teacher's style of one pflag per setting mirrored into viper by name.
func BindFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()

	flags.Bool("dev-mode", false, "enable developer-friendly console logging")
	flags.Bool("verbose", false, "enable verbose logging")
	flags.String("log-level", "INFO", "log level reported in the verbose startup log line: ALL|TRACE|DEBUG|CONFIG|INFO|NOTICE|WARN|ERROR|FATAL|OFF (log records are not filtered by it)")

	flags.Bool("otlp-enabled", false, "export telemetry to an OTLP collector")
	flags.Bool("otlp-console", false, "also write telemetry to stdout")
	flags.String("otlp-endpoint", defaultOTLPEndpoint, "OTLP collector endpoint, e.g. http(s)://host:port or grpc(s)://host:port")
	flags.Bool("otlp-insecure", true, "use a plaintext (non-TLS) connection to the OTLP collector")
	flags.String("otlp-service", "neurallog", "service name reported in telemetry")

	flags.String("tenant-id", "", "default tenant id for commands that omit --tenant")
	flags.String("recovery-phrase-env", defaultRecoveryPhraseEnv, "environment variable holding the recovery phrase")

	_ = viper.BindPFlags(flags)
}

// New resolves Settings from cmd's bound flags and the environment
// (NEURALLOG_* env vars override flag defaults via viper's env binding).
func New(cmd *cobra.Command) (*Settings, error) {
	viper.SetEnvPrefix("NEURALLOG")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	otlpService := resolveStringSetting(cmd, "otlp-service")

	settings := &Settings{
		ServiceName:       RegisterAsStringSetting(otlpService),
		DevMode:           RegisterAsBoolSetting(resolveBoolSetting(cmd, "dev-mode")),
		VerboseMode:       RegisterAsBoolSetting(resolveBoolSetting(cmd, "verbose")),
		LogLevel:          RegisterAsStringSetting(resolveStringSetting(cmd, "log-level")),
		OTLPService:       RegisterAsStringSetting(otlpService),
		OTLPEnabled:       RegisterAsBoolSetting(resolveBoolSetting(cmd, "otlp-enabled")),
		OTLPConsole:       RegisterAsBoolSetting(resolveBoolSetting(cmd, "otlp-console")),
		OTLPEndpoint:      RegisterAsStringSetting(resolveStringSetting(cmd, "otlp-endpoint")),
		OTLPInsecure:      RegisterAsBoolSetting(resolveBoolSetting(cmd, "otlp-insecure")),
		DefaultTenantID:   RegisterAsStringSetting(resolveStringSetting(cmd, "tenant-id")),
		RecoveryPhraseEnv: RegisterAsStringSetting(resolveStringSetting(cmd, "recovery-phrase-env")),
	}

	settings.ServiceNameFromFlag = otlpService.WasSetCLI

	if settings.OTLPService == "" {
		return nil, fmt.Errorf("config: otlp-service must be non-empty")
	}

	return settings, nil
}

func viperString(key string) string {
	if v := viper.GetString(key); v != "" {
		return v
	}

	return ""
}

// RequireNewForTest returns Settings suitable for unit tests: OTLP disabled,
// console logging on, a unique-ish service name derived from name so
// parallel tests' telemetry doesn't collide in shared global state.
func RequireNewForTest(name string) *Settings {
	return &Settings{
		ServiceName:         "neurallog-test-" + name,
		DevMode:             true,
		VerboseMode:         false,
		LogLevel:            "DEBUG",
		OTLPService:         "neurallog-test-" + name,
		OTLPEnabled:         false,
		OTLPConsole:         false,
		OTLPEndpoint:        defaultOTLPEndpoint,
		OTLPInsecure:        true,
		DefaultTenantID:     "",
		RecoveryPhraseEnv:   defaultRecoveryPhraseEnv,
		ServiceNameFromFlag: false,
	}
}
