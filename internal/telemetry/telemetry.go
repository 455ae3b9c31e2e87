// Copyright (c) 2025 Justin Cranford

// Package telemetry wires structured logging, metrics, and tracing behind a
// single TelemetryService, following the teacher's OTel SDK pattern: a
// console exporter in dev mode, an OTLP exporter (gRPC or HTTP, TLS or
// plaintext) when enabled, and an slog.Logger bridged through otelslog so
// every log line carries trace/span correlation for free.
package telemetry

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutlog"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc/credentials"

	cryptoutilConfig "neurallog/internal/config"
)

// TelemetryService bundles the three OTel signal providers plus a ready-made
// slog.Logger so callers never reach for the globals directly.
type TelemetryService struct {
	Settings          *cryptoutilConfig.Settings
	VerboseMode       bool
	StartTime         time.Time
	Slogger           *slog.Logger
	LogsProvider      *sdklog.LoggerProvider
	MetricsProvider   metric.MeterProvider
	TracesProvider    trace.TracerProvider
	TextMapPropagator propagation.TextMapPropagator

	shutdownFuncs []func(context.Context) error
}

// NewTelemetryService builds a TelemetryService from settings. With
// OTLPEnabled, OTLPConsole and DevMode all false, the providers get no
// exporters and log records are dropped: telemetry never blocks core crypto
// operations on a missing collector.
func NewTelemetryService(ctx context.Context, settings *cryptoutilConfig.Settings) (*TelemetryService, error) {
	if ctx == nil {
		return nil, fmt.Errorf("telemetry: context must be non-nil")
	}

	if settings == nil || settings.OTLPService == "" {
		return nil, fmt.Errorf("telemetry: service name must be non-empty")
	}

	level, err := ParseLogLevel(settings.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}

	service := &TelemetryService{
		Settings:    settings,
		VerboseMode: settings.VerboseMode,
		StartTime:   time.Now(),
	}

	loggerProvider, err := service.buildLoggerProvider(ctx, settings)
	if err != nil {
		return nil, fmt.Errorf("telemetry: logger provider: %w", err)
	}

	service.LogsProvider = loggerProvider
	service.Slogger = otelslog.NewLogger(settings.OTLPService, otelslog.WithLoggerProvider(loggerProvider))

	meterProvider, err := service.buildMeterProvider(ctx, settings)
	if err != nil {
		return nil, fmt.Errorf("telemetry: meter provider: %w", err)
	}

	service.MetricsProvider = meterProvider

	tracerProvider, err := service.buildTracerProvider(ctx, settings)
	if err != nil {
		return nil, fmt.Errorf("telemetry: tracer provider: %w", err)
	}

	service.TracesProvider = tracerProvider
	service.TextMapPropagator = propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{})

	if settings.VerboseMode {
		service.Slogger.InfoContext(ctx, "telemetry initialized",
			"level", level.String(),
			"otlpEnabled", settings.OTLPEnabled,
			"serviceName", settings.OTLPService,
			"serviceNameFromFlag", settings.ServiceNameFromFlag)
	}

	return service, nil
}

// RequireNewForTest panics on failure; tests use it to skip error handling
// boilerplate for config they control.
func RequireNewForTest(ctx context.Context, settings *cryptoutilConfig.Settings) *TelemetryService {
	service, err := NewTelemetryService(ctx, settings)
	if err != nil {
		panic(err)
	}

	return service
}

func (s *TelemetryService) buildLoggerProvider(ctx context.Context, settings *cryptoutilConfig.Settings) (*sdklog.LoggerProvider, error) {
	var processors []sdklog.Processor

	if settings.OTLPConsole || settings.DevMode {
		processors = append(processors, sdklog.NewSimpleProcessor(newStdoutLogExporter()))
	}

	if settings.OTLPEnabled {
		exporter, err := s.newOTLPLogExporter(ctx, settings)
		if err != nil {
			return nil, err
		}

		processors = append(processors, sdklog.NewBatchProcessor(exporter))
	}

	opts := make([]sdklog.LoggerProviderOption, 0, len(processors))
	for _, p := range processors {
		opts = append(opts, sdklog.WithProcessor(p))
	}

	provider := sdklog.NewLoggerProvider(opts...)

	s.shutdownFuncs = append(s.shutdownFuncs, provider.Shutdown)

	return provider, nil
}

func (s *TelemetryService) buildMeterProvider(ctx context.Context, settings *cryptoutilConfig.Settings) (metric.MeterProvider, error) {
	var readers []sdkmetric.Option

	if settings.OTLPConsole || settings.DevMode {
		exporter, err := stdoutmetric.New()
		if err != nil {
			return nil, err
		}

		readers = append(readers, sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)))
	}

	if settings.OTLPEnabled {
		exporter, err := s.newOTLPMetricExporter(ctx, settings)
		if err != nil {
			return nil, err
		}

		readers = append(readers, sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)))
	}

	provider := sdkmetric.NewMeterProvider(readers...)

	s.shutdownFuncs = append(s.shutdownFuncs, provider.Shutdown)

	return provider, nil
}

func (s *TelemetryService) buildTracerProvider(ctx context.Context, settings *cryptoutilConfig.Settings) (*sdktrace.TracerProvider, error) {
	var opts []sdktrace.TracerProviderOption

	if settings.OTLPConsole || settings.DevMode {
		exporter, err := stdouttrace.New()
		if err != nil {
			return nil, err
		}

		opts = append(opts, sdktrace.WithBatcher(exporter))
	}

	if settings.OTLPEnabled {
		exporter, err := s.newOTLPTraceExporter(ctx, settings)
		if err != nil {
			return nil, err
		}

		opts = append(opts, sdktrace.WithBatcher(exporter))
	}

	provider := sdktrace.NewTracerProvider(opts...)

	s.shutdownFuncs = append(s.shutdownFuncs, provider.Shutdown)

	return provider, nil
}

func (s *TelemetryService) newOTLPLogExporter(ctx context.Context, settings *cryptoutilConfig.Settings) (sdklog.Exporter, error) {
	isHTTP, isHTTPS, isGRPC, isGRPCS, addr, err := parseProtocolAndEndpoint(&settings.OTLPEndpoint)
	if err != nil {
		return nil, err
	}

	switch {
	case isHTTP || isHTTPS:
		opts := []otlploghttp.Option{otlploghttp.WithEndpoint(*addr)}
		if isHTTP || settings.OTLPInsecure {
			opts = append(opts, otlploghttp.WithInsecure())
		}

		return otlploghttp.New(ctx, opts...)
	case isGRPC || isGRPCS:
		opts := []otlploggrpc.Option{otlploggrpc.WithEndpoint(*addr)}
		if isGRPC || settings.OTLPInsecure {
			opts = append(opts, otlploggrpc.WithInsecure())
		} else {
			opts = append(opts, otlploggrpc.WithTLSCredentials(credentialsFromTLS(&tls.Config{MinVersion: tls.VersionTLS12})))
		}

		return otlploggrpc.New(ctx, opts...)
	default:
		return nil, fmt.Errorf("invalid OTLP endpoint protocol: %s", settings.OTLPEndpoint)
	}
}

func (s *TelemetryService) newOTLPMetricExporter(ctx context.Context, settings *cryptoutilConfig.Settings) (sdkmetric.Exporter, error) {
	isHTTP, isHTTPS, isGRPC, isGRPCS, addr, err := parseProtocolAndEndpoint(&settings.OTLPEndpoint)
	if err != nil {
		return nil, err
	}

	switch {
	case isHTTP || isHTTPS:
		opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(*addr)}
		if isHTTP || settings.OTLPInsecure {
			opts = append(opts, otlpmetrichttp.WithInsecure())
		}

		return otlpmetrichttp.New(ctx, opts...)
	case isGRPC || isGRPCS:
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(*addr)}
		if isGRPC || settings.OTLPInsecure {
			opts = append(opts, otlpmetricgrpc.WithInsecure())
		} else {
			opts = append(opts, otlpmetricgrpc.WithTLSCredentials(credentialsFromTLS(&tls.Config{MinVersion: tls.VersionTLS12})))
		}

		return otlpmetricgrpc.New(ctx, opts...)
	default:
		return nil, fmt.Errorf("invalid OTLP endpoint protocol: %s", settings.OTLPEndpoint)
	}
}

func (s *TelemetryService) newOTLPTraceExporter(ctx context.Context, settings *cryptoutilConfig.Settings) (sdktrace.SpanExporter, error) {
	isHTTP, isHTTPS, isGRPC, isGRPCS, addr, err := parseProtocolAndEndpoint(&settings.OTLPEndpoint)
	if err != nil {
		return nil, err
	}

	switch {
	case isHTTP || isHTTPS:
		opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(*addr)}
		if isHTTP || settings.OTLPInsecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}

		return otlptracehttp.New(ctx, opts...)
	case isGRPC || isGRPCS:
		opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(*addr)}
		if isGRPC || settings.OTLPInsecure {
			opts = append(opts, otlptracegrpc.WithInsecure())
		} else {
			opts = append(opts, otlptracegrpc.WithTLSCredentials(credentialsFromTLS(&tls.Config{MinVersion: tls.VersionTLS12})))
		}

		return otlptracegrpc.New(ctx, opts...)
	default:
		return nil, fmt.Errorf("invalid OTLP endpoint protocol: %s", settings.OTLPEndpoint)
	}
}

// parseProtocolAndEndpoint splits a scheme-qualified endpoint into its
// protocol flags and bare host:port address, defaulting the port to the
// OTLP convention (4318 for HTTP, 4317 for gRPC) when omitted.
func parseProtocolAndEndpoint(endpoint *string) (isHTTP, isHTTPS, isGRPC, isGRPCS bool, addr *string, err error) {
	e := *endpoint

	switch {
	case strings.HasPrefix(e, "http://"):
		isHTTP = true
		e = strings.TrimPrefix(e, "http://")
	case strings.HasPrefix(e, "https://"):
		isHTTPS = true
		e = strings.TrimPrefix(e, "https://")
	case strings.HasPrefix(e, "grpc://"):
		isGRPC = true
		e = strings.TrimPrefix(e, "grpc://")
	case strings.HasPrefix(e, "grpcs://"):
		isGRPCS = true
		e = strings.TrimPrefix(e, "grpcs://")
	default:
		return false, false, false, false, nil, fmt.Errorf("invalid OTLP endpoint protocol: %s", *endpoint)
	}

	if !strings.Contains(e, ":") {
		if isHTTP || isHTTPS {
			e += ":4318"
		} else {
			e += ":4317"
		}
	}

	return isHTTP, isHTTPS, isGRPC, isGRPCS, &e, nil
}

// credentialsFromTLS wraps a tls.Config as gRPC transport credentials, for
// the grpcs:// OTLP endpoint case.
func credentialsFromTLS(cfg *tls.Config) credentials.TransportCredentials {
	return credentials.NewTLS(cfg)
}

// ParseLogLevel maps the teacher's human log-level vocabulary onto slog's
// four-level scheme, folding the extra names (TRACE/CONFIG/NOTICE/ALL/OFF)
// onto their nearest slog equivalent.
func ParseLogLevel(level string) (slog.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "ALL", "TRACE", "DEBUG":
		return slog.LevelDebug, nil
	case "CONFIG", "INFO", "NOTICE":
		return slog.LevelInfo, nil
	case "WARN":
		return slog.LevelWarn, nil
	case "ERROR", "FATAL":
		return slog.LevelError, nil
	case "OFF":
		return slog.Level(1 << 20), nil
	default:
		return 0, fmt.Errorf("invalid log level: %q", level)
	}
}

// CheckSidecarHealth pings the configured OTLP endpoint's HTTP health
// surface; a nil return with OTLP disabled means there's nothing to check.
func (s *TelemetryService) CheckSidecarHealth(ctx context.Context) error {
	if !s.Settings.OTLPEnabled {
		return nil
	}

	endpoint := s.Settings.OTLPEndpoint

	_, isHTTPS, isGRPC, isGRPCS, addr, err := parseProtocolAndEndpoint(&endpoint)
	if err != nil {
		return err
	}

	if isGRPC || isGRPCS {
		return nil // gRPC health checks happen lazily on first export
	}

	scheme := "http"
	if isHTTPS {
		scheme = "https"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, scheme+"://"+*addr+"/", nil)
	if err != nil {
		return err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("sidecar health check: %w", err)
	}

	defer resp.Body.Close()

	return nil
}

// Shutdown flushes and closes every provider this service created, in the
// order they were built. Errors are logged, not returned: shutdown happens
// during process exit, where there's no one left to hand an error to.
func (s *TelemetryService) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for _, fn := range s.shutdownFuncs {
		if err := fn(ctx); err != nil && s.Slogger != nil {
			s.Slogger.Error("telemetry shutdown error", "error", err)
		}
	}

	if s.VerboseMode && s.Slogger != nil {
		s.Slogger.Info("telemetry shut down", "uptime", time.Since(s.StartTime).String())
	}
}

func newStdoutLogExporter() sdklog.Exporter {
	exporter, err := stdoutlog.New()
	if err != nil {
		return noopLogExporter{}
	}

	return exporter
}

type noopLogExporter struct{}

func (noopLogExporter) Export(context.Context, []sdklog.Record) error { return nil }
func (noopLogExporter) Shutdown(context.Context) error                { return nil }
func (noopLogExporter) ForceFlush(context.Context) error              { return nil }
