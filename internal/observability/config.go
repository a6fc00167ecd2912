package observability

import (
	"os"
	"strconv"
	"strings"

	"github.com/brjatoba92/loja-materiais-utilidades/internal/config"
	"github.com/brjatoba92/loja-materiais-utilidades/internal/observability/logger"
	"github.com/brjatoba92/loja-materiais-utilidades/internal/observability/metrics"
	"github.com/brjatoba92/loja-materiais-utilidades/internal/observability/tracing"
)

const defaultServiceName = "casa-e-lar"

// Exporter is the OTLP collector shared by traces and metrics.
type Exporter struct {
	Enabled       bool
	Endpoint      string
	Protocol      string
	SamplingRatio float64
}

type Config struct {
	ServiceName string
	Environment string
	Version     string

	LogLevel  string
	LogFormat string

	Exporter Exporter
}

// LoadConfig derives observability settings from the application config.
// OTEL_* variables override it; exporters default to on only in production.
func LoadConfig(cfg config.Config) Config {
	out := Config{
		ServiceName: firstNonEmpty(os.Getenv("OTEL_SERVICE_NAME"), cfg.AppName, defaultServiceName),
		Environment: firstNonEmpty(os.Getenv("DEPLOYMENT_ENV"), cfg.Environment),
		Version:     firstNonEmpty(os.Getenv("SERVICE_VERSION"), cfg.AppVersion),
		LogLevel:    strings.ToLower(firstNonEmpty(os.Getenv("LOG_LEVEL"), "info")),
		LogFormat:   strings.ToLower(firstNonEmpty(os.Getenv("LOG_FORMAT"), "json")),
		Exporter: Exporter{
			Enabled: cfg.IsProduction(),
			Endpoint: firstNonEmpty(
				os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
				cfg.OTLPEndpoint,
			),
			Protocol: strings.ToLower(firstNonEmpty(
				os.Getenv("OTEL_EXPORTER_OTLP_TRACES_PROTOCOL"),
				os.Getenv("OTEL_EXPORTER_OTLP_PROTOCOL"),
				"grpc",
			)),
			SamplingRatio: 0.1,
		},
	}

	if v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv("OTEL_ENABLED"))); err == nil {
		out.Exporter.Enabled = v
	}
	if v, err := strconv.ParseFloat(strings.TrimSpace(os.Getenv("OTEL_SAMPLING_RATIO")), 64); err == nil {
		out.Exporter.SamplingRatio = min(max(v, 0), 1)
	}
	return out
}

// Debug is true for debug log level or a development environment.
func (c Config) Debug() bool {
	if strings.EqualFold(strings.TrimSpace(c.LogLevel), "debug") {
		return true
	}
	switch strings.ToLower(strings.TrimSpace(c.Environment)) {
	case "dev", "development", "local", "test":
		return true
	}
	return false
}

func (c Config) logger() logger.Config {
	debug := c.Debug()
	return logger.Config{
		ServiceName:         c.ServiceName,
		Environment:         c.Environment,
		Version:             c.Version,
		Level:               c.LogLevel,
		Format:              c.LogFormat,
		Debug:               debug,
		IncludeCaller:       true,
		IncludeStackOnError: debug,
	}
}

func (c Config) tracing() tracing.Config {
	return tracing.Config{
		Enabled:          c.Exporter.Enabled,
		ServiceName:      c.ServiceName,
		ServiceVersion:   c.Version,
		Environment:      c.Environment,
		ExporterEndpoint: c.Exporter.Endpoint,
		ExporterProtocol: c.Exporter.Protocol,
		SamplingRatio:    c.Exporter.SamplingRatio,
	}
}

func (c Config) metrics() metrics.Config {
	return metrics.Config{
		Enabled:          c.Exporter.Enabled,
		ExporterEndpoint: c.Exporter.Endpoint,
		ExporterProtocol: c.Exporter.Protocol,
		ServiceName:      c.ServiceName,
		Environment:      c.Environment,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
