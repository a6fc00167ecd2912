package observability

import (
	"testing"

	"github.com/brjatoba92/loja-materiais-utilidades/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDisablesExportersOutsideProduction(t *testing.T) {
	t.Setenv("OTEL_ENABLED", "")
	t.Setenv("LOG_LEVEL", "")

	cfg := LoadConfig(config.Config{AppName: "loja", Environment: "development"})

	assert.False(t, cfg.Exporter.Enabled)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.Debug())
}

func TestLoadConfigProductionDefaults(t *testing.T) {
	t.Setenv("OTEL_ENABLED", "")
	t.Setenv("DEPLOYMENT_ENV", "")
	t.Setenv("OTEL_SERVICE_NAME", "")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")

	cfg := LoadConfig(config.Config{Environment: "production", OTLPEndpoint: "collector:4317"})

	assert.True(t, cfg.Exporter.Enabled)
	assert.Equal(t, "casa-e-lar", cfg.ServiceName)
	assert.Equal(t, "collector:4317", cfg.Exporter.Endpoint)
	assert.False(t, cfg.Debug())
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("OTEL_ENABLED", "true")
	t.Setenv("OTEL_SAMPLING_RATIO", "7")
	t.Setenv("OTEL_SERVICE_NAME", "loja-api")
	t.Setenv("OTEL_EXPORTER_OTLP_PROTOCOL", "HTTP/protobuf")
	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_PROTOCOL", "")
	t.Setenv("DEPLOYMENT_ENV", "")
	t.Setenv("LOG_LEVEL", "")

	cfg := LoadConfig(config.Config{AppName: "loja", Environment: "staging"})

	assert.True(t, cfg.Exporter.Enabled)
	assert.Equal(t, 1.0, cfg.Exporter.SamplingRatio)
	assert.Equal(t, "loja-api", cfg.ServiceName)
	assert.Equal(t, "http/protobuf", cfg.Exporter.Protocol)
	assert.False(t, cfg.Debug())

	tc := cfg.tracing()
	assert.Equal(t, "loja-api", tc.ServiceName)
	assert.True(t, tc.Enabled)
	assert.Equal(t, cfg.Exporter.Endpoint, cfg.metrics().ExporterEndpoint)
}
