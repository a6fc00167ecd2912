package observability

import (
	"github.com/brjatoba92/loja-materiais-utilidades/internal/observability/logger"
	"github.com/brjatoba92/loja-materiais-utilidades/internal/observability/metrics"
	"github.com/brjatoba92/loja-materiais-utilidades/internal/observability/tracing"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/fx"
)

var Module = fx.Module("observability",
	fx.Provide(
		LoadConfig,
		Config.logger,
		Config.tracing,
		Config.metrics,
		logger.New,
		tracing.NewProvider,
		metrics.NewProvider,
		metrics.New,
		metrics.NewHTTPMetrics,
	),
	// The tracer provider installs itself globally, and the checkout
	// collectors must exist before the first order.
	fx.Invoke(
		func(*sdktrace.TracerProvider) {},
		func(cfg metrics.Config) { metrics.CheckoutWithConfig(cfg) },
	),
)
