package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
}

// Metrics exposes store-level OpenTelemetry instruments.
type Metrics struct {
	orders     metric.Int64Counter
	revenue    metric.Float64Counter
	points     metric.Int64Counter
	rejected   metric.Int64Counter
	rateLimits metric.Int64Counter
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				if log != nil {
					log.Info("shutting down meter provider")
				}
				return provider.Shutdown(ctx)
			},
		})
	}

	if log != nil {
		log.Info("metrics initialized",
			zap.String("endpoint", cfg.ExporterEndpoint),
			zap.String("protocol", cfg.ExporterProtocol),
		)
	}

	return provider, nil
}

// New registers the storefront instruments on provider.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	meter := provider.Meter(firstNonEmpty(cfg.ServiceName, "casa-e-lar"))
	m := &Metrics{}

	counters := []struct {
		dst  *metric.Int64Counter
		name string
		desc string
	}{
		{&m.orders, "loja_orders_created_total", "Committed checkouts."},
		{&m.points, "loja_points_total", "Loyalty points moved, by direction (earned or redeemed)."},
		{&m.rejected, "loja_checkout_rejected_total", "Checkouts rolled back, by reason."},
		{&m.rateLimits, "loja_rate_limit_decisions_total", "Rate limiter decisions, by outcome."},
	}
	for _, c := range counters {
		counter, err := meter.Int64Counter(c.name, metric.WithDescription(c.desc))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", c.name, err)
		}
		*c.dst = counter
	}

	revenue, err := meter.Float64Counter("loja_order_revenue_total",
		metric.WithDescription("Order totals after discount."),
		metric.WithUnit("BRL"),
	)
	if err != nil {
		return nil, fmt.Errorf("loja_order_revenue_total: %w", err)
	}
	m.revenue = revenue
	return m, nil
}

// RecordOrderCreated records a committed checkout.
func (m *Metrics) RecordOrderCreated(ctx context.Context, total float64, redeemed, earned int64) {
	if m == nil {
		return
	}
	m.orders.Add(ctx, 1)
	m.revenue.Add(ctx, total)
	m.addPoints(ctx, "redeemed", redeemed)
	m.addPoints(ctx, "earned", earned)
}

func (m *Metrics) addPoints(ctx context.Context, direction string, n int64) {
	if n <= 0 {
		return
	}
	m.points.Add(ctx, n, metric.WithAttributes(attribute.String("direction", direction)))
}

// RecordCheckoutRejected counts checkouts rolled back for a business reason.
func (m *Metrics) RecordCheckoutRejected(ctx context.Context, reason string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("reason", strings.TrimSpace(reason)))
	m.rejected.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func (m *Metrics) RecordRateLimitAllowed(ctx context.Context, endpoint string) {
	m.recordRateLimit(ctx, "allowed", endpoint, "")
}

func (m *Metrics) RecordRateLimitDenied(ctx context.Context, endpoint, reason string) {
	m.recordRateLimit(ctx, "denied", endpoint, reason)
}

func (m *Metrics) recordRateLimit(ctx context.Context, outcome, endpoint, reason string) {
	if m == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String("outcome", outcome),
		attribute.String("endpoint", strings.TrimSpace(endpoint)),
	}
	if reason = strings.TrimSpace(reason); reason != "" {
		attrs = append(attrs, attribute.String("reason", reason))
	}
	m.rateLimits.Add(ctx, 1, metric.WithAttributes(FilterAttributes(attrs...)...))
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	protocol = strings.ToLower(strings.TrimSpace(protocol))
	switch protocol {
	case "http", "http/protobuf":
		opts := []otlpmetrichttp.Option{}
		if endpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		}
		return otlpmetrichttp.New(context.Background(), opts...)
	case "grpc", "grpc/protobuf", "":
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetricgrpc.WithEndpoint(endpoint))
		}
		return otlpmetricgrpc.New(context.Background(), opts...)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol %q", protocol)
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

var allowedLabelKeys = map[attribute.Key]struct{}{
	"endpoint":    {},
	"status_code": {},
	"status":      {},
	"event_type":  {},
	"reason":      {},
	"outcome":     {},
	"direction":   {},
}

// FilterAttributes strips disallowed labels to keep metrics low-cardinality.
func FilterAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	filtered := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if _, ok := allowedLabelKeys[attr.Key]; !ok {
			continue
		}
		filtered = append(filtered, attr)
	}
	return filtered
}
