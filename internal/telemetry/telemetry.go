package telemetry

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/trace"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/lintfix/internal/config"
)

// Telemetry owns the SDK tracer and meter providers for one process.
//
// Telemetry failures never fail the command; they degrade to the global
// no-op providers.
type Telemetry struct {
	config config.TelemetryConfig
	logger *zap.Logger

	tracerProvider *trace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider

	healthy  atomic.Bool
	degraded atomic.Bool
}

// Option configures New.
type Option func(*options)

type options struct {
	logger         *zap.Logger
	version        string
	traceExporter  trace.SpanExporter
	metricExporter sdkmetric.Exporter
	setGlobal      bool
}

// WithLogger sets the logger used to report degraded providers.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithVersion sets the service.version resource attribute.
func WithVersion(v string) Option {
	return func(o *options) {
		o.version = v
	}
}

// WithTraceExporter replaces the OTLP span exporter.
func WithTraceExporter(e trace.SpanExporter) Option {
	return func(o *options) {
		o.traceExporter = e
	}
}

// WithMetricExporter replaces the OTLP metric exporter.
func WithMetricExporter(e sdkmetric.Exporter) Option {
	return func(o *options) {
		o.metricExporter = e
	}
}

// WithoutGlobal keeps the providers off the otel globals.
func WithoutGlobal() Option {
	return func(o *options) {
		o.setGlobal = false
	}
}

// New validates cfg and starts the configured providers. A disabled config
// yields a healthy instance whose Tracer and Meter delegate to the globals.
func New(ctx context.Context, cfg config.TelemetryConfig, opts ...Option) (*Telemetry, error) {
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid telemetry config: %w", err)
	}

	o := options{logger: zap.NewNop(), version: "dev", setGlobal: true}
	for _, opt := range opts {
		opt(&o)
	}

	t := &Telemetry{config: cfg, logger: o.logger}
	t.healthy.Store(true)

	if !cfg.Enabled {
		return t, nil
	}

	res := newResource(o.version)

	tp, err := newTracerProvider(ctx, cfg, o.version, res, o.traceExporter)
	if err != nil {
		t.setDegraded("tracer provider failed", err)
	} else {
		t.tracerProvider = tp
		if o.setGlobal {
			otel.SetTracerProvider(tp)
		}
	}

	mp, err := newMeterProvider(ctx, cfg, o.version, res, o.metricExporter)
	if err != nil {
		t.setDegraded("meter provider failed", err)
	} else if mp != nil {
		t.meterProvider = mp
		if o.setGlobal {
			otel.SetMeterProvider(mp)
		}
	}

	if o.setGlobal {
		otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		))
	}

	t.logger.Debug("telemetry started",
		zap.String("endpoint", cfg.Endpoint),
		zap.String("protocol", cfg.Protocol),
		zap.Bool("metrics", t.meterProvider != nil),
	)
	return t, nil
}

// Tracer returns a tracer for the given instrumentation scope.
func (t *Telemetry) Tracer(name string, opts ...oteltrace.TracerOption) oteltrace.Tracer {
	if t == nil || t.tracerProvider == nil {
		return otel.GetTracerProvider().Tracer(name, opts...)
	}
	return t.tracerProvider.Tracer(name, opts...)
}

// Meter returns a meter for the given instrumentation scope.
func (t *Telemetry) Meter(name string, opts ...metric.MeterOption) metric.Meter {
	if t == nil || t.meterProvider == nil {
		return otel.GetMeterProvider().Meter(name, opts...)
	}
	return t.meterProvider.Meter(name, opts...)
}

// TracerProvider returns the SDK tracer provider, or the global one when
// tracing is not running.
func (t *Telemetry) TracerProvider() oteltrace.TracerProvider {
	if t == nil || t.tracerProvider == nil {
		return otel.GetTracerProvider()
	}
	return t.tracerProvider
}

// MeterProvider returns the SDK meter provider, or the global one when
// metrics are not running.
func (t *Telemetry) MeterProvider() metric.MeterProvider {
	if t == nil || t.meterProvider == nil {
		return otel.GetMeterProvider()
	}
	return t.meterProvider
}

// Shutdown flushes and stops both providers. Without a deadline on ctx the
// configured shutdown timeout applies.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	if t == nil {
		return nil
	}

	if _, ok := ctx.Deadline(); !ok && t.config.ShutdownTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.config.ShutdownTimeout.Duration())
		defer cancel()
	}

	var errs error
	if t.tracerProvider != nil {
		if err := t.tracerProvider.Shutdown(ctx); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("trace provider shutdown: %w", err))
		}
	}
	if t.meterProvider != nil {
		if err := t.meterProvider.Shutdown(ctx); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("meter provider shutdown: %w", err))
		}
	}

	t.healthy.Store(false)
	return errs
}

// ForceFlush immediately exports all pending telemetry.
func (t *Telemetry) ForceFlush(ctx context.Context) error {
	if t == nil {
		return nil
	}

	var errs error
	if t.tracerProvider != nil {
		if err := t.tracerProvider.ForceFlush(ctx); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("trace flush: %w", err))
		}
	}
	if t.meterProvider != nil {
		if err := t.meterProvider.ForceFlush(ctx); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("meter flush: %w", err))
		}
	}
	return errs
}

// HealthStatus reports provider health.
type HealthStatus struct {
	Healthy  bool `json:"healthy"`
	Degraded bool `json:"degraded"`
}

// Health returns the current telemetry health status.
func (t *Telemetry) Health() HealthStatus {
	if t == nil {
		return HealthStatus{Healthy: false, Degraded: true}
	}
	return HealthStatus{
		Healthy:  t.healthy.Load(),
		Degraded: t.degraded.Load(),
	}
}

// IsEnabled returns true if telemetry is enabled and healthy.
func (t *Telemetry) IsEnabled() bool {
	if t == nil {
		return false
	}
	return t.config.Enabled && t.healthy.Load()
}

func (t *Telemetry) setDegraded(msg string, err error) {
	t.degraded.Store(true)
	t.logger.Warn("telemetry degraded", zap.String("reason", msg), zap.Error(err))
}
