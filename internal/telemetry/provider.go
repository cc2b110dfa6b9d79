package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"google.golang.org/grpc"

	"github.com/fyrsmithlabs/lintfix/internal/config"
)

// newResource creates a resource describing lintfix.
func newResource(version string) *resource.Resource {
	// A standalone resource avoids schema URL conflicts with resource.Default.
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(ServiceName),
		semconv.ServiceVersion(version),
	)
}

func userAgent(version string) string {
	return ServiceName + "/" + version
}

func newSpanExporter(ctx context.Context, cfg config.TelemetryConfig, version string) (trace.SpanExporter, error) {
	if cfg.Protocol == ProtocolHTTP {
		opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(stripScheme(cfg.Endpoint))}
		if cfg.Insecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		return otlptracehttp.New(ctx, opts...)
	}
	opts := []otlptracegrpc.Option{
		otlptracegrpc.WithEndpoint(stripScheme(cfg.Endpoint)),
		otlptracegrpc.WithDialOption(grpc.WithUserAgent(userAgent(version))),
	}
	if cfg.Insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}
	return otlptracegrpc.New(ctx, opts...)
}

// newTracerProvider creates a TracerProvider exporting to exporter, or to a
// new OTLP exporter when exporter is nil.
func newTracerProvider(ctx context.Context, cfg config.TelemetryConfig, version string, res *resource.Resource, exporter trace.SpanExporter) (*trace.TracerProvider, error) {
	if exporter == nil {
		var err error
		exporter, err = newSpanExporter(ctx, cfg, version)
		if err != nil {
			return nil, fmt.Errorf("creating trace exporter: %w", err)
		}
	}

	var sampler trace.Sampler
	switch {
	case cfg.SamplingRate >= 1.0:
		sampler = trace.AlwaysSample()
	case cfg.SamplingRate <= 0:
		sampler = trace.NeverSample()
	default:
		sampler = trace.TraceIDRatioBased(cfg.SamplingRate)
	}

	return trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(res),
		trace.WithSampler(trace.ParentBased(sampler)),
	), nil
}

// cumulative is required by Prometheus-compatible backends and overrides
// any OTEL_EXPORTER_OTLP_METRICS_TEMPORALITY_PREFERENCE inherited from the
// parent process.
func cumulative(metric.InstrumentKind) metricdata.Temporality {
	return metricdata.CumulativeTemporality
}

func newMetricExporter(ctx context.Context, cfg config.TelemetryConfig, version string) (metric.Exporter, error) {
	if cfg.Protocol == ProtocolHTTP {
		opts := []otlpmetrichttp.Option{
			otlpmetrichttp.WithEndpoint(stripScheme(cfg.Endpoint)),
			otlpmetrichttp.WithTemporalitySelector(cumulative),
		}
		if cfg.Insecure {
			opts = append(opts, otlpmetrichttp.WithInsecure())
		}
		return otlpmetrichttp.New(ctx, opts...)
	}
	opts := []otlpmetricgrpc.Option{
		otlpmetricgrpc.WithEndpoint(stripScheme(cfg.Endpoint)),
		otlpmetricgrpc.WithTemporalitySelector(cumulative),
		otlpmetricgrpc.WithDialOption(grpc.WithUserAgent(userAgent(version))),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}
	return otlpmetricgrpc.New(ctx, opts...)
}

// newMeterProvider creates a MeterProvider with a periodic reader, or nil
// when metrics are disabled.
func newMeterProvider(ctx context.Context, cfg config.TelemetryConfig, version string, res *resource.Resource, exporter metric.Exporter) (*metric.MeterProvider, error) {
	if !cfg.MetricsEnabled {
		return nil, nil
	}
	if exporter == nil {
		var err error
		exporter, err = newMetricExporter(ctx, cfg, version)
		if err != nil {
			return nil, fmt.Errorf("creating metric exporter: %w", err)
		}
	}

	return metric.NewMeterProvider(
		metric.WithResource(res),
		metric.WithReader(metric.NewPeriodicReader(exporter,
			metric.WithInterval(cfg.ExportInterval.Duration()),
		)),
	), nil
}
