// Package telemetry provides OpenTelemetry instrumentation for lintfix.
//
// # Overview
//
// New installs an SDK TracerProvider and MeterProvider exporting over OTLP
// (gRPC or HTTP/protobuf) and registers them globally, so components that
// resolve otel.Tracer/otel.Meter at construction pick them up. The learning
// loop records a span per outcome and counts outcomes this way.
//
// # Usage
//
//	tel, err := telemetry.New(ctx, cfg.Telemetry, telemetry.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	defer tel.Shutdown(ctx)
//
// # Configuration
//
//	telemetry:
//	  enabled: true
//	  endpoint: "localhost:4317"
//	  protocol: "grpc"        # or "http/protobuf"
//	  sampling_rate: 1.0
//	  metrics_enabled: true
//	  export_interval: "15s"
//
// # Error Handling
//
// Exporter setup failures do not fail the command. The instance is marked
// degraded and falls back to the global no-op providers.
//
// # Testing
//
//	tt := telemetry.NewTestTelemetry()
//	loop := learning.NewLoop(store, nil, index, nil,
//	    learning.WithInstrumentation(tt.TracerProvider(), tt.MeterProvider()))
//	tt.AssertSpanExists(t, "learning.record_outcome")
package telemetry
