package telemetry

import (
	"fmt"
	"strings"

	"github.com/fyrsmithlabs/lintfix/internal/config"
)

// Supported OTLP protocols.
const (
	ProtocolGRPC = "grpc"
	ProtocolHTTP = "http/protobuf"
)

// ServiceName identifies lintfix in exported resources.
const ServiceName = "lintfix"

// Validate checks telemetry configuration for errors.
func Validate(c config.TelemetryConfig) error {
	if !c.Enabled {
		return nil
	}

	if c.Endpoint == "" {
		return fmt.Errorf("endpoint is required when telemetry is enabled")
	}

	switch c.Protocol {
	case "", ProtocolGRPC, ProtocolHTTP:
	default:
		return fmt.Errorf("protocol must be %q or %q, got %q", ProtocolGRPC, ProtocolHTTP, c.Protocol)
	}

	if c.Insecure && !isLocalEndpoint(c.Endpoint) {
		return fmt.Errorf("insecure connections to remote endpoints are not allowed; set insecure=false for TLS or use a local endpoint (localhost/127.0.0.1)")
	}

	if c.SamplingRate < 0 || c.SamplingRate > 1 {
		return fmt.Errorf("sampling_rate must be between 0 and 1, got %f", c.SamplingRate)
	}

	if c.MetricsEnabled && c.ExportInterval.Duration() <= 0 {
		return fmt.Errorf("export_interval must be positive when metrics enabled")
	}

	if c.ShutdownTimeout.Duration() <= 0 {
		return fmt.Errorf("shutdown_timeout must be positive")
	}

	return nil
}

// isLocalEndpoint checks if the endpoint is a loopback address.
func isLocalEndpoint(endpoint string) bool {
	host := stripScheme(endpoint)

	if strings.HasPrefix(host, "[") {
		// Bracketed IPv6: [::1]:4317
		if idx := strings.Index(host, "]"); idx != -1 {
			host = host[1:idx]
		}
	} else if strings.Count(host, ":") == 1 {
		host = host[:strings.LastIndex(host, ":")]
	}

	return host == "localhost" ||
		host == "::1" ||
		strings.HasPrefix(host, "127.")
}

// stripScheme removes http:// or https:// from an endpoint URL.
// The OTLP exporters expect host:port.
func stripScheme(endpoint string) string {
	endpoint = strings.TrimPrefix(endpoint, "https://")
	endpoint = strings.TrimPrefix(endpoint, "http://")
	return endpoint
}
