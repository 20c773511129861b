package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	HTTPRequestsTotal      metric.Int64Counter
	HTTPRequestDuration    metric.Float64Histogram
	AuthRequestsTotal      metric.Int64Counter
	GatewayRequestsTotal   metric.Int64Counter
	GatewayRequestDuration metric.Float64Histogram
	SessionRestoresTotal   metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metric instruments once, using the
// globally configured MeterProvider. Safe to call before the provider is
// set up: the default provider hands out no-op instruments.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("specs-inspector-web")
		m := &AppMetrics{}
		var err error

		m.HTTPRequestsTotal, err = meter.Int64Counter(
			"http_requests_total",
			metric.WithDescription("Total number of HTTP requests completed"),
			metric.WithUnit("{request}"),
		)
		logInstrumentErr("http_requests_total", err)

		m.HTTPRequestDuration, err = meter.Float64Histogram(
			"http_request_duration_seconds",
			metric.WithDescription("Duration of HTTP requests in seconds"),
			metric.WithUnit("s"),
		)
		logInstrumentErr("http_request_duration_seconds", err)

		m.AuthRequestsTotal, err = meter.Int64Counter(
			"auth_requests_total",
			metric.WithDescription("Total number of authentication requests"),
			metric.WithUnit("{request}"),
		)
		logInstrumentErr("auth_requests_total", err)

		m.GatewayRequestsTotal, err = meter.Int64Counter(
			"gateway_requests_total",
			metric.WithDescription("Total number of requests sent to the platform API"),
			metric.WithUnit("{request}"),
		)
		logInstrumentErr("gateway_requests_total", err)

		m.GatewayRequestDuration, err = meter.Float64Histogram(
			"gateway_request_duration_seconds",
			metric.WithDescription("Duration of platform API requests in seconds"),
			metric.WithUnit("s"),
		)
		logInstrumentErr("gateway_request_duration_seconds", err)

		m.SessionRestoresTotal, err = meter.Int64Counter(
			"session_restores_total",
			metric.WithDescription("Sessions rehydrated from persisted state"),
			metric.WithUnit("{session}"),
		)
		logInstrumentErr("session_restores_total", err)

		appMetrics = m
	})
}

// Get returns the globally initialized AppMetrics instance, initializing
// it on first use.
func Get() *AppMetrics {
	InitAppMetrics()
	return appMetrics
}

func logInstrumentErr(name string, err error) {
	if err != nil {
		log.Printf("Metrics: failed to create %s: %v", name, err)
	}
}
