package observability

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
)

// InitMetrics installs the global meter provider exporting over OTLP/HTTP.
// Without an OTLP metrics endpoint instruments record into the no-op provider
// and only the Prometheus registry behind /metrics is populated.
func InitMetrics(ctx context.Context) (func(context.Context) error, error) {
	if !otlpConfigured("metrics") {
		return func(context.Context) error { return nil }, nil
	}

	exporter, err := otlpmetrichttp.New(ctx)
	if err != nil {
		return nil, err
	}

	res, err := newResource(ctx)
	if err != nil {
		return nil, err
	}

	provider := newMeterProvider(res, sdkmetric.NewPeriodicReader(exporter))

	otel.SetMeterProvider(provider)

	return provider.Shutdown, nil
}

// newMeterProvider tags every exported metric with res, the same resource
// traces and logs carry.
func newMeterProvider(res *resource.Resource, reader sdkmetric.Reader) *sdkmetric.MeterProvider {
	return sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
	)
}

// PrometheusHandler serves the default Prometheus registry.
func PrometheusHandler() http.Handler {
	return promhttp.Handler()
}
