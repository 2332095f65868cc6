package observability

import (
	"context"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// InitMetrics installs a global meter provider pushing to an OTLP/HTTP endpoint.
func InitMetrics(ctx context.Context, serviceName string) (func(context.Context) error, error) {

	exporter, err := otlpmetrichttp.New(ctx)
	if err != nil {
		return nil, err
	}

	res, err := newResource(ctx, serviceName)
	if err != nil {
		return nil, err
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(
			sdkmetric.NewPeriodicReader(exporter),
		),
	)

	otel.SetMeterProvider(provider)

	return provider.Shutdown, nil
}

// RegisterCollector registers c with the default Prometheus registry. A
// collector registered earlier under the same descriptor is replaced.
func RegisterCollector(c prometheus.Collector) error {
	err := prometheus.Register(c)
	if err == nil {
		return nil
	}

	var are prometheus.AlreadyRegisteredError
	if !errors.As(err, &are) {
		return err
	}

	prometheus.Unregister(are.ExistingCollector)
	return prometheus.Register(c)
}

func PrometheusHandler() http.Handler {
	return promhttp.Handler()
}
