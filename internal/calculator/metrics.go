package calculator

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"go-chi-calculator/internal/observability"
	"go-chi-calculator/internal/session"
)

// Metric instruments, initialized once via InitMetrics(). Until then they
// discard everything.
var (
	opsCounter       metric.Int64Counter     = noop.Int64Counter{}
	opsHistogram     metric.Float64Histogram = noop.Float64Histogram{}
	errorCounter     metric.Int64Counter     = noop.Int64Counter{}
	nonFiniteCounter metric.Int64Counter     = noop.Int64Counter{}
	resultGauge      metric.Float64Gauge     = noop.Float64Gauge{}
)

// InitMetrics registers custom OTel metric instruments for the calculator domain.
// Call this once at startup (after observability.InitMetrics).
func InitMetrics() error {
	meter := otel.Meter("calculator")

	var err error

	opsCounter, err = meter.Int64Counter("calculator.operations.total",
		metric.WithDescription("Total number of calculator operations performed"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return fmt.Errorf("creating ops counter: %w", err)
	}

	opsHistogram, err = meter.Float64Histogram("calculator.operation.duration",
		metric.WithDescription("Duration of calculator operations in milliseconds"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.5, 1, 5, 10),
	)
	if err != nil {
		return fmt.Errorf("creating ops histogram: %w", err)
	}

	errorCounter, err = meter.Int64Counter("calculator.errors.total",
		metric.WithDescription("Total number of calculator errors"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return fmt.Errorf("creating error counter: %w", err)
	}

	nonFiniteCounter, err = meter.Int64Counter("calculator.non_finite_results.total",
		metric.WithDescription("Results that came out NaN or infinite"),
		metric.WithUnit("{result}"),
	)
	if err != nil {
		return fmt.Errorf("creating non-finite counter: %w", err)
	}

	resultGauge, err = meter.Float64Gauge("calculator.last_result",
		metric.WithDescription("The result of the last calculator operation"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("creating result gauge: %w", err)
	}

	return nil
}

// RegisterSessionMetrics exposes the number of live sessions in store on the
// Prometheus endpoint.
func RegisterSessionMetrics(store *session.Store) error {
	gauge := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "calculator",
		Name:      "active_sessions",
		Help:      "Number of calculator sessions currently held in memory.",
	}, func() float64 {
		return float64(store.Len())
	})

	if err := observability.RegisterCollector(gauge); err != nil {
		return fmt.Errorf("registering session gauge: %w", err)
	}
	return nil
}
