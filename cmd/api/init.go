package main

import (
	"context"
	"errors"

	"go-chi-calculator/internal/calculator"
	"go-chi-calculator/internal/config"
	"go-chi-calculator/internal/observability"
	"go-chi-calculator/internal/session"
)

// initObservability starts every enabled OTel provider and the calculator's
// metric instruments. The returned function shuts the providers down.
func initObservability(ctx context.Context, cfg config.Config) (func(context.Context) error, error) {
	var shutdowns []func(context.Context) error

	shutdown := func(ctx context.Context) error {
		var errs []error
		for i := len(shutdowns) - 1; i >= 0; i-- {
			errs = append(errs, shutdowns[i](ctx))
		}
		return errors.Join(errs...)
	}

	if cfg.TracingEnabled {
		traceShutdown, err := observability.InitTracing(ctx, cfg.ServiceName)
		if err != nil {
			return nil, err
		}
		shutdowns = append(shutdowns, traceShutdown)
	}

	if cfg.OTLPMetricsEnabled {
		metricShutdown, err := observability.InitMetrics(ctx, cfg.ServiceName)
		if err != nil {
			shutdown(ctx)
			return nil, err
		}
		shutdowns = append(shutdowns, metricShutdown)
	}

	if cfg.OTLPLogsEnabled {
		logShutdown, err := observability.InitLogging(ctx, cfg.ServiceName)
		if err != nil {
			shutdown(ctx)
			return nil, err
		}
		shutdowns = append(shutdowns, logShutdown)
	}

	if err := calculator.InitMetrics(); err != nil {
		shutdown(ctx)
		return nil, err
	}

	return shutdown, nil
}

// initSessionMetrics exposes session store gauges on /metrics.
func initSessionMetrics(sessions *session.Store) error {
	return calculator.RegisterSessionMetrics(sessions)
}
