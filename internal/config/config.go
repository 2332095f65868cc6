// Package config reads service settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

// Config holds every runtime setting of the calculator service.
type Config struct {
	Addr            string
	ServiceName     string
	ShutdownTimeout time.Duration

	LogLevel       string
	LogDevelopment bool

	TracingEnabled     bool
	OTLPMetricsEnabled bool
	OTLPLogsEnabled    bool

	SessionTTL           time.Duration
	SessionSweepInterval time.Duration
	MaxSessions          int
	ResetClearsVariables bool
}

// Default returns the settings used when no variable is set.
func Default() Config {
	return Config{
		Addr:                 ":8080",
		ServiceName:          "calculator-api",
		ShutdownTimeout:      5 * time.Second,
		LogLevel:             "info",
		TracingEnabled:       true,
		OTLPMetricsEnabled:   true,
		SessionTTL:           30 * time.Minute,
		SessionSweepInterval: time.Minute,
		MaxSessions:          10000,
	}
}

// LoadDotEnv loads variables from .env when present. Existing process
// environment variables are not overridden.
func LoadDotEnv(filenames ...string) error {
	err := godotenv.Load(filenames...)
	if err == nil {
		return nil
	}

	if errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return fmt.Errorf("load .env: %w", err)
}

// Load builds a Config from the environment on top of Default.
func Load() (Config, error) {
	return load(os.LookupEnv)
}

func load(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	r := reader{lookup: lookup}

	r.str("CALC_ADDR", &cfg.Addr)
	r.str("OTEL_SERVICE_NAME", &cfg.ServiceName)
	r.duration("CALC_SHUTDOWN_TIMEOUT", &cfg.ShutdownTimeout)
	r.str("LOG_LEVEL", &cfg.LogLevel)
	r.boolean("LOG_DEVELOPMENT", &cfg.LogDevelopment)
	r.boolean("CALC_TRACING_ENABLED", &cfg.TracingEnabled)
	r.boolean("CALC_OTLP_METRICS_ENABLED", &cfg.OTLPMetricsEnabled)
	r.boolean("CALC_OTLP_LOGS_ENABLED", &cfg.OTLPLogsEnabled)
	r.duration("CALC_SESSION_TTL", &cfg.SessionTTL)
	r.duration("CALC_SESSION_SWEEP_INTERVAL", &cfg.SessionSweepInterval)
	r.integer("CALC_MAX_SESSIONS", &cfg.MaxSessions)
	r.boolean("CALC_RESET_CLEARS_VARIABLES", &cfg.ResetClearsVariables)

	if r.err != nil {
		return Config{}, r.err
	}
	if cfg.MaxSessions < 0 {
		return Config{}, fmt.Errorf("CALC_MAX_SESSIONS: must not be negative, got %d", cfg.MaxSessions)
	}
	return cfg, nil
}

// reader converts variables and keeps the first error it meets.
type reader struct {
	lookup func(string) (string, bool)
	err    error
}

func (r *reader) get(key string) (string, bool) {
	if r.err != nil {
		return "", false
	}
	v, ok := r.lookup(key)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func (r *reader) str(key string, dst *string) {
	if v, ok := r.get(key); ok {
		*dst = v
	}
}

func (r *reader) boolean(key string, dst *bool) {
	v, ok := r.get(key)
	if !ok {
		return
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		r.err = fmt.Errorf("%s: %w", key, err)
		return
	}
	*dst = b
}

func (r *reader) integer(key string, dst *int) {
	v, ok := r.get(key)
	if !ok {
		return
	}
	n, err := cast.ToIntE(v)
	if err != nil {
		r.err = fmt.Errorf("%s: %w", key, err)
		return
	}
	*dst = n
}

func (r *reader) duration(key string, dst *time.Duration) {
	v, ok := r.get(key)
	if !ok {
		return
	}
	d, err := cast.ToDurationE(v)
	if err != nil {
		r.err = fmt.Errorf("%s: %w", key, err)
		return
	}
	*dst = d
}
