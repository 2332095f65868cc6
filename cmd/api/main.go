package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"go-chi-calculator/internal/config"
	"go-chi-calculator/internal/engine"
	"go-chi-calculator/internal/observability"
	"go-chi-calculator/internal/server"
	"go-chi-calculator/internal/session"
)

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Config
	if err := config.LoadDotEnv(); err != nil {
		panic(err)
	}
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	// Logger
	err = observability.InitLogger(cfg.LogLevel, cfg.LogDevelopment)
	if err != nil {
		panic(err)
	}
	defer observability.SyncLogger()

	// Tracing, metrics, OTLP logs
	shutdown, err := initObservability(ctx, cfg)
	if err != nil {
		observability.Logger.Fatal("initialising observability", zap.Error(err))
	}
	defer shutdown(context.Background())

	// Sessions
	sessions := session.NewStore(session.Options{
		MaxSessions:   cfg.MaxSessions,
		TTL:           cfg.SessionTTL,
		EngineOptions: []engine.Option{engine.WithResetClearsVariables(cfg.ResetClearsVariables)},
	})
	if err := initSessionMetrics(sessions); err != nil {
		observability.Logger.Fatal("initialising session metrics", zap.Error(err))
	}
	go sessions.Run(ctx, cfg.SessionSweepInterval, observability.Logger)

	// Router
	router := server.NewRouter(sessions)

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: router,
	}

	go func() {
		observability.Logger.Info("server started",
			zap.String("addr", cfg.Addr),
			zap.String("service", cfg.ServiceName),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			observability.Logger.Fatal("server failed", zap.Error(err))
		}
	}()

	waitForShutdown(ctx, srv, cfg)
}

func waitForShutdown(ctx context.Context, srv *http.Server, cfg config.Config) {

	<-ctx.Done()

	observability.Logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		observability.Logger.Error("server shutdown", zap.Error(err))
		os.Exit(1)
	}
}
