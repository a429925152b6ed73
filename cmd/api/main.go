package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"resumefit/internal/bootstrap"
	"resumefit/internal/shared/config"
	"resumefit/internal/shared/server"
	"resumefit/internal/shared/telemetry"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	if err := telemetry.Configure(cfg.LogJSON, cfg.LogLevel); err != nil {
		telemetry.Error("logger.configure_failed", map[string]any{"err": err})
	}
	defer telemetry.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.Build(ctx, cfg)
	if err != nil {
		telemetry.Error("bootstrap.failed", map[string]any{"err": err})
		os.Exit(1)
	}
	defer app.Close()

	srv := &http.Server{
		Addr:              server.Addr(cfg.Port),
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			telemetry.Error("server.shutdown_failed", map[string]any{"err": err})
		}
	}()

	telemetry.Info("server.start", map[string]any{
		"addr":         srv.Addr,
		"env":          cfg.Env,
		"llm_provider": cfg.LLMProvider,
		"storage":      app.Health.Status(ctx).Storage,
	})
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		telemetry.Error("server.error", map[string]any{"err": err})
		os.Exit(1)
	}
	telemetry.Info("server.stopped", nil)
}
