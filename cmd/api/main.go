package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shop-admin/internal/config"
	"shop-admin/internal/logger"
	"shop-admin/internal/server"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// shutdownGrace bounds how long in-flight aggregations may run after a stop
// signal.
const shutdownGrace = 30 * time.Second

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Server.Env, cfg.Server.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Error("Dashboard API stopped", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	srv, err := server.NewServer(cfg, log)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("Dashboard API listening",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.Server.Env),
			zap.String("upstream", cfg.Upstream.BaseURL),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		stop() // a second signal kills the process

		log.Info("Shutting down gracefully, press Ctrl+C again to force")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("Server forced to shutdown", zap.Error(err))
		}
		return srv.Close()
	})

	if err := g.Wait(); err != nil {
		return err
	}

	log.Info("Graceful shutdown complete")
	return nil
}
