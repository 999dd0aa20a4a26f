package main // Entry point package

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/storefront/internal/config"  // Internal config loader
	"github.com/iliyamo/storefront/internal/logging" // zap construction
	"github.com/iliyamo/storefront/internal/queue"   // audit consumer
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "storefront-api:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	if cfg.RabbitURL != "" {
		audit, err := logging.Rotating(cfg.AuditLog)
		if err != nil {
			return err
		}
		defer audit.Close()
		go func() {
			if err := queue.StartConsumer(ctx, cfg.RabbitURL, audit, log.Named("consumer")); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("event consumer stopped", zap.Error(err))
			}
		}()
	}

	addr := ":" + cfg.Port
	log.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env), zap.String("storage", cfg.Storage))

	errCh := make(chan error, 1)
	go func() { errCh <- a.echo.Start(addr) }()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return a.echo.Shutdown(shutdownCtx)
}
