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

	"dormeal/cmd"
	"dormeal/internal/jobs"
	"dormeal/internal/pkg/logger"
	"dormeal/internal/pkg/tracing"

	"github.com/labstack/gommon/log"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatalf("dormeal: %v", err)
	}
}

func run() error {
	configs, err := cmd.LoadConfig()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	zl, err := logger.New(configs.LogLevel)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = zl.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Setup(ctx, "dormeal", configs.OTLPEndpoint)
	if err != nil {
		return err
	}

	app, err := cmd.NewCompositionRoot(ctx, configs, zl)
	defer func() {
		if closeErr := app.Close(); closeErr != nil {
			zl.Warn("failed to close backends", zap.Error(closeErr))
		}
	}()
	if err != nil {
		return err
	}

	scheduled, err := app.Jobs()
	if err != nil {
		return err
	}
	jobManager := jobs.NewJobManager(zl, scheduled...)
	if err = jobManager.StartAll(); err != nil {
		return err
	}

	e, err := app.NewRouter(ctx)
	if err != nil {
		jobManager.StopAll()
		return err
	}
	e.Logger.SetLevel(log.INFO)

	serverErr := make(chan error, 1)
	go func() {
		zl.Info("http server starting",
			zap.String("port", configs.HTTPPort),
			zap.String("db_driver", configs.DBDriver),
			zap.Stringer("delivery_policy", configs.DeliveryPolicy),
		)
		serverErr <- e.Start(fmt.Sprintf("0.0.0.0:%s", configs.HTTPPort))
	}()

	select {
	case <-ctx.Done():
		zl.Info("shutdown signal received")
	case err = <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			zl.Error("http server stopped", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err = e.Shutdown(shutdownCtx); err != nil {
		zl.Warn("http server shutdown", zap.Error(err))
	}
	jobManager.StopAll()
	if err = shutdownTracing(shutdownCtx); err != nil {
		zl.Warn("tracing shutdown", zap.Error(err))
	}
	return nil
}
