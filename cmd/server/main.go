package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/sync/errgroup"

	"digest-orchestrator/internal/adapter/digest_http"
	"digest-orchestrator/internal/di"
	"digest-orchestrator/internal/infra"
	"digest-orchestrator/internal/infra/config"
	"digest-orchestrator/internal/infra/logger"
	"digest-orchestrator/internal/infra/telemetry"
)

func main() {
	// 1. Load Config
	cfg := config.Load()

	// 2. Initialize Telemetry and Logger
	telemetryCfg := telemetry.ConfigFromEnv()
	shutdownTelemetry, err := telemetry.InitProvider(context.Background(), telemetryCfg)
	if err != nil {
		slog.Error("failed to initialize telemetry", "error", err)
		os.Exit(1)
	}

	log := logger.NewWithOTel(telemetryCfg.Enabled)
	slog.SetDefault(log)

	// 3. Initialize DB
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)
	dbPool, err := infra.NewPostgresDB(context.Background(), dsn)
	if err != nil {
		log.Error("failed to connect to db", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	// 4. Wire Components
	components, err := di.NewApplicationComponents(cfg, dbPool, log)
	if err != nil {
		log.Error("failed to wire components", "error", err)
		os.Exit(1)
	}

	// 5. Start Refresh Worker
	if components.Worker != nil {
		components.Worker.Start()
		defer func() {
			log.Info("Stopping worker...")
			components.Worker.Stop()
		}()
	}

	// 6. Initialize Echo
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RequestLogger())
	e.Use(middleware.Recover())

	// 7. Register Handlers
	handler := digest_http.NewHandler(components.IngestUsecase, components.DigestUsecase, components.Index)
	handler.Register(e)

	// 8. Health Checks
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/readyz", func(c echo.Context) error {
		if err := dbPool.Ping(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "db down", "error": err.Error()})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ready"})
	})

	// 9. Run until signalled
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		addr := fmt.Sprintf(":%s", cfg.Port)
		log.Info("Starting server", "addr", addr, "news_source", components.Source.Name())
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return shutdownTelemetry(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}
