// Command server runs the LORO HTTP API.
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

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	_ "github.com/loro/backend/docs"
	"github.com/loro/backend/internal/infrastructure/config"
	"github.com/loro/backend/internal/infrastructure/logger"
	"github.com/loro/backend/internal/infrastructure/migration"
	"github.com/loro/backend/internal/infrastructure/persistence"
	"github.com/loro/backend/internal/infrastructure/telemetry"
	"github.com/loro/backend/migrations"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

//	@title			LORO API
//	@version		1.0
//	@description	Multi-tenant field workforce management: tasks and routes, CRM, attendance, claims, leave, documents and rewards.

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "server:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The OTLP log bridge needs its own bootstrap logger.
	bootLog, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logProvider, err := telemetry.NewLoggerProvider(ctx, cfg.Telemetry, version, bootLog)
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.Log, logProvider.Core(cfg.Telemetry.ServiceName, logger.ParseLevel(cfg.Log.Level)))
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting LORO backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("version", version),
		zap.String("port", cfg.App.Port),
	)

	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, version, log)
	if err != nil {
		return err
	}

	db, err := persistence.NewDatabase(&cfg.Database, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTracing {
		if err := telemetry.NewDBTracing(cfg.Database.SlowThreshold, log).Register(db.DB); err != nil {
			return err
		}
	}
	if cfg.Database.AutoMigrate {
		if err := migrate(db, log); err != nil {
			return err
		}
	}
	log.Info("Database connected")

	app, err := build(ctx, cfg, db, log)
	if err != nil {
		return err
	}
	defer app.close()

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           app.engine,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := app.hub.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		if err := app.scheduler.Start(gctx); err != nil {
			return err
		}
		<-gctx.Done()
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		err := srv.Shutdown(shutdownCtx)
		err = errors.Join(err,
			app.scheduler.Stop(shutdownCtx),
			app.bus.Stop(shutdownCtx),
			tracerProvider.Shutdown(shutdownCtx),
			logProvider.Shutdown(shutdownCtx),
		)
		return err
	})

	if err := g.Wait(); err != nil {
		log.Error("Server stopped with error", zap.Error(err))
		return err
	}
	log.Info("Server exited gracefully")
	return nil
}

func migrate(db *persistence.Database, log *zap.Logger) error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	m, err := migration.New(sqlDB, migrations.FS, log)
	if err != nil {
		return err
	}
	// Closing the migrator would close the shared *sql.DB.
	return m.Up()
}
