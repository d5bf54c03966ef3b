// Package main provides the matching engine API server entrypoint.
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

	"github.com/lumiere-aesthetics/matching-engine/internal/cache"
	"github.com/lumiere-aesthetics/matching-engine/internal/candidate"
	"github.com/lumiere-aesthetics/matching-engine/internal/config"
	"github.com/lumiere-aesthetics/matching-engine/internal/matching"
	"github.com/lumiere-aesthetics/matching-engine/internal/observability"
	"github.com/lumiere-aesthetics/matching-engine/internal/storage"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if len(os.Args) > 2 && os.Args[1] == "--config" {
		cfgPath = os.Args[2]
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(observability.LogConfig{
		Level:       cfg.Observability.LogLevel,
		Format:      cfg.Observability.LogFormat,
		ServiceName: cfg.Observability.ServiceName,
	})

	if err := run(cfg, logger); err != nil {
		logger.Error().Err(err).Msg("Server failed")
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *observability.Logger) error {
	logger.Info().
		Str("host", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Str("database", cfg.Database.Driver).
		Str("cache", cfg.Cache.Driver).
		Bool("hide_surgical", cfg.Matching.HideSurgical).
		Msg("Starting matching engine API")

	ctx := context.Background()

	db, err := storage.Open(ctx, storageOptions(cfg))
	if err != nil {
		return err
	}
	defer db.Close()

	if err := storage.Migrate(ctx, db); err != nil {
		return err
	}

	cacheClient, err := cache.New(cache.Options{
		Driver:     cfg.Cache.Driver,
		MaxEntries: cfg.Cache.MaxEntries,
		Redis: cache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
			PoolSize: cfg.Cache.Redis.PoolSize,
		},
	})
	if err != nil {
		return err
	}
	defer cacheClient.Close()

	records := storage.NewRecordRepository(db)
	svc := matching.NewService(records, cacheClient, logger, matching.Config{
		HideSurgical: cfg.Matching.HideSurgical,
		Locale:       cfg.Matching.CollationLocale,
		SessionTTL:   cfg.Matching.SessionTTL,
		ResultTTL:    cfg.Cache.TTL,
		DeriveRegion: cfg.Matching.DeriveRegion,
	})

	router := NewRouter(Dependencies{
		Logger:         logger,
		Service:        svc,
		Records:        records,
		Ready:          db.PingContext,
		RequestTimeout: cfg.Server.RequestTimeout,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		DefaultKind:    candidate.ParseKind(cfg.Matching.DefaultKind),
	})

	addr := cfg.Addr()
	srv := &http.Server{
		Addr:         addr,
		Handler:      h2c.NewHandler(router, &http2.Server{}),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go sweepSessions(sweepCtx, svc, logger, cfg.Matching.SessionTTL/2)

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", addr).Msg("HTTP server listening")
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case sig := <-shutdown:
		logger.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.Server.GracefulShutdown)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Graceful shutdown failed")
		if err := srv.Close(); err != nil {
			logger.Error().Err(err).Msg("Forced shutdown failed")
		}
	}

	logger.Info().Msg("Server stopped")
	return nil
}

func storageOptions(cfg *config.Config) storage.Options {
	if cfg.Database.Driver == "postgres" {
		pg := cfg.Database.Postgres
		return storage.Options{
			Driver:          "postgres",
			DSN:             pg.DSN,
			MaxOpenConns:    pg.MaxOpenConns,
			MaxIdleConns:    pg.MaxIdleConns,
			ConnMaxLifetime: pg.ConnMaxLifetime,
		}
	}
	lite := cfg.Database.SQLite
	return storage.Options{
		Driver:       "sqlite",
		DSN:          lite.Path,
		MaxOpenConns: lite.MaxOpenConns,
		JournalMode:  lite.JournalMode,
	}
}

func sweepSessions(ctx context.Context, svc *matching.Service, logger *observability.Logger, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := svc.SweepExpired(ctx); n > 0 {
				logger.Debug().Int("closed", n).Msg("Expired sessions closed")
			}
		}
	}
}
