// Package main starts the cat service process lifecycle: config from the
// environment, SQLite store, Redis cache (best-effort), HTTP server,
// graceful shutdown on SIGINT/SIGTERM.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/catops/catsvc/cache"
	"github.com/catops/catsvc/cats"
	dotenv "github.com/catops/catsvc/env"
	"github.com/catops/catsvc/server"
	"github.com/catops/catsvc/store"
)

type config struct {
	DatabasePath  string        `env:"DATABASE_URL" envDefault:"catsvc.db"`
	HTTPAddr      string        `env:"HTTP_ADDR" envDefault:":8000"`
	RedisHost     string        `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort     int           `env:"REDIS_PORT" envDefault:"6379"`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	CacheEnabled  bool          `env:"CACHE_ENABLED" envDefault:"true"`
	DialTimeout   time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"5s"`
	LogLevel      string        `env:"LOG_LEVEL" envDefault:"info"`
}

func main() {
	root := &cobra.Command{
		Use:          "catsvc",
		Short:        "HTTP CRUD service for cats with a Redis cache-aside layer",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context())
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	if err := dotenv.Load(".env"); err != nil {
		return fmt.Errorf("load .env: %w", err)
	}

	var cfg config
	if err := env.Parse(&cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	st, err := store.OpenSQLite(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	cacheClient := cache.New(cache.Config{
		Host:        cfg.RedisHost,
		Port:        cfg.RedisPort,
		DB:          cfg.RedisDB,
		Password:    cfg.RedisPassword,
		Enabled:     cfg.CacheEnabled,
		DialTimeout: cfg.DialTimeout,
		KeepAlive:   true,
	}, log)
	cacheClient.Connect(ctx)
	defer cacheClient.Close()

	svc := cats.New(st, cacheClient, log)
	srv := server.New(cfg.HTTPAddr, svc, cacheClient, log)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", zap.Error(err))
	}
	return nil
}

func newLogger(level string) (*zap.Logger, error) {
	if level == "debug" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
