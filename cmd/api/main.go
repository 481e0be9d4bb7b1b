package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/crucial707/travel-journal/internal/app"
	"github.com/crucial707/travel-journal/internal/config"
	"github.com/crucial707/travel-journal/internal/db"
	"github.com/crucial707/travel-journal/internal/scheduler"
)

const (
	shutdownTimeout = 10 * time.Second
	// limiter entries idle this long are dropped by the sweep job
	limiterIdle = 30 * time.Minute
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.SetDefault(newLogger(cfg))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to database FIRST
	database, err := db.Connect(ctx, cfg.DatabaseURL(), db.Options{
		MaxOpenConns: cfg.DB.MaxOpenConns,
		MaxIdleConns: cfg.DB.MaxIdleConns,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()
	slog.Info("connected to database", "host", cfg.DB.Host, "name", cfg.DB.Name)

	if err := db.Migrate(cfg.DatabaseURL()); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	store, err := app.NewImageStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize image store: %w", err)
	}

	a := app.New(cfg, database, store)

	sched := scheduler.New()
	sweeper := scheduler.NewImageSweeper(store, a.Stories, cfg.Images.SweepGrace)
	if err := sched.Add("image-sweep", cfg.Images.SweepCron, sweeper.Job); err != nil {
		return err
	}
	if err := sched.Add("rate-limit-sweep", "@every 10m", func(context.Context) error {
		if n := a.AuthLimiter.Sweep(limiterIdle); n > 0 {
			slog.Debug("rate limiter: dropped idle clients", "count", n)
		}
		return nil
	}); err != nil {
		return err
	}
	sched.Start()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newRouter(a),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		var err error
		if cfg.TLSCertFile != "" && cfg.TLSKeyFile != "" {
			slog.Info("starting server", "addr", srv.Addr, "tls", true)
			err = srv.ListenAndServeTLS(cfg.TLSCertFile, cfg.TLSKeyFile)
		} else {
			slog.Info("starting server", "addr", srv.Addr, "tls", false)
			err = srv.ListenAndServe()
		}
		if !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		sched.Stop(context.Background())
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}
	slog.Info("received interruption signal, shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("error during server shutdown", "error", err)
	}
	sched.Stop(shutdownCtx)
	slog.Info("shutdown complete")
	return nil
}

func newLogger(cfg config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.Level(cfg.LogLevel)}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
