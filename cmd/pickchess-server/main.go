// Package main runs the pick-to-move chess API server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"pickchess/cmd/pickchess-server/cli"
	"pickchess/internal/config"
	"pickchess/internal/http"
	"pickchess/internal/notify"
	"pickchess/internal/obslog"
	"pickchess/internal/processor"
	"pickchess/internal/service"
	"pickchess/internal/storage"
)

const (
	gracefulShutdownTimeout = time.Second * 5
)

func main() {
	// Check for CLI database commands
	if len(os.Args) > 1 && os.Args[1] == "db" {
		if err := cli.Run(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "CLI error: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "pickchess-server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath  = flag.String("config", "", "Optional YAML config file")
		apiHost     = flag.String("api-host", "localhost", "API server host")
		apiPort     = flag.Int("api-port", 8080, "API server port")
		dev         = flag.Bool("dev", false, "Development mode (relaxed rate limits)")
		storagePath = flag.String("storage-path", "", "Path to SQLite database file (disables persistence if empty)")
		databaseURL = flag.String("database-url", "", "PostgreSQL URL for the result archive (overrides -storage-path)")
		redisURL    = flag.String("redis-url", "", "Redis URL for game event publishing (disabled if empty)")
		pidPath     = flag.String("pid", "", "Optional path to write PID file")
		pidLock     = flag.Bool("pid-lock", false, "Lock PID file to allow only one instance (requires -pid)")
		logLevel    = flag.String("log-level", "", "Log level: debug, info, warn, error")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	// Explicit flags win over file and environment
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "api-host":
			cfg.APIHost = *apiHost
		case "api-port":
			cfg.APIPort = *apiPort
		case "dev":
			cfg.Dev = *dev
		case "storage-path":
			cfg.StoragePath = *storagePath
		case "database-url":
			cfg.DatabaseURL = *databaseURL
		case "redis-url":
			cfg.RedisURL = *redisURL
		case "pid":
			cfg.PIDPath = *pidPath
		case "pid-lock":
			cfg.PIDLock = *pidLock
		case "log-level":
			cfg.Log.Level = *logLevel
		}
	})
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := obslog.Init(cfg.LogOptions()); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logger := obslog.L()
	defer obslog.Close()

	if cfg.PIDPath != "" {
		cleanup, err := managePIDFile(cfg.PIDPath, cfg.PIDLock)
		if err != nil {
			return fmt.Errorf("manage PID file: %w", err)
		}
		defer cleanup()
		logger.Info("pid_file", zap.String("path", cfg.PIDPath), zap.Bool("lock", cfg.PIDLock))
	}

	// 1. Result archive (optional)
	archive, err := storage.Open(cfg.DatabaseURL, cfg.StoragePath, cfg.Dev)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	opts := []service.Option{service.WithLogger(logger)}
	switch {
	case cfg.DatabaseURL != "":
		logger.Info("storage", zap.String("backend", "postgres"))
		opts = append(opts, service.WithArchive(archive))
	case cfg.StoragePath != "":
		logger.Info("storage", zap.String("backend", "sqlite"), zap.String("path", cfg.StoragePath))
		opts = append(opts, service.WithArchive(archive))
	default:
		logger.Info("storage", zap.String("backend", "disabled"))
	}

	// 2. Event publisher (optional)
	if cfg.RedisURL != "" {
		pub, err := notify.NewRedisPublisher(cfg.RedisURL)
		if err != nil {
			if archive != nil {
				archive.Close()
			}
			return fmt.Errorf("connect redis: %w", err)
		}
		logger.Info("events", zap.String("backend", "redis"))
		opts = append(opts, service.WithPublisher(pub))
	}

	// 3. Service, processor, HTTP app
	svc := service.New(opts...)
	proc := processor.New(svc)
	app := http.NewFiberApp(proc, svc, cfg.Dev)

	apiAddr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)

	rate := "10 requests/second per IP"
	if cfg.Dev {
		rate = "20 requests/second per IP (DEV MODE)"
	}
	logger.Info("api_listen",
		zap.String("addr", "http://"+apiAddr),
		zap.String("games", fmt.Sprintf("http://%s/api/v1/games", apiAddr)),
		zap.String("health", fmt.Sprintf("http://%s/health", apiAddr)),
		zap.String("rate_limit", rate),
	)

	// Wait for an interrupt signal, or the listener dying, to shut down
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	if err := serve(app, apiAddr, quit); err != nil {
		logger.Error("api_listen_failed", zap.Error(err))
		if shutdownErr := svc.Shutdown(gracefulShutdownTimeout); shutdownErr != nil {
			logger.Warn("service_shutdown", zap.Error(shutdownErr))
		}
		return err
	}

	logger.Info("shutdown_begin")

	// Release long-polls before the listener waits on them
	if err := svc.Shutdown(gracefulShutdownTimeout); err != nil {
		logger.Warn("service_shutdown", zap.Error(err))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Warn("server_forced_shutdown", zap.Error(err))
	}

	logger.Info("shutdown_complete")
	return nil
}

// serve runs app on addr until quit fires. A listener that fails or stops
// on its own is returned as an error.
func serve(app *fiber.App, addr string, quit <-chan os.Signal) error {
	listenErr := make(chan error, 1)
	go func() {
		listenErr <- app.Listen(addr)
	}()

	select {
	case <-quit:
		return nil
	case err := <-listenErr:
		if err == nil {
			err = errors.New("listener stopped")
		}
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
}
