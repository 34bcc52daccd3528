package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	v1 "github.com/mga-portal/api/v1"
	"github.com/mga-portal/config"
	"github.com/mga-portal/database"
	"github.com/mga-portal/routes"
	"github.com/mga-portal/services"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "mga-portal: %v\n", err)
		os.Exit(1)
	}
}

// run returns instead of exiting so deferred cleanup, the log file
// included, always happens.
func run() error {
	config.LoadEnv()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	logger, closeLog, err := newLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("log file error: %w", err)
	}
	defer closeLog()

	for _, warning := range cfg.Store.AnonKeyWarnings(time.Now()) {
		logger.Warn(warning)
	}

	store, err := database.Open(cfg.Store, logger)
	if err != nil {
		logger.Error("failed to open record store", "driver", cfg.Store.Driver, "error", err)
		return fmt.Errorf("open record store: %w", err)
	}
	defer store.Close()

	handler := v1.NewHandler(
		services.NewProjectService(store, logger),
		services.NewTaskService(store, logger),
	)

	// Set Gin mode
	gin.SetMode(cfg.Server.Mode)
	router := routes.NewRouter(cfg.Server, logger, handler)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("🚀 MGA portal starting", "port", cfg.Server.Port, "driver", cfg.Store.Driver)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			serverErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	return waitForShutdown(logger, httpServer, stop, serverErr)
}

// newLogger writes to stdout, or appends to path when set so the process
// supervisor can keep per-service log files.
func newLogger(cfg config.LogConfig) (*slog.Logger, func(), error) {
	writer := io.Writer(os.Stdout)
	closeFn := func() {}

	if cfg.Path != "" {
		if dir := filepath.Dir(cfg.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, nil, err
			}
		}
		file, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, err
		}
		writer = file
		closeFn = func() { file.Close() }
	}

	logger := slog.New(slog.NewTextHandler(writer, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Level),
	}))
	return logger, closeFn, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// waitForShutdown blocks until a signal arrives or the server fails, then
// drains in-flight requests.
func waitForShutdown(logger *slog.Logger, server *http.Server, stop <-chan os.Signal, serverErr <-chan error) error {
	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-stop:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
