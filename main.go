package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/freekieb7/rawhttp/filesystem"
	"github.com/freekieb7/rawhttp/http"
	"github.com/freekieb7/rawhttp/routes"
	"github.com/freekieb7/rawhttp/telemetry"
)

const (
	serviceName     = "rawhttp"
	defaultPort     = 8080
	shutdownTimeout = 10 * time.Second
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) (err error) {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if telemetry.Enabled() {
		otelShutdown, setupErr := telemetry.Setup(ctx, serviceName)
		if setupErr != nil {
			return fmt.Errorf("setting up telemetry: %w", setupErr)
		}
		defer func() {
			err = errors.Join(err, otelShutdown(context.Background()))
		}()
	}

	logger := telemetry.NewLogger(serviceName, os.Stdout, slog.LevelInfo)
	slog.SetDefault(logger)

	port := parsePort(args, logger)

	root, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolving working directory: %w", err)
	}

	fs := filesystem.NewLocalFileSystem()
	server, err := http.NewServer(http.Config{
		Addr:       fmt.Sprintf(":%d", port),
		Root:       root,
		Filesystem: fs,
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	routes.Register(server.Router(), fs, root)

	if err := server.Start(ctx); err != nil {
		return err
	}

	logger.Info("waiting for in-flight connections", "active", server.ActiveConnections())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}

// parsePort reads the optional port argument. Anything that is not a valid
// TCP port falls back to the default.
func parsePort(args []string, logger *slog.Logger) int {
	if len(args) == 0 {
		return defaultPort
	}

	port, err := strconv.Atoi(args[0])
	if err != nil || port < 1 || port > 65535 {
		logger.Warn("invalid port argument, using default", "arg", args[0], "port", defaultPort)
		return defaultPort
	}

	return port
}
