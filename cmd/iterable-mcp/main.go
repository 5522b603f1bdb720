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

	"github.com/joho/godotenv"

	"github.com/relaymkt/iterable-mcp/internal/config"
	"github.com/relaymkt/iterable-mcp/internal/iterable"
	"github.com/relaymkt/iterable-mcp/internal/mcp"
	"github.com/relaymkt/iterable-mcp/internal/server"
	"github.com/relaymkt/iterable-mcp/internal/telemetry"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	os.Exit(run0())
}

func run0() int {
	level := slog.LevelInfo
	if os.Getenv("ITERABLE_MCP_LOG_LEVEL") == "debug" {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, logger); err != nil {
		slog.Error("fatal error", "error", err)
		return 1
	}
	return 0
}

func run(ctx context.Context, logger *slog.Logger) error {
	// Load .env file if present (non-fatal; production won't have one).
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	perms := cfg.Permissions()
	slog.Info("iterable-mcp starting",
		"version", version,
		"port", cfg.Port,
		"base_url", cfg.BaseURL,
		"allow_user_pii", perms.AllowUserPII,
		"allow_writes", perms.AllowWrites,
		"allow_sends", perms.AllowSends,
		"default_key_configured", cfg.APIKey != "",
	)

	// Initialize OpenTelemetry.
	otelShutdown, err := telemetry.Init(ctx, cfg.OTELEndpoint, cfg.ServiceName, version, cfg.OTELInsecure)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() { _ = otelShutdown(context.Background()) }()

	// Upstream client and MCP server. Tool registration happens here, gated
	// by the permission flags.
	client := iterable.NewClient(cfg.BaseURL, logger)
	mcpSrv := mcp.New(client, perms, logger, version)

	srv := server.New(server.ServerConfig{
		MCPServer:     mcpSrv.MCPServer(),
		Logger:        logger,
		DefaultAPIKey: cfg.APIKey,
		Port:          cfg.Port,
		ReadTimeout:   cfg.ReadTimeout,
		WriteTimeout:  cfg.WriteTimeout,
		Version:       version,
	})

	// Start HTTP server in background.
	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for shutdown signal or server error.
	select {
	case <-ctx.Done():
	case err := <-errCh:
		return err
	}

	slog.Info("iterable-mcp shutting down")

	httpCtx, httpCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer httpCancel()
	if err := srv.Shutdown(httpCtx); err != nil {
		slog.Error("http shutdown error", "error", err)
	}

	slog.Info("iterable-mcp stopped")
	return nil
}
