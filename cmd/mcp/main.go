// Command mcp serves the classifier as an MCP tool over stdio.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	mcpadapter "github.com/bhumiseba/namjari-intent/internal/adapters/mcp"
	"github.com/bhumiseba/namjari-intent/internal/bootstrap"
	"github.com/bhumiseba/namjari-intent/internal/config"
	"github.com/bhumiseba/namjari-intent/internal/observability/logging"
)

const version = "1.0.0"

func main() {
	cfg := config.Load()
	// stdout carries the MCP protocol; route logs to stderr.
	logger := logging.SetupTo(os.Stderr, "mcp", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, bootstrap.Options{})
	if err != nil {
		logger.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	server := mcpadapter.New(app.Classifier, version)
	if err := server.ServeStdio(); err != nil {
		logger.Error("mcp_server_failed", "error", err)
		os.Exit(1)
	}
}
