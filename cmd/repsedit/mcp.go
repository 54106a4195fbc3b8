package main

import (
	"context"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/claude/repsedit/internal/config"
	"github.com/claude/repsedit/internal/mcp"
)

// runMCP serves the workout tools on stdio. Stdout carries the protocol, so
// logs go to stderr.
func runMCP(ctx context.Context, cfg *config.Config) error {
	client, err := newClient(ctx, cfg)
	if err != nil {
		return err
	}
	log := newLogger(os.Stderr)
	log.Info("mcp server starting", "version", Version, "server", cfg.Client.ServerURL)

	return server.ServeStdio(mcp.New(client, Version, log))
}
