// Command mcp serves the document decision tools over stdio.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/akolanti/propdocs/internal/mcptools"
	"github.com/akolanti/propdocs/pkg/logger_i"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const version = "1.0.0"

func main() {
	// stdout carries the protocol
	logger_i.InitWith(logger_i.Options{Writer: os.Stderr, Level: logger_i.ParseLevel(os.Getenv("LOG_LEVEL"))})
	logger := logger_i.NewLogger("mcp")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := mcp.NewServer(&mcp.Implementation{Name: "propdocs", Version: version}, nil)
	mcptools.Register(srv)

	logger.Info("MCP server running on stdio")
	if err := srv.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		logger.Error("MCP server stopped", "error", err)
		os.Exit(1)
	}
}
