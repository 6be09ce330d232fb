package main

import (
	"context"
	"fmt"
	"os"

	"github.com/iammorganparry/hwsim/internal/config"
	"github.com/iammorganparry/hwsim/internal/logging"
	"github.com/iammorganparry/hwsim/internal/mcp"
)

var version = "0.1.0-dev"

func main() {
	// stdout carries the MCP protocol, so logs go to stderr
	logger := logging.NewLogger(os.Getenv("LOG_LEVEL"), os.Stderr)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %s\n", err)
		os.Exit(1)
	}

	server := mcp.NewServer(&mcp.Config{
		Name:      "hwsim",
		Version:   version,
		ServerURL: cfg.ServerURL,
		APIKey:    cfg.APIKey,
	}, logger)
	if err := server.Run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "mcp server error: %s\n", err)
		os.Exit(1)
	}
}
