// Package mcp exposes the simulation HTTP API as MCP tools over stdio.
package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Config holds server configuration.
type Config struct {
	Name      string // Server name
	Version   string // Server version
	ServerURL string // Base URL of the hwsim HTTP server
	APIKey    string // Bearer token, empty when auth is off
}

// Server wraps the MCP SDK server and delegates every tool to the HTTP API.
type Server struct {
	server    *sdk.Server
	serverURL string
	apiKey    string
	client    *http.Client
	logger    *slog.Logger
}

// NewServer creates a new MCP server with the hwsim tools registered.
func NewServer(cfg *Config, logger *slog.Logger) *Server {
	mcpServer := sdk.NewServer(&sdk.Implementation{
		Name:    cfg.Name,
		Version: cfg.Version,
	}, &sdk.ServerOptions{})

	s := &Server{
		server:    mcpServer,
		serverURL: strings.TrimRight(cfg.ServerURL, "/"),
		apiKey:    cfg.APIKey,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
	s.registerTools()
	return s
}

// Run serves over stdio until the client disconnects, ctx is cancelled or
// the process is interrupted.
func (s *Server) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	s.logger.Info("mcp server starting", "upstream", s.serverURL)
	return s.server.Run(ctx, &sdk.StdioTransport{})
}

// apiError is an error response from the HTTP API.
type apiError struct {
	Status  int
	Message string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("hwsim api %d: %s", e.Status, e.Message)
}

// call sends one request to the HTTP API and decodes the response into out.
func (s *Server) call(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		rd = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.serverURL+path, rd)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("http error: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var e struct {
			Error string `json:"error"`
		}
		msg := strings.TrimSpace(string(respBody))
		if json.Unmarshal(respBody, &e) == nil && e.Error != "" {
			msg = e.Error
		}
		return &apiError{Status: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
