/******************************************************************************
 * Copyright (c) 2025-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

// Package server exposes the Jira and Confluence tool catalog over the MCP
// stdio and SSE transports and routes tool calls to the backend clients.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/PivotLLM/Atlas/config"
	"github.com/PivotLLM/Atlas/global"
	"github.com/PivotLLM/Atlas/logging"
)

// Server wraps the MCP server with the backend services
type Server struct {
	config     *config.Config
	logger     *logging.Logger
	services   Services
	operations map[string]operation
	mcpServer  *server.MCPServer
}

// New creates a server instance. Backend services are initialized
// independently; a service that fails to come up leaves its tools returning
// "not configured" errors rather than stopping the process.
func New(cfg *config.Config, logger *logging.Logger) (*Server, error) {
	if err := validateCatalogSchemas(); err != nil {
		return nil, err
	}

	srv := &Server{
		config:   cfg,
		logger:   logger,
		services: NewServices(cfg, logger),
	}
	srv.operations = srv.buildOperations()

	srv.mcpServer = server.NewMCPServer(
		global.ProgramName,
		global.Version,
		server.WithToolCapabilities(true),
		server.WithLogging(),
		server.WithToolFilter(srv.filterTools),
	)

	srv.registerTools()
	return srv, nil
}

// registerTools registers every tool with the dispatcher. All tools are
// registered regardless of service availability or mode so that calls always
// reach the router, which answers with the appropriate error or informational
// text; the tool filter controls what clients see in listings.
func (s *Server) registerTools() {
	for _, def := range catalogDefs() {
		s.mcpServer.AddTool(def.tool, s.dispatch)
	}
}

// filterTools rebuilds the advertised catalog on every list request from the
// current service availability and mode
func (s *Server) filterTools(_ context.Context, _ []mcp.Tool) []mcp.Tool {
	return catalogTools(s.services, s.config.ReadOnly)
}

// Run starts the stdio transport with graceful shutdown
func (s *Server) Run() error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	errChan := make(chan error, 1)
	go func() {
		// ServeStdio returns when stdin is closed (EOF) or on error
		errChan <- server.ServeStdio(s.mcpServer)
	}()

	s.logger.Info("MCP server started on stdio")

	select {
	case <-sigChan:
		s.logger.Info("Shutdown signal received")
		if err := s.logger.Sync(); err != nil {
			s.logger.Warnf("Failed to flush logs on shutdown: %v", err)
		}
		return nil

	case err := <-errChan:
		if err != nil {
			s.logger.Errorf("Server error: %v", err)
			return fmt.Errorf("server error: %w", err)
		}
		s.logger.Info("Connection closed")
		return nil
	}
}

// RunSSE starts the SSE transport on the given port, serving the /sse event
// stream and the /message request endpoint
func (s *Server) RunSSE(port int) error {
	sseServer := server.NewSSEServer(s.mcpServer)
	addr := fmt.Sprintf(":%d", port)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	errChan := make(chan error, 1)
	go func() {
		errChan <- sseServer.Start(addr)
	}()

	s.logger.Infof("MCP server started on SSE at %s", addr)

	select {
	case <-sigChan:
		s.logger.Info("Shutdown signal received")
		if err := sseServer.Shutdown(context.Background()); err != nil {
			s.logger.Warnf("SSE shutdown error: %v", err)
		}
		if err := s.logger.Sync(); err != nil {
			s.logger.Warnf("Failed to flush logs on shutdown: %v", err)
		}
		return nil

	case err := <-errChan:
		if err != nil {
			s.logger.Errorf("Server error: %v", err)
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}
}
