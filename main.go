/******************************************************************************
 * Copyright (c) 2025-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/PivotLLM/Atlas/config"
	"github.com/PivotLLM/Atlas/global"
	"github.com/PivotLLM/Atlas/logging"
	"github.com/PivotLLM/Atlas/server"
)

func main() {
	// Top-level panic recovery
	defer func() {
		if rec := recover(); rec != nil {
			_, _ = fmt.Fprintf(os.Stderr, "FATAL PANIC: %v\n", rec)
			os.Exit(2)
		}
	}()

	// Parse command line flags
	var (
		transport = flag.String("transport", "stdio", "Transport to use: stdio or sse")
		port      = flag.Int("port", 8000, "Port for the SSE transport")
		envFile   = flag.String("env-file", "", "Path to a .env file to load before reading configuration")
		version   = flag.Bool("version", false, "Show version information")
		help      = flag.Bool("help", false, "Show help information")
	)
	flag.Parse()

	if *version {
		fmt.Printf("%s v%s\n", global.ProgramName, global.Version)
		return
	}
	if *help {
		showHelp()
		return
	}

	// Load the env file before the configuration snapshot is taken
	if *envFile != "" {
		if err := godotenv.Load(*envFile); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Failed to load env file %s: %v\n", *envFile, err)
			os.Exit(1)
		}
	}

	cfg := config.Load()

	logger, err := logging.New(cfg.LogFile)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to initialize logging: %v\n", err)
		os.Exit(1)
	}
	defer func(logger *logging.Logger) {
		// Ensure logs are flushed before exit
		_ = logger.Sync()
		_ = logger.Close()
	}(logger)

	logger.SetLevel(cfg.LogLevel())
	logger.Infof("%s v%s starting", global.ProgramName, global.Version)
	logStartupConfig(logger, cfg)

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Fatalf("Failed to create server: %v", err)
	}

	switch strings.ToLower(*transport) {
	case "stdio":
		err = srv.Run()
	case "sse":
		err = srv.RunSSE(*port)
	default:
		logger.Fatalf("Unknown transport %q (expected stdio or sse)", *transport)
	}
	if err != nil {
		logger.Fatalf("Server error: %v", err)
	}
}

// logStartupConfig records the effective configuration with credentials
// masked
func logStartupConfig(logger *logging.Logger, cfg *config.Config) {
	if cfg.ReadOnly {
		logger.Info("Read-only mode is enabled - write tools are withheld")
	}

	jira := cfg.Jira.Availability()
	logger.Infof("Jira: url=%s user=%s api_token=%s personal_token=%s mode=%s",
		cfg.Jira.URL,
		cfg.Jira.Username,
		config.Mask(cfg.Jira.APIToken),
		config.Mask(cfg.Jira.PersonalToken),
		jira.Mode)

	confluence := cfg.Confluence.Availability()
	logger.Infof("Confluence: url=%s user=%s api_token=%s personal_token=%s mode=%s",
		cfg.Confluence.URL,
		cfg.Confluence.Username,
		config.Mask(cfg.Confluence.APIToken),
		config.Mask(cfg.Confluence.PersonalToken),
		confluence.Mode)

	if !jira.Configured && !confluence.Configured {
		logger.Warn("Neither Jira nor Confluence is configured - the tool catalog will be empty")
	}
}

func showHelp() {
	fmt.Printf(`%s v%s - MCP Server for Jira and Confluence

USAGE:
    atlas [OPTIONS]

OPTIONS:
    --transport MODE    Transport to use: stdio (default) or sse
    --port PORT         Port for the SSE transport (default: 8000)
    --env-file PATH     Load environment variables from a .env file
    --version           Show version information
    --help              Show this help message

DESCRIPTION:
    Atlas is a Model Context Protocol (MCP) server that exposes Jira and
    Confluence operations as tools: issue search and management, sprint and
    board operations, page reading and authoring, and attachment downloads.

    Services are enabled through environment variables. A service without
    valid settings is simply absent from the tool catalog; the other service
    keeps working.

ENVIRONMENT:
    JIRA_URL                   Jira base URL
    JIRA_USERNAME              Username for basic auth (cloud or server)
    JIRA_API_TOKEN             API token for basic auth
    JIRA_PERSONAL_TOKEN        Personal access token (self-hosted only)
    JIRA_SSL_VERIFY            Set to false to skip TLS verification
    JIRA_PROJECTS_FILTER       Comma-separated project keys to limit searches

    CONFLUENCE_URL             Confluence base URL
    CONFLUENCE_USERNAME        Username for basic auth
    CONFLUENCE_API_TOKEN       API token for basic auth
    CONFLUENCE_PERSONAL_TOKEN  Personal access token (self-hosted only)
    CONFLUENCE_SSL_VERIFY      Set to false to skip TLS verification
    CONFLUENCE_SPACES_FILTER   Comma-separated space keys to limit searches

    READ_ONLY_MODE             Set to true to withhold all write tools
    MCP_VERBOSE                Set to true for debug logging
    ATLAS_LOG_FILE             Log file path (default: %s)

EXAMPLES:
    # Cloud Jira and Confluence over stdio
    JIRA_URL=https://example.atlassian.net \
    JIRA_USERNAME=user@example.com JIRA_API_TOKEN=... atlas

    # Self-hosted Jira with a personal access token over SSE
    JIRA_URL=https://jira.example.com JIRA_PERSONAL_TOKEN=... \
    atlas --transport sse --port 9000

    # Credentials from a dotenv file
    atlas --env-file ./atlas.env
`, global.ProgramName, global.Version, global.DefaultLogFile)
}
