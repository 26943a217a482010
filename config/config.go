/******************************************************************************
 * Copyright (c) 2025-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

// Package config builds the process configuration from a single snapshot of
// the environment at startup. Nothing outside this package reads environment
// variables; the resulting Config is passed by reference and never mutated.
package config

import (
	"net"
	"net/url"
	"os"
	"strings"

	"github.com/PivotLLM/Atlas/global"
)

// AuthMode identifies how a service authenticates
type AuthMode string

const (
	AuthCloud         AuthMode = "cloud"
	AuthPersonalToken AuthMode = "server-personal-token"
	AuthBasic         AuthMode = "server-basic"
	AuthNone          AuthMode = "unconfigured"
)

// Availability reports whether a service is usable and which authentication
// mode applies. Derived once per process lifetime.
type Availability struct {
	Configured bool
	Mode       AuthMode
}

// ServiceConfig holds the connection settings for one backend service
type ServiceConfig struct {
	URL           string
	Username      string
	APIToken      string
	PersonalToken string
	SSLVerify     bool
	Filter        []string // space or project keys to restrict results to
}

// Config is the immutable process configuration
type Config struct {
	Jira       ServiceConfig
	Confluence ServiceConfig
	ReadOnly   bool
	Verbose    bool
	LogFile    string
}

// Load snapshots the process environment into a Config
func Load() *Config {
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from the supplied lookup function. Split out from
// Load so tests can feed a synthetic environment.
func FromEnv(get func(string) string) *Config {
	logFile := get(global.EnvLogFile)
	if logFile == "" {
		logFile = global.DefaultLogFile
	}
	return &Config{
		Jira: ServiceConfig{
			URL:           get(global.EnvJiraURL),
			Username:      get(global.EnvJiraUsername),
			APIToken:      get(global.EnvJiraAPIToken),
			PersonalToken: get(global.EnvJiraPersonalToken),
			SSLVerify:     parseBool(get(global.EnvJiraSSLVerify), true),
			Filter:        parseFilter(get(global.EnvJiraProjectsFilter)),
		},
		Confluence: ServiceConfig{
			URL:           get(global.EnvConfluenceURL),
			Username:      get(global.EnvConfluenceUsername),
			APIToken:      get(global.EnvConfluenceAPIToken),
			PersonalToken: get(global.EnvConfluencePersonalToken),
			SSLVerify:     parseBool(get(global.EnvConfluenceSSLVerify), true),
			Filter:        parseFilter(get(global.EnvConfluenceSpacesFilter)),
		},
		ReadOnly: parseBool(get(global.EnvReadOnlyMode), false),
		Verbose:  parseBool(get(global.EnvVerbose), false),
		LogFile:  logFile,
	}
}

// LogLevel returns the minimum log level implied by the verbosity flag
func (c *Config) LogLevel() string {
	if c.Verbose {
		return global.LogLevelDebug
	}
	return global.LogLevelInfo
}

// Availability classifies the service from its settings alone. It never
// fails: missing variables yield an unconfigured result, not an error.
//
// Cloud deployments require URL, username and API token. Self-hosted
// deployments accept either a personal access token or username plus API
// token, since data center installations support both credential styles.
func (s ServiceConfig) Availability() Availability {
	if s.URL == "" {
		return Availability{Configured: false, Mode: AuthNone}
	}

	if IsCloudURL(s.URL) {
		if s.Username != "" && s.APIToken != "" {
			return Availability{Configured: true, Mode: AuthCloud}
		}
		return Availability{Configured: false, Mode: AuthNone}
	}

	if s.PersonalToken != "" {
		return Availability{Configured: true, Mode: AuthPersonalToken}
	}
	if s.Username != "" && s.APIToken != "" {
		return Availability{Configured: true, Mode: AuthBasic}
	}
	return Availability{Configured: false, Mode: AuthNone}
}

// IsCloudURL reports whether raw points at an Atlassian cloud deployment.
// Hosts under atlassian.net or jira.com, and the api.atlassian.com gateway,
// are cloud; anything else, including localhost and bare IPs, is treated as
// self-hosted.
func IsCloudURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return false
	}
	host := strings.ToLower(u.Hostname())

	if host == "localhost" || net.ParseIP(host) != nil {
		return false
	}
	if host == "api.atlassian.com" {
		return true
	}
	return strings.HasSuffix(host, ".atlassian.net") || strings.HasSuffix(host, ".jira.com")
}

// Mask returns a redacted form of a credential suitable for logging
func Mask(value string) string {
	if value == "" {
		return "(not set)"
	}
	if len(value) <= 4 {
		return "****"
	}
	return value[:2] + strings.Repeat("*", len(value)-4) + value[len(value)-2:]
}

// parseFilter splits a comma-separated key list, trimming whitespace and
// dropping empty entries
func parseFilter(raw string) []string {
	if raw == "" {
		return nil
	}
	var keys []string
	for _, part := range strings.Split(raw, ",") {
		if key := strings.TrimSpace(part); key != "" {
			keys = append(keys, key)
		}
	}
	return keys
}

func parseBool(raw string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	default:
		return fallback
	}
}
