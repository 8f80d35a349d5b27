// Package config loads slackclaw configuration: defaults, then a config file
// (JSON, TOML or YAML), then environment variables.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/roelfdiedericks/slackclaw/internal/tools"
	"github.com/roelfdiedericks/slackclaw/internal/user"
)

// Transports
const (
	TransportHTTP  = "http"
	TransportStdio = "stdio"
)

// Config represents the merged slackclaw configuration
type Config struct {
	Server  ServerConfig  `json:"server" toml:"server" yaml:"server"`
	Slack   SlackConfig   `json:"slack" toml:"slack" yaml:"slack"`
	Auth    AuthConfig    `json:"auth" toml:"auth" yaml:"auth"`
	Logging LoggingConfig `json:"logging" toml:"logging" yaml:"logging"`
}

type ServerConfig struct {
	Transport string `json:"transport,omitempty" toml:"transport,omitempty" yaml:"transport,omitempty"` // "http" or "stdio"
	Host      string `json:"host,omitempty" toml:"host,omitempty" yaml:"host,omitempty"`
	Port      int    `json:"port,omitempty" toml:"port,omitempty" yaml:"port,omitempty"`
	MCPPath   string `json:"mcpPath,omitempty" toml:"mcpPath,omitempty" yaml:"mcpPath,omitempty"`
}

type SlackConfig struct {
	APIURL             string `json:"apiUrl,omitempty" toml:"apiUrl,omitempty" yaml:"apiUrl,omitempty"` // empty = slack.com
	TimeoutSeconds     int    `json:"timeoutSeconds,omitempty" toml:"timeoutSeconds,omitempty" yaml:"timeoutSeconds,omitempty"`
	AutoReplyScanLimit int    `json:"autoReplyScanLimit,omitempty" toml:"autoReplyScanLimit,omitempty" yaml:"autoReplyScanLimit,omitempty"`
	ProbeConcurrency   int    `json:"probeConcurrency,omitempty" toml:"probeConcurrency,omitempty" yaml:"probeConcurrency,omitempty"`
	DefaultReply       string `json:"defaultReply,omitempty" toml:"defaultReply,omitempty" yaml:"defaultReply,omitempty"`
}

// AuthConfig enables HTTP basic auth when Username is set.
type AuthConfig struct {
	Username     string `json:"username,omitempty" toml:"username,omitempty" yaml:"username,omitempty"`
	PasswordHash string `json:"passwordHash,omitempty" toml:"passwordHash,omitempty" yaml:"passwordHash,omitempty"` // bcrypt or argon2id
}

type LoggingConfig struct {
	Level  string `json:"level,omitempty" toml:"level,omitempty" yaml:"level,omitempty"`
	Caller bool   `json:"caller,omitempty" toml:"caller,omitempty" yaml:"caller,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Transport: TransportHTTP,
			Host:      "0.0.0.0",
			Port:      8010,
			MCPPath:   "/mcp",
		},
		Slack: SlackConfig{
			TimeoutSeconds:     15,
			AutoReplyScanLimit: tools.DefaultScanLimit,
			ProbeConcurrency:   4,
			DefaultReply:       tools.DefaultReplyText,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Listen returns host:port.
func (c *Config) Listen() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// Timeout returns the per-call gateway timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Slack.TimeoutSeconds) * time.Second
}

// ApplyEnv overlays environment variables read through lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	get := func(name string) string {
		v, _ := lookup(name)
		return strings.TrimSpace(v)
	}

	if v := get("FASTMCP_HOST"); v != "" {
		c.Server.Host = v
	}
	port := get("FASTMCP_PORT")
	if port == "" {
		port = get("PORT")
	}
	if port != "" {
		n, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("invalid port %q: %w", port, err)
		}
		c.Server.Port = n
	}
	if v := get("SLACKCLAW_TRANSPORT"); v != "" {
		c.Server.Transport = strings.ToLower(v)
	}
	if v := get("SLACKCLAW_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := get("SLACK_API_URL"); v != "" {
		c.Slack.APIURL = v
	}
	return nil
}

// reservedPaths are served by the HTTP server itself.
var reservedPaths = []string{"/tools", "/healthz", "/metrics"}

// Validate checks the configuration for values the server cannot run with.
func (c *Config) Validate() error {
	var errs []error

	switch c.Server.Transport {
	case TransportHTTP:
		if c.Server.Port < 1 || c.Server.Port > 65535 {
			errs = append(errs, fmt.Errorf("server.port %d out of range 1-65535", c.Server.Port))
		}
		if !strings.HasPrefix(c.Server.MCPPath, "/") {
			errs = append(errs, fmt.Errorf("server.mcpPath %q must start with /", c.Server.MCPPath))
		}
		for _, p := range reservedPaths {
			if c.Server.MCPPath == p || strings.HasPrefix(c.Server.MCPPath, p+"/") {
				errs = append(errs, fmt.Errorf("server.mcpPath %q collides with %s", c.Server.MCPPath, p))
			}
		}
	case TransportStdio:
	default:
		errs = append(errs, fmt.Errorf("server.transport %q must be %q or %q", c.Server.Transport, TransportHTTP, TransportStdio))
	}

	if c.Slack.TimeoutSeconds <= 0 {
		errs = append(errs, errors.New("slack.timeoutSeconds must be positive"))
	}
	if c.Slack.AutoReplyScanLimit <= 0 {
		errs = append(errs, errors.New("slack.autoReplyScanLimit must be positive"))
	}
	if c.Slack.ProbeConcurrency <= 0 {
		errs = append(errs, errors.New("slack.probeConcurrency must be positive"))
	}
	if c.Auth.Username != "" {
		switch {
		case c.Auth.PasswordHash == "":
			errs = append(errs, errors.New("auth.passwordHash is required when auth.username is set"))
		case !user.IsHash(c.Auth.PasswordHash):
			errs = append(errs, errors.New("auth.passwordHash must be a bcrypt or argon2id hash (see slackclaw hash-password)"))
		}
	}

	return errors.Join(errs...)
}
