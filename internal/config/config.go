// Package config loads the server configuration from a YAML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/DeusData/figma-mcp/internal/figma"
	"gopkg.in/yaml.v3"
)

// Transports accepted in server.transport.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Config holds user-overridable settings.
type Config struct {
	API    APIConfig    `yaml:"api"`
	Log    LogConfig    `yaml:"log"`
	Server ServerConfig `yaml:"server"`

	// Token is the Figma personal access token. It is only read from the
	// environment, never from the file.
	Token string `yaml:"-"`
}

// APIConfig holds the Figma REST client settings.
type APIConfig struct {
	BaseURL   string `yaml:"base_url"`
	UserAgent string `yaml:"user_agent"`

	// Timeout bounds each HTTP request. Zero means no client-side timeout.
	Timeout          time.Duration `yaml:"timeout"`
	MaxResponseBytes int64         `yaml:"max_response_bytes"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"`
}

// ServerConfig selects the MCP transport.
type ServerConfig struct {
	Transport string `yaml:"transport"`
	HTTPAddr  string `yaml:"http_addr"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:          figma.DefaultBaseURL,
			UserAgent:        "figma-mcp",
			MaxResponseBytes: figma.DefaultMaxResponseBytes,
		},
		Log:    LogConfig{Level: "info"},
		Server: ServerConfig{Transport: TransportStdio, HTTPAddr: "127.0.0.1:8808"},
	}
}

// Path returns the config file location: $FIGMA_MCP_CONFIG, else
// figma-mcp/config.yaml under the user config directory.
func Path() string {
	if p := os.Getenv("FIGMA_MCP_CONFIG"); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "figma-mcp", "config.yaml")
}

// Load reads the file at path over the defaults and applies environment
// overrides. A missing file is not an error; invalid YAML is.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Token = os.Getenv("FIGMA_ACCESS_TOKEN")
	if c.Token == "" {
		c.Token = os.Getenv("FIGMA_API_KEY")
	}
	if v := os.Getenv("FIGMA_API_BASE_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("FIGMA_MCP_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

// ErrNoToken is returned by Validate when no access token is configured.
var ErrNoToken = errors.New("FIGMA_ACCESS_TOKEN is not set")

// Validate reports the first setting that cannot be used, the token first.
func (c *Config) Validate() error {
	if c.Token == "" {
		return ErrNoToken
	}
	return c.ValidateSettings()
}

// ValidateSettings checks everything but the token.
func (c *Config) ValidateSettings() error {
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Server.Transport {
	case TransportStdio:
	case TransportHTTP:
		if c.Server.HTTPAddr == "" {
			return errors.New("server.http_addr is required for the http transport")
		}
	default:
		return fmt.Errorf("unknown server.transport %q (want stdio or http)", c.Server.Transport)
	}
	if c.API.BaseURL == "" {
		return errors.New("api.base_url is empty")
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("api.timeout must not be negative: %s", c.API.Timeout)
	}
	return nil
}

// ParseLevel maps a level name onto its slog level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q", name)
}
