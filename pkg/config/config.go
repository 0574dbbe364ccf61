// Package config provides configuration types and loading for the operamock server.
package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
)

// Default values applied when neither file nor environment provides a setting.
const (
	DefaultHost             = "127.0.0.1"
	DefaultPort             = 8000
	DefaultDBFile           = "db.json"
	DefaultValidationOutput = "validation-output.json"
	DefaultWebhookFile      = "webhook_received.json"
)

// Config holds the full server configuration.
type Config struct {
	// Host is the interface the server binds to.
	Host string `json:"host" yaml:"host"`

	// Port is the TCP port the server listens on.
	Port int `json:"port" yaml:"port"`

	// DBFile is the path of the JSON file bookings are persisted to.
	DBFile string `json:"dbFile" yaml:"dbFile"`

	// ValidationOutput is the path of the request/response capture log.
	ValidationOutput string `json:"validationOutput" yaml:"validationOutput"`

	// WebhookFile is the path the booking-created event is written to.
	WebhookFile string `json:"webhookFile" yaml:"webhookFile"`

	// WebhookURL, when set, receives booking events via HTTP POST in
	// addition to the file write. Empty disables delivery.
	WebhookURL string `json:"webhookUrl,omitempty" yaml:"webhookUrl,omitempty"`

	// LogLevel is the minimum log level (debug, info, warn, error).
	LogLevel string `json:"logLevel,omitempty" yaml:"logLevel,omitempty"`

	// LogFormat is the log output format (text or json).
	LogFormat string `json:"logFormat,omitempty" yaml:"logFormat,omitempty"`
}

// Default returns a Config populated with default values.
func Default() *Config {
	return &Config{
		Host:             DefaultHost,
		Port:             DefaultPort,
		DBFile:           DefaultDBFile,
		ValidationOutput: DefaultValidationOutput,
		WebhookFile:      DefaultWebhookFile,
		LogLevel:         "info",
		LogFormat:        "text",
	}
}

// Addr returns the host:port listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// BaseURL returns the http base URL clients should use to reach the server.
func (c *Config) BaseURL() string {
	return "http://" + c.Addr()
}

// DocsURL returns the URL of the interactive documentation UI.
func (c *Config) DocsURL() string {
	return c.BaseURL() + "/docs"
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	// Port 0 asks the OS for an ephemeral port, used by tests.
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d: must be between 0 and 65535", c.Port)
	}
	if c.Host == "" {
		return fmt.Errorf("host must not be empty")
	}
	if c.DBFile == "" {
		return fmt.Errorf("dbFile must not be empty")
	}
	return nil
}

// ApplyEnv overrides configuration values from OPERAMOCK_* environment
// variables. Invalid numeric values are reported as errors rather than
// silently ignored.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("OPERAMOCK_HOST"); v != "" {
		c.Host = v
	}
	if v := os.Getenv("OPERAMOCK_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid OPERAMOCK_PORT %q: %w", v, err)
		}
		c.Port = port
	}
	if v := os.Getenv("OPERAMOCK_DB_FILE"); v != "" {
		c.DBFile = v
	}
	if v := os.Getenv("OPERAMOCK_VALIDATION_OUTPUT"); v != "" {
		c.ValidationOutput = v
	}
	if v := os.Getenv("OPERAMOCK_WEBHOOK_FILE"); v != "" {
		c.WebhookFile = v
	}
	if v := os.Getenv("OPERAMOCK_WEBHOOK_URL"); v != "" {
		c.WebhookURL = v
	}
	if v := os.Getenv("OPERAMOCK_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("OPERAMOCK_LOG_FORMAT"); v != "" {
		c.LogFormat = v
	}
	return nil
}
