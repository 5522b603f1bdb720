// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/relaymkt/iterable-mcp/internal/iterable"
	"github.com/relaymkt/iterable-mcp/internal/policy"
)

// Config holds all application configuration.
type Config struct {
	// Server settings.
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Upstream settings.
	BaseURL string // Iterable API base URL; selects the region.
	APIKey  string // Process-level default credential; may be empty when every caller brings their own.

	// Permission flags. Read once at startup; the resulting Permissions
	// value is immutable for the process lifetime.
	AllowUserPII bool
	AllowWrites  bool
	AllowSends   bool

	// OTEL settings.
	OTELEndpoint string
	OTELInsecure bool
	ServiceName  string

	// Operational settings.
	LogLevel string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (Config, error) {
	cfg := Config{
		Port:         envInt("ITERABLE_MCP_PORT", 3000),
		ReadTimeout:  envDuration("ITERABLE_MCP_READ_TIMEOUT", 30*time.Second),
		WriteTimeout: envDuration("ITERABLE_MCP_WRITE_TIMEOUT", 120*time.Second),
		BaseURL:      envStr("ITERABLE_BASE_URL", iterable.DefaultBaseURL),
		APIKey:       envStr("ITERABLE_API_KEY", ""),
		AllowUserPII: envBool("ALLOW_USER_PII"),
		AllowWrites:  envBool("ALLOW_WRITES"),
		AllowSends:   envBool("ALLOW_SENDS"),
		OTELEndpoint: envStr("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		OTELInsecure: envBool("OTEL_EXPORTER_OTLP_INSECURE"),
		ServiceName:  envStr("OTEL_SERVICE_NAME", "iterable-mcp"),
		LogLevel:     envStr("ITERABLE_MCP_LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Permissions returns the permission flags as a policy value.
func (c Config) Permissions() policy.Permissions {
	return policy.Permissions{
		AllowUserPII: c.AllowUserPII,
		AllowWrites:  c.AllowWrites,
		AllowSends:   c.AllowSends,
	}
}

// Validate checks that required configuration is present and well-formed.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("config: ITERABLE_BASE_URL must not be empty")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("config: ITERABLE_BASE_URL %q is not an absolute URL", c.BaseURL)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config: ITERABLE_MCP_PORT %d out of range", c.Port)
	}
	return nil
}

func envStr(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}

// envBool treats exactly "true" as true and anything else (including unset)
// as false, so a typo in a permission flag fails closed.
func envBool(key string) bool {
	return os.Getenv(key) == "true"
}

func envDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
