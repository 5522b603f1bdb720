package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relaymkt/iterable-mcp/internal/iterable"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ITERABLE_MCP_PORT", "ITERABLE_MCP_READ_TIMEOUT", "ITERABLE_MCP_WRITE_TIMEOUT",
		"ITERABLE_BASE_URL", "ITERABLE_API_KEY",
		"ALLOW_USER_PII", "ALLOW_WRITES", "ALLOW_SENDS",
		"OTEL_EXPORTER_OTLP_ENDPOINT", "OTEL_EXPORTER_OTLP_INSECURE", "OTEL_SERVICE_NAME",
		"ITERABLE_MCP_LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, 30*time.Second, cfg.ReadTimeout)
	assert.Equal(t, 120*time.Second, cfg.WriteTimeout)
	assert.Equal(t, iterable.DefaultBaseURL, cfg.BaseURL)
	assert.Empty(t, cfg.APIKey)
	assert.False(t, cfg.AllowUserPII)
	assert.False(t, cfg.AllowWrites)
	assert.False(t, cfg.AllowSends)
	assert.Equal(t, "iterable-mcp", cfg.ServiceName)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("ITERABLE_MCP_PORT", "8080")
	t.Setenv("ITERABLE_BASE_URL", "https://api.eu.iterable.com")
	t.Setenv("ITERABLE_API_KEY", "default-key")
	t.Setenv("ITERABLE_MCP_WRITE_TIMEOUT", "45s")
	t.Setenv("ALLOW_USER_PII", "true")
	t.Setenv("ALLOW_WRITES", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "https://api.eu.iterable.com", cfg.BaseURL)
	assert.Equal(t, "default-key", cfg.APIKey)
	assert.Equal(t, 45*time.Second, cfg.WriteTimeout)
	assert.True(t, cfg.AllowUserPII)
	assert.True(t, cfg.AllowWrites)
	assert.False(t, cfg.AllowSends)
}

func TestPermissionFlagsFailClosed(t *testing.T) {
	// Only the exact string "true" grants; casing and truthy variants do not.
	cases := []struct {
		value string
		want  bool
	}{
		{"true", true},
		{"TRUE", false},
		{"True", false},
		{"1", false},
		{"yes", false},
		{"", false},
		{" true", false},
	}
	for _, tc := range cases {
		t.Run("value_"+tc.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("ALLOW_WRITES", tc.value)
			cfg, err := Load()
			require.NoError(t, err)
			assert.Equal(t, tc.want, cfg.AllowWrites)
		})
	}
}

func TestPermissions(t *testing.T) {
	cfg := Config{AllowUserPII: true, AllowSends: true}
	perms := cfg.Permissions()
	assert.True(t, perms.AllowUserPII)
	assert.False(t, perms.AllowWrites)
	assert.True(t, perms.AllowSends)
}

func TestValidate(t *testing.T) {
	t.Run("relative base URL rejected", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("ITERABLE_BASE_URL", "api.iterable.com")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not an absolute URL")
	})

	t.Run("port out of range rejected", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("ITERABLE_MCP_PORT", "70000")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "out of range")
	})

	t.Run("unparseable port falls back to default", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("ITERABLE_MCP_PORT", "not-a-number")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 3000, cfg.Port)
	})
}
