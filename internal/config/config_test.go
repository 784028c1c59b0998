package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultEndpoint, cfg.Endpoint)
	assert.Equal(t, DefaultZipperEndpoint, cfg.ZipperEndpoint)
	assert.Equal(t, 30*time.Second, cfg.ConnectTimeout)
	assert.Equal(t, 30*time.Second, cfg.ReadTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Zero(t, cfg.CacheTTL)
	assert.Equal(t, 256, cfg.CacheSize)
	assert.Empty(t, cfg.StoreDSN)
	assert.False(t, cfg.Telemetry)
}

func TestLoadEnvironment(t *testing.T) {
	t.Setenv("CSC_ENDPOINT", "http://localhost:8080/odata/v1/Products")
	t.Setenv("CSC_READ_TIMEOUT", "5s")
	t.Setenv("CSC_CACHE_SIZE", "10")
	t.Setenv("CSC_LOG_LEVEL", "debug")
	t.Setenv("CSC_TELEMETRY", "true")

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080/odata/v1/Products", cfg.Endpoint)
	assert.Equal(t, 5*time.Second, cfg.ReadTimeout)
	assert.Equal(t, 10, cfg.CacheSize)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.Telemetry)
}

func TestLoadFilePrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cscquery.yaml")
	content := "log_format: json\nproxy: http://proxy.local:3128\nconnect_timeout: 2s\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	// Environment wins over the file.
	t.Setenv("CSC_CONNECT_TIMEOUT", "7s")

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 7*time.Second, cfg.ConnectTimeout)

	proxy, err := cfg.ProxyURL()
	require.NoError(t, err)
	assert.Equal(t, "proxy.local:3128", proxy.Host)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)
}

func TestLoadFlags(t *testing.T) {
	t.Setenv("CSC_LOG_LEVEL", "warn")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("log-level", "info", "")
	flags.String("store", "", "")
	flags.Duration("read-timeout", 0, "")
	require.NoError(t, flags.Parse([]string{"--log-level=error", "--store=products.db"}))

	cfg, err := Load("", flags)
	require.NoError(t, err)

	assert.Equal(t, "error", cfg.LogLevel)
	assert.Equal(t, "products.db", cfg.StoreDSN)
	// Unchanged flags do not override defaults.
	assert.Equal(t, 30*time.Second, cfg.ReadTimeout)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Endpoint:       DefaultEndpoint,
			ConnectTimeout: time.Second,
			ReadTimeout:    time.Second,
			LogLevel:       "info",
			LogFormat:      "text",
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty endpoint", func(c *Config) { c.Endpoint = "" }},
		{"zero timeout", func(c *Config) { c.ReadTimeout = 0 }},
		{"negative cache", func(c *Config) { c.CacheSize = -1 }},
		{"bad level", func(c *Config) { c.LogLevel = "verbose" }},
		{"bad format", func(c *Config) { c.LogFormat = "xml" }},
		{"bad proxy", func(c *Config) { c.Proxy = "not a url" }},
	}

	base := valid()
	require.NoError(t, base.Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestTimeout(t *testing.T) {
	cfg := Config{ConnectTimeout: time.Second, ReadTimeout: 2 * time.Second}
	to := cfg.Timeout()
	assert.Equal(t, time.Second, to.Connect)
	assert.Equal(t, 2*time.Second, to.Read)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer

	cfg := Config{LogLevel: "warn", LogFormat: "json"}
	logger := cfg.NewLogger(&buf)
	logger.Info("hidden")
	logger.Warn("shown", "k", "v")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"k":"v"`)

	buf.Reset()
	cfg = Config{LogLevel: "debug", LogFormat: "text"}
	cfg.NewLogger(&buf).Debug("details")
	assert.Contains(t, buf.String(), "msg=details")
}
