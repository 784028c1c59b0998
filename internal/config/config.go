// Package config loads the command line client's settings from flags, the environment
// (CSC_ prefix, optionally via a .env file) and an optional config file.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/MrChebur/Copernicus-OData-wrapper/internal/transport"
)

// EnvPrefix is prepended to every environment variable, e.g. CSC_ENDPOINT.
const EnvPrefix = "CSC"

const (
	DefaultEndpoint       = "https://catalogue.dataspace.copernicus.eu/odata/v1/Products"
	DefaultZipperEndpoint = "https://zipper.dataspace.copernicus.eu/odata/v1/Products"
)

// Config holds every setting of the command line client.
type Config struct {
	Endpoint       string        `mapstructure:"endpoint"`
	ZipperEndpoint string        `mapstructure:"zipper_endpoint"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	Proxy          string        `mapstructure:"proxy"`
	LogLevel       string        `mapstructure:"log_level"`
	LogFormat      string        `mapstructure:"log_format"`
	CacheTTL       time.Duration `mapstructure:"cache_ttl"`
	CacheSize      int           `mapstructure:"cache_size"`
	StoreDSN       string        `mapstructure:"store_dsn"`
	Telemetry      bool          `mapstructure:"telemetry"`
}

// flagKeys maps config keys to the kebab-case flag names the CLI registers.
var flagKeys = map[string]string{
	"endpoint":        "endpoint",
	"zipper_endpoint": "zipper-endpoint",
	"connect_timeout": "connect-timeout",
	"read_timeout":    "read-timeout",
	"proxy":           "proxy",
	"log_level":       "log-level",
	"log_format":      "log-format",
	"cache_ttl":       "cache-ttl",
	"cache_size":      "cache-size",
	"store_dsn":       "store",
	"telemetry":       "telemetry",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("endpoint", DefaultEndpoint)
	v.SetDefault("zipper_endpoint", DefaultZipperEndpoint)
	v.SetDefault("connect_timeout", transport.DefaultTimeout.Connect)
	v.SetDefault("read_timeout", transport.DefaultTimeout.Read)
	v.SetDefault("proxy", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("cache_ttl", time.Duration(0))
	v.SetDefault("cache_size", 256)
	v.SetDefault("store_dsn", "")
	v.SetDefault("telemetry", false)
}

// Load reads the configuration. Precedence, highest first: changed flags, CSC_*
// environment variables (a .env file in the working directory is loaded first if
// present), the config file at path, defaults. path and flags may be empty/nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	if flags != nil {
		for key, name := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	var errs []error
	if c.Endpoint == "" {
		errs = append(errs, errors.New("endpoint must not be empty"))
	}
	if c.ConnectTimeout <= 0 || c.ReadTimeout <= 0 {
		errs = append(errs, errors.New("timeouts must be positive"))
	}
	if c.CacheTTL < 0 || c.CacheSize < 0 {
		errs = append(errs, errors.New("cache_ttl and cache_size must not be negative"))
	}
	if _, ok := parseLevel(c.LogLevel); !ok {
		errs = append(errs, fmt.Errorf("unknown log_level %q", c.LogLevel))
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log_format %q", c.LogFormat))
	}
	if _, err := c.ProxyURL(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// Timeout returns the configured connect/read timeout pair.
func (c *Config) Timeout() transport.Timeout {
	return transport.Timeout{Connect: c.ConnectTimeout, Read: c.ReadTimeout}
}

// ProxyURL parses Proxy. An empty Proxy yields nil.
func (c *Config) ProxyURL() (*url.URL, error) {
	if c.Proxy == "" {
		return nil, nil
	}
	u, err := url.Parse(c.Proxy)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid proxy %q", c.Proxy)
	}
	return u, nil
}
