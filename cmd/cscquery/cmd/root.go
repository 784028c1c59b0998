package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	copernicus "github.com/MrChebur/Copernicus-OData-wrapper"
	"github.com/MrChebur/Copernicus-OData-wrapper/internal/config"
	"github.com/MrChebur/Copernicus-OData-wrapper/internal/store"
)

// Version is set via ldflags.
var Version = "dev"

var (
	configFile string
	cfg        *config.Config
	logger     *slog.Logger
	tel        *telemetry
)

var rootCmd = &cobra.Command{
	Use:     "cscquery",
	Short:   "Query the Copernicus Data Space catalogue",
	Version: Version,
	Long: `
cscquery builds OData queries for the Copernicus Data Space Ecosystem catalogue,
sends them and prints the products found.

Settings come from flags, CSC_* environment variables (a .env file is read if
present) and an optional config file, in that order of precedence.

COMMANDS:
  search       Search products with filters, ordering and paging
  url          Print the request URL a search would send
  names        Look up products by exact name
  nodes        List the files inside a product
  attributes   List the attributes usable with --attr

EXAMPLES:
  cscquery search --collection SENTINEL-2 --published-from 2024-01-01 --top 10
  cscquery search --attr "cloudCover le 20" --geometry "POINT(12.5 41.9)" --all --save
  cscquery names S2A_MSIL1C_20180927T051221_N0206_R033_T42FXL_20180927T073143.SAFE
  cscquery nodes db0c8ef3-8ec0-5185-a537-812dad3c58f8
`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configFile, cmd.Flags())
		if err != nil {
			return err
		}
		cfg = loaded
		logger = cfg.NewLogger(cmd.ErrOrStderr())
		tel = nil
		if cfg.Telemetry {
			tel = newTelemetry(logger)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if tel == nil {
			return nil
		}
		return tel.shutdown(context.Background())
	},
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetVersionTemplate("cscquery {{.Version}}\n")

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "Config file (yaml, json or toml)")
	flags.String("endpoint", config.DefaultEndpoint, "Products endpoint")
	flags.String("zipper-endpoint", config.DefaultZipperEndpoint, "Zipper endpoint accepted by nodes")
	flags.Duration("connect-timeout", 0, "Connect timeout (default 30s)")
	flags.Duration("read-timeout", 0, "Read timeout (default 30s)")
	flags.String("proxy", "", "HTTP proxy URL")
	flags.String("log-level", "info", "Log level: debug, info, warn, error")
	flags.String("log-format", "text", "Log format: text or json")
	flags.Duration("cache-ttl", 0, "Cache GET responses for this long (0 disables)")
	flags.Int("cache-size", 0, "Maximum cached responses")
	flags.String("store", "", "Product archive DSN (SQLite path or postgres:// URL)")
	flags.Bool("telemetry", false, "Log request and archive spans and metrics")
}

func newClient() (*copernicus.Client, error) {
	proxy, err := cfg.ProxyURL()
	if err != nil {
		return nil, err
	}
	timeout := cfg.Timeout()
	opts := []copernicus.Option{
		copernicus.WithEndpoint(cfg.Endpoint),
		copernicus.WithZipperEndpoint(cfg.ZipperEndpoint),
		copernicus.WithTimeout(timeout.Connect, timeout.Read),
		copernicus.WithProxy(proxy),
		copernicus.WithUserAgent(serviceName + "/" + Version),
		copernicus.WithLogger(logger),
		copernicus.WithCache(cfg.CacheTTL, cfg.CacheSize),
	}
	if tel != nil {
		opts = append(opts, tel.clientOption())
	}
	return copernicus.New(opts...), nil
}

func openStore() (*store.Store, error) {
	if cfg.StoreDSN == "" {
		return nil, fmt.Errorf("--save needs a product archive: set --store or CSC_STORE_DSN")
	}
	opts := []store.Option{store.WithLogger(logger)}
	if tel != nil {
		opts = append(opts, tel.storeOption())
	}
	return store.Open(cfg.StoreDSN, opts...)
}
