// Package commands implements the typst-intern subcommands.
package commands

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/purpl3F0x/typst/pkg/config"
	"github.com/purpl3F0x/typst/pkg/observability"
	"github.com/purpl3F0x/typst/pkg/version"
)

const (
	flagConfig   = "config"
	flagLogLevel = "log-level"
	flagLogJSON  = "log-json"

	logFormatJSON = "json"
	logFormatText = "text"
)

// Options holds the persistent flags shared by every subcommand.
type Options struct {
	ConfigPath string
	LogLevel   string
	LogJSON    bool
}

// NewRootCommand creates the typst-intern root command with all
// subcommands except version, which main adds.
func NewRootCommand() *cobra.Command {
	opts := &Options{}

	rootCmd := &cobra.Command{
		Use:   "typst-intern",
		Short: "Interned file identities and sandboxed path resolution",
		Long: `typst-intern exposes the value interning engine used for file identities.

Commands:
  resolve   Resolve paths relative to a file inside the project or a package
  bench     Run a concurrent interning workload and report table statistics`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.ConfigPath, flagConfig, "", "config file (default: ./typst-intern.yaml)")
	flags.StringVar(&opts.LogLevel, flagLogLevel, config.DefaultLogLevel, "log level: debug, info, warn, error")
	flags.BoolVar(&opts.LogJSON, flagLogJSON, false, "write logs as JSON")

	rootCmd.AddCommand(NewResolveCommand(opts))
	rootCmd.AddCommand(NewBenchCommand(opts))

	return rootCmd
}

// load reads the config file and applies the persistent flags set on cmd.
func (o *Options) load(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig(o.ConfigPath)
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed(flagLogLevel) {
		cfg.Logging.Level = o.LogLevel

		_, levelErr := cfg.Logging.SlogLevel()
		if levelErr != nil {
			return nil, levelErr
		}
	}

	if cmd.Flags().Changed(flagLogJSON) {
		cfg.Logging.Format = logFormatText
		if o.LogJSON {
			cfg.Logging.Format = logFormatJSON
		}
	}

	return cfg, nil
}

// startObservability initializes telemetry for command. The standard OTEL_*
// variables are used when the config leaves the exporter unset.
func startObservability(cfg *config.Config, command string, logOut io.Writer, prometheus bool) (observability.Providers, error) {
	level, err := cfg.Logging.SlogLevel()
	if err != nil {
		return observability.Providers{}, err
	}

	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version.Get().Version
	obsCfg.Command = command
	obsCfg.LogLevel = level
	obsCfg.LogJSON = cfg.Logging.JSON()
	obsCfg.LogWriter = logOut
	obsCfg.Prometheus = prometheus
	obsCfg.SampleRatio = cfg.Telemetry.SampleRatio
	obsCfg.OTLPInsecure = cfg.Telemetry.OTLPInsecure || os.Getenv("OTEL_EXPORTER_OTLP_INSECURE") == "true"

	obsCfg.OTLPEndpoint = cfg.Telemetry.OTLPEndpoint
	if obsCfg.OTLPEndpoint == "" {
		obsCfg.OTLPEndpoint = os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	}

	headers := cfg.Telemetry.OTLPHeaders
	if headers == "" {
		headers = os.Getenv("OTEL_EXPORTER_OTLP_HEADERS")
	}

	obsCfg.OTLPHeaders = observability.ParseOTLPHeaders(headers)

	return observability.Init(obsCfg)
}

func shutdownObservability(providers observability.Providers) {
	shutdownErr := providers.Shutdown(context.Background())
	if shutdownErr != nil {
		providers.Logger.Warn("observability shutdown failed", "error", shutdownErr)
	}
}
