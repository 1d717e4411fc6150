// Package config loads typst-intern configuration from YAML files and
// TYPST_INTERN_* environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/viper"

	"github.com/purpl3F0x/typst/pkg/vpath"
)

// Sentinel validation errors.
var (
	ErrInvalidLogLevel      = errors.New("invalid log level")
	ErrInvalidLogFormat     = errors.New("invalid log format")
	ErrInvalidSampleRatio   = errors.New("sample ratio must be within [0, 1]")
	ErrInvalidWarnThreshold = errors.New("warn threshold must be within (0, 1]")
	ErrInvalidRootKind      = errors.New("invalid sandbox root")
	ErrMissingPackage       = errors.New("package root requires a package spec")
	ErrInvalidWorkers       = errors.New("bench workers must be positive")
	ErrInvalidValues        = errors.New("bench values must be positive")
	ErrInvalidRepeat        = errors.New("bench repeat must be positive")
	ErrInvalidUniqueRatio   = errors.New("bench unique ratio must be within [0, 1]")
)

// Sandbox root kinds.
const (
	RootProject = "project"
	RootPackage = "package"
)

// EnvPrefix is the prefix of environment variables that override config keys.
const EnvPrefix = "TYPST_INTERN"

// Config holds all configuration for typst-intern.
type Config struct {
	Logging   LoggingConfig   `mapstructure:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Interner  InternerConfig  `mapstructure:"interner"`
	Sandbox   SandboxConfig   `mapstructure:"sandbox"`
	Bench     BenchConfig     `mapstructure:"bench"`
}

// LoggingConfig holds logging-specific configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// TelemetryConfig holds OpenTelemetry export configuration.
type TelemetryConfig struct {
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	OTLPHeaders  string  `mapstructure:"otlp_headers"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
	OTLPInsecure bool    `mapstructure:"otlp_insecure"`
}

// InternerConfig holds interning table configuration.
type InternerConfig struct {
	WarnThreshold float64 `mapstructure:"warn_threshold"`
}

// SandboxConfig selects the root that relative paths resolve inside.
type SandboxConfig struct {
	Root    string `mapstructure:"root"`
	Package string `mapstructure:"package"`
}

// BenchConfig holds defaults for the bench command.
type BenchConfig struct {
	Workers     int     `mapstructure:"workers"`
	Values      int     `mapstructure:"values"`
	Repeat      int     `mapstructure:"repeat"`
	UniqueRatio float64 `mapstructure:"unique_ratio"`
}

// LoadConfig loads configuration from file and environment variables.
// With an empty configPath the usual locations are searched and a missing
// file is not an error; an explicit path must exist.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName("typst-intern")
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
		viperCfg.AddConfigPath("./config")
		viperCfg.AddConfigPath("$HOME/.config/typst-intern")
	}

	viperCfg.SetEnvPrefix(EnvPrefix)
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	if used := viperCfg.ConfigFileUsed(); used != "" && readErr == nil {
		schemaErr := ValidateFile(used)
		if schemaErr != nil {
			return nil, schemaErr
		}
	}

	var config Config

	unmarshalErr := viperCfg.Unmarshal(&config)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", unmarshalErr)
	}

	validateErr := validateConfig(&config)
	if validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return &config, nil
}

// setDefaults sets default configuration values. Every key needs a default
// so that environment overrides reach Unmarshal.
func setDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("logging.level", DefaultLogLevel)
	viperCfg.SetDefault("logging.format", DefaultLogFormat)

	viperCfg.SetDefault("telemetry.otlp_endpoint", DefaultOTLPEndpoint)
	viperCfg.SetDefault("telemetry.otlp_insecure", DefaultOTLPInsecure)
	viperCfg.SetDefault("telemetry.otlp_headers", DefaultOTLPHeaders)
	viperCfg.SetDefault("telemetry.sample_ratio", DefaultSampleRatio)

	viperCfg.SetDefault("interner.warn_threshold", DefaultWarnThreshold)

	viperCfg.SetDefault("sandbox.root", DefaultSandboxRoot)
	viperCfg.SetDefault("sandbox.package", DefaultSandboxPackage)

	viperCfg.SetDefault("bench.workers", DefaultBenchWorkers)
	viperCfg.SetDefault("bench.values", DefaultBenchValues)
	viperCfg.SetDefault("bench.repeat", DefaultBenchRepeat)
	viperCfg.SetDefault("bench.unique_ratio", DefaultBenchUniqueRatio)
}

// validateConfig validates the configuration.
func validateConfig(config *Config) error {
	_, err := config.Logging.SlogLevel()
	if err != nil {
		return err
	}

	if config.Logging.Format != "text" && config.Logging.Format != "json" {
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, config.Logging.Format)
	}

	if config.Telemetry.SampleRatio < 0 || config.Telemetry.SampleRatio > 1 {
		return fmt.Errorf("%w: %g", ErrInvalidSampleRatio, config.Telemetry.SampleRatio)
	}

	if config.Interner.WarnThreshold <= 0 || config.Interner.WarnThreshold > 1 {
		return fmt.Errorf("%w: %g", ErrInvalidWarnThreshold, config.Interner.WarnThreshold)
	}

	switch config.Sandbox.Root {
	case RootProject, RootPackage, "":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidRootKind, config.Sandbox.Root)
	}

	return validateBench(&config.Bench)
}

func validateBench(bench *BenchConfig) error {
	if bench.Workers <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidWorkers, bench.Workers)
	}

	if bench.Values <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidValues, bench.Values)
	}

	if bench.Repeat <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidRepeat, bench.Repeat)
	}

	if bench.UniqueRatio < 0 || bench.UniqueRatio > 1 {
		return fmt.Errorf("%w: %g", ErrInvalidUniqueRatio, bench.UniqueRatio)
	}

	return nil
}

// SlogLevel maps the configured level name to a slog level.
func (lc LoggingConfig) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(lc.Level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLogLevel, lc.Level)
	}
}

// JSON reports whether logs are written as JSON.
func (lc LoggingConfig) JSON() bool {
	return lc.Format == "json"
}

// VirtualRoot returns the sandbox root described by the config. LoadConfig
// checks only the root kind, so that command-line flags can still supply the
// package before this is called.
func (sc SandboxConfig) VirtualRoot() (vpath.VirtualRoot, error) {
	switch sc.Root {
	case RootProject, "":
		return vpath.Project(), nil
	case RootPackage:
		if sc.Package == "" {
			return vpath.VirtualRoot{}, ErrMissingPackage
		}

		spec, err := vpath.ParsePackageSpec(sc.Package)
		if err != nil {
			return vpath.VirtualRoot{}, err
		}

		return vpath.Package(spec), nil
	default:
		return vpath.VirtualRoot{}, fmt.Errorf("%w: %q", ErrInvalidRootKind, sc.Root)
	}
}
