package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace"

	"github.com/purpl3F0x/typst/internal/workload"
	"github.com/purpl3F0x/typst/pkg/config"
	"github.com/purpl3F0x/typst/pkg/intern"
	"github.com/purpl3F0x/typst/pkg/observability"
)

const (
	benchCmdUse   = "bench"
	benchCmdShort = "Run a concurrent interning workload and report table statistics"

	flagWorkers     = "workers"
	flagValues      = "values"
	flagRepeat      = "repeat"
	flagUniqueRatio = "unique-ratio"
	flagSeed        = "seed"
	flagFormat      = "format"
	flagMetricsAddr = "metrics-addr"

	metricsPath = "/metrics"

	serverReadTimeout  = 10 * time.Second
	serverWriteTimeout = 10 * time.Second
	serverIdleTimeout  = 60 * time.Second
	serverStopTimeout  = 5 * time.Second
)

type benchOptions struct {
	workers     int
	values      int
	repeat      int
	uniqueRatio float64
	seed        uint64
	format      string
	metricsAddr string
}

// NewBenchCommand creates the bench subcommand.
func NewBenchCommand(opts *Options) *cobra.Command {
	bo := &benchOptions{}

	cmd := &cobra.Command{
		Use:   benchCmdUse,
		Short: benchCmdShort,
		Long: `Intern generated file paths into a narrow table and symbols into a wide table
from several goroutines at once, then print per-table statistics.

With --metrics-addr the tables and workload counters are served in Prometheus
format at /metrics until the process is interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}

			bo.apply(cmd, &cfg.Bench)

			err = validateFormat(bo.format)
			if err != nil {
				return err
			}

			return runBench(cmd, cfg, bo)
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&bo.workers, flagWorkers, config.DefaultBenchWorkers, "concurrent goroutines")
	flags.IntVar(&bo.values, flagValues, config.DefaultBenchValues, "distinct values per table")
	flags.IntVar(&bo.repeat, flagRepeat, config.DefaultBenchRepeat, "passes over the value set per goroutine")
	flags.Float64Var(&bo.uniqueRatio, flagUniqueRatio, config.DefaultBenchUniqueRatio, "fraction of unique (non-deduplicating) calls")
	flags.Uint64Var(&bo.seed, flagSeed, 0, "seed for choosing unique calls")
	flags.StringVar(&bo.format, flagFormat, formatTable, "output format: table, yaml, json")
	flags.StringVar(&bo.metricsAddr, flagMetricsAddr, "", "serve Prometheus metrics on this address, e.g. :9464")

	return cmd
}

// apply copies explicitly set flags over the config values.
func (bo *benchOptions) apply(cmd *cobra.Command, bench *config.BenchConfig) {
	flags := cmd.Flags()

	if flags.Changed(flagWorkers) {
		bench.Workers = bo.workers
	}

	if flags.Changed(flagValues) {
		bench.Values = bo.values
	}

	if flags.Changed(flagRepeat) {
		bench.Repeat = bo.repeat
	}

	if flags.Changed(flagUniqueRatio) {
		bench.UniqueRatio = bo.uniqueRatio
	}
}

func runBench(cmd *cobra.Command, cfg *config.Config, bo *benchOptions) error {
	root, err := cfg.Sandbox.VirtualRoot()
	if err != nil {
		return err
	}

	serve := bo.metricsAddr != ""

	providers, err := startObservability(cfg, "bench", cmd.ErrOrStderr(), serve)
	if err != nil {
		return err
	}

	defer shutdownObservability(providers)

	metrics, err := observability.NewWorkloadMetrics(providers.Meter)
	if err != nil {
		return err
	}

	runner := &workload.Runner{
		Registry: intern.NewRegistry(
			intern.WithLogger(providers.Logger),
			intern.WithWarnThreshold(cfg.Interner.WarnThreshold),
		),
		Metrics: metrics,
		Tracer:  providers.Tracer,
		Logger:  providers.Logger,
	}

	reg, err := observability.RegisterInternerMetrics(providers.Meter, statsProviders(runner.Tables())...)
	if err != nil {
		return err
	}

	defer func() {
		unregErr := reg.Unregister()
		if unregErr != nil {
			providers.Logger.Warn("unregister interner metrics failed", "error", unregErr)
		}
	}()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var stopServer func()

	if serve {
		ctx, stopServer, err = startMetricsServer(ctx, bo.metricsAddr, providers.MetricsHandler, providers.Tracer, providers.Logger)
		if err != nil {
			return err
		}

		defer stopServer()
	}

	report, err := runner.Run(ctx, workload.Config{
		Root:        root,
		Workers:     cfg.Bench.Workers,
		Values:      cfg.Bench.Values,
		Repeat:      cfg.Bench.Repeat,
		UniqueRatio: cfg.Bench.UniqueRatio,
		Seed:        bo.seed,
	})
	if err != nil {
		return err
	}

	err = writeReport(cmd.OutOrStdout(), bo.format, report)
	if err != nil {
		return err
	}

	if serve {
		providers.Logger.Info("workload done, serving metrics until interrupted")
		<-ctx.Done()
	}

	return nil
}

// statsProviders adapts interning tables to the metrics interface.
func statsProviders(tables []intern.StatsSource) []observability.InternerStatsProvider {
	providers := make([]observability.InternerStatsProvider, 0, len(tables))

	for _, t := range tables {
		providers = append(providers, t)
	}

	return providers
}

// newMetricsMux routes the scrape endpoint through the tracing middleware.
func newMetricsMux(handler http.Handler, tracer trace.Tracer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle(metricsPath, handler)

	return observability.HTTPMiddleware(tracer, mux)
}

// startMetricsServer listens on addr and serves handler at /metrics. The
// returned context is canceled on SIGINT or SIGTERM; stop shuts the server down.
func startMetricsServer(
	ctx context.Context, addr string, handler http.Handler, tracer trace.Tracer, logger *slog.Logger,
) (context.Context, func(), error) {
	listener, err := (&net.ListenConfig{}).Listen(ctx, "tcp", addr)
	if err != nil {
		return nil, nil, fmt.Errorf("listen on %s: %w", addr, err)
	}

	server := &http.Server{
		Handler:      newMetricsMux(handler, tracer),
		ReadTimeout:  serverReadTimeout,
		WriteTimeout: serverWriteTimeout,
		IdleTimeout:  serverIdleTimeout,
	}

	go func() {
		serveErr := server.Serve(listener)
		if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			logger.Error("metrics server failed", "error", serveErr)
		}
	}()

	logger.Info("serving metrics", "addr", "http://"+listener.Addr().String()+metricsPath)

	sigCtx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)

	stop := func() {
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), serverStopTimeout)
		defer shutdownCancel()

		shutdownErr := server.Shutdown(shutdownCtx)
		if shutdownErr != nil {
			logger.Warn("metrics server shutdown failed", "error", shutdownErr)
		}
	}

	return sigCtx, stop, nil
}
