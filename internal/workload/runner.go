package workload

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/purpl3F0x/typst/pkg/intern"
	"github.com/purpl3F0x/typst/pkg/observability"
	"github.com/purpl3F0x/typst/pkg/vpath"
)

// ErrRoundTrip means a resolved value differed from the interned one.
var ErrRoundTrip = errors.New("interned value did not round-trip")

const tracerName = "github.com/purpl3F0x/typst/internal/workload"

// Operation kinds used as the op metric attribute.
const (
	OpIntern  = "intern"
	OpUnique  = "unique"
	OpResolve = "resolve"
)

// Runner executes workloads against the tables of one registry.
type Runner struct {
	// Registry holds the tables under test. Use a fresh registry per run to
	// keep the numbers of different runs apart.
	Registry *intern.Registry

	// Metrics receives per-batch operation counts. Nil disables recording.
	Metrics *observability.WorkloadMetrics

	// Tracer creates the run and worker spans.
	// When nil, falls back to otel.Tracer.
	Tracer trace.Tracer

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Report summarizes a finished run.
type Report struct {
	Config  Config
	Elapsed time.Duration

	Interned  int64 // successful Intern calls
	Unique    int64 // successful InternUnique calls
	Resolved  int64
	Exhausted int64 // calls refused because a table was full

	Tables []intern.Stats
}

// Ops returns the number of successful operations.
func (r Report) Ops() int64 {
	return r.Interned + r.Unique + r.Resolved
}

// OpsPerSecond returns the operation throughput of the run.
func (r Report) OpsPerSecond() float64 {
	if r.Elapsed <= 0 {
		return 0
	}

	return float64(r.Ops()) / r.Elapsed.Seconds()
}

func (runner *Runner) tracer() trace.Tracer {
	if runner.Tracer != nil {
		return runner.Tracer
	}

	return otel.Tracer(tracerName)
}

func (runner *Runner) logger() *slog.Logger {
	if runner.Logger != nil {
		return runner.Logger
	}

	return slog.Default()
}

// Tables creates the tables a run uses, so that observers can be attached
// before Run starts. Run picks up the same tables.
func (runner *Runner) Tables() []intern.StatsSource {
	return []intern.StatsSource{
		intern.Of[vpath.VirtualPath, uint16](runner.Registry),
		intern.Of[Symbol, uint32](runner.Registry),
	}
}

// tally is shared by all workers of a run.
type tally struct {
	interned  atomic.Int64
	unique    atomic.Int64
	resolved  atomic.Int64
	exhausted atomic.Int64
}

// Run interns cfg.Values file paths into a narrow table and as many symbols
// into a wide table, from cfg.Workers goroutines, cfg.Repeat times each.
// Exhaustion is counted, not fatal; any other failure cancels the run.
func (runner *Runner) Run(ctx context.Context, cfg Config) (Report, error) {
	err := cfg.validate()
	if err != nil {
		return Report{}, err
	}

	paths, err := filePaths(cfg.Root, cfg.Values)
	if err != nil {
		return Report{}, err
	}

	files := &lane[vpath.VirtualPath, uint16]{table: intern.Of[vpath.VirtualPath, uint16](runner.Registry), values: paths}
	names := &lane[Symbol, uint32]{table: intern.Of[Symbol, uint32](runner.Registry), values: symbols(cfg.Values)}

	ctx, span := runner.tracer().Start(ctx, "typst.workload.run",
		trace.WithAttributes(
			attribute.Int("workload.workers", cfg.Workers),
			attribute.Int("workload.values", cfg.Values),
			attribute.Int("workload.repeat", cfg.Repeat),
			attribute.Float64("workload.unique_ratio", cfg.UniqueRatio),
		))
	defer span.End()

	var counts tally

	group, groupCtx := errgroup.WithContext(ctx)
	start := time.Now()

	for worker := range cfg.Workers {
		group.Go(func() error {
			return runner.work(groupCtx, cfg, worker, files, names, &counts)
		})
	}

	err = group.Wait()
	elapsed := time.Since(start)

	if err != nil {
		observability.RecordSpanError(span, err, errorType(err))

		return Report{}, fmt.Errorf("workload: %w", err)
	}

	report := Report{
		Config:    cfg,
		Elapsed:   elapsed,
		Interned:  counts.interned.Load(),
		Unique:    counts.unique.Load(),
		Resolved:  counts.resolved.Load(),
		Exhausted: counts.exhausted.Load(),
		Tables:    runner.Registry.Stats(),
	}

	span.SetAttributes(
		attribute.Int64("workload.ops", report.Ops()),
		attribute.Int64("workload.exhausted", report.Exhausted),
	)

	runner.logger().InfoContext(ctx, "workload finished",
		"ops", report.Ops(), "exhausted", report.Exhausted, "elapsed", elapsed)

	return report, nil
}

// work is one worker: Repeat passes over both lanes, each pass starting at a
// different offset so workers contend on different values.
func (runner *Runner) work(ctx context.Context, cfg Config, worker int, files *lane[vpath.VirtualPath, uint16],
	names *lane[Symbol, uint32], counts *tally,
) error {
	ctx, span := runner.tracer().Start(ctx, "typst.workload.worker",
		trace.WithAttributes(attribute.Int("workload.worker", worker)))
	defer span.End()

	rng := rand.New(rand.NewPCG(cfg.Seed, uint64(worker))) //nolint:gosec // not security sensitive

	d := driver{
		runner: runner,
		cfg:    cfg,
		rng:    rng,
		counts: counts,
	}

	var filesFull, namesFull bool

	for pass := range cfg.Repeat {
		offset := worker*cfg.Values/cfg.Workers + pass

		var err error

		if !filesFull {
			filesFull, err = drive(ctx, &d, files, offset)
			if err != nil {
				observability.RecordSpanError(span, err, errorType(err))

				return err
			}
		}

		if !namesFull {
			namesFull, err = drive(ctx, &d, names, offset)
			if err != nil {
				observability.RecordSpanError(span, err, errorType(err))

				return err
			}
		}
	}

	if filesFull || namesFull {
		span.SetAttributes(attribute.String("error.type", observability.ErrTypeExhausted))
	}

	return nil
}

// lane pairs a table with the values interned into it.
type lane[T comparable, I intern.Index] struct {
	table  *intern.Interner[T, I]
	values []T
}

// driver carries the per-worker state shared by all lanes.
type driver struct {
	runner *Runner
	cfg    Config
	rng    *rand.Rand
	counts *tally
}

// batch counts the operations since the last flush.
type batch struct {
	start    time.Time
	interned int
	unique   int
	resolved int
}

func (b *batch) size() int {
	return b.interned + b.unique + b.resolved
}

func (d *driver) flush(ctx context.Context, b *batch) {
	elapsed := time.Since(b.start)
	metrics := d.runner.Metrics

	if b.interned > 0 {
		metrics.RecordBatch(ctx, OpIntern, b.interned, elapsed)
	}

	if b.unique > 0 {
		metrics.RecordBatch(ctx, OpUnique, b.unique, elapsed)
	}

	if b.resolved > 0 {
		metrics.RecordBatch(ctx, OpResolve, b.resolved, elapsed)
	}

	*b = batch{start: time.Now()}
}

// drive makes one pass over l starting at offset. It reports whether the
// table ran out of space, after which the worker stops using it.
func drive[T comparable, I intern.Index](ctx context.Context, d *driver, l *lane[T, I], offset int) (bool, error) {
	n := len(l.values)
	size := d.cfg.batchSize()
	b := batch{start: time.Now()}

	defer func() { d.flush(ctx, &b) }()

	for i := range n {
		if b.size() >= size {
			d.flush(ctx, &b)

			err := ctx.Err()
			if err != nil {
				return false, err
			}
		}

		value := l.values[(i+offset)%n]

		var (
			id  intern.ID[T, I]
			op  string
			err error
		)

		if d.rng.Float64() < d.cfg.UniqueRatio {
			op = OpUnique
			id, err = l.table.TryInternUnique(value)
		} else {
			op = OpIntern
			id, err = l.table.TryIntern(value)
		}

		if err != nil {
			if !errors.Is(err, intern.ErrExhausted) {
				return false, err
			}

			d.counts.exhausted.Add(1)
			d.runner.Metrics.RecordError(ctx, op)

			return true, nil
		}

		if op == OpUnique {
			b.unique++
			d.counts.unique.Add(1)
		} else {
			b.interned++
			d.counts.interned.Add(1)
		}

		got, err := resolve(l.table, id)
		if err != nil {
			d.runner.Metrics.RecordError(ctx, OpResolve)

			return false, err
		}

		if got != value {
			return false, fmt.Errorf("%w: %s resolved to %v, want %v", ErrRoundTrip, id, got, value)
		}

		b.resolved++
		d.counts.resolved.Add(1)
	}

	return false, nil
}

// resolve is Resolve with the invalid-ID panic returned as an error.
func resolve[T comparable, I intern.Index](table *intern.Interner[T, I], id intern.ID[T, I]) (value T, err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}

		invalid, ok := r.(*intern.InvalidIDError)
		if !ok {
			panic(r)
		}

		err = invalid
	}()

	return table.Resolve(id), nil
}

// errorType classifies err for the error.type span attribute.
func errorType(err error) string {
	switch {
	case errors.Is(err, intern.ErrInvalidID):
		return observability.ErrTypeInvalidID
	case errors.Is(err, intern.ErrExhausted):
		return observability.ErrTypeExhausted
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return observability.ErrTypeCanceled
	default:
		return observability.ErrTypeInternal
	}
}
