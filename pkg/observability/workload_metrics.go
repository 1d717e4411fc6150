package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricOpsTotal      = "typst.workload.ops.total"
	metricBatchDuration = "typst.workload.batch.duration.seconds"
	metricErrorsTotal   = "typst.workload.errors.total"

	attrOp = "op"
)

// durationBucketBoundaries covers 10µs to 10s; a batch is a few hundred
// intern or resolve calls.
var durationBucketBoundaries = []float64{0.00001, 0.0001, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10}

// WorkloadMetrics holds the instruments recorded by interning workloads.
type WorkloadMetrics struct {
	opsTotal      metric.Int64Counter
	batchDuration metric.Float64Histogram
	errorsTotal   metric.Int64Counter
}

// NewWorkloadMetrics creates workload instruments from the given meter.
func NewWorkloadMetrics(mt metric.Meter) (*WorkloadMetrics, error) {
	set := newInstrumentSet(mt)

	wm := &WorkloadMetrics{
		opsTotal:      set.counter(metricOpsTotal, "Operations performed by the workload", "{op}"),
		batchDuration: set.histogram(metricBatchDuration, "Duration of one batch of operations", "s", durationBucketBoundaries...),
		errorsTotal:   set.counter(metricErrorsTotal, "Failed workload operations", "{error}"),
	}

	setErr := set.Err()
	if setErr != nil {
		return nil, setErr
	}

	return wm, nil
}

// RecordBatch records n operations of kind op that took d in total.
// Safe to call on a nil receiver (no-op).
func (wm *WorkloadMetrics) RecordBatch(ctx context.Context, op string, n int, d time.Duration) {
	if wm == nil {
		return
	}

	attrs := metric.WithAttributes(attribute.String(attrOp, op))
	wm.opsTotal.Add(ctx, int64(n), attrs)
	wm.batchDuration.Record(ctx, d.Seconds(), attrs)
}

// RecordError records a failed operation of kind op.
// Safe to call on a nil receiver (no-op).
func (wm *WorkloadMetrics) RecordError(ctx context.Context, op string) {
	if wm == nil {
		return
	}

	wm.errorsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrOp, op)))
}
