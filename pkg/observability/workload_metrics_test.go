package observability_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/purpl3F0x/typst/pkg/observability"
)

func TestWorkloadMetrics_RecordBatch(t *testing.T) {
	t.Parallel()

	reader, mp := newManualMeter()

	wm, err := observability.NewWorkloadMetrics(mp.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	wm.RecordBatch(ctx, "intern", 100, 2*time.Millisecond)
	wm.RecordBatch(ctx, "intern", 50, time.Millisecond)
	wm.RecordBatch(ctx, "resolve", 7, time.Millisecond)

	rm := collect(t, reader)

	ops := findMetric(rm, "typst.workload.ops.total")
	require.NotNil(t, ops)

	opsSum, ok := ops.Data.(metricdata.Sum[int64])
	require.True(t, ok)

	byOp := pointsByAttr(opsSum.DataPoints, "op")
	assert.Equal(t, int64(150), byOp["intern"])
	assert.Equal(t, int64(7), byOp["resolve"])

	durations := findMetric(rm, "typst.workload.batch.duration.seconds")
	require.NotNil(t, durations)

	hist, ok := durations.Data.(metricdata.Histogram[float64])
	require.True(t, ok)

	var batches uint64
	for _, dp := range hist.DataPoints {
		batches += dp.Count
	}

	assert.Equal(t, uint64(3), batches)
}

func TestWorkloadMetrics_RecordError(t *testing.T) {
	t.Parallel()

	reader, mp := newManualMeter()

	wm, err := observability.NewWorkloadMetrics(mp.Meter("test"))
	require.NoError(t, err)

	wm.RecordError(context.Background(), "unique")
	wm.RecordError(context.Background(), "unique")

	rm := collect(t, reader)

	errs := findMetric(rm, "typst.workload.errors.total")
	require.NotNil(t, errs)

	errSum, ok := errs.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	assert.Equal(t, int64(2), pointsByAttr(errSum.DataPoints, "op")["unique"])
}

func TestWorkloadMetrics_NilReceiver(t *testing.T) {
	t.Parallel()

	var wm *observability.WorkloadMetrics

	assert.NotPanics(t, func() {
		wm.RecordBatch(context.Background(), "intern", 1, time.Millisecond)
		wm.RecordError(context.Background(), "intern")
	})
}
