package observability

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric"
	noopmetric "go.opentelemetry.io/otel/metric/noop"
)

var (
	errCounterRejected = errors.New("counter rejected")
	errGaugeRejected   = errors.New("gauge rejected")
)

// rejectingMeter fails counter and gauge creation.
type rejectingMeter struct {
	noopmetric.Meter
}

func (rejectingMeter) Int64Counter(string, ...metric.Int64CounterOption) (metric.Int64Counter, error) {
	return nil, errCounterRejected
}

func (rejectingMeter) Int64ObservableGauge(string, ...metric.Int64ObservableGaugeOption) (metric.Int64ObservableGauge, error) {
	return nil, errGaugeRejected
}

func TestInstrumentSet_CreatesAll(t *testing.T) {
	t.Parallel()

	set := newInstrumentSet(noopmetric.NewMeterProvider().Meter("typst"))

	assert.NotNil(t, set.counter("typst.test.ops", "ops", "{op}"))
	assert.NotNil(t, set.histogram("typst.test.duration", "duration", "s", durationBucketBoundaries...))
	assert.NotNil(t, set.histogram("typst.test.default_buckets", "duration", "s"))
	assert.NotNil(t, set.gauge("typst.test.entries", "entries", "{entry}"))
	assert.NotNil(t, set.observableCounter("typst.test.hits", "hits", "{call}"))
	require.NoError(t, set.Err())
}

func TestInstrumentSet_KeepsFirstError(t *testing.T) {
	t.Parallel()

	set := newInstrumentSet(rejectingMeter{})

	set.counter("typst.test.ops", "ops", "{op}")
	set.gauge("typst.test.entries", "entries", "{entry}")
	assert.NotNil(t, set.observableCounter("typst.test.hits", "hits", "{call}"))

	err := set.Err()
	require.ErrorIs(t, err, errCounterRejected)
	assert.NotErrorIs(t, err, errGaugeRejected)
	assert.Contains(t, err.Error(), "typst.test.ops")
}

func TestNewWorkloadMetrics_InstrumentError(t *testing.T) {
	t.Parallel()

	_, err := NewWorkloadMetrics(rejectingMeter{})
	require.ErrorIs(t, err, errCounterRejected)
}

func TestRegisterInternerMetrics_InstrumentError(t *testing.T) {
	t.Parallel()

	_, err := RegisterInternerMetrics(rejectingMeter{})
	require.ErrorIs(t, err, errGaugeRejected)
}
