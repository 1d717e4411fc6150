package observability_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/purpl3F0x/typst/pkg/observability"
)

// stubTable implements observability.InternerStatsProvider for testing.
type stubTable struct {
	name     string
	entries  int
	capacity int
	hits     int64
	misses   int64
	unique   int64
}

func (s *stubTable) Name() string        { return s.name }
func (s *stubTable) Len() int            { return s.entries }
func (s *stubTable) Capacity() int       { return s.capacity }
func (s *stubTable) CacheHits() int64    { return s.hits }
func (s *stubTable) CacheMisses() int64  { return s.misses }
func (s *stubTable) UniqueAllocs() int64 { return s.unique }

func newManualMeter() (*sdkmetric.ManualReader, *sdkmetric.MeterProvider) {
	reader := sdkmetric.NewManualReader()

	return reader, sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()

	var rm metricdata.ResourceMetrics

	require.NoError(t, reader.Collect(context.Background(), &rm))

	return rm
}

func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}

	return nil
}

// pointsByAttr extracts data points keyed by the value of attribute key.
func pointsByAttr[N int64 | float64](dps []metricdata.DataPoint[N], key string) map[string]N {
	m := make(map[string]N, len(dps))

	for _, dp := range dps {
		if v, ok := dp.Attributes.Value(attribute.Key(key)); ok {
			m[v.AsString()] = dp.Value
		}
	}

	return m
}

func TestInternerMetrics_Exported(t *testing.T) {
	t.Parallel()

	reader, mp := newManualMeter()

	files := &stubTable{name: "files", entries: 12, capacity: 65535, hits: 30, misses: 10, unique: 2}
	strs := &stubTable{name: "strings", entries: 5, capacity: 4294967295, hits: 1, misses: 5}

	_, err := observability.RegisterInternerMetrics(mp.Meter("test"), files, strs)
	require.NoError(t, err)

	rm := collect(t, reader)

	entries := findMetric(rm, "typst.interner.entries")
	require.NotNil(t, entries)

	entriesGauge, ok := entries.Data.(metricdata.Gauge[int64])
	require.True(t, ok, "expected Gauge data type for entries")

	byTable := pointsByAttr(entriesGauge.DataPoints, "table")
	assert.Equal(t, int64(12), byTable["files"])
	assert.Equal(t, int64(5), byTable["strings"])

	capacity := findMetric(rm, "typst.interner.capacity")
	require.NotNil(t, capacity)

	capacityGauge, ok := capacity.Data.(metricdata.Gauge[int64])
	require.True(t, ok)
	assert.Equal(t, int64(4294967295), pointsByAttr(capacityGauge.DataPoints, "table")["strings"])

	hits := findMetric(rm, "typst.interner.hits")
	require.NotNil(t, hits)

	hitsSum, ok := hits.Data.(metricdata.Sum[int64])
	require.True(t, ok, "expected Sum data type for hits")
	assert.True(t, hitsSum.IsMonotonic)
	assert.Equal(t, int64(30), pointsByAttr(hitsSum.DataPoints, "table")["files"])

	unique := findMetric(rm, "typst.interner.unique")
	require.NotNil(t, unique)

	uniqueSum, ok := unique.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	assert.Equal(t, int64(2), pointsByAttr(uniqueSum.DataPoints, "table")["files"])
	assert.Equal(t, int64(0), pointsByAttr(uniqueSum.DataPoints, "table")["strings"])
}

func TestInternerMetrics_ObservesLatestState(t *testing.T) {
	t.Parallel()

	reader, mp := newManualMeter()

	table := &stubTable{name: "files", capacity: 65535}

	_, err := observability.RegisterInternerMetrics(mp.Meter("test"), table)
	require.NoError(t, err)

	table.entries = 3
	table.misses = 3

	rm := collect(t, reader)

	misses := findMetric(rm, "typst.interner.misses")
	require.NotNil(t, misses)

	missesSum, ok := misses.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	assert.Equal(t, int64(3), pointsByAttr(missesSum.DataPoints, "table")["files"])
}

func TestInternerMetrics_Unregister(t *testing.T) {
	t.Parallel()

	reader, mp := newManualMeter()

	reg, err := observability.RegisterInternerMetrics(mp.Meter("test"), &stubTable{name: "files", entries: 1})
	require.NoError(t, err)
	require.NoError(t, reg.Unregister())

	rm := collect(t, reader)

	if entries := findMetric(rm, "typst.interner.entries"); entries != nil {
		gauge, ok := entries.Data.(metricdata.Gauge[int64])
		require.True(t, ok)
		assert.Empty(t, gauge.DataPoints)
	}
}

func TestInternerMetrics_NilProviders(t *testing.T) {
	t.Parallel()

	_, mp := newManualMeter()

	_, err := observability.RegisterInternerMetrics(mp.Meter("test"), nil, nil)
	require.NoError(t, err)
}
