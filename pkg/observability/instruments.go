package observability

import (
	"fmt"

	"go.opentelemetry.io/otel/metric"
)

// instrumentSet creates the instruments of one metrics group (interner tables,
// workload batches) on a shared meter. The first creation failure is kept and
// later instruments are still created, so constructors check Err once.
type instrumentSet struct {
	meter metric.Meter
	err   error
}

func newInstrumentSet(mt metric.Meter) *instrumentSet {
	return &instrumentSet{meter: mt}
}

// Err returns the first instrument creation error.
func (s *instrumentSet) Err() error {
	return s.err
}

func (s *instrumentSet) fail(name string, err error) {
	if err != nil && s.err == nil {
		s.err = fmt.Errorf("instrument %s: %w", name, err)
	}
}

// counter is a synchronous counter, used for per-batch operation totals.
func (s *instrumentSet) counter(name, desc, unit string) metric.Int64Counter {
	c, err := s.meter.Int64Counter(name, metric.WithDescription(desc), metric.WithUnit(unit))
	s.fail(name, err)

	return c
}

// histogram is a latency histogram. Without bounds the SDK default buckets apply.
func (s *instrumentSet) histogram(name, desc, unit string, bounds ...float64) metric.Float64Histogram {
	opts := []metric.Float64HistogramOption{metric.WithDescription(desc), metric.WithUnit(unit)}
	if len(bounds) > 0 {
		opts = append(opts, metric.WithExplicitBucketBoundaries(bounds...))
	}

	h, err := s.meter.Float64Histogram(name, opts...)
	s.fail(name, err)

	return h
}

// gauge reports table sizes read at collection time.
func (s *instrumentSet) gauge(name, desc, unit string) metric.Int64ObservableGauge {
	g, err := s.meter.Int64ObservableGauge(name, metric.WithDescription(desc), metric.WithUnit(unit))
	s.fail(name, err)

	return g
}

// observableCounter reports the monotonic hit, miss and unique counts that the
// tables keep themselves.
func (s *instrumentSet) observableCounter(name, desc, unit string) metric.Int64ObservableCounter {
	c, err := s.meter.Int64ObservableCounter(name, metric.WithDescription(desc), metric.WithUnit(unit))
	s.fail(name, err)

	return c
}
