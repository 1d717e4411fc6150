package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricInternerEntries  = "typst.interner.entries"
	metricInternerCapacity = "typst.interner.capacity"
	metricInternerHits     = "typst.interner.hits"
	metricInternerMisses   = "typst.interner.misses"
	metricInternerUnique   = "typst.interner.unique"

	attrTable = "table"
)

// InternerStatsProvider exposes the counters of one interning table.
type InternerStatsProvider interface {
	Name() string
	Len() int
	Capacity() int
	CacheHits() int64
	CacheMisses() int64
	UniqueAllocs() int64
}

// RegisterInternerMetrics registers observable instruments that report the
// state of each table at collection time. Nil providers are skipped. The
// returned registration can be unregistered when the tables go away.
func RegisterInternerMetrics(mt metric.Meter, providers ...InternerStatsProvider) (metric.Registration, error) {
	live := make([]InternerStatsProvider, 0, len(providers))

	for _, p := range providers {
		if p != nil {
			live = append(live, p)
		}
	}

	set := newInstrumentSet(mt)
	entries := set.gauge(metricInternerEntries, "Allocated interner slots", "{entry}")
	capacity := set.gauge(metricInternerCapacity, "Maximum interner slots", "{entry}")
	hits := set.observableCounter(metricInternerHits, "Deduplicating intern calls answered without allocating", "{call}")
	misses := set.observableCounter(metricInternerMisses, "Deduplicating intern calls that allocated", "{call}")
	unique := set.observableCounter(metricInternerUnique, "Unique intern calls", "{call}")

	setErr := set.Err()
	if setErr != nil {
		return nil, setErr
	}

	reg, err := mt.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		for _, p := range live {
			attrs := metric.WithAttributes(attribute.String(attrTable, p.Name()))

			o.ObserveInt64(entries, int64(p.Len()), attrs)
			o.ObserveInt64(capacity, int64(p.Capacity()), attrs)
			o.ObserveInt64(hits, p.CacheHits(), attrs)
			o.ObserveInt64(misses, p.CacheMisses(), attrs)
			o.ObserveInt64(unique, p.UniqueAllocs(), attrs)
		}

		return nil
	}, entries, capacity, hits, misses, unique)
	if err != nil {
		return nil, fmt.Errorf("register interner callback: %w", err)
	}

	return reg, nil
}
