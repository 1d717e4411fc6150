package intern

import (
	"cmp"
	"fmt"
	"reflect"
	"slices"
	"sync"
)

// Registry owns one Interner per domain type. Code that needs isolation, such
// as tests, creates its own Registry; everything else shares Default.
type Registry struct {
	settings settings

	mu     sync.RWMutex
	tables map[reflect.Type]StatsSource
}

var defaultRegistry = NewRegistry()

// Default returns the process-wide registry.
func Default() *Registry {
	return defaultRegistry
}

// NewRegistry creates an empty registry. The options apply to every table it
// creates.
func NewRegistry(opts ...Option) *Registry {
	s := defaultSettings()
	for _, opt := range opts {
		opt(&s)
	}

	return &Registry{
		settings: s,
		tables:   make(map[reflect.Type]StatsSource),
	}
}

// Of returns the table bound to T in r, creating it on first use. A type is
// bound to the index type of its first request; asking again with a different
// index type panics with ErrIndexMismatch.
func Of[T comparable, I Index](r *Registry) *Interner[T, I] {
	key := reflect.TypeFor[T]()

	r.mu.RLock()
	existing, ok := r.tables[key]
	r.mu.RUnlock()

	if !ok {
		r.mu.Lock()
		defer r.mu.Unlock()

		existing, ok = r.tables[key]
		if !ok {
			in := newInterner[T, I](key.String(), r.settings)
			r.tables[key] = in

			return in
		}
	}

	in, ok := existing.(*Interner[T, I])
	if !ok {
		panic(fmt.Errorf("%w: %s is bound to a %s index, requested %s as %s",
			ErrIndexMismatch, key, existing.Width(), reflect.TypeFor[I](), WidthOf[I]()))
	}

	return in
}

// Tables returns every table of r ordered by name.
func (r *Registry) Tables() []StatsSource {
	r.mu.RLock()
	tables := make([]StatsSource, 0, len(r.tables))

	for _, t := range r.tables {
		tables = append(tables, t)
	}
	r.mu.RUnlock()

	slices.SortFunc(tables, func(a, b StatsSource) int {
		return cmp.Compare(a.Name(), b.Name())
	})

	return tables
}

// Stats returns a snapshot of every table of r ordered by name.
func (r *Registry) Stats() []Stats {
	tables := r.Tables()
	stats := make([]Stats, 0, len(tables))

	for _, t := range tables {
		stats = append(stats, t.Stats())
	}

	return stats
}
