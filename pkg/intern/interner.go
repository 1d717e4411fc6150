package intern

import (
	"iter"
	"log/slog"
	"reflect"
	"sync"
	"sync/atomic"
)

// Table is the part of Interner that domain code depends on, so that an
// isolated table can be substituted in tests.
type Table[T comparable, I Index] interface {
	Resolver[T, I]
	Intern(value T) ID[T, I]
	InternUnique(value T) ID[T, I]
	Len() int
}

// Resolver turns IDs back into values.
type Resolver[T comparable, I Index] interface {
	Resolve(id ID[T, I]) T
}

var _ Table[string, uint16] = (*Interner[string, uint16])(nil)

// Interner stores every value of type T it was ever given and maps IDs to
// them. It is safe for concurrent use.
//
// All allocations are serialized by one write lock, which Intern takes even
// when the value is already present. Resolve only needs the read lock.
// Calling back into the same Interner while it allocates deadlocks.
type Interner[T comparable, I Index] struct {
	name   string
	logger *slog.Logger
	warnAt int

	mu     sync.RWMutex
	toID   map[T]ID[T, I]
	fromID []T
	warned bool

	// Counters are atomic for lock-free reads.
	hits   atomic.Int64
	misses atomic.Int64
	unique atomic.Int64
}

// New creates a standalone Interner. Most code should obtain its table through
// a Registry with Of instead, so that there is exactly one table per type.
func New[T comparable, I Index](name string, opts ...Option) *Interner[T, I] {
	s := defaultSettings()
	for _, opt := range opts {
		opt(&s)
	}

	return newInterner[T, I](name, s)
}

func newInterner[T comparable, I Index](name string, s settings) *Interner[T, I] {
	if name == "" {
		name = reflect.TypeFor[T]().String()
	}

	in := &Interner[T, I]{
		name:   name,
		logger: s.log(),
		warnAt: s.warnAt(Capacity[I]()),
		toID:   make(map[T]ID[T, I]),
	}

	in.logger.Debug("interner created", "table", name, "width", WidthOf[I]().String(), "capacity", Capacity[I]())

	return in
}

// Intern returns the ID of the stored value equal to value, storing value
// first if there is none. It panics with an *ExhaustedError when a new slot is
// needed but the index space is used up.
func (in *Interner[T, I]) Intern(value T) ID[T, I] {
	id, err := in.TryIntern(value)
	if err != nil {
		panic(err)
	}

	return id
}

// TryIntern is like Intern but reports exhaustion as an error.
func (in *Interner[T, I]) TryIntern(value T) (ID[T, I], error) {
	in.mu.Lock()
	defer in.mu.Unlock()

	if id, ok := in.toID[value]; ok {
		in.hits.Add(1)

		return id, nil
	}

	return in.alloc(value, false)
}

// InternUnique stores value in a fresh slot and returns an ID that is not
// equal to any other ID of this table. The slot is invisible to Intern and
// Lookup. It panics with an *ExhaustedError when the index space is used up.
func (in *Interner[T, I]) InternUnique(value T) ID[T, I] {
	id, err := in.TryInternUnique(value)
	if err != nil {
		panic(err)
	}

	return id
}

// TryInternUnique is like InternUnique but reports exhaustion as an error.
func (in *Interner[T, I]) TryInternUnique(value T) (ID[T, I], error) {
	in.mu.Lock()
	defer in.mu.Unlock()

	return in.alloc(value, true)
}

// alloc appends value as slot len+1. Callers hold the write lock.
func (in *Interner[T, I]) alloc(value T, unique bool) (ID[T, I], error) {
	raw, ok := FromCount[I](len(in.fromID) + 1)
	if !ok {
		err := &ExhaustedError{Table: in.name, Capacity: Capacity[I]()}
		in.logger.Error("interner exhausted", "table", in.name, "capacity", err.Capacity)

		return ID[T, I]{}, err
	}

	id := ID[T, I]{raw: raw}
	in.fromID = append(in.fromID, value)

	if unique {
		in.unique.Add(1)
	} else {
		in.toID[value] = id
		in.misses.Add(1)
	}

	if in.warnAt > 0 && !in.warned && len(in.fromID) >= in.warnAt {
		in.warned = true
		in.logger.Warn("interner nearing capacity",
			"table", in.name, "entries", len(in.fromID), "capacity", Capacity[I]())
	}

	return id, nil
}

// Resolve returns the value stored for id. It panics with an *InvalidIDError
// when id was not issued by this table.
func (in *Interner[T, I]) Resolve(id ID[T, I]) T {
	n := ToCount(id.raw)

	in.mu.RLock()
	if n == 0 || n > len(in.fromID) {
		size := len(in.fromID)
		in.mu.RUnlock()

		panic(&InvalidIDError{Table: in.name, Raw: uint64(id.raw), Len: size})
	}

	value := in.fromID[n-1]
	in.mu.RUnlock()

	return value
}

// Lookup returns the deduplicated ID of value without storing anything.
// Slots allocated by InternUnique are never found.
func (in *Interner[T, I]) Lookup(value T) (ID[T, I], bool) {
	in.mu.RLock()
	defer in.mu.RUnlock()

	id, ok := in.toID[value]

	return id, ok
}

// Contains reports whether id was issued by this table.
func (in *Interner[T, I]) Contains(id ID[T, I]) bool {
	n := ToCount(id.raw)

	in.mu.RLock()
	defer in.mu.RUnlock()

	return n > 0 && n <= len(in.fromID)
}

// All iterates over the slots that existed when All was called, in slot order.
func (in *Interner[T, I]) All() iter.Seq2[ID[T, I], T] {
	in.mu.RLock()
	// Slots below len are never written again, so the prefix can be read
	// without holding the lock.
	values := in.fromID[:len(in.fromID):len(in.fromID)]
	in.mu.RUnlock()

	return func(yield func(ID[T, I], T) bool) {
		for i, value := range values {
			raw, _ := FromCount[I](i + 1)
			if !yield(ID[T, I]{raw: raw}, value) {
				return
			}
		}
	}
}

// Len returns the number of allocated slots.
func (in *Interner[T, I]) Len() int {
	in.mu.RLock()
	defer in.mu.RUnlock()

	return len(in.fromID)
}

// Name returns the table name used in logs and metrics.
func (in *Interner[T, I]) Name() string { return in.name }

// Width returns the index encoding of the table.
func (in *Interner[T, I]) Width() Width { return WidthOf[I]() }

// Capacity returns the maximum number of slots.
func (in *Interner[T, I]) Capacity() int { return Capacity[I]() }

// CacheHits returns how often Intern found an existing value (atomic, lock-free).
func (in *Interner[T, I]) CacheHits() int64 { return in.hits.Load() }

// CacheMisses returns how often Intern allocated (atomic, lock-free).
func (in *Interner[T, I]) CacheMisses() int64 { return in.misses.Load() }

// UniqueAllocs returns how often InternUnique allocated (atomic, lock-free).
func (in *Interner[T, I]) UniqueAllocs() int64 { return in.unique.Load() }
