package intern

import "sync"

// Binding ties a domain type to its table in a registry. Domain packages keep
// one as a package variable and expose typed helpers around it:
//
//	var names = intern.Bind[Name, uint32](intern.Default())
//
//	func (n Name) Intern() intern.ID[Name, uint32] { return names.Intern(n) }
type Binding[T comparable, I Index] struct {
	registry *Registry

	once  sync.Once
	table *Interner[T, I]
}

// Bind creates a binding of T to r. The table itself is created lazily.
func Bind[T comparable, I Index](r *Registry) *Binding[T, I] {
	return &Binding[T, I]{registry: r}
}

// Table returns the bound table.
func (b *Binding[T, I]) Table() *Interner[T, I] {
	b.once.Do(func() {
		b.table = Of[T, I](b.registry)
	})

	return b.table
}

// Intern deduplicates value. See Interner.Intern.
func (b *Binding[T, I]) Intern(value T) ID[T, I] {
	return b.Table().Intern(value)
}

// Unique allocates a fresh slot for value. See Interner.InternUnique.
func (b *Binding[T, I]) Unique(value T) ID[T, I] {
	return b.Table().InternUnique(value)
}

// Get resolves id. See Interner.Resolve.
func (b *Binding[T, I]) Get(id ID[T, I]) T {
	return b.Table().Resolve(id)
}
