package intern

import (
	"fmt"
	"reflect"
)

// ID stands in for an interned value of type T. It carries only the slot
// index; two IDs are equal exactly when they were issued for the same slot,
// regardless of whether the values behind them compare equal.
//
// An ID does not know which table issued it. Resolve it through that table or
// the Binding that wraps it.
//
// The zero ID refers to no value.
type ID[T comparable, I Index] struct {
	_   [0]*T
	raw I
}

// FromRaw rebuilds an ID from an index previously obtained with Raw. The index
// must have been issued by the table the ID is later resolved against.
func FromRaw[T comparable, I Index](raw I) ID[T, I] {
	return ID[T, I]{raw: raw}
}

// Raw returns the bare index.
func (id ID[T, I]) Raw() I {
	return id.raw
}

// IsZero reports whether id is the zero ID.
func (id ID[T, I]) IsZero() bool {
	return id.raw == 0
}

// String renders the type and slot, e.g. "vpath.VirtualPath#3". It does not
// resolve the value.
func (id ID[T, I]) String() string {
	return fmt.Sprintf("%s#%d", reflect.TypeFor[T]().String(), id.raw)
}
