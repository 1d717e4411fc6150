// Package intern deduplicates immutable values into canonical, permanently
// retained entries and hands out compact, comparable IDs in their place.
//
// Each domain type is bound to exactly one Interner per Registry. The index
// type of the binding (uint16 or uint32) bounds how many values of that type
// can ever be interned: entries are never released, so an ID stays valid for
// the lifetime of the table that issued it and can be copied, stored in maps
// and resolved from any goroutine.
//
// Two allocation policies exist. Intern returns the existing ID for a value
// equal to one seen before. InternUnique always allocates a fresh slot that is
// never entered into the deduplication map, so the resulting ID differs from
// every other ID even when the values compare equal.
//
// Running out of index space and resolving an ID that the table never issued
// are invariant violations and panic. TryIntern and TryInternUnique report
// exhaustion as an error instead.
package intern
