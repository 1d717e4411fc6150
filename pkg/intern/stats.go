package intern

// Stats is a point-in-time snapshot of a table.
type Stats struct {
	Name     string
	Width    Width
	Entries  int
	Capacity int
	Hits     int64 // Intern calls answered from the deduplication map.
	Misses   int64 // Intern calls that allocated.
	Unique   int64 // InternUnique calls.
}

// HitRate returns the fraction of Intern calls that did not allocate (0.0 to 1.0).
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}

	return float64(s.Hits) / float64(total)
}

// Utilization returns the fraction of the index space in use (0.0 to 1.0).
func (s Stats) Utilization() float64 {
	if s.Capacity == 0 {
		return 0
	}

	return float64(s.Entries) / float64(s.Capacity)
}

// StatsSource is implemented by every Interner regardless of its type
// parameters.
type StatsSource interface {
	Name() string
	Width() Width
	Len() int
	Capacity() int
	CacheHits() int64
	CacheMisses() int64
	UniqueAllocs() int64
	Stats() Stats
}

var _ StatsSource = (*Interner[string, uint32])(nil)

// Stats returns current table statistics.
func (in *Interner[T, I]) Stats() Stats {
	return Stats{
		Name:     in.name,
		Width:    WidthOf[I](),
		Entries:  in.Len(),
		Capacity: Capacity[I](),
		Hits:     in.hits.Load(),
		Misses:   in.misses.Load(),
		Unique:   in.unique.Load(),
	}
}
