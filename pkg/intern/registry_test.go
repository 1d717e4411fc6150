package intern_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/purpl3F0x/typst/pkg/intern"
)

type (
	symbol string
	label  string
)

func TestRegistry_OfReturnsSameTable(t *testing.T) {
	t.Parallel()

	reg := intern.NewRegistry()

	first := intern.Of[symbol, uint32](reg)
	second := intern.Of[symbol, uint32](reg)
	assert.Same(t, first, second)
	assert.Equal(t, "intern_test.symbol", first.Name())
}

func TestRegistry_ConcurrentOf(t *testing.T) {
	t.Parallel()

	reg := intern.NewRegistry()
	tables := make([]*intern.Interner[symbol, uint32], testConcurrentGoroutines)

	var g errgroup.Group

	for i := range tables {
		g.Go(func() error {
			tables[i] = intern.Of[symbol, uint32](reg)
			tables[i].Intern("x")

			return nil
		})
	}

	require.NoError(t, g.Wait())

	for _, table := range tables {
		assert.Same(t, tables[0], table)
	}

	assert.Equal(t, 1, tables[0].Len())
}

func TestRegistry_TablesAreIndependent(t *testing.T) {
	t.Parallel()

	reg := intern.NewRegistry()

	symbols := intern.Of[symbol, uint32](reg)
	labels := intern.Of[label, uint16](reg)

	s := symbols.Intern("a")
	l := labels.Intern("a")
	labels.Intern("b")

	assert.Equal(t, uint32(1), s.Raw())
	assert.Equal(t, uint16(1), l.Raw())
	assert.Equal(t, 1, symbols.Len())
	assert.Equal(t, 2, labels.Len())
}

func TestRegistry_RegistriesAreIsolated(t *testing.T) {
	t.Parallel()

	a := intern.NewRegistry()
	b := intern.NewRegistry()

	intern.Of[symbol, uint32](a).Intern("only-in-a")

	assert.Equal(t, 1, intern.Of[symbol, uint32](a).Len())
	assert.Equal(t, 0, intern.Of[symbol, uint32](b).Len())
}

func TestRegistry_IndexMismatchPanics(t *testing.T) {
	t.Parallel()

	reg := intern.NewRegistry()
	intern.Of[label, uint16](reg)

	defer func() {
		recovered := recover()
		require.NotNil(t, recovered)

		err, ok := recovered.(error)
		require.True(t, ok)
		assert.ErrorIs(t, err, intern.ErrIndexMismatch)
	}()

	intern.Of[label, uint32](reg)
}

func TestRegistry_Stats(t *testing.T) {
	t.Parallel()

	reg := intern.NewRegistry()

	labels := intern.Of[label, uint16](reg)
	labels.Intern("x")
	labels.Intern("x")

	symbols := intern.Of[symbol, uint32](reg)
	symbols.InternUnique("y")

	want := []intern.Stats{
		{Name: "intern_test.label", Width: intern.Narrow, Entries: 1, Capacity: 65535, Hits: 1, Misses: 1},
		{Name: "intern_test.symbol", Width: intern.Wide, Entries: 1, Capacity: 4294967295, Unique: 1},
	}

	if diff := cmp.Diff(want, reg.Stats()); diff != "" {
		t.Errorf("Stats() mismatch (-want +got):\n%s", diff)
	}

	tables := reg.Tables()
	require.Len(t, tables, 2)
	assert.Equal(t, "intern_test.label", tables[0].Name())
}

func TestBinding_UsesRegistry(t *testing.T) {
	t.Parallel()

	reg := intern.NewRegistry()
	bound := intern.Bind[symbol, uint32](reg)

	id := bound.Intern("s")
	assert.Equal(t, id, bound.Intern("s"))
	assert.NotEqual(t, id, bound.Unique("s"))
	assert.Equal(t, symbol("s"), bound.Get(id))
	assert.Same(t, intern.Of[symbol, uint32](reg), bound.Table())

	var table intern.Table[symbol, uint32] = bound.Table()
	assert.Equal(t, 2, table.Len())
}
