package searcher

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTableProbe(t *testing.T) {
	t.Run("miss on unknown key", func(t *testing.T) {
		table := NewTable()
		_, ok := table.Probe(42, 0)
		require.False(t, ok)
	})

	t.Run("hit requires stored depth at least the requested depth", func(t *testing.T) {
		table := NewTable()
		table.Store(42, Result{Score: 7, Column: 3, Depth: 2})

		_, ok := table.Probe(42, 4)
		require.False(t, ok, "A shallow result must not answer a deeper request")

		got, ok := table.Probe(42, 2)
		require.True(t, ok)
		require.Equal(t, Result{Score: 7, Column: 3, Depth: 2}, got)

		got, ok = table.Probe(42, 1)
		require.True(t, ok, "A deeper result may answer a shallower request")
		require.Equal(t, 7, got.Score)
	})
}

func TestTableStore(t *testing.T) {
	t.Run("deeper result overwrites a shallower one", func(t *testing.T) {
		table := NewTable()
		table.Store(42, Result{Score: 1, Column: 0, Depth: 1})
		table.Store(42, Result{Score: 2, Column: 5, Depth: 3})

		got, ok := table.Probe(42, 3)
		require.True(t, ok)
		require.Equal(t, 2, got.Score)
	})

	t.Run("equal or shallower result never downgrades the entry", func(t *testing.T) {
		table := NewTable()
		table.Store(42, Result{Score: 1, Column: 0, Depth: 3})
		table.Store(42, Result{Score: 9, Column: 6, Depth: 3})
		table.Store(42, Result{Score: 8, Column: 2, Depth: 1})

		got, ok := table.Probe(42, 3)
		require.True(t, ok)
		require.Equal(t, Result{Score: 1, Column: 0, Depth: 3}, got,
			"Cache quality must never go down")
	})
}

func TestTableClear(t *testing.T) {
	table := NewTable()
	table.Store(1, Result{Depth: 1})
	table.Store(2, Result{Depth: 1})
	require.Equal(t, 2, table.Len())

	table.Clear()
	require.Zero(t, table.Len())
	_, ok := table.Probe(1, 0)
	require.False(t, ok)
}
