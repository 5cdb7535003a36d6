package searcher

// Result is the outcome of searching one node: the score from the maximizing
// player's perspective, the best column found (-1 at leaf and terminal nodes,
// where no move was chosen), and the remaining depth the score was computed
// at.
type Result struct {
	Score  int
	Column int
	Depth  int
}

// Table is the transposition cache: canonical position key to the search
// result computed there. Positions reachable through several move orders are
// searched once per turn instead of once per order.
//
// The search is single-threaded, so a plain map suffices; the table's
// lifetime is one AI turn.
type Table struct {
	entries map[uint64]Result
}

// NewTable returns an empty cache.
func NewTable() *Table {
	return &Table{entries: make(map[uint64]Result)}
}

// Probe looks up key. A hit requires the stored result to have been computed
// at a remaining depth of at least depth; reusing a shallower result where a
// deeper one was requested would silently weaken the search.
func (t *Table) Probe(key uint64, depth int) (Result, bool) {
	r, ok := t.entries[key]
	if !ok || r.Depth < depth {
		return Result{}, false
	}
	return r, true
}

// Store records a result, never downgrading: an existing entry computed at
// equal or greater depth is kept.
func (t *Table) Store(key uint64, r Result) {
	if old, ok := t.entries[key]; ok && old.Depth >= r.Depth {
		return
	}
	t.entries[key] = r
}

// Clear drops all entries. Called at the start of every AI turn: the board
// changes completely between turns, so stale entries would only cost memory.
func (t *Table) Clear() {
	clear(t.entries)
}

// Len returns the number of cached positions.
func (t *Table) Len() int {
	return len(t.entries)
}
