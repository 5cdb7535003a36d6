package searcher

import (
	"fmt"

	"connectfour/game"
)

// DefaultDepth is the search depth used when no option overrides it.
const DefaultDepth = 4

// infinity for alpha-beta bounds; comfortably above any reachable score.
const inf = 1 << 30

// Option configures a Minimax searcher.
type Option func(*Minimax)

// WithMaxDepth bounds the search to depth plies.
func WithMaxDepth(depth int) Option {
	return func(m *Minimax) {
		if depth > 0 {
			m.maxDepth = depth
		}
	}
}

// WithTable makes the searcher use t instead of its own private cache.
func WithTable(t *Table) Option {
	return func(m *Minimax) {
		if t != nil {
			m.table = t
		}
	}
}

// WithoutPruning disables alpha-beta cutoffs, searching full width. Pruning
// is a pure optimization: with or without it the chosen move is identical.
// Exists for that equivalence check and for debugging.
func WithoutPruning() Option {
	return func(m *Minimax) {
		m.pruning = false
	}
}

// WithCollector attaches a metrics collector to every search call.
func WithCollector(c Collector) Option {
	return func(m *Minimax) {
		if c != nil {
			m.collector = c
		}
	}
}

// Minimax is a depth-bounded minimax searcher with alpha-beta pruning and a
// per-turn transposition cache. One search call owns the board for its whole
// duration and returns it exactly as received: every exploratory Drop is
// paired with an Undo on every path out of a node.
type Minimax struct {
	maxDepth  int
	table     *Table
	pruning   bool
	collector Collector

	// player is the maximizing side of the call in progress. Scores are
	// always from this player's perspective.
	player game.Cell
}

// NewMinimax returns a searcher with the given options applied over defaults
// (DefaultDepth, a private table, pruning on, no metrics).
func NewMinimax(options ...Option) *Minimax {
	m := &Minimax{
		maxDepth:  DefaultDepth,
		table:     NewTable(),
		pruning:   true,
		collector: NewNopCollector(),
	}
	for _, option := range options {
		option(m)
	}
	return m
}

// FindBestMove searches the position and returns the best column for player
// together with its score. The cache is cleared first: its scope is this one
// turn.
func (m *Minimax) FindBestMove(b *game.Board, player game.Cell) Result {
	m.player = player
	m.table.Clear()
	m.collector.Start(m.maxDepth)
	return m.search(b, -1, -1, m.maxDepth, 0, -inf, inf, true)
}

// search evaluates one node. lastRow/lastCol locate the move that produced
// this position (-1 at the root), depth is the remaining search depth, ply
// the distance from the root, and maximizing tells whose turn it is relative
// to m.player.
func (m *Minimax) search(b *game.Board, lastRow, lastCol, depth, ply, alpha, beta int, maximizing bool) Result {
	m.collector.AddNode()
	alphaOrig, betaOrig := alpha, beta

	mover := m.player
	if !maximizing {
		mover = m.player.Opponent()
	}
	key := b.Hash() ^ game.SideKey(mover)

	if r, ok := m.table.Probe(key, depth); ok {
		m.collector.AddProbe(true)
		return r
	}
	m.collector.AddProbe(false)

	// Terminal checks: the move that led here may have ended the game.
	// Wins are depth-biased so the searcher prefers the fastest win and,
	// when losing anyway, the longest resistance.
	if lastRow >= 0 {
		if _, won := b.CheckWin(lastRow, lastCol); won {
			score := -(game.WinScore - ply)
			if b.At(lastRow, lastCol) == m.player {
				score = game.WinScore - ply
			}
			r := Result{Score: score, Column: -1, Depth: depth}
			m.table.Store(key, r)
			return r
		}
	}
	if b.IsFull() {
		r := Result{Score: 0, Column: -1, Depth: depth}
		m.table.Store(key, r)
		return r
	}

	if depth == 0 {
		m.collector.AddLeafEval()
		r := Result{Score: game.Score(b, m.player), Column: -1, Depth: 0}
		m.table.Store(key, r)
		return r
	}

	columns := b.LegalColumns()
	if len(columns) == 0 {
		// IsFull said otherwise above: the fill heights are corrupt.
		panic("searcher: no legal columns in a non-terminal position")
	}

	best := Result{Column: -1, Depth: depth}
	if maximizing {
		best.Score = -inf
	} else {
		best.Score = inf
	}

	for _, col := range columns {
		row, err := b.Drop(col, mover)
		if err != nil {
			panic(fmt.Sprintf("searcher: drop into legal column %d failed: %v", col, err))
		}
		child := m.search(b, row, col, depth-1, ply+1, alpha, beta, !maximizing)
		b.Undo(col)

		if maximizing {
			if child.Score > best.Score {
				best.Score = child.Score
				best.Column = col
			}
			if best.Score > alpha {
				alpha = best.Score
			}
		} else {
			if child.Score < best.Score {
				best.Score = child.Score
				best.Column = col
			}
			if best.Score < beta {
				beta = best.Score
			}
		}
		if m.pruning && alpha >= beta {
			m.collector.AddCutoff()
			break
		}
	}

	// A score outside the window the node was asked with is only a bound
	// on the true value (fail-low or fail-high), not the value itself.
	// Caching it would let a cutoff in one subtree corrupt another, so
	// only exact scores go into the table.
	if best.Score > alphaOrig && best.Score < betaOrig {
		m.table.Store(key, best)
	}
	return best
}
