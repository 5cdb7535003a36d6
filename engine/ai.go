package engine

import (
	"github.com/rs/zerolog/log"

	"connectfour/game"
	"connectfour/searcher"
)

// AIController turns a difficulty setting into a concrete move. It owns the
// transposition cache its searches use; the cache is cleared per turn, so
// holding it here only saves reallocation between turns of one session.
type AIController struct {
	table     *searcher.Table
	collector searcher.Collector
}

// NewAIController returns a controller with its own cache.
func NewAIController() *AIController {
	return &AIController{
		table:     searcher.NewTable(),
		collector: searcher.NewCollector(),
	}
}

// ChooseMove searches the position at the difficulty's depth and returns the
// column to play for player. If the search reports no column even though
// legal moves exist (it never should), the first legal column is played
// instead of failing the turn.
func (c *AIController) ChooseMove(b *game.Board, difficulty Difficulty, player game.Cell) int {
	m := searcher.NewMinimax(
		searcher.WithMaxDepth(difficulty.Depth()),
		searcher.WithTable(c.table),
		searcher.WithCollector(c.collector),
	)
	result := m.FindBestMove(b, player)

	metrics := c.collector.Complete()
	log.Debug().
		Stringer("difficulty", difficulty).
		Int("depth", metrics.Depth).
		Int("column", result.Column).
		Int("score", result.Score).
		Int("nodes", metrics.Nodes).
		Int("cutoffs", metrics.Cutoffs).
		Float64("cache_hit_rate", metrics.HitRate()).
		Dur("took", metrics.Duration).
		Msg("search complete")

	if result.Column >= 0 {
		return result.Column
	}
	legal := b.LegalColumns()
	if len(legal) == 0 {
		panic("engine: ChooseMove called with no legal moves")
	}
	return legal[0]
}
