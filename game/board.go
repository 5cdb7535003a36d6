package game

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// Cols and Rows define the standard Connect Four grid.
	Cols = 7
	Rows = 6

	// Need is the number of aligned discs required to win.
	Need = 4
)

// Cell is the content of a single board cell.
type Cell int8

const (
	Empty Cell = iota
	PlayerA
	PlayerB
)

// Opponent returns the other player. Calling it on Empty is a caller bug.
func (c Cell) Opponent() Cell {
	switch c {
	case PlayerA:
		return PlayerB
	case PlayerB:
		return PlayerA
	}
	panic("game: Empty has no opponent")
}

func (c Cell) String() string {
	switch c {
	case PlayerA:
		return "A"
	case PlayerB:
		return "B"
	}
	return "."
}

// Coord addresses a cell. Row 0 is the bottom of the grid so that a dropped
// disc lands at row == fill height.
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// WinningLine holds the four coordinates of a completed alignment, ordered
// along the line's direction.
type WinningLine [Need]Coord

// ErrInvalidMove reports a drop into a full or out-of-range column. It is
// expected during play and recoverable; the caller retries with another
// column.
var ErrInvalidMove = errors.New("game: invalid move")

// Board is the mutable grid state. The search mutates it in place with
// Drop/Undo pairs and must return it unchanged, so Board carries no
// synchronization: exactly one goroutine drives it at a time.
type Board struct {
	cells   [Rows][Cols]Cell
	heights [Cols]int
	hash    uint64
}

// NewBoard returns an empty board.
func NewBoard() *Board {
	return &Board{}
}

// At returns the cell content at (row, col).
func (b *Board) At(row, col int) Cell {
	return b.cells[row][col]
}

// Height returns the fill height of the column: the row the next disc in that
// column would land in.
func (b *Board) Height(col int) int {
	return b.heights[col]
}

// Hash is the zobrist hash of the current cell contents. Side to move is not
// part of it; the searcher mixes that in when forming cache keys.
func (b *Board) Hash() uint64 {
	return b.hash
}

// Drop places player's disc on top of the column's stack and returns the row
// it landed in. Returns ErrInvalidMove if the column is out of range or full.
func (b *Board) Drop(col int, player Cell) (int, error) {
	if col < 0 || col >= Cols {
		return -1, fmt.Errorf("%w: column %d out of range", ErrInvalidMove, col)
	}
	row := b.heights[col]
	if row >= Rows {
		return -1, fmt.Errorf("%w: column %d is full", ErrInvalidMove, col)
	}
	b.cells[row][col] = player
	b.heights[col] = row + 1
	b.hash ^= cellKey(row, col, player)
	return row, nil
}

// Undo removes the top disc of the column. Only the search backtracks moves;
// undoing an empty column means a Drop/Undo pairing bug, so it panics instead
// of returning an error.
func (b *Board) Undo(col int) {
	if col < 0 || col >= Cols {
		panic(fmt.Sprintf("game: undo on column %d out of range", col))
	}
	row := b.heights[col] - 1
	if row < 0 {
		panic(fmt.Sprintf("game: undo on empty column %d", col))
	}
	player := b.cells[row][col]
	b.cells[row][col] = Empty
	b.heights[col] = row
	b.hash ^= cellKey(row, col, player)
}

// directions for the win scan: horizontal, vertical and the two diagonals.
var winDirections = [4][2]int{{0, 1}, {1, 0}, {1, 1}, {1, -1}}

// CheckWin tests whether the disc at (row, col) completes four in a row. The
// scan walks outward from the just-played cell only, so a full-board rescan is
// never needed after a move.
func (b *Board) CheckWin(row, col int) (WinningLine, bool) {
	player := b.cells[row][col]
	if player == Empty {
		return WinningLine{}, false
	}
	for _, d := range winDirections {
		dr, dc := d[0], d[1]
		// Walk to the far end of the run in the negative direction,
		// then count forward.
		r, c := row, col
		for inBounds(r-dr, c-dc) && b.cells[r-dr][c-dc] == player {
			r, c = r-dr, c-dc
		}
		run := 0
		for inBounds(r+run*dr, c+run*dc) && b.cells[r+run*dr][c+run*dc] == player {
			run++
		}
		if run >= Need {
			var line WinningLine
			for i := 0; i < Need; i++ {
				line[i] = Coord{Row: r + i*dr, Col: c + i*dc}
			}
			return line, true
		}
	}
	return WinningLine{}, false
}

// IsFull reports whether every column is filled to the top. Together with "no
// winner" it signals a draw.
func (b *Board) IsFull() bool {
	for col := 0; col < Cols; col++ {
		if b.heights[col] < Rows {
			return false
		}
	}
	return true
}

// columnOrder is the center-out exploration order: middle column first, then
// alternating outward. Surfacing strong moves early improves alpha-beta
// pruning, and the fixed order keeps the search reproducible.
var columnOrder = buildColumnOrder()

func buildColumnOrder() [Cols]int {
	var order [Cols]int
	center := Cols / 2
	order[0] = center
	i := 1
	for offset := 1; offset <= center; offset++ {
		order[i] = center - offset
		i++
		if center+offset < Cols {
			order[i] = center + offset
			i++
		}
	}
	return order
}

// LegalColumns returns the playable columns in center-out order.
func (b *Board) LegalColumns() []int {
	cols := make([]int, 0, Cols)
	for _, col := range columnOrder {
		if b.heights[col] < Rows {
			cols = append(cols, col)
		}
	}
	return cols
}

// String renders the grid top row first, for logs and test failures.
func (b *Board) String() string {
	var sb strings.Builder
	for row := Rows - 1; row >= 0; row-- {
		for col := 0; col < Cols; col++ {
			sb.WriteString(b.cells[row][col].String())
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func inBounds(row, col int) bool {
	return row >= 0 && row < Rows && col >= 0 && col < Cols
}
