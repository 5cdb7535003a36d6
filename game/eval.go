package game

// Heuristic weights. The window weights score each length-4 window by its
// disc composition; centerBonus rewards discs in the middle column, which
// participates in the most windows. Tunable, not derived.
const (
	windowFour     = 1000
	windowThree    = 50
	windowTwo      = 10
	windowOppThree = -80

	centerBonus = 6
)

// WinScore is the terminal score magnitude. It dominates any heuristic sum
// (all 69 windows maxed plus the full center bonus stay far below it), so a
// forced win is never traded for positional value. The searcher subtracts the
// ply at which the win occurs, making faster wins score higher and slower
// losses less negative.
const WinScore = 1_000_000

// Score evaluates the position for forPlayer. It is a pure function of the
// board: it scans every horizontal, vertical and diagonal window of four
// cells plus the center column, and carries no state between calls.
func Score(b *Board, forPlayer Cell) int {
	score := 0

	// Horizontal windows.
	for row := 0; row < Rows; row++ {
		for col := 0; col+Need <= Cols; col++ {
			score += scoreWindow(b, row, col, 0, 1, forPlayer)
		}
	}
	// Vertical windows.
	for col := 0; col < Cols; col++ {
		for row := 0; row+Need <= Rows; row++ {
			score += scoreWindow(b, row, col, 1, 0, forPlayer)
		}
	}
	// Diagonals, both slopes.
	for row := 0; row+Need <= Rows; row++ {
		for col := 0; col+Need <= Cols; col++ {
			score += scoreWindow(b, row, col, 1, 1, forPlayer)
			score += scoreWindow(b, row+Need-1, col, -1, 1, forPlayer)
		}
	}

	// Center control.
	center := Cols / 2
	for row := 0; row < b.heights[center]; row++ {
		if b.cells[row][center] == forPlayer {
			score += centerBonus
		}
	}

	return score
}

func scoreWindow(b *Board, row, col, dr, dc int, forPlayer Cell) int {
	opponent := forPlayer.Opponent()
	var own, opp, empty int
	for i := 0; i < Need; i++ {
		switch b.cells[row+i*dr][col+i*dc] {
		case forPlayer:
			own++
		case opponent:
			opp++
		default:
			empty++
		}
	}

	switch {
	case own == 4:
		return windowFour
	case own == 3 && empty == 1:
		return windowThree
	case own == 2 && empty == 2:
		return windowTwo
	case opp == 3 && empty == 1:
		return windowOppThree
	}
	return 0
}
