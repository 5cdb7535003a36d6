package game

// Zobrist keys for incremental position hashing. Keys are generated from a
// fixed seed so hashes are stable across runs, which keeps search behavior
// reproducible and testable.

var (
	zobristCells [Rows][Cols][2]uint64
	zobristSide  [2]uint64
)

func init() {
	rng := splitmix64{state: 0x9e3779b97f4a7c15}
	for row := 0; row < Rows; row++ {
		for col := 0; col < Cols; col++ {
			zobristCells[row][col][0] = rng.next()
			zobristCells[row][col][1] = rng.next()
		}
	}
	zobristSide[0] = rng.next()
	zobristSide[1] = rng.next()
}

func cellKey(row, col int, player Cell) uint64 {
	if player == PlayerB {
		return zobristCells[row][col][1]
	}
	return zobristCells[row][col][0]
}

// SideKey returns the side-to-move component of a position key. A board hash
// alone does not disambiguate who moves next; cache keys xor this in.
func SideKey(player Cell) uint64 {
	if player == PlayerB {
		return zobristSide[1]
	}
	return zobristSide[0]
}

type splitmix64 struct {
	state uint64
}

func (s *splitmix64) next() uint64 {
	s.state += 0x9e3779b97f4a7c15
	z := s.state
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}
