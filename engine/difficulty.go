package engine

import "fmt"

// Difficulty selects how deep the AI searches.
type Difficulty int

const (
	Easy Difficulty = iota
	Medium
	Hard
)

// Depth maps a difficulty to its search depth in plies.
func (d Difficulty) Depth() int {
	switch d {
	case Easy:
		return 2
	case Medium:
		return 4
	case Hard:
		return 6
	}
	panic(fmt.Sprintf("engine: unknown difficulty %d", d))
}

func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	}
	return fmt.Sprintf("Difficulty(%d)", int(d))
}

// ParseDifficulty reads a difficulty name as sent by clients.
func ParseDifficulty(s string) (Difficulty, error) {
	switch s {
	case "easy", "Easy":
		return Easy, nil
	case "medium", "Medium":
		return Medium, nil
	case "hard", "Hard":
		return Hard, nil
	}
	return 0, fmt.Errorf("engine: unknown difficulty %q", s)
}
