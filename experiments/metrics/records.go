package metrics

import (
	"time"

	"connectfour/searcher"
)

// AgentConfig identifies one self-play agent by its difficulty setting.
type AgentConfig struct {
	ID         int
	Difficulty string
	Depth      int
}

type GameMetric struct {
	StartingAgent int    // AgentConfig.ID
	Winner        string // Winning AgentConfig's difficulty, or "draw"
	StartTime     time.Time
	EndTime       time.Time
	Duration      time.Duration
	TotalMoves    int
}

type MoveMetric struct {
	Step   int
	Agent  int // AgentConfig.ID
	Column int
	Score  int
	searcher.Metrics
}

type GameRecord struct {
	ID     int
	Agent1 int // AgentConfig.ID
	Agent2 int // AgentConfig.ID
	GameMetric
}

type MoveRecord struct {
	Game int // GameRecord.ID
	MoveMetric
}
