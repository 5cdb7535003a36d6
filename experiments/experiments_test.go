package experiments

import (
	"testing"

	"github.com/stretchr/testify/require"

	"connectfour/engine"
	"connectfour/experiments/metrics"
	"connectfour/game"
)

func TestRunGameFinishes(t *testing.T) {
	easy := metrics.AgentConfig{ID: 1, Difficulty: engine.Easy.String(), Depth: engine.Easy.Depth()}
	medium := metrics.AgentConfig{ID: 2, Difficulty: engine.Medium.String(), Depth: engine.Medium.Depth()}

	winner, gameMetric, moveMetrics := runGame(easy, medium, 0)

	require.Contains(t, []string{"easy", "medium", "draw"}, winner)
	require.Equal(t, winner, gameMetric.Winner)
	require.Equal(t, easy.ID, gameMetric.StartingAgent)
	require.Equal(t, len(moveMetrics), gameMetric.TotalMoves)
	require.LessOrEqual(t, gameMetric.TotalMoves, game.Rows*game.Cols,
		"a game cannot outlast the board")
	require.Greater(t, gameMetric.TotalMoves, 6,
		"two searching agents cannot finish before anyone can connect four")

	for i, mm := range moveMetrics {
		require.Equal(t, i+1, mm.Step, "steps should be sequential")
		require.Positive(t, mm.Nodes, "every search visits at least the root")
		require.GreaterOrEqual(t, mm.Column, 0)
		require.Less(t, mm.Column, game.Cols)
	}
}

func TestRunGameAlternatesFirstMover(t *testing.T) {
	hard := metrics.AgentConfig{ID: 3, Difficulty: engine.Hard.String(), Depth: engine.Hard.Depth()}
	easy := metrics.AgentConfig{ID: 1, Difficulty: engine.Easy.String(), Depth: engine.Easy.Depth()}

	_, gm, _ := runGame(easy, hard, 1)
	require.Equal(t, hard.ID, gm.StartingAgent, "first=1 should start the second agent")
}
