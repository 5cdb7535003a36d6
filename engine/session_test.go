package engine

import (
	"testing"

	"golang.org/x/exp/rand"

	"connectfour/game"

	"github.com/stretchr/testify/require"
)

func TestNewSession(t *testing.T) {
	t.Run("starts empty with the requested difficulty", func(t *testing.T) {
		s := NewSession(Medium, WithFirstMover(game.PlayerA))
		require.Equal(t, Medium, s.Difficulty())
		require.False(t, s.Outcome().Over)
		require.Equal(t, game.PlayerA, s.ToMove())
		require.Empty(t, s.History())
	})

	t.Run("seeded rand picks the first mover deterministically", func(t *testing.T) {
		first := NewSession(Easy, WithRand(rand.New(rand.NewSource(7))))
		second := NewSession(Easy, WithRand(rand.New(rand.NewSource(7))))
		require.Equal(t, first.ToMove(), second.ToMove())
		require.NotEqual(t, game.Empty, first.ToMove())
	})
}

func TestSessionTurnTaking(t *testing.T) {
	s := NewSession(Easy, WithFirstMover(game.PlayerA))

	t.Run("AI may not move on the human's turn", func(t *testing.T) {
		_, err := s.PlayAI()
		require.ErrorIs(t, err, ErrNotYourTurn)
	})

	t.Run("human move passes the turn to the AI", func(t *testing.T) {
		record, err := s.PlayHuman(0)
		require.NoError(t, err)
		require.Equal(t, MoveRecord{Column: 0, Row: 0, Player: game.PlayerA}, record)
		require.Equal(t, game.PlayerB, s.ToMove())

		_, err = s.PlayHuman(1)
		require.ErrorIs(t, err, ErrNotYourTurn, "Two human moves in a row must be rejected")
	})

	t.Run("AI move passes the turn back", func(t *testing.T) {
		record, err := s.PlayAI()
		require.NoError(t, err)
		require.Equal(t, game.PlayerB, record.Player)
		require.Equal(t, game.PlayerA, s.ToMove())
		require.Len(t, s.History(), 2)
	})
}

func TestSessionInvalidMove(t *testing.T) {
	s := NewSession(Easy, WithFirstMover(game.PlayerA))

	_, err := s.PlayHuman(99)
	require.ErrorIs(t, err, game.ErrInvalidMove)
	require.Equal(t, game.PlayerA, s.ToMove(), "A rejected move must not consume the turn")
	require.Empty(t, s.History())
}

func TestSessionWin(t *testing.T) {
	s := NewSession(Easy, WithFirstMover(game.PlayerA))

	// A naive column-filler against the real searcher: the board holds 42
	// discs at most, so the loop is guaranteed to reach a terminal state.
	for i := 0; i < game.Rows*game.Cols && !s.Outcome().Over; i++ {
		var err error
		if s.ToMove() == s.HumanSide() {
			_, err = s.PlayHuman(s.Board().LegalColumns()[0])
		} else {
			_, err = s.PlayAI()
		}
		require.NoError(t, err)
	}

	outcome := s.Outcome()
	require.True(t, outcome.Over)
	if !outcome.Draw {
		require.True(t, outcome.HasLine)
		for _, c := range outcome.Line {
			require.Equal(t, outcome.Winner, s.Board().At(c.Row, c.Col),
				"Every cell of the winning line belongs to the winner")
		}
	}

	_, err := s.PlayHuman(0)
	require.ErrorIs(t, err, ErrGameOver)
	require.Equal(t, game.Empty, s.ToMove(), "No side is on turn after the game ends")
}

func TestDifficultyDepths(t *testing.T) {
	require.Equal(t, 2, Easy.Depth())
	require.Equal(t, 4, Medium.Depth())
	require.Equal(t, 6, Hard.Depth())
}

func TestParseDifficulty(t *testing.T) {
	for name, want := range map[string]Difficulty{
		"easy": Easy, "Easy": Easy,
		"medium": Medium, "Medium": Medium,
		"hard": Hard, "Hard": Hard,
	} {
		got, err := ParseDifficulty(name)
		require.NoError(t, err, "Parsing %q", name)
		require.Equal(t, want, got)
	}

	_, err := ParseDifficulty("nightmare")
	require.Error(t, err)
}

func TestAIControllerChooseMove(t *testing.T) {
	t.Run("opens in the center on an empty board at Easy", func(t *testing.T) {
		c := NewAIController()
		got := c.ChooseMove(game.NewBoard(), Easy, game.PlayerA)
		require.Equal(t, 3, got)
	})

	t.Run("blocks an open three at every difficulty", func(t *testing.T) {
		for _, difficulty := range []Difficulty{Easy, Medium, Hard} {
			b := game.NewBoard()
			for _, col := range []int{0, 1, 2} {
				_, err := b.Drop(col, game.PlayerB)
				require.NoError(t, err)
			}
			for _, col := range []int{6, 6, 5} {
				_, err := b.Drop(col, game.PlayerA)
				require.NoError(t, err)
			}

			c := NewAIController()
			got := c.ChooseMove(b, difficulty, game.PlayerA)
			require.Equal(t, 3, got, "Difficulty %s must block the immediate loss", difficulty)
		}
	})
}
