package engine

import (
	"errors"
	"time"

	"golang.org/x/exp/rand"

	"connectfour/game"
)

var (
	// ErrGameOver reports a move attempted after the game ended.
	ErrGameOver = errors.New("engine: game is over")
	// ErrNotYourTurn reports a move by the side not on turn.
	ErrNotYourTurn = errors.New("engine: not this player's turn")
)

// Outcome is the terminal state of a session, zero while the game runs.
type Outcome struct {
	Over    bool
	Draw    bool
	Winner  game.Cell
	Line    game.WinningLine
	HasLine bool
}

// MoveRecord describes one applied move. Row is where the disc landed, which
// presentation layers need as the animation target.
type MoveRecord struct {
	Column  int       `json:"col"`
	Row     int       `json:"row"`
	Player  game.Cell `json:"player"`
	Outcome Outcome   `json:"-"`
}

// Session owns one game of human versus AI: the board, the AI controller with
// its cache, whose turn it is, and the outcome. All game state lives here
// explicitly; nothing is package-level. Restarting is creating a new Session.
//
// Session is not safe for concurrent use; callers serialize access (the
// server holds one lock per session).
type Session struct {
	board      *game.Board
	ai         *AIController
	difficulty Difficulty
	human      game.Cell
	aiSide     game.Cell
	toMove     game.Cell
	outcome    Outcome
	history    []MoveRecord
}

// SessionOption configures NewSession.
type SessionOption func(*Session)

// WithFirstMover fixes which side moves first instead of rolling for it.
func WithFirstMover(player game.Cell) SessionOption {
	return func(s *Session) {
		if player != game.Empty {
			s.toMove = player
		}
	}
}

// WithRand supplies the randomness source used to pick the first mover.
func WithRand(rng *rand.Rand) SessionOption {
	return func(s *Session) {
		if rng != nil {
			s.rollFirstMover(rng)
		}
	}
}

// NewSession starts a game at the given difficulty. The human plays PlayerA,
// the AI PlayerB, and the first mover is chosen at random unless an option
// says otherwise.
func NewSession(difficulty Difficulty, options ...SessionOption) *Session {
	s := &Session{
		board:      game.NewBoard(),
		ai:         NewAIController(),
		difficulty: difficulty,
		human:      game.PlayerA,
		aiSide:     game.PlayerB,
	}
	for _, option := range options {
		option(s)
	}
	if s.toMove == game.Empty {
		s.rollFirstMover(rand.New(rand.NewSource(uint64(time.Now().UnixNano()))))
	}
	return s
}

func (s *Session) rollFirstMover(rng *rand.Rand) {
	if rng.Intn(2) == 0 {
		s.toMove = s.human
	} else {
		s.toMove = s.aiSide
	}
}

// Board exposes the live board for rendering. Callers must not mutate it.
func (s *Session) Board() *game.Board {
	return s.board
}

func (s *Session) Difficulty() Difficulty {
	return s.difficulty
}

// ToMove returns whose turn it is, or Empty once the game is over.
func (s *Session) ToMove() game.Cell {
	if s.outcome.Over {
		return game.Empty
	}
	return s.toMove
}

// AISide returns the cell the AI plays as.
func (s *Session) AISide() game.Cell {
	return s.aiSide
}

// HumanSide returns the cell the human plays as.
func (s *Session) HumanSide() game.Cell {
	return s.human
}

func (s *Session) Outcome() Outcome {
	return s.outcome
}

// History returns the applied moves in order.
func (s *Session) History() []MoveRecord {
	return s.history
}

// PlayHuman applies the human's move. ErrInvalidMove from the board passes
// through untouched so the caller can tell a bad click from a turn violation.
func (s *Session) PlayHuman(col int) (MoveRecord, error) {
	if s.outcome.Over {
		return MoveRecord{}, ErrGameOver
	}
	if s.toMove != s.human {
		return MoveRecord{}, ErrNotYourTurn
	}
	return s.apply(col, s.human)
}

// PlayAI computes and applies the AI's move.
func (s *Session) PlayAI() (MoveRecord, error) {
	if s.outcome.Over {
		return MoveRecord{}, ErrGameOver
	}
	if s.toMove != s.aiSide {
		return MoveRecord{}, ErrNotYourTurn
	}
	col := s.ai.ChooseMove(s.board, s.difficulty, s.aiSide)
	return s.apply(col, s.aiSide)
}

func (s *Session) apply(col int, player game.Cell) (MoveRecord, error) {
	row, err := s.board.Drop(col, player)
	if err != nil {
		return MoveRecord{}, err
	}

	if line, won := s.board.CheckWin(row, col); won {
		s.outcome = Outcome{Over: true, Winner: player, Line: line, HasLine: true}
	} else if s.board.IsFull() {
		s.outcome = Outcome{Over: true, Draw: true}
	} else {
		s.toMove = player.Opponent()
	}

	record := MoveRecord{Column: col, Row: row, Player: player, Outcome: s.outcome}
	s.history = append(s.history, record)
	return record, nil
}
