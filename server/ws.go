package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"connectfour/engine"
	"connectfour/game"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsConn serializes writes; gorilla connections allow one writer at a time.
type wsConn struct {
	mu sync.Mutex
	*websocket.Conn
}

func (c *wsConn) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.WriteJSON(v)
}

// Message is the envelope for both directions of the play protocol.
type Message struct {
	Type string `json:"type"` // join|move|restart|state|end|error
	Data any    `json:"data,omitempty"`
}

type joinPayload struct {
	Username   string `json:"username"`
	Difficulty string `json:"difficulty"`
}

type movePayload struct {
	Col int `json:"col"`
}

// statePayload is what the browser renders. The grid is row 0 at the bottom;
// LastMove carries the landing row as the drop animation target, and Line
// the cells to highlight once somebody wins.
type statePayload struct {
	GameID     string             `json:"gameId"`
	Difficulty string             `json:"difficulty"`
	Board      [][]game.Cell      `json:"board"`
	ToMove     game.Cell          `json:"toMove"`
	You        game.Cell          `json:"you"`
	LastMove   *engine.MoveRecord `json:"lastMove,omitempty"`
	Over       bool               `json:"over"`
	Draw       bool               `json:"draw,omitempty"`
	Winner     game.Cell          `json:"winner,omitempty"`
	Line       []game.Coord       `json:"line,omitempty"`
}

func gridOf(b *game.Board) [][]game.Cell {
	grid := make([][]game.Cell, game.Rows)
	for row := 0; row < game.Rows; row++ {
		grid[row] = make([]game.Cell, game.Cols)
		for col := 0; col < game.Cols; col++ {
			grid[row][col] = b.At(row, col)
		}
	}
	return grid
}

func stateOf(g *liveGame, last *engine.MoveRecord) statePayload {
	s := g.Session
	outcome := s.Outcome()
	payload := statePayload{
		GameID:     g.ID.String(),
		Difficulty: s.Difficulty().String(),
		Board:      gridOf(s.Board()),
		ToMove:     s.ToMove(),
		You:        s.HumanSide(),
		LastMove:   last,
		Over:       outcome.Over,
		Draw:       outcome.Draw,
		Winner:     outcome.Winner,
	}
	if outcome.HasLine {
		payload.Line = outcome.Line[:]
	}
	return payload
}

// handleWS runs the per-connection read loop. One connection plays one game
// at a time; restart swaps in a fresh session.
func (a *App) handleWS(w http.ResponseWriter, r *http.Request) {
	raw, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	conn := &wsConn{Conn: raw}
	defer conn.Close()

	var current *liveGame
	defer func() {
		if current != nil {
			a.Hub.Remove(current.ID)
		}
	}()

	for {
		var msg struct {
			Type string          `json:"type"`
			Data json.RawMessage `json:"data"`
		}
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}

		switch msg.Type {
		case "join", "restart":
			var join joinPayload
			if err := json.Unmarshal(msg.Data, &join); err != nil || join.Username == "" {
				a.sendError(conn, "join requires a username")
				continue
			}
			difficulty, err := engine.ParseDifficulty(join.Difficulty)
			if err != nil {
				a.sendError(conn, err.Error())
				continue
			}
			if current != nil {
				a.Hub.Remove(current.ID)
			}
			current = a.startGame(conn, join.Username, difficulty)

		case "move":
			if current == nil {
				a.sendError(conn, "no game in progress")
				continue
			}
			var move movePayload
			if err := json.Unmarshal(msg.Data, &move); err != nil {
				a.sendError(conn, "move requires a column")
				continue
			}
			a.handleMove(conn, current, move.Col)

		default:
			a.sendError(conn, "unknown message type "+msg.Type)
		}
	}
}

func (a *App) startGame(conn *wsConn, username string, difficulty engine.Difficulty) *liveGame {
	g := a.Hub.StartGame(username, difficulty)
	a.Analytics.Emit("game.start", map[string]any{
		"gameId":     g.ID.String(),
		"username":   username,
		"difficulty": difficulty.String(),
	})
	log.Info().Str("game", g.ID.String()).Str("username", username).
		Stringer("difficulty", difficulty).Msg("game started")

	g.mu.Lock()
	defer g.mu.Unlock()
	// The AI may have won the coin toss for the first move.
	var last *engine.MoveRecord
	if g.Session.ToMove() == g.Session.AISide() {
		record, err := g.Session.PlayAI()
		if err == nil {
			a.emitMove(g, record)
			last = &record
		}
	}
	_ = conn.writeJSON(Message{Type: "state", Data: stateOf(g, last)})
	return g
}

func (a *App) handleMove(conn *wsConn, g *liveGame, col int) {
	g.mu.Lock()
	record, err := g.Session.PlayHuman(col)
	if err != nil {
		g.mu.Unlock()
		switch {
		case errors.Is(err, game.ErrInvalidMove):
			a.sendError(conn, "invalid move")
		case errors.Is(err, engine.ErrNotYourTurn):
			a.sendError(conn, "not your turn")
		case errors.Is(err, engine.ErrGameOver):
			a.sendError(conn, "game is over")
		default:
			a.sendError(conn, err.Error())
		}
		return
	}
	a.emitMove(g, record)
	_ = conn.writeJSON(Message{Type: "state", Data: stateOf(g, &record)})

	if g.Session.Outcome().Over {
		a.finishGame(conn, g)
		g.mu.Unlock()
		return
	}

	aiRecord, err := g.Session.PlayAI()
	if err != nil {
		g.mu.Unlock()
		log.Error().Err(err).Str("game", g.ID.String()).Msg("AI move failed")
		a.sendError(conn, "internal error")
		return
	}
	a.emitMove(g, aiRecord)
	_ = conn.writeJSON(Message{Type: "state", Data: stateOf(g, &aiRecord)})

	if g.Session.Outcome().Over {
		a.finishGame(conn, g)
	}
	g.mu.Unlock()
}

// finishGame is called with g.mu held.
func (a *App) finishGame(conn *wsConn, g *liveGame) {
	outcome := g.Session.Outcome()
	winner := ""
	switch {
	case outcome.Draw:
	case outcome.Winner == g.Session.HumanSide():
		winner = g.Username
	default:
		winner = aiName
	}

	a.Analytics.Emit("game.end", map[string]any{
		"gameId":   g.ID.String(),
		"winner":   winner,
		"draw":     outcome.Draw,
		"moves":    len(g.Session.History()),
		"duration": time.Since(g.Started).String(),
	})
	go a.Store.SaveGame(g, winner)

	_ = conn.writeJSON(Message{Type: "end", Data: map[string]any{
		"winner": winner,
		"draw":   outcome.Draw,
	}})
	log.Info().Str("game", g.ID.String()).Str("winner", winner).
		Bool("draw", outcome.Draw).Msg("game over")
}

func (a *App) emitMove(g *liveGame, record engine.MoveRecord) {
	by := g.Username
	if record.Player == g.Session.AISide() {
		by = aiName
	}
	a.Analytics.Emit("move", map[string]any{
		"gameId": g.ID.String(),
		"by":     by,
		"col":    record.Column,
		"row":    record.Row,
	})
}

func (a *App) sendError(conn *wsConn, reason string) {
	_ = conn.writeJSON(Message{Type: "error", Data: map[string]any{"reason": reason}})
}
