package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"connectfour/engine"
	"connectfour/game"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	return &App{
		Config:    Config{Port: "0"},
		Hub:       NewHub(),
		Store:     &Store{},
		Analytics: &Analytics{},
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("POSTGRES_DSN", "")
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("KAFKA_TOPIC", "")

	cfg := LoadConfig()
	require.Equal(t, "8080", cfg.Port, "port should default to 8080")
	require.Empty(t, cfg.PostgresDSN, "postgres should be disabled by default")
	require.Empty(t, cfg.KafkaBrokers, "kafka should be disabled by default")
	require.Equal(t, "connectfour.analytics", cfg.KafkaTopic)
}

func TestHealthEndpoint(t *testing.T) {
	app := newTestApp(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)

	app.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "ok", body["status"])
	require.Equal(t, false, body["postgres"], "health should report persistence disabled")
	require.Equal(t, false, body["kafka"], "health should report analytics disabled")
}

func TestLeaderboardWithoutStore(t *testing.T) {
	app := newTestApp(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/leaderboard", nil)

	app.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"leaderboard": []}`, rec.Body.String(),
		"a disabled store should yield an empty leaderboard, not an error")
}

func dialWS(t *testing.T, app *App) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(app.Router())
	t.Cleanup(srv.Close)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err, "websocket dial should succeed")
	t.Cleanup(func() { conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, msgType string, data any) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(Message{Type: msgType, Data: data}))
}

func receive(t *testing.T, conn *websocket.Conn) (string, json.RawMessage) {
	t.Helper()
	var msg struct {
		Type string          `json:"type"`
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, conn.ReadJSON(&msg), "expected a protocol message")
	return msg.Type, msg.Data
}

func receiveState(t *testing.T, conn *websocket.Conn) statePayload {
	t.Helper()
	msgType, data := receive(t, conn)
	require.Equal(t, "state", msgType)
	var state statePayload
	require.NoError(t, json.Unmarshal(data, &state))
	return state
}

func TestWebsocketJoinAndMove(t *testing.T) {
	app := newTestApp(t)
	conn := dialWS(t, app)

	send(t, conn, "join", joinPayload{Username: "alice", Difficulty: "easy"})

	state := receiveState(t, conn)
	require.Equal(t, game.PlayerA, state.You, "the human always plays first player's discs")
	require.Equal(t, game.PlayerA, state.ToMove,
		"after join it is always the human's turn, the AI having moved already if it won the toss")
	require.Equal(t, "easy", state.Difficulty)
	require.Equal(t, 1, app.Hub.Count(), "joining should register one live game")

	// Column 0 is always legal on move one.
	send(t, conn, "move", movePayload{Col: 0})

	afterHuman := receiveState(t, conn)
	require.NotNil(t, afterHuman.LastMove, "the human move should be echoed")
	require.Equal(t, 0, afterHuman.LastMove.Column)
	require.Equal(t, game.PlayerA, afterHuman.LastMove.Player)
	require.Equal(t, game.PlayerB, afterHuman.ToMove)

	afterAI := receiveState(t, conn)
	require.NotNil(t, afterAI.LastMove, "the AI reply should be echoed")
	require.Equal(t, game.PlayerB, afterAI.LastMove.Player)
	require.Equal(t, game.PlayerA, afterAI.ToMove)
}

func TestWebsocketRejectsBadJoin(t *testing.T) {
	app := newTestApp(t)
	conn := dialWS(t, app)

	send(t, conn, "join", joinPayload{Username: "", Difficulty: "easy"})
	msgType, _ := receive(t, conn)
	require.Equal(t, "error", msgType, "a join without a username should be rejected")

	send(t, conn, "join", joinPayload{Username: "bob", Difficulty: "impossible"})
	msgType, _ = receive(t, conn)
	require.Equal(t, "error", msgType, "an unknown difficulty should be rejected")

	require.Equal(t, 0, app.Hub.Count(), "rejected joins should not register games")
}

func TestWebsocketMoveBeforeJoin(t *testing.T) {
	app := newTestApp(t)
	conn := dialWS(t, app)

	send(t, conn, "move", movePayload{Col: 3})
	msgType, _ := receive(t, conn)
	require.Equal(t, "error", msgType, "moving before joining should be rejected")
}

func TestWebsocketInvalidColumn(t *testing.T) {
	app := newTestApp(t)
	conn := dialWS(t, app)

	send(t, conn, "join", joinPayload{Username: "carol", Difficulty: "easy"})
	receiveState(t, conn)

	send(t, conn, "move", movePayload{Col: 99})
	msgType, _ := receive(t, conn)
	require.Equal(t, "error", msgType, "an out-of-range column should be rejected")

	// The turn is not consumed: a legal move still works.
	send(t, conn, "move", movePayload{Col: 3})
	state := receiveState(t, conn)
	require.Equal(t, 3, state.LastMove.Column)
}

func TestWebsocketAIOpeningMoveEchoed(t *testing.T) {
	app := newTestApp(t)
	conn := dialWS(t, app)

	// Rejoin until the engine wins the first-mover roll; each join replaces
	// the previous game, so this cannot pile up sessions.
	for i := 0; i < 50; i++ {
		send(t, conn, "join", joinPayload{Username: "erin", Difficulty: "easy"})
		state := receiveState(t, conn)
		if countDiscs(state.Board) == 0 {
			continue
		}
		require.NotNil(t, state.LastMove,
			"an opening move by the engine should carry its landing row")
		require.Equal(t, game.PlayerB, state.LastMove.Player)
		require.Equal(t, 0, state.LastMove.Row, "the first disc lands on the bottom row")
		require.Equal(t, game.PlayerA, state.ToMove)
		return
	}
	t.Fatal("the engine never moved first in 50 games")
}

func countDiscs(grid [][]game.Cell) int {
	n := 0
	for _, row := range grid {
		for _, cell := range row {
			if cell != game.Empty {
				n++
			}
		}
	}
	return n
}

func TestHubStartAndRemove(t *testing.T) {
	hub := NewHub()
	require.Equal(t, 0, hub.Count())

	g := hub.StartGame("dave", engine.Easy)
	require.Equal(t, 1, hub.Count())
	require.Equal(t, "dave", g.Username)
	require.NotNil(t, g.Session)

	hub.Remove(g.ID)
	require.Equal(t, 0, hub.Count())
}
