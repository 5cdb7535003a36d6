package server

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"connectfour/engine"
)

// liveGame is one running session and the player attached to it. The inner
// mutex serializes moves: the session itself is not concurrency-safe.
type liveGame struct {
	mu       sync.Mutex
	ID       uuid.UUID
	Username string
	Session  *engine.Session
	Started  time.Time
}

// Hub tracks the sessions currently in play. Every websocket connection owns
// exactly one session; the hub exists so handlers and shutdown can reach
// them by ID.
type Hub struct {
	mu    sync.RWMutex
	games map[uuid.UUID]*liveGame
}

func NewHub() *Hub {
	return &Hub{games: make(map[uuid.UUID]*liveGame)}
}

// StartGame registers a fresh session for username and returns it.
func (h *Hub) StartGame(username string, difficulty engine.Difficulty) *liveGame {
	g := &liveGame{
		ID:       uuid.New(),
		Username: username,
		Session:  engine.NewSession(difficulty),
		Started:  time.Now(),
	}
	h.mu.Lock()
	h.games[g.ID] = g
	h.mu.Unlock()
	return g
}

// Remove forgets a finished or abandoned game.
func (h *Hub) Remove(id uuid.UUID) {
	h.mu.Lock()
	delete(h.games, id)
	h.mu.Unlock()
}

// Count returns the number of games in play.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.games)
}
