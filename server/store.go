package server

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

const schema = `
CREATE TABLE IF NOT EXISTS games (
	id          UUID PRIMARY KEY,
	username    TEXT NOT NULL,
	difficulty  TEXT NOT NULL,
	winner      TEXT NOT NULL,
	draw        BOOLEAN NOT NULL,
	moves       INT NOT NULL,
	history     JSONB NOT NULL,
	started_at  TIMESTAMPTZ NOT NULL,
	finished_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS games_winner_idx ON games (winner);
CREATE INDEX IF NOT EXISTS games_finished_idx ON games (finished_at DESC);`

// Store persists finished games in Postgres. A Store with a nil pool is a
// valid no-op store, used when no DSN is configured.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore connects to Postgres and ensures the schema exists. An empty DSN
// yields a disabled store.
func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return &Store{}, nil
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Enabled() bool { return s.pool != nil }

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// SaveGame records a finished game. winner is the username, the AI's display
// name, or empty for a draw.
func (s *Store) SaveGame(g *liveGame, winner string) {
	if s.pool == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	outcome := g.Session.Outcome()
	history, err := json.Marshal(g.Session.History())
	if err != nil {
		log.Error().Err(err).Str("game", g.ID.String()).Msg("marshaling history")
		return
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO games (id, username, difficulty, winner, draw, moves, history, started_at, finished_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (id) DO NOTHING`,
		g.ID, g.Username, g.Session.Difficulty().String(), winner, outcome.Draw,
		len(g.Session.History()), history, g.Started, time.Now())
	if err != nil {
		log.Error().Err(err).Str("game", g.ID.String()).Msg("saving game")
	}
}

// LeaderboardEntry is one row of the win table.
type LeaderboardEntry struct {
	Username string `json:"username"`
	Wins     int    `json:"wins"`
}

// QueryLeaderboard lists players by number of wins against the AI.
func (s *Store) QueryLeaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if s.pool == nil {
		return []LeaderboardEntry{}, nil
	}
	rows, err := s.pool.Query(ctx,
		`SELECT winner, COUNT(*) AS wins FROM games
		 WHERE winner = username
		 GROUP BY winner ORDER BY wins DESC, winner LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying leaderboard: %w", err)
	}
	defer rows.Close()

	entries := []LeaderboardEntry{}
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.Username, &e.Wins); err != nil {
			return nil, fmt.Errorf("scanning leaderboard row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// GameSummary is one finished game as shown on the recent-games page.
type GameSummary struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Difficulty string    `json:"difficulty"`
	Winner     string    `json:"winner"`
	Draw       bool      `json:"draw"`
	Moves      int       `json:"moves"`
	FinishedAt time.Time `json:"finishedAt"`
}

// QueryRecentGames lists the most recently finished games.
func (s *Store) QueryRecentGames(ctx context.Context, limit int) ([]GameSummary, error) {
	if s.pool == nil {
		return []GameSummary{}, nil
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, username, difficulty, winner, draw, moves, finished_at
		 FROM games ORDER BY finished_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying recent games: %w", err)
	}
	defer rows.Close()

	games := []GameSummary{}
	for rows.Next() {
		var g GameSummary
		if err := rows.Scan(&g.ID, &g.Username, &g.Difficulty, &g.Winner, &g.Draw, &g.Moves, &g.FinishedAt); err != nil {
			return nil, fmt.Errorf("scanning game row: %w", err)
		}
		games = append(games, g)
	}
	return games, rows.Err()
}
