package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/duelforge/duelsim/internal/config"
	"github.com/duelforge/duelsim/internal/game"
)

// Store persists match results and replay blobs in PostgreSQL. It is
// optional infrastructure: the simulator runs fine without it.
type Store struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// New opens a connection pool and verifies it with a ping.
func New(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*Store, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logger.Info("database connection pool initialized",
		zap.Int32("max_conns", poolCfg.MaxConns),
		zap.Int32("min_conns", poolCfg.MinConns),
	)
	return &Store{pool: pool, logger: logger}, nil
}

// Close releases the pool.
func (s *Store) Close() {
	s.pool.Close()
}

// Migrate creates the schema when it does not exist yet.
func (s *Store) Migrate(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS match_results (
	game_id    TEXT PRIMARY KEY,
	seed       TEXT NOT NULL,
	winner     TEXT,
	loser      TEXT,
	draw       BOOLEAN NOT NULL DEFAULT FALSE,
	reason     TEXT NOT NULL,
	turns      INT NOT NULL,
	log_len    INT NOT NULL,
	started_at TIMESTAMPTZ NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS replays (
	game_id    TEXT PRIMARY KEY REFERENCES match_results(game_id),
	data       BYTEA NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`
	if _, err := s.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// SaveResult upserts the terminal result of one game.
func (s *Store) SaveResult(ctx context.Context, g *game.GameState, res *game.GameResult) error {
	const q = `
INSERT INTO match_results (game_id, seed, winner, loser, draw, reason, turns, log_len, started_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (game_id) DO NOTHING`
	_, err := s.pool.Exec(ctx, q,
		g.ID, g.Seed, res.Winner, res.Loser, res.Draw, res.Reason, res.Turn, g.Log.Len(), g.StartedAt)
	if err != nil {
		return fmt.Errorf("save result for %s: %w", g.ID, err)
	}
	return nil
}

// SaveReplay stores an encoded replay blob for a recorded game.
func (s *Store) SaveReplay(ctx context.Context, gameID string, blob []byte) error {
	const q = `
INSERT INTO replays (game_id, data)
VALUES ($1, $2)
ON CONFLICT (game_id) DO UPDATE SET data = EXCLUDED.data`
	if _, err := s.pool.Exec(ctx, q, gameID, blob); err != nil {
		return fmt.Errorf("save replay for %s: %w", gameID, err)
	}
	return nil
}

// LoadReplay fetches an encoded replay blob.
func (s *Store) LoadReplay(ctx context.Context, gameID string) ([]byte, error) {
	var blob []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM replays WHERE game_id = $1`, gameID).Scan(&blob)
	if err != nil {
		return nil, fmt.Errorf("load replay for %s: %w", gameID, err)
	}
	return blob, nil
}

// MatchRecord is one row of match history.
type MatchRecord struct {
	GameID    string
	Seed      string
	Winner    string
	Loser     string
	Draw      bool
	Reason    string
	Turns     int
	StartedAt time.Time
}

// RecentResults lists the latest finished matches, newest first.
func (s *Store) RecentResults(ctx context.Context, limit int) ([]MatchRecord, error) {
	const q = `
SELECT game_id, seed, winner, loser, draw, reason, turns, started_at
FROM match_results
ORDER BY created_at DESC
LIMIT $1`
	rows, err := s.pool.Query(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	var out []MatchRecord
	for rows.Next() {
		var r MatchRecord
		if err := rows.Scan(&r.GameID, &r.Seed, &r.Winner, &r.Loser, &r.Draw, &r.Reason, &r.Turns, &r.StartedAt); err != nil {
			return nil, fmt.Errorf("scan result row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
