package postgres

import (
	"context"
	"time"

	"loadplan/internal/config"
)

const tokensDDL = `CREATE TABLE IF NOT EXISTS api_tokens (
	token TEXT PRIMARY KEY,
	rate_limit INTEGER NOT NULL DEFAULT 60,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	comment TEXT
);`

// TokenRepository reads integration API tokens and their per-token rate
// limits.
type TokenRepository struct {
	db  *DB
	cfg config.PostgresConfig
}

func NewTokenRepository(db *DB, cfg config.PostgresConfig) *TokenRepository {
	return &TokenRepository{db: db, cfg: cfg}
}

// LoadTokens makes sure the table exists and returns token → rate limit.
func (r *TokenRepository) LoadTokens(ctx context.Context) (map[string]int, error) {
	dsn, err := DSN(r.cfg)
	if err != nil {
		return nil, err
	}
	db, err := r.db.Get(ctx, dsn)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, tokensDDL); err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `SELECT token, rate_limit FROM api_tokens;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var token string
		var limit int
		if err := rows.Scan(&token, &limit); err != nil {
			return nil, err
		}
		out[token] = limit
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
