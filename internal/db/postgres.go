package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"tarot-bot/config"
	"tarot-bot/internal/models"
)

const postgresSchema = `
    CREATE TABLE IF NOT EXISTS usage_log (
        id         UUID PRIMARY KEY,
        user_id    BIGINT NOT NULL,
        username   TEXT NOT NULL DEFAULT '',
        kind       TEXT NOT NULL,
        query      TEXT NOT NULL,
        created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
    );
    CREATE INDEX IF NOT EXISTS usage_log_kind_idx ON usage_log (kind);
`

type PostgresDB struct {
	pool *pgxpool.Pool
}

const connectAttempts = 5

// NewPostgresDB connects to Postgres, retrying with a linear backoff while the
// server comes up.
func NewPostgresDB(ctx context.Context, cfg config.DBConfig) (*PostgresDB, error) {
	poolConfig, err := pgxpool.ParseConfig(postgresDSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to parse DB connection string: %w", err)
	}
	poolConfig.MaxConns = int32(cfg.MaxOpenConns)
	poolConfig.MinConns = int32(cfg.MaxIdleConns)
	poolConfig.MaxConnLifetime = cfg.ConnLifetime
	poolConfig.MaxConnIdleTime = 15 * time.Minute

	var lastErr error
	for attempt := 1; attempt <= connectAttempts; attempt++ {
		pool, err := connectPool(ctx, poolConfig)
		if err == nil {
			return &PostgresDB{pool: pool}, nil
		}
		lastErr = err

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(attempt) * time.Second):
		}
	}
	return nil, fmt.Errorf("postgres unavailable after %d attempts: %w", connectAttempts, lastErr)
}

func postgresDSN(cfg config.DBConfig) string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s pool_max_conns=%d",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode, cfg.MaxOpenConns,
	)
}

func connectPool(ctx context.Context, poolConfig *pgxpool.Config) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.ConnectConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return pool, nil
}

func (db *PostgresDB) Close() error {
	if db.pool != nil {
		db.pool.Close()
	}
	return nil
}

func (db *PostgresDB) EnsureSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("failed to create usage schema: %w", err)
	}
	return nil
}

func (db *PostgresDB) SaveUsage(ctx context.Context, u *models.Usage) error {
	query := `
        INSERT INTO usage_log (id, user_id, username, kind, query, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)
    `

	_, err := db.pool.Exec(ctx, query,
		u.ID, u.UserID, u.Username, string(u.Kind), u.Query, u.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save usage: %w", err)
	}
	return nil
}

func (db *PostgresDB) CountUsage(ctx context.Context, kind models.ReadingType) (int64, error) {
	query := `
        SELECT COUNT(*)
        FROM usage_log
        WHERE kind = $1
    `

	var n int64
	if err := db.pool.QueryRow(ctx, query, string(kind)).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count usage: %w", err)
	}
	return n, nil
}
