package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"tarot-bot/internal/models"
)

const sqliteSchema = `
	CREATE TABLE IF NOT EXISTS usage_log (
		id         TEXT PRIMARY KEY,
		user_id    INTEGER NOT NULL,
		username   TEXT NOT NULL DEFAULT '',
		kind       TEXT NOT NULL,
		query      TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS usage_log_kind_idx ON usage_log (kind);
`

// SQLiteDB keeps the usage log in a local file, for single-host deployments.
type SQLiteDB struct {
	db *sql.DB
}

func NewSQLiteDB(path string) (*SQLiteDB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &SQLiteDB{db: db}, nil
}

func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

func (s *SQLiteDB) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("failed to create usage schema: %w", err)
	}
	return nil
}

func (s *SQLiteDB) SaveUsage(ctx context.Context, u *models.Usage) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO usage_log (id, user_id, username, kind, query, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		u.ID, u.UserID, u.Username, string(u.Kind), u.Query, u.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to save usage: %w", err)
	}
	return nil
}

func (s *SQLiteDB) CountUsage(ctx context.Context, kind models.ReadingType) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM usage_log WHERE kind = ?`, string(kind)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count usage: %w", err)
	}
	return n, nil
}
