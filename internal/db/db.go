package db

import (
	"context"
	"fmt"

	"tarot-bot/config"
	"tarot-bot/internal/models"
)

// UsageDB is implemented by every usage log backend.
type UsageDB interface {
	EnsureSchema(ctx context.Context) error
	SaveUsage(ctx context.Context, u *models.Usage) error
	CountUsage(ctx context.Context, kind models.ReadingType) (int64, error)
	Close() error
}

// Open connects the backend selected by cfg.Driver. It returns nil, nil when
// no driver is configured.
func Open(ctx context.Context, cfg config.DBConfig) (UsageDB, error) {
	var (
		database UsageDB
		err      error
	)
	switch cfg.Driver {
	case "":
		return nil, nil
	case "postgres":
		database, err = NewPostgresDB(ctx, cfg)
	case "sqlite":
		database, err = NewSQLiteDB(cfg.Path)
	default:
		return nil, fmt.Errorf("unknown DB driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	if err := database.EnsureSchema(ctx); err != nil {
		database.Close()
		return nil, err
	}
	return database, nil
}
