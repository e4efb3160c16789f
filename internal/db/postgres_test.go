package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tarot-bot/config"
)

func TestPostgresDSN(t *testing.T) {
	dsn := postgresDSN(config.DBConfig{
		Host: "db", Port: "5432", User: "bot", Password: "secret",
		DBName: "tarot_bot", SSLMode: "disable", MaxOpenConns: 4,
	})
	assert.Equal(t, "host=db port=5432 user=bot password=secret dbname=tarot_bot sslmode=disable pool_max_conns=4", dsn)
}

func TestNewPostgresDBStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewPostgresDB(ctx, config.DBConfig{
		Host: "127.0.0.1", Port: "1", User: "bot", DBName: "tarot_bot",
		SSLMode: "disable", MaxOpenConns: 1,
	})
	require.ErrorIs(t, err, context.Canceled)
}
