package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, names := range envBindings {
		for _, name := range names {
			t.Setenv(name, "")
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("BOT_TOKEN", "123:abc")

	cfg, err := Load()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "123:abc", cfg.Telegram.Token)
	assert.Equal(t, int64(-1002899360000), cfg.Telegram.LogChatID)
	assert.Equal(t, "openai", cfg.GPT.Provider)
	assert.Equal(t, "gpt-4", cfg.GPT.Model)
	assert.Equal(t, 2500, cfg.GPT.MaxTokens)
	assert.InDelta(t, 0.7, cfg.GPT.Temperature, 1e-6)
	assert.Equal(t, 1000, cfg.Cache.Size)
	assert.Equal(t, "", cfg.DB.Driver)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 5*time.Minute, cfg.DB.ConnLifetime)
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("TELEGRAM_TOKEN", "tg-token")
	t.Setenv("LOG_CHAT_ID", "-100555")
	t.Setenv("GPT_PROVIDER", "Gemini")
	t.Setenv("GPT_MODEL", "gemini-2.0-flash")
	t.Setenv("CACHE_SIZE", "0")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_PATH", "/tmp/usage.db")
	t.Setenv("PORT", "9090")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")

	cfg, err := Load()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "tg-token", cfg.Telegram.Token)
	assert.Equal(t, int64(-100555), cfg.Telegram.LogChatID)
	assert.Equal(t, "gemini", cfg.GPT.Provider)
	assert.Equal(t, "gemini-2.0-flash", cfg.GPT.Model)
	assert.Equal(t, 0, cfg.Cache.Size)
	assert.Equal(t, "sqlite", cfg.DB.Driver)
	assert.Equal(t, "/tmp/usage.db", cfg.DB.Path)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
}

func TestValidate(t *testing.T) {
	t.Run("missing token is fatal", func(t *testing.T) {
		cfg := &Config{GPT: GPTConfig{Provider: "openai"}}
		assert.ErrorIs(t, cfg.Validate(), ErrMissingToken)
	})

	t.Run("unknown provider", func(t *testing.T) {
		cfg := &Config{Telegram: TelegramConfig{Token: "t"}, GPT: GPTConfig{Provider: "g4f"}}
		assert.Error(t, cfg.Validate())
	})

	t.Run("unknown driver", func(t *testing.T) {
		cfg := &Config{Telegram: TelegramConfig{Token: "t"}, GPT: GPTConfig{Provider: "openai"}, DB: DBConfig{Driver: "mysql"}}
		assert.Error(t, cfg.Validate())
	})
}
