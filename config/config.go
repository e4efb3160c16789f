// config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var ErrMissingToken = errors.New("bot token is not configured (set BOT_TOKEN)")

type TelegramConfig struct {
	Token     string
	LogChatID int64
	Debug     bool
}

type GPTConfig struct {
	Provider    string
	APIKey      string
	Model       string
	BaseURL     string
	MaxTokens   int
	Temperature float32
}

type CacheConfig struct {
	Size int
}

type DBConfig struct {
	Driver       string
	Host         string
	Port         string
	User         string
	Password     string
	DBName       string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	ConnLifetime time.Duration
	Path         string
}

type ServerConfig struct {
	Port string
}

type Config struct {
	Telegram        TelegramConfig
	GPT             GPTConfig
	Cache           CacheConfig
	DB              DBConfig
	Server          ServerConfig
	ShutdownTimeout time.Duration
}

// env names per key; the first one set wins.
var envBindings = map[string][]string{
	"Telegram.Token":     {"BOT_TOKEN", "TELEGRAM_TOKEN"},
	"Telegram.LogChatID": {"LOG_CHAT_ID"},
	"Telegram.Debug":     {"TELEGRAM_DEBUG"},
	"GPT.Provider":       {"GPT_PROVIDER"},
	"GPT.APIKey":         {"GPT_API_KEY", "OPENAI_API_KEY", "GEMINI_API_KEY"},
	"GPT.Model":          {"GPT_MODEL"},
	"GPT.BaseURL":        {"GPT_BASE_URL"},
	"GPT.MaxTokens":      {"GPT_MAX_TOKENS"},
	"GPT.Temperature":    {"GPT_TEMPERATURE"},
	"Cache.Size":         {"CACHE_SIZE"},
	"DB.Driver":          {"DB_DRIVER"},
	"DB.Host":            {"DB_HOST"},
	"DB.Port":            {"DB_PORT"},
	"DB.User":            {"DB_USER"},
	"DB.Password":        {"DB_PASSWORD"},
	"DB.DBName":          {"DB_NAME"},
	"DB.SSLMode":         {"DB_SSL_MODE"},
	"DB.Path":            {"DB_PATH"},
	"Server.Port":        {"PORT", "SERVER_PORT"},
	"ShutdownTimeout":    {"SHUTDOWN_TIMEOUT"},
}

// Load reads .env, an optional config file and the environment, in increasing priority.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("$HOME/.tarot-bot")

	setDefaults(v)

	for key, names := range envBindings {
		args := append([]string{key}, names...)
		if err := v.BindEnv(args...); err != nil {
			return nil, fmt.Errorf("error binding env for %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	// Process any ${ENV_VAR} syntax in the config values
	for _, key := range v.AllKeys() {
		value := v.GetString(key)
		if strings.HasPrefix(value, "${") && strings.HasSuffix(value, "}") {
			envVar := strings.TrimPrefix(strings.TrimSuffix(value, "}"), "${")
			v.Set(key, os.Getenv(envVar))
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	cfg.GPT.Provider = strings.ToLower(strings.TrimSpace(cfg.GPT.Provider))
	cfg.DB.Driver = strings.ToLower(strings.TrimSpace(cfg.DB.Driver))

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("Telegram.LogChatID", int64(-1002899360000))
	v.SetDefault("Telegram.Debug", false)
	v.SetDefault("GPT.Provider", "openai")
	v.SetDefault("GPT.Model", "gpt-4")
	v.SetDefault("GPT.MaxTokens", 2500)
	v.SetDefault("GPT.Temperature", 0.7)
	v.SetDefault("Cache.Size", 1000)
	v.SetDefault("DB.Host", "localhost")
	v.SetDefault("DB.Port", "5432")
	v.SetDefault("DB.User", "postgres")
	v.SetDefault("DB.Password", "postgres")
	v.SetDefault("DB.DBName", "tarot_bot")
	v.SetDefault("DB.SSLMode", "disable")
	v.SetDefault("DB.MaxOpenConns", 10)
	v.SetDefault("DB.MaxIdleConns", 2)
	v.SetDefault("DB.ConnLifetime", 5*time.Minute)
	v.SetDefault("DB.Path", "data/usage.db")
	v.SetDefault("Server.Port", "8080")
	v.SetDefault("ShutdownTimeout", 10*time.Second)
}

// Validate checks the settings the bot cannot start without.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Telegram.Token) == "" {
		return ErrMissingToken
	}
	switch c.GPT.Provider {
	case "openai", "gemini":
	default:
		return fmt.Errorf("unknown GPT provider %q", c.GPT.Provider)
	}
	switch c.DB.Driver {
	case "", "postgres", "sqlite":
	default:
		return fmt.Errorf("unknown DB driver %q", c.DB.Driver)
	}
	return nil
}
