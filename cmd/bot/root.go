package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"tarot-bot/config"
	"tarot-bot/internal/audit"
	"tarot-bot/internal/bot"
	"tarot-bot/internal/cache"
	"tarot-bot/internal/db"
	"tarot-bot/internal/ephemeris"
	"tarot-bot/internal/gpt"
	"tarot-bot/internal/reading"
	"tarot-bot/internal/server"
	"tarot-bot/internal/session"
	"tarot-bot/pkg/logger"
)

var (
	devLogs  bool
	logLevel string
	l        *logger.Logger
)

var rootCmd = &cobra.Command{
	Use:   "bot",
	Short: "Telegram bot for tarot readings and natal charts",
	Long: `Runs the Telegram bot. Users pick a tarot reading or a natal chart from the
menu; charts are computed from the birth date, time (UTC) and place and then
interpreted by the configured language model.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if devLogs {
			l = logger.NewDevelopment()
			return nil
		}
		var err error
		l, err = logger.NewWithLevel(logLevel)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if l != nil {
			_ = l.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&devLogs, "dev", false, "human readable debug logs")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level for JSON logs (debug, info, warn, error)")
	rootCmd.AddCommand(chartCmd)
}

func serve(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	l.Info("Starting tarot bot...")

	cfg, err := config.Load()
	if err != nil {
		l.Fatalw("Failed to load config", "error", err)
	}
	if err := cfg.Validate(); err != nil {
		l.Fatalw("Invalid configuration", "error", err)
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	generator, err := newGenerator(ctx, cfg.GPT)
	if err != nil {
		l.Fatalw("Failed to create generator", "error", err)
	}
	l.Infow("Generator ready", "provider", cfg.GPT.Provider, "model", generator.Model())

	tarotStore, err := cache.New(cfg.Cache.Size)
	if err != nil {
		l.Fatalw("Failed to create tarot cache", "error", err)
	}
	chartStore, err := cache.New(cfg.Cache.Size)
	if err != nil {
		l.Fatalw("Failed to create chart cache", "error", err)
	}
	readings := reading.NewService(generator, ephemeris.NewResolver(),
		cache.NewResponseCache(tarotStore), cache.NewResponseCache(chartStore), l.Named("reading"))

	telegramBot, err := bot.NewTelegramBot(cfg.Telegram.Token, cfg.Telegram.Debug, l.Named("telegram"))
	if err != nil {
		l.Fatalw("Failed to create Telegram bot", "error", err)
	}

	sinks := audit.Multi{audit.NewTelegramSink(telegramBot, cfg.Telegram.LogChatID)}
	usageDB, err := db.Open(ctx, cfg.DB)
	if err != nil {
		l.Fatalw("Failed to open usage database", "driver", cfg.DB.Driver, "error", err)
	}
	if usageDB != nil {
		defer usageDB.Close()
		sinks = append(sinks, audit.NewStoreSink(usageDB))
		l.Infow("Usage log enabled", "driver", cfg.DB.Driver)
	}

	sessions := session.NewStore()
	conversation := bot.NewConversation(sessions, readings, telegramBot, sinks, l.Named("conversation"))

	// Handlers keep running after a signal so in-flight readings can finish.
	if err := telegramBot.Start(context.WithoutCancel(ctx), conversation); err != nil {
		l.Fatalw("Failed to start Telegram bot", "error", err)
	}
	l.Info("Telegram bot started successfully")

	httpServer := server.NewServer(cfg.Server.Port, server.Sources{
		Cache:    readings,
		Sessions: sessions,
		Usage:    usageDB,
	}, l.Named("http"))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := httpServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		l.Info("Shutting down bot...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := httpServer.Stop(shutdownCtx); err != nil {
			l.Errorw("Error during HTTP server shutdown", "error", err)
		}
		if err := telegramBot.Stop(shutdownCtx); err != nil {
			l.Errorw("Error during bot shutdown", "error", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	l.Info("Bot stopped successfully")
	return nil
}

// modelGenerator is a reading.Generator that can name its model.
type modelGenerator interface {
	reading.Generator
	Model() string
}

func newGenerator(ctx context.Context, cfg config.GPTConfig) (modelGenerator, error) {
	switch cfg.Provider {
	case "gemini":
		client, err := gpt.NewGeminiClient(ctx, cfg.APIKey, cfg.Model)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return gpt.NewClient(cfg.APIKey).
			WithModel(cfg.Model).
			WithBaseURL(cfg.BaseURL).
			WithMaxTokens(cfg.MaxTokens).
			WithTemperature(cfg.Temperature), nil
	}
}
