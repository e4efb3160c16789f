package bot

import (
	"context"
	"fmt"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"tarot-bot/internal/models"
	"tarot-bot/pkg/logger"
)

// MaxMessageLen is Telegram's limit for one text message, in runes.
const MaxMessageLen = 4096

const msgTextOnly = "Пожалуйста, отправьте текстовое сообщение."

// Handler consumes inbound messages.
type Handler interface {
	Handle(ctx context.Context, in Inbound)
}

type TelegramBot struct {
	bot      *tgbotapi.BotAPI
	logger   *logger.Logger
	polling  sync.WaitGroup
	inflight sync.WaitGroup

	mu sync.Mutex
	// tail holds, per user, the done channel of the newest dispatched handler.
	tail map[int64]chan struct{}
}

func NewTelegramBot(token string, debug bool, logger *logger.Logger) (*TelegramBot, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}
	bot.Debug = debug

	logger.Infow("Authorized on Telegram", "username", bot.Self.UserName)

	return &TelegramBot{
		bot:    bot,
		logger: logger,
	}, nil
}

// Start begins receiving updates from Telegram via polling and passes every
// message to h. It returns once polling is set up.
func (t *TelegramBot) Start(ctx context.Context, h Handler) error {
	// First, remove any existing webhook to ensure we can use polling
	t.logger.Info("Removing any existing webhook")
	_, err := t.bot.Request(tgbotapi.DeleteWebhookConfig{
		DropPendingUpdates: false,
	})
	if err != nil {
		return fmt.Errorf("failed to delete webhook: %w", err)
	}

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := t.bot.GetUpdatesChan(updateConfig)

	t.logger.Info("Started receiving Telegram updates")

	t.dispatch(ctx, updates, h)

	return nil
}

func (t *TelegramBot) dispatch(ctx context.Context, updates tgbotapi.UpdatesChannel, h Handler) {
	t.polling.Add(1)
	go func() {
		defer t.polling.Done()
		t.handleUpdates(ctx, updates, h)
	}()
}

// handleUpdates runs every message in its own goroutine. Messages from one
// user are chained so they are handled in arrival order.
func (t *TelegramBot) handleUpdates(ctx context.Context, updates tgbotapi.UpdatesChannel, h Handler) {
	for update := range updates {
		in, ok := inboundFromMessage(update.Message)
		if !ok {
			continue
		}

		prev, done := t.enqueue(in.User.ID)
		t.inflight.Add(1)
		go func(updateID int, in Inbound) {
			defer t.inflight.Done()
			defer t.release(in.User.ID, done)
			defer func() {
				if r := recover(); r != nil {
					t.logger.Errorw("Recovered from panic while processing update", "update_id", updateID, "error", r)
				}
			}()

			if prev != nil {
				<-prev
			}
			t.process(ctx, updateID, in, h)
		}(update.UpdateID, in)
	}
}

func (t *TelegramBot) process(ctx context.Context, updateID int, in Inbound, h Handler) {
	if in.Text == "" && in.Command == "" {
		if err := t.SendText(ctx, in.ChatID, msgTextOnly); err != nil {
			t.logger.Errorw("Failed to send text-only notice", "chat_id", in.ChatID, "error", err)
		}
		return
	}

	t.logger.Debugw("Received message",
		"update_id", updateID,
		"chat_id", in.ChatID,
		"from", in.User.Username,
		"command", in.Command)

	h.Handle(ctx, in)
}

// enqueue appends a handler to the user's chain. The handler must wait for
// prev (nil for an idle user) and close done when it returns.
func (t *TelegramBot) enqueue(userID int64) (prev, done chan struct{}) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.tail == nil {
		t.tail = make(map[int64]chan struct{})
	}
	prev = t.tail[userID]
	done = make(chan struct{})
	t.tail[userID] = done
	return prev, done
}

func (t *TelegramBot) release(userID int64, done chan struct{}) {
	close(done)

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.tail[userID] == done {
		delete(t.tail, userID)
	}
}

func inboundFromMessage(m *tgbotapi.Message) (Inbound, bool) {
	if m == nil || m.From == nil {
		return Inbound{}, false
	}
	in := Inbound{
		ChatID: m.Chat.ID,
		User: models.UserIdentity{
			ID:        m.From.ID,
			Username:  m.From.UserName,
			FirstName: m.From.FirstName,
			LastName:  m.From.LastName,
		},
		Text: m.Text,
	}
	if m.IsCommand() {
		in.Command = m.Command()
	}
	return in, true
}

// Send implements Transport. Long texts are split; the keyboard goes with the last part.
func (t *TelegramBot) Send(ctx context.Context, out Outbound) error {
	parts := splitMessage(out.Text, MaxMessageLen)
	for i, part := range parts {
		if err := ctx.Err(); err != nil {
			return err
		}
		msg := tgbotapi.NewMessage(out.ChatID, part)
		if i == len(parts)-1 && out.Keyboard == KeyboardMenu {
			msg.ReplyMarkup = menuKeyboard()
		}
		if _, err := t.bot.Send(msg); err != nil {
			return fmt.Errorf("send message to %d: %w", out.ChatID, err)
		}
	}
	return nil
}

// SendText implements audit.MessageSender.
func (t *TelegramBot) SendText(ctx context.Context, chatID int64, text string) error {
	return t.Send(ctx, Outbound{ChatID: chatID, Text: text})
}

// Stop stops polling and waits for in-flight handlers or ctx, whichever comes first.
func (t *TelegramBot) Stop(ctx context.Context) error {
	t.bot.StopReceivingUpdates()
	return t.drain(ctx)
}

// drain waits for the update channel to close and then for every handler
// started from it.
func (t *TelegramBot) drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		t.polling.Wait()
		t.inflight.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

func menuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(ButtonTarot)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(ButtonChart)),
	)
	kb.ResizeKeyboard = true
	return kb
}

// splitMessage cuts text into parts of at most limit runes, preferring line breaks.
func splitMessage(text string, limit int) []string {
	runes := []rune(text)
	if len(runes) <= limit {
		return []string{text}
	}

	var parts []string
	for len(runes) > limit {
		cut := limit
		for i := limit; i > limit/2; i-- {
			if runes[i-1] == '\n' {
				cut = i
				break
			}
		}
		parts = append(parts, string(runes[:cut]))
		runes = runes[cut:]
	}
	if len(runes) > 0 {
		parts = append(parts, string(runes))
	}
	return parts
}
