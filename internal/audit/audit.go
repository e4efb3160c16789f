// internal/audit/audit.go
package audit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"tarot-bot/internal/models"
)

const TimeLayout = "2006-01-02 15:04:05"

// Event is one completed reading.
type Event struct {
	User  models.UserIdentity
	Kind  models.ReadingType
	Query string
	At    time.Time
}

// Format renders the message posted to the log chat.
func (e Event) Format() string {
	return fmt.Sprintf("🔮 Новый %s:\n👤 Пользователь: @%s (ID: %d)\n📝 Запрос: %s\n⏰ Время: %s",
		e.Kind.Label(), e.User.DisplayName(), e.User.ID, e.Query, e.At.Format(TimeLayout))
}

// Sink records usage events.
type Sink interface {
	Record(ctx context.Context, e Event) error
}

// MessageSender delivers plain text to a chat.
type MessageSender interface {
	SendText(ctx context.Context, chatID int64, text string) error
}

// TelegramSink posts every event to a fixed chat.
type TelegramSink struct {
	sender MessageSender
	chatID int64
}

func NewTelegramSink(sender MessageSender, chatID int64) *TelegramSink {
	return &TelegramSink{sender: sender, chatID: chatID}
}

func (s *TelegramSink) Record(ctx context.Context, e Event) error {
	if s.chatID == 0 {
		return nil
	}
	if err := s.sender.SendText(ctx, s.chatID, e.Format()); err != nil {
		return fmt.Errorf("send audit message: %w", err)
	}
	return nil
}

// UsageWriter persists usage records.
type UsageWriter interface {
	SaveUsage(ctx context.Context, u *models.Usage) error
}

// StoreSink writes events to the usage log.
type StoreSink struct {
	writer UsageWriter
}

func NewStoreSink(writer UsageWriter) *StoreSink {
	return &StoreSink{writer: writer}
}

func (s *StoreSink) Record(ctx context.Context, e Event) error {
	return s.writer.SaveUsage(ctx, &models.Usage{
		ID:        uuid.NewString(),
		UserID:    e.User.ID,
		Username:  e.User.DisplayName(),
		Kind:      e.Kind,
		Query:     e.Query,
		CreatedAt: e.At,
	})
}

// Multi fans an event out to every sink. One failing sink does not stop the others.
type Multi []Sink

func (m Multi) Record(ctx context.Context, e Event) error {
	var errs []error
	for _, s := range m {
		if err := s.Record(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
