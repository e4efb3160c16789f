package bot

import (
	"context"
	"errors"
	"strings"
	"time"

	"tarot-bot/internal/audit"
	"tarot-bot/internal/models"
	"tarot-bot/internal/session"
	"tarot-bot/pkg/logger"
)

const (
	ButtonTarot = "Гадание на Таро"
	ButtonChart = "Натальная карта"

	msgChooseOption = "Выберите, что вы хотите узнать:"
	msgUseMenu      = "Пожалуйста, выберите опцию с клавиатуры."
	msgHelp         = "Я делаю расклады Таро и разбираю натальные карты.\n\n" +
		"«" + ButtonTarot + "» — расклад из трёх карт по вашему запросу.\n" +
		"«" + ButtonChart + "» — положение планет на момент рождения и его толкование.\n\n" +
		"Команда /start возвращает в меню."
	msgAskTarot = "Введите своё имя, возраст и тему расклада (например: Анна, 24, любовь):"
	msgAskChart = "Введите дату, время и место рождения (пример: 12.03.1995, 14:45, Москва).\n" +
		"Если точное время рождения неизвестно, укажите 12:00."
	msgTarotWorking  = "Делаю расклад, подождите немного..."
	msgChartWorking  = "Смотрю вашу натальную карту..."
	msgTarotResult   = "Ваш расклад:\n\n"
	msgChartResult   = "Натальная карта:\n\n"
	msgGenerationErr = "Произошла ошибка при обращении к нейросети. Попробуйте ещё раз позже."
	msgFormatErr     = "Произошла ошибка. Проверьте формат ввода. Пример:\n" +
		"12.03.1995, 14:45, Москва\n" +
		"Если точное время неизвестно — укажите 12:00."
	msgRestart = "Пожалуйста, начните с /start"
)

type Keyboard int

const (
	KeyboardNone Keyboard = iota
	KeyboardMenu
)

// Inbound is one text message from a user. Command is the bot command
// without the leading slash, empty for plain text.
type Inbound struct {
	ChatID  int64
	User    models.UserIdentity
	Text    string
	Command string
}

type Outbound struct {
	ChatID   int64
	Text     string
	Keyboard Keyboard
}

// Transport delivers replies to users.
type Transport interface {
	Send(ctx context.Context, msg Outbound) error
}

// Readings produces the narrative for each reading type.
type Readings interface {
	Tarot(ctx context.Context, request string) (string, error)
	Chart(ctx context.Context, q models.BirthQuery) (string, error)
}

// Conversation is the per-user state machine. Messages from one user are
// handled one at a time; different users proceed in parallel.
type Conversation struct {
	sessions  *session.Store
	readings  Readings
	transport Transport
	audit     audit.Sink
	logger    *logger.Logger
	now       func() time.Time
}

func NewConversation(sessions *session.Store, readings Readings, transport Transport, sink audit.Sink, log *logger.Logger) *Conversation {
	return &Conversation{
		sessions:  sessions,
		readings:  readings,
		transport: transport,
		audit:     sink,
		logger:    log,
		now:       time.Now,
	}
}

func (c *Conversation) Handle(ctx context.Context, in Inbound) {
	userID := in.User.ID
	unlock := c.sessions.Lock(userID)
	defer unlock()

	switch in.Command {
	case "start":
		c.sessions.SetState(userID, models.StateMenu)
		c.reply(ctx, in, msgChooseOption, KeyboardMenu)
		return
	case "help":
		c.reply(ctx, in, msgHelp, KeyboardMenu)
		return
	}

	text := strings.TrimSpace(in.Text)
	sess := c.sessions.GetOrCreate(userID)

	c.logger.With("user_id", userID, "state", sess.State.String()).Info("Handling message")

	switch sess.State {
	case models.StateMenu:
		c.handleMenu(ctx, in, text)
	case models.StateTarotWaiting:
		c.handleTarot(ctx, in, text)
	case models.StateChartWaiting:
		c.handleChart(ctx, in, text)
	default:
		c.sessions.SetState(userID, models.StateMenu)
		c.reply(ctx, in, msgRestart, KeyboardMenu)
	}
}

func (c *Conversation) handleMenu(ctx context.Context, in Inbound, text string) {
	switch text {
	case ButtonTarot:
		c.sessions.SetState(in.User.ID, models.StateTarotWaiting)
		c.reply(ctx, in, msgAskTarot, KeyboardNone)
	case ButtonChart:
		c.sessions.SetState(in.User.ID, models.StateChartWaiting)
		c.reply(ctx, in, msgAskChart, KeyboardNone)
	default:
		c.reply(ctx, in, msgUseMenu, KeyboardMenu)
	}
}

func (c *Conversation) handleTarot(ctx context.Context, in Inbound, text string) {
	defer c.sessions.SetState(in.User.ID, models.StateMenu)

	c.reply(ctx, in, msgTarotWorking, KeyboardNone)

	result, err := c.readings.Tarot(ctx, text)
	if err != nil {
		c.logger.Errorw("Tarot reading failed", "user_id", in.User.ID, "error", err)
		c.reply(ctx, in, msgGenerationErr, KeyboardMenu)
		return
	}

	c.reply(ctx, in, msgTarotResult+result, KeyboardMenu)
	c.record(ctx, in, models.ReadingTarot, text)
}

func (c *Conversation) handleChart(ctx context.Context, in Inbound, text string) {
	defer c.sessions.SetState(in.User.ID, models.StateMenu)

	c.reply(ctx, in, msgChartWorking, KeyboardNone)

	q, err := models.ParseBirthQuery(text)
	if err != nil {
		var formatErr *models.InputFormatError
		if errors.As(err, &formatErr) {
			c.logger.Infow("Rejected birth data", "user_id", in.User.ID, "reason", formatErr.Reason)
		}
		c.reply(ctx, in, msgFormatErr, KeyboardMenu)
		return
	}

	result, err := c.readings.Chart(ctx, q)
	if err != nil {
		c.logger.Errorw("Chart reading failed", "user_id", in.User.ID, "query", text, "error", err)
		c.reply(ctx, in, msgGenerationErr, KeyboardMenu)
		return
	}

	c.reply(ctx, in, msgChartResult+result, KeyboardMenu)
	c.record(ctx, in, models.ReadingChart, text)
}

func (c *Conversation) reply(ctx context.Context, in Inbound, text string, kb Keyboard) {
	err := c.transport.Send(ctx, Outbound{ChatID: in.ChatID, Text: text, Keyboard: kb})
	if err != nil {
		c.logger.Errorw("Failed to send reply", "chat_id", in.ChatID, "error", err)
	}
}

func (c *Conversation) record(ctx context.Context, in Inbound, kind models.ReadingType, query string) {
	if c.audit == nil {
		return
	}
	err := c.audit.Record(ctx, audit.Event{User: in.User, Kind: kind, Query: query, At: c.now()})
	if err != nil {
		c.logger.Warnw("Failed to record usage", "user_id", in.User.ID, "kind", kind, "error", err)
	}
}
