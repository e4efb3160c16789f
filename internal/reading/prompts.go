package reading

import (
	"fmt"

	"tarot-bot/internal/ephemeris"
	"tarot-bot/internal/models"
)

const (
	tarotSystem = "Ты — профессиональный таролог. Не используй смайлики и ссылки."
	chartSystem = "Ты — профессиональный астролог. Не используй смайлики и ссылки."
)

func tarotPrompt(request string) string {
	return fmt.Sprintf(`
Ты — опытный таролог с многолетней практикой. Не используй смайлики и ссылки.
Сделай мистический текстовый расклад по запросу пользователя, укажи 3 карты и поясни каждую.

Запрос:
%s

Ответ должен быть эзотерическим, ясным, красивым.
`, request)
}

func chartPrompt(data string) string {
	return fmt.Sprintf(`
Ты — профессиональный астролог. Не используй смайлики и ссылки.
Проанализируй положение планет и сделай краткую интерпретацию личности и судьбы пользователя.

Данные:
%s

Сделай красивый и глубокий астрологический разбор.
`, data)
}

// chartData is the structured block the astrologer prompt wraps.
func chartData(q models.BirthQuery, positions []ephemeris.Position) string {
	return fmt.Sprintf("Город: %s\nДата: %s\n\nПланеты:\n%s",
		q.Place, q.Time().Format("02.01.2006 15:04"), ephemeris.FormatPositions(positions))
}
