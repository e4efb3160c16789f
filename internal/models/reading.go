// internal/models/reading.go
package models

import "time"

type ReadingType string

const (
	ReadingTarot ReadingType = "tarot"
	ReadingChart ReadingType = "chart"
)

// Label is the human readable name used in audit messages.
func (r ReadingType) Label() string {
	switch r {
	case ReadingTarot:
		return "расклад Таро"
	case ReadingChart:
		return "натальная карта"
	default:
		return string(r)
	}
}

// Usage is one completed reading as stored by the usage log.
type Usage struct {
	ID        string      `json:"id"`
	UserID    int64       `json:"user_id"`
	Username  string      `json:"username"`
	Kind      ReadingType `json:"kind"`
	Query     string      `json:"query"`
	CreatedAt time.Time   `json:"created_at"`
}
