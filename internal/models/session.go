// internal/models/session.go
package models

import (
	"strings"
	"time"
)

// State is the position of a user inside the conversation.
type State int

const (
	StateMenu State = iota
	StateTarotWaiting
	StateChartWaiting
)

func (s State) String() string {
	switch s {
	case StateMenu:
		return "menu"
	case StateTarotWaiting:
		return "tarot_waiting"
	case StateChartWaiting:
		return "chart_waiting"
	default:
		return "unknown"
	}
}

type Session struct {
	UserID    int64     `json:"user_id"`
	State     State     `json:"state"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserIdentity is what the transport tells us about the sender.
type UserIdentity struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// DisplayName prefers the @username and falls back to "First Last".
func (u UserIdentity) DisplayName() string {
	if u.Username != "" {
		return u.Username
	}
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
