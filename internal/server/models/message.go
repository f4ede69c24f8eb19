package models

import "time"

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// DayFormat is the calendar-day layout used in keys and summary dates.
const DayFormat = "2006-01-02"

// ChatMessage is a single message exchanged between the user and the
// assistant. Messages are immutable once stored and belong to exactly one
// (username, calendar day) bucket derived from their own timestamp.
type ChatMessage struct {
	MessageID string    `json:"message_id"`
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Day returns the UTC calendar day the message belongs to.
func (m *ChatMessage) Day() string {
	return m.Timestamp.UTC().Format(DayFormat)
}
