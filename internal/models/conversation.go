package models

import "time"

// ConversationState is the per-user "record mode" carried between turns.
type ConversationState struct {
	UserID        string    `json:"user_id"`
	PendingIntent Intent    `json:"pending_intent,omitempty"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (s *ConversationState) Pending() (Intent, bool) {
	if s == nil || !s.PendingIntent.Records() {
		return "", false
	}
	return s.PendingIntent, true
}
