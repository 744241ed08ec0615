package interview

import "time"

// Event type discriminators pushed by the backend.
const (
	EventTypeStatus       = "status_update"
	EventTypeNotification = "notification"
)

// RealtimeEvent is a partial interview update pushed over the websocket
// feed. It never carries a full record; absent fields leave the held value
// untouched.
type RealtimeEvent struct {
	Type             string    `json:"type"`
	InterviewID      string    `json:"interview_id,omitempty"`
	Status           Status    `json:"status,omitempty"`
	SentimentOverall string    `json:"sentiment_overall,omitempty"`
	Message          string    `json:"message,omitempty"`
	UpdatedAt        time.Time `json:"updated_at,omitempty"`
}
