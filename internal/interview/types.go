package interview

import (
	"fmt"
	"strings"
	"time"
)

// Status represents the server-side lifecycle of an interview.
type Status string

const (
	StatusUploaded     Status = "uploaded"
	StatusQueued       Status = "queued"
	StatusTranscribing Status = "transcribing"
	StatusAnalysing    Status = "analysing"
	StatusCompleted    Status = "completed"
	StatusFailed       Status = "failed"
)

var allStatuses = []Status{
	StatusUploaded,
	StatusQueued,
	StatusTranscribing,
	StatusAnalysing,
	StatusCompleted,
	StatusFailed,
}

// statusRanks orders the pipeline stages. Failed is reachable from any
// non-terminal stage and therefore ranks alongside completed.
var statusRanks = map[Status]int{
	StatusUploaded:     0,
	StatusQueued:       1,
	StatusTranscribing: 2,
	StatusAnalysing:    3,
	StatusCompleted:    4,
	StatusFailed:       4,
}

// ParseStatus validates a raw status string from the wire.
func ParseStatus(raw string) (Status, error) {
	status := Status(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := statusRanks[status]; !ok {
		return "", fmt.Errorf("unknown interview status %q", raw)
	}
	return status, nil
}

// AllStatuses returns every known status in pipeline order.
func AllStatuses() []Status {
	out := make([]Status, len(allStatuses))
	copy(out, allStatuses)
	return out
}

// Rank returns the pipeline position of the status. Unknown statuses rank
// below uploaded so they never displace a known stage.
func (s Status) Rank() int {
	if rank, ok := statusRanks[s]; ok {
		return rank
	}
	return -1
}

// IsTerminal reports whether no further transitions can occur.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// IsProcessing reports whether the backend is actively working the item.
func (s Status) IsProcessing() bool {
	switch s {
	case StatusQueued, StatusTranscribing, StatusAnalysing:
		return true
	default:
		return false
	}
}

// Known reports whether the status is one of the pipeline stages.
func (s Status) Known() bool {
	_, ok := statusRanks[s]
	return ok
}

func (s Status) String() string {
	return string(s)
}

// Transcript is the lightweight transcript view carried on a full record.
type Transcript struct {
	Text         string  `json:"text"`
	LanguageCode string  `json:"language_code"`
	Confidence   float64 `json:"confidence"`
}

// Analysis is the subset of the AI analysis the client renders.
type Analysis struct {
	Summary          string    `json:"summary"`
	SentimentOverall string    `json:"sentiment_overall"`
	SentimentScore   float64   `json:"sentiment_score"`
	ModelUsed        string    `json:"model_used"`
	AnalysedAt       time.Time `json:"analysed_at"`
}

// Interview is the canonical representation of one processing item.
//
// SentimentOverall is the early result summary pushed over the realtime
// feed; it is superseded by Analysis once the record reaches completed.
type Interview struct {
	ID               string      `json:"_id"`
	Title            string      `json:"title"`
	OriginalName     string      `json:"original_name"`
	Status           Status      `json:"status"`
	FileType         string      `json:"file_type"`
	FileSize         int64       `json:"file_size"`
	DurationSeconds  *float64    `json:"duration_seconds"`
	ErrorMessage     string      `json:"error_message,omitempty"`
	SentimentOverall string      `json:"sentiment_overall,omitempty"`
	Transcript       *Transcript `json:"transcript,omitempty"`
	Analysis         *Analysis   `json:"ai_analysis,omitempty"`
	Tags             []string    `json:"tags,omitempty"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// Sentiment returns the best available sentiment label for display.
func (iv Interview) Sentiment() string {
	if iv.Analysis != nil && iv.Analysis.SentimentOverall != "" {
		return iv.Analysis.SentimentOverall
	}
	return iv.SentimentOverall
}
