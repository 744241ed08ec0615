package api

import (
	"encoding/json"
	"io"
	"time"
)

// envelope is the backend's standard response wrapper.
type envelope struct {
	Data json.RawMessage `json:"data"`
	Meta *Meta           `json:"meta"`
}

// errorBody is the backend's standard failure payload.
type errorBody struct {
	Detail string `json:"detail"`
}

// Meta carries pagination information for list responses.
type Meta struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// ListQuery filters and paginates interview listings.
type ListQuery struct {
	Page   int
	Limit  int
	Status string
	Search string
}

// UploadRequest describes one multipart upload. File is streamed, not
// buffered, so the 500 MiB maximum never sits in memory.
type UploadRequest struct {
	File       io.Reader
	Filename   string
	Title      string
	TemplateID string
}

// UpdateRequest mutates the user-editable fields of an interview.
type UpdateRequest struct {
	Title *string  `json:"title,omitempty"`
	Tags  []string `json:"tags,omitempty"`
}

// statusPayload is the trimmed response of the status endpoint.
type statusPayload struct {
	ID           string    `json:"id"`
	Status       string    `json:"status"`
	ErrorMessage string    `json:"error_message"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Metrics aggregates the account's interviews for the dashboard view.
type Metrics struct {
	ByStatus    map[string]int `json:"by_status"`
	BySentiment map[string]int `json:"by_sentiment"`
	TopKeywords []KeywordCount `json:"top_keywords"`
}

// KeywordCount is one entry of the keyword leaderboard.
type KeywordCount struct {
	Term  string `json:"term"`
	Count int    `json:"count"`
}

// Template is an analysis template applied at upload time.
type Template struct {
	ID          string `json:"_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IsSystem    bool   `json:"is_system"`
}

// TemplateRequest creates or updates a template.
type TemplateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}
