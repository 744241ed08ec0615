package interview

import "time"

// accepts decides whether an incoming update may replace the held state.
// The rule is the single source of truth for conflict resolution between
// polling and push: a terminal incoming status beats any non-terminal held
// status, otherwise only a strictly newer updated_at wins. The outcome is
// order-independent for any set of updates.
func accepts(held Interview, status Status, updatedAt time.Time) bool {
	if held.Status.IsTerminal() && !status.IsTerminal() {
		return false
	}
	if status.IsTerminal() && !held.Status.IsTerminal() {
		return true
	}
	return updatedAt.After(held.UpdatedAt)
}

// Merge resolves a full record fetched via polling against the held state.
// It returns the resulting state and whether the incoming record was
// accepted. Early sentiment from a prior push event is preserved when the
// fetched record does not carry one.
func Merge(held, incoming Interview) (Interview, bool) {
	if held.ID == "" {
		return incoming, true
	}
	if !accepts(held, incoming.Status, incoming.UpdatedAt) {
		return held, false
	}
	merged := incoming
	if merged.SentimentOverall == "" {
		merged.SentimentOverall = held.SentimentOverall
	}
	if merged.Title == "" {
		merged.Title = held.Title
	}
	return merged, true
}

// ApplyEvent folds a partial realtime event into the held state. Events
// without a status are ignored; stale events are discarded silently.
func ApplyEvent(held Interview, ev RealtimeEvent) (Interview, bool) {
	if ev.Status == "" || !ev.Status.Known() {
		return held, false
	}
	if held.ID != "" && !accepts(held, ev.Status, ev.UpdatedAt) {
		return held, false
	}
	merged := held
	if merged.ID == "" {
		merged.ID = ev.InterviewID
	}
	merged.Status = ev.Status
	if !ev.UpdatedAt.IsZero() {
		merged.UpdatedAt = ev.UpdatedAt
	}
	if ev.SentimentOverall != "" {
		merged.SentimentOverall = ev.SentimentOverall
	}
	return merged, true
}
