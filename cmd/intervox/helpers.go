package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"intervox/internal/interview"
)

var displayCaser = cases.Title(language.English)

// displayStatus renders a pipeline status for humans ("transcribing" ->
// "Transcribing").
func displayStatus(status interview.Status) string {
	if status == "" {
		return "-"
	}
	return displayCaser.String(strings.ReplaceAll(status.String(), "_", " "))
}

// displaySentiment renders a sentiment label, dash when absent.
func displaySentiment(sentiment string) string {
	if strings.TrimSpace(sentiment) == "" {
		return "-"
	}
	return displayCaser.String(sentiment)
}

func formatSize(size int64) string {
	if size <= 0 {
		return "-"
	}
	return humanize.IBytes(uint64(size))
}

func formatWhen(ts time.Time) string {
	if ts.IsZero() {
		return "-"
	}
	return humanize.Time(ts)
}

func formatDuration(seconds *float64) string {
	if seconds == nil || *seconds <= 0 {
		return "-"
	}
	d := time.Duration(*seconds * float64(time.Second))
	return d.Round(time.Second).String()
}

func truncate(s string, limit int) string {
	s = strings.TrimSpace(s)
	if limit <= 3 || len(s) <= limit {
		return s
	}
	return s[:limit-3] + "..."
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

// parseStatusFilter validates a --status flag value, allowing empty.
func parseStatusFilter(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	status, err := interview.ParseStatus(raw)
	if err != nil {
		return "", fmt.Errorf("%w (known: %s)", err, knownStatusList())
	}
	return status.String(), nil
}

func knownStatusList() string {
	all := interview.AllStatuses()
	names := make([]string, len(all))
	for i, status := range all {
		names[i] = status.String()
	}
	return strings.Join(names, ", ")
}
