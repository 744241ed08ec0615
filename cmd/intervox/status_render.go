package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"intervox/internal/interview"
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

func stdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func statusColor(status interview.Status) string {
	switch status {
	case interview.StatusCompleted:
		return ansiGreen
	case interview.StatusFailed:
		return ansiRed
	case interview.StatusQueued, interview.StatusUploaded:
		return ansiYellow
	default:
		return ansiBlue
	}
}

// renderProgressLine is one line of the live watch feed.
func renderProgressLine(record interview.Interview, colorize bool) string {
	label := displayStatus(record.Status)
	if colorize {
		label = statusColor(record.Status) + label + ansiReset
	}

	line := fmt.Sprintf("  %-26s %s", record.ID, label)
	if sentiment := record.Sentiment(); sentiment != "" {
		line += fmt.Sprintf("  sentiment=%s", sentiment)
	}
	if record.Status == interview.StatusFailed && record.ErrorMessage != "" {
		line += fmt.Sprintf("  (%s)", truncate(record.ErrorMessage, 80))
	}
	return line
}
