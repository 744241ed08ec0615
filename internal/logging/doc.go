// Package logging constructs the process-wide slog logger and exposes the
// attribute helpers used across the client. Console output is meant for a
// human at a terminal; json output is meant for log collectors. The auto
// format picks between the two based on whether stderr is a terminal.
package logging
