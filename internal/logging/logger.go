// Package logging defines a minimal structured-logging interface used across
// the project, with adapters over log/slog and zerolog.
package logging

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Info(ctx, "user created", "id", id, "email", email)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}

var (
	_ Logger = (*SlogLogger)(nil)
	_ Logger = (*ZerologLogger)(nil)
)

// Supported output formats.
const (
	FormatJSON    = "json"
	FormatText    = "text"
	FormatConsole = "console"
)

// New builds a Logger writing to w.
//
// "json" and "text" are served by slog handlers, "console" by zerolog's
// human-friendly console writer. Level is one of debug, info, warn, error.
func New(format, level string, w io.Writer) (Logger, error) {
	switch strings.ToLower(format) {
	case FormatJSON, "":
		return newSlog(FormatJSON, level, w), nil
	case FormatText:
		return newSlog(FormatText, level, w), nil
	case FormatConsole:
		return newConsole(level, w), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}
