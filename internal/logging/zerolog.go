package logging

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
)

// ZerologLogger adapts zerolog to the Logger interface. Key–value pairs are
// attached as fields in argument order; a trailing key without a value is
// logged under "!BADKEY", same as slog does.
type ZerologLogger struct {
	l zerolog.Logger
}

func NewZerologLogger(l zerolog.Logger) *ZerologLogger {
	return &ZerologLogger{l: l}
}

// newConsole writes human-readable, uncolored lines with a timestamp.
func newConsole(level string, w io.Writer) *ZerologLogger {
	zl := zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true}).
		Level(zerologLevel(level)).
		With().Timestamp().Logger()
	return NewZerologLogger(zl)
}

func zerologLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func (z *ZerologLogger) Debug(ctx context.Context, msg string, args ...any) {
	z.emit(z.l.Debug(), msg, args)
}

func (z *ZerologLogger) Info(ctx context.Context, msg string, args ...any) {
	z.emit(z.l.Info(), msg, args)
}

func (z *ZerologLogger) Warn(ctx context.Context, msg string, args ...any) {
	z.emit(z.l.Warn(), msg, args)
}

func (z *ZerologLogger) Error(ctx context.Context, msg string, args ...any) {
	z.emit(z.l.Error(), msg, args)
}

func (z *ZerologLogger) With(args ...any) Logger {
	c := z.l.With()
	eachPair(args, func(k string, v any) {
		c = c.Interface(k, v)
	})
	return &ZerologLogger{l: c.Logger()}
}

func (z *ZerologLogger) emit(e *zerolog.Event, msg string, args []any) {
	// nil when the level is disabled
	if e == nil {
		return
	}
	eachPair(args, func(k string, v any) {
		e = e.Interface(k, v)
	})
	e.Msg(msg)
}

func eachPair(args []any, fn func(key string, val any)) {
	for i := 0; i < len(args); i += 2 {
		if i+1 >= len(args) {
			fn("!BADKEY", args[i])
			return
		}
		fn(fmt.Sprint(args[i]), args[i+1])
	}
}
