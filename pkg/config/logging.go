package config

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// SlogLogger adapts a slog.Logger to the Printf-style core.Logger used by
// the renderer. Messages are logged at info level.
type SlogLogger struct {
	Logger *slog.Logger
}

// Printf formats the message and logs it without its trailing newline
func (l SlogLogger) Printf(format string, args ...interface{}) {
	l.Logger.Info(strings.TrimRight(fmt.Sprintf(format, args...), "\n"))
}

// LevelOff silences logging entirely
const LevelOff = slog.Level(1 << 10)

// ParseLogLevel maps debug, info, warn, error, off (or "") to a slog level
func ParseLogLevel(s string) (slog.Level, error) {
	if s == "" {
		return slog.LevelInfo, nil
	}
	if strings.EqualFold(s, "off") {
		return LevelOff, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("unknown log level %q", s)
	}
	return level, nil
}

// NewLogger creates a text logger writing to w at the given level. The
// "off" level returns a logger that discards everything.
func NewLogger(w io.Writer, level string) (*slog.Logger, error) {
	lvl, err := ParseLogLevel(level)
	if err != nil {
		return nil, err
	}
	if lvl == LevelOff {
		return NopLogger(), nil
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}

// nopHandler discards every record. Enabled returns false so callers skip
// formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// NopLogger returns a slog.Logger that discards all output
func NopLogger() *slog.Logger {
	return slog.New(nopHandler{})
}
