package server

import (
	"fmt"
	"strings"
	"time"

	"github.com/df07/go-tile-raytracer/pkg/core"
)

// ConsoleMessage represents a console message with timestamp
type ConsoleMessage struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"` // "info", "warning", "error"
}

// WebLogger implements core.Logger by forwarding to another logger and
// publishing every line as a "console" event
type WebLogger struct {
	next core.Logger
	hub  *eventHub
}

// Logger wraps next so that render log lines also reach SSE clients
func (s *Server) Logger(next core.Logger) core.Logger {
	if next == nil {
		next = core.NopLogger()
	}
	return &WebLogger{next: next, hub: s.hub}
}

// Printf implements core.Logger interface
func (wl *WebLogger) Printf(format string, args ...interface{}) {
	wl.next.Printf(format, args...)

	message := strings.TrimRight(fmt.Sprintf(format, args...), "\n")
	wl.hub.publish("console", ConsoleMessage{
		Message:   message,
		Timestamp: time.Now(),
		Level:     consoleLevel(message),
	})
}

// consoleLevel guesses a level from the message text
func consoleLevel(message string) string {
	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "error") || strings.Contains(lower, "failed"):
		return "error"
	case strings.Contains(lower, "warning") || strings.Contains(lower, "aborted"):
		return "warning"
	default:
		return "info"
	}
}
