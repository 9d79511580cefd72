package renderer

import (
	"fmt"
	"strings"
	"testing"
	"time"
)

type bufferLogger struct {
	lines []string
}

func (l *bufferLogger) Printf(format string, args ...interface{}) {
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		input    time.Duration
		expected string
	}{
		{0, "0s"},
		{1400 * time.Millisecond, "1s"},
		{59 * time.Second, "59s"},
		{2*time.Minute + 5*time.Second, "2m 5s"},
		{time.Hour + 2*time.Minute + 3*time.Second, "1h 2m 3s"},
		{3 * time.Hour, "3h 0m 0s"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.input); got != tt.expected {
			t.Errorf("FormatDuration(%v) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}

func TestProgressUpdate_Percent(t *testing.T) {
	if got := (ProgressUpdate{TotalTiles: 8, CompletedTiles: 2}).Percent(); got != 25 {
		t.Errorf("Expected 25%%, got %f", got)
	}
	if got := (ProgressUpdate{}).Percent(); got != 100 {
		t.Errorf("Empty render should be 100%%, got %f", got)
	}
}

func TestMultiSinkAndLogSink(t *testing.T) {
	logger := &bufferLogger{}
	recorder := &ProgressRecorder{}
	sink := MultiSink{LogSink{Logger: logger}, recorder}

	sink.TileCompleted(TileEvent{Index: 3, WorkerID: 1, CompletedTiles: 1, TotalTiles: 4, Duration: 1500 * time.Millisecond})
	sink.Progress(ProgressUpdate{TotalTiles: 4, CompletedTiles: 1, ETA: 90 * time.Second})

	if len(recorder.Events()) != 1 || recorder.Last().CompletedTiles != 1 {
		t.Errorf("Recorder did not receive progress: %+v", recorder.Last())
	}
	if len(logger.lines) != 2 {
		t.Fatalf("Expected 2 log lines, got %d", len(logger.lines))
	}
	if !strings.Contains(logger.lines[0], "Tile 3") {
		t.Errorf("Unexpected tile log %q", logger.lines[0])
	}
	if !strings.Contains(logger.lines[1], "25.0%") || !strings.Contains(logger.lines[1], "1m 30s") {
		t.Errorf("Unexpected progress log %q", logger.lines[1])
	}
}
