package renderer

import (
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/df07/go-tile-raytracer/pkg/core"
)

// TileEvent reports a completed tile
type TileEvent struct {
	Index    int             // Tile generation index
	Bounds   image.Rectangle // Pixel bounds of the tile
	WorkerID int             // Worker that rendered it
	Samples  int             // Samples accumulated
	Duration time.Duration   // Claim to completion

	// Progress information
	CompletedTiles int
	TotalTiles     int
}

// ProgressUpdate is a snapshot of overall render progress
type ProgressUpdate struct {
	TotalTiles      int
	CompletedTiles  int
	ActiveTiles     int
	AverageTileTime time.Duration // Moving average over recent tiles
	TimeSamples     int           // Tile durations recorded so far
	ETA             time.Duration // Zero until the first tile completes
	Elapsed         time.Duration
	Paused          bool
	Aborted         bool
}

// Percent returns the completed fraction as a percentage
func (p ProgressUpdate) Percent() float64 {
	if p.TotalTiles == 0 {
		return 100
	}
	return 100 * float64(p.CompletedTiles) / float64(p.TotalTiles)
}

// ProgressSink receives render progress. RunRenderPass calls it from a
// single goroutine, so implementations need no locking of their own.
type ProgressSink interface {
	TileCompleted(event TileEvent)
	Progress(update ProgressUpdate)
}

// NopSink ignores all progress
type NopSink struct{}

func (NopSink) TileCompleted(TileEvent) {}
func (NopSink) Progress(ProgressUpdate) {}

// LogSink writes one line per completed tile to a logger
type LogSink struct {
	Logger core.Logger
}

// TileCompleted logs the tile and the current ETA
func (s LogSink) TileCompleted(event TileEvent) {
	s.Logger.Printf("Tile %d done in %v (worker %d, %d/%d)\n",
		event.Index, event.Duration.Round(time.Millisecond), event.WorkerID, event.CompletedTiles, event.TotalTiles)
}

// Progress logs the progress percentage and ETA
func (s LogSink) Progress(update ProgressUpdate) {
	s.Logger.Printf("Progress %.1f%%, ETA %s\n", update.Percent(), FormatDuration(update.ETA))
}

// MultiSink fans progress out to several sinks
type MultiSink []ProgressSink

func (m MultiSink) TileCompleted(event TileEvent) {
	for _, s := range m {
		s.TileCompleted(event)
	}
}

func (m MultiSink) Progress(update ProgressUpdate) {
	for _, s := range m {
		s.Progress(update)
	}
}

// ProgressRecorder keeps the latest progress and every tile event.
// It is safe to read from other goroutines while a pass is running.
type ProgressRecorder struct {
	mu     sync.Mutex
	events []TileEvent
	last   ProgressUpdate
}

func (r *ProgressRecorder) TileCompleted(event TileEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *ProgressRecorder) Progress(update ProgressUpdate) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.last = update
}

// Events returns a copy of the recorded tile events
func (r *ProgressRecorder) Events() []TileEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]TileEvent(nil), r.events...)
}

// Last returns the most recent progress update
func (r *ProgressRecorder) Last() ProgressUpdate {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

// FormatDuration renders a duration as "1h 2m 3s", dropping leading zero units
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d / time.Hour)
	m := int(d % time.Hour / time.Minute)
	sec := int(d % time.Minute / time.Second)

	switch {
	case h > 0:
		return fmt.Sprintf("%dh %dm %ds", h, m, sec)
	case m > 0:
		return fmt.Sprintf("%dm %ds", m, sec)
	default:
		return fmt.Sprintf("%ds", sec)
	}
}
