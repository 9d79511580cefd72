package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/df07/go-tile-raytracer/pkg/renderer"
)

// SSEEvent is one server-sent event
type SSEEvent struct {
	Type string `json:"type"` // "session", "tile", "progress", "status", "console"
	Data string `json:"data"` // JSON-encoded data
}

// TileUpdate is the payload of a "tile" event
type TileUpdate struct {
	Index          int   `json:"index"`
	X              int   `json:"x"`
	Y              int   `json:"y"`
	Width          int   `json:"width"`
	Height         int   `json:"height"`
	WorkerID       int   `json:"workerId"`
	Samples        int   `json:"samples"`
	DurationMs     int64 `json:"durationMs"`
	CompletedTiles int   `json:"completedTiles"`
	TotalTiles     int   `json:"totalTiles"`
}

// ProgressEvent is the payload of a "progress" event
type ProgressEvent struct {
	CompletedTiles int     `json:"completedTiles"`
	TotalTiles     int     `json:"totalTiles"`
	Percent        float64 `json:"percent"`
	ETAMs          int64   `json:"etaMs"`
	Paused         bool    `json:"paused"`
	Aborted        bool    `json:"aborted"`
}

// subscriberBuffer is how many events a slow client may lag behind before
// events are dropped for it
const subscriberBuffer = 256

// eventHub fans events out to SSE subscribers without ever blocking the
// publisher
type eventHub struct {
	mu          sync.Mutex
	subscribers map[chan SSEEvent]struct{}
	closed      bool
}

func newEventHub() *eventHub {
	return &eventHub{subscribers: make(map[chan SSEEvent]struct{})}
}

// subscribe registers a new subscriber. The channel is closed when the hub
// shuts down.
func (h *eventHub) subscribe() chan SSEEvent {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan SSEEvent, subscriberBuffer)
	if h.closed {
		close(ch)
		return ch
	}
	h.subscribers[ch] = struct{}{}
	return ch
}

func (h *eventHub) unsubscribe(ch chan SSEEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subscribers[ch]; ok {
		delete(h.subscribers, ch)
		close(ch)
	}
}

// publish encodes data and offers it to every subscriber
func (h *eventHub) publish(eventType string, data interface{}) {
	encoded, err := json.Marshal(data)
	if err != nil {
		return
	}
	event := SSEEvent{Type: eventType, Data: string(encoded)}

	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subscribers {
		select {
		case ch <- event:
		default:
			// Subscriber full, skip (don't block)
		}
	}
}

func (h *eventHub) close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for ch := range h.subscribers {
		delete(h.subscribers, ch)
		close(ch)
	}
}

// TileCompleted publishes a tile event; Server is a renderer.ProgressSink
func (s *Server) TileCompleted(event renderer.TileEvent) {
	s.hub.publish("tile", TileUpdate{
		Index:          event.Index,
		X:              event.Bounds.Min.X,
		Y:              event.Bounds.Min.Y,
		Width:          event.Bounds.Dx(),
		Height:         event.Bounds.Dy(),
		WorkerID:       event.WorkerID,
		Samples:        event.Samples,
		DurationMs:     event.Duration.Milliseconds(),
		CompletedTiles: event.CompletedTiles,
		TotalTiles:     event.TotalTiles,
	})
}

// Progress publishes a progress event
func (s *Server) Progress(update renderer.ProgressUpdate) {
	s.hub.publish("progress", ProgressEvent{
		CompletedTiles: update.CompletedTiles,
		TotalTiles:     update.TotalTiles,
		Percent:        update.Percent(),
		ETAMs:          update.ETA.Milliseconds(),
		Paused:         update.Paused,
		Aborted:        update.Aborted,
	})
}

// setSSEHeaders sets the required headers for Server-Sent Events
func setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// handleEvents streams hub events to the client until it disconnects.
// This goroutine is the only writer of the response.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	events := s.hub.subscribe()
	defer s.hub.unsubscribe(events)

	setSSEHeaders(w)
	w.WriteHeader(http.StatusOK)

	if session := s.currentSession(); session != nil {
		if data, err := json.Marshal(newStatusResponse(session)); err == nil {
			fmt.Fprintf(w, "event: status\ndata: %s\n\n", data)
		}
	}
	flusher.Flush()

	ctx := r.Context()
	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data); err != nil {
				// Client disconnected during write
				return
			}
			flusher.Flush()
		case <-ctx.Done():
			return
		}
	}
}
