// Package server exposes a running render over HTTP: status, pause/resume/
// abort controls, a live preview image and a server-sent event stream.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image/png"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/df07/go-tile-raytracer/pkg/core"
	"github.com/df07/go-tile-raytracer/pkg/preview"
	"github.com/df07/go-tile-raytracer/pkg/renderer"
)

// Session is the render the server currently controls
type Session struct {
	Name   string
	State  *renderer.RenderState
	Buffer *renderer.SampleBuffer
	World  core.Primitive   // Used by /api/inspect, may be nil
	Camera *renderer.Camera // Used by /api/inspect, may be nil
}

// Server handles web requests for a tile render
type Server struct {
	logger core.Logger
	hub    *eventHub

	mu      sync.RWMutex
	session *Session
}

// NewServer creates a server with no active session
func NewServer(logger core.Logger) *Server {
	if logger == nil {
		logger = core.NopLogger()
	}
	return &Server{
		logger: logger,
		hub:    newEventHub(),
	}
}

// SetSession makes s the render controlled by the server. It is called
// again for every re-render.
func (s *Server) SetSession(session *Session) {
	s.mu.Lock()
	s.session = session
	s.mu.Unlock()

	if session != nil {
		s.hub.publish("session", map[string]interface{}{
			"name":       session.Name,
			"totalTiles": session.State.TileCount(),
		})
	}
}

func (s *Server) currentSession() *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

// Handler returns the routes of the control surface
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("POST /api/pause", s.handlePause)
	mux.HandleFunc("POST /api/resume", s.handleResume)
	mux.HandleFunc("POST /api/abort", s.handleAbort)
	mux.HandleFunc("GET /api/preview.png", s.handlePreview)
	mux.HandleFunc("GET /api/inspect", s.handleInspect)
	mux.HandleFunc("GET /api/events", s.handleEvents)
	return mux
}

// ListenAndServe serves on addr until ctx is cancelled
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Printf("Starting control server on http://%s\n", addr)
		errChan <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		s.hub.close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return nil
	}
}

// StatusResponse is the JSON body of /api/status
type StatusResponse struct {
	Scene          string                `json:"scene"`
	TotalTiles     int                   `json:"totalTiles"`
	CompletedTiles int                   `json:"completedTiles"`
	ActiveTiles    int                   `json:"activeTiles"`
	Percent        float64               `json:"percent"`
	AverageTileMs  int64                 `json:"averageTileMs"`
	ETAMs          int64                 `json:"etaMs"`
	ETA            string                `json:"eta"`
	ElapsedMs      int64                 `json:"elapsedMs"`
	Paused         bool                  `json:"paused"`
	Aborted        bool                  `json:"aborted"`
	Workers        []renderer.WorkerInfo `json:"workers"`
}

func newStatusResponse(session *Session) StatusResponse {
	progress := session.State.Progress()
	return StatusResponse{
		Scene:          session.Name,
		TotalTiles:     progress.TotalTiles,
		CompletedTiles: progress.CompletedTiles,
		ActiveTiles:    progress.ActiveTiles,
		Percent:        progress.Percent(),
		AverageTileMs:  progress.AverageTileTime.Milliseconds(),
		ETAMs:          progress.ETA.Milliseconds(),
		ETA:            renderer.FormatDuration(progress.ETA),
		ElapsedMs:      progress.Elapsed.Milliseconds(),
		Paused:         progress.Paused,
		Aborted:        progress.Aborted,
		Workers:        session.State.Workers(),
	}
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	session := s.requireSession(w)
	if session == nil {
		return
	}
	writeJSON(w, http.StatusOK, newStatusResponse(session))
}

func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	s.control(w, "pause", (*renderer.RenderState).Pause)
}

func (s *Server) handleResume(w http.ResponseWriter, r *http.Request) {
	s.control(w, "resume", (*renderer.RenderState).Resume)
}

func (s *Server) handleAbort(w http.ResponseWriter, r *http.Request) {
	s.control(w, "abort", (*renderer.RenderState).Abort)
}

// control applies a state change and answers with the new status
func (s *Server) control(w http.ResponseWriter, name string, apply func(*renderer.RenderState)) {
	session := s.requireSession(w)
	if session == nil {
		return
	}
	apply(session.State)
	s.logger.Printf("Render %s requested over HTTP\n", name)

	status := newStatusResponse(session)
	s.hub.publish("status", status)
	writeJSON(w, http.StatusOK, status)
}

// handlePreview encodes the current buffer as PNG. Query parameters:
// scale (0.05-1) shrinks the image, size (16-4096) caps its longer side,
// overlay=false omits tile frames and the status line.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	session := s.requireSession(w)
	if session == nil {
		return
	}

	scale, err := parseFloatParam(r.URL.Query(), "scale", 1, 0.05, 1)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	size, err := parseIntParam(r.URL.Query(), "size", 0, 16, 4096)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	img := session.Buffer.Image()
	if r.URL.Query().Get("overlay") != "false" {
		img = preview.Overlay(img, session.State.TileSnapshot(), session.State.Progress())
	}
	if scale < 1 {
		img = preview.Scale(img, scale)
	}
	if size > 0 {
		img = preview.Thumbnail(img, size)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to encode preview: %v", err))
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(buf.Bytes())
}

// requireSession writes 503 when no render is active
func (s *Server) requireSession(w http.ResponseWriter) *Session {
	session := s.currentSession()
	if session == nil {
		writeError(w, http.StatusServiceUnavailable, "no active render")
	}
	return session
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseFloatParam parses a float parameter from URL query with validation
func parseFloatParam(values url.Values, key string, defaultValue, min, max float64) (float64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %g and %g, got: %g", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}
