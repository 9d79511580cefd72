package renderer

import (
	"sync"
	"time"

	"github.com/df07/go-tile-raytracer/pkg/core"
)

// DefaultETAWindow is the number of recent tile durations averaged for ETA
const DefaultETAWindow = 16

// StateOptions configures a RenderState
type StateOptions struct {
	SamplesPerTile int              // Samples accumulated before a tile completes
	ETAWindow      int              // Completed tiles in the moving average (0 = DefaultETAWindow)
	Clock          func() time.Time // Time source, time.Now when nil
}

// WorkerInfo describes one worker of the current pass
type WorkerInfo struct {
	ID            int  `json:"id"`
	TilesRendered int  `json:"tilesRendered"`
	Complete      bool `json:"complete"` // Worker loop has returned
}

// RenderState owns the shared state of one render: the ordered tile list,
// progress counters, worker descriptors and the pause/abort flags.
// All methods are safe for concurrent use.
type RenderState struct {
	mu   sync.Mutex
	cond *sync.Cond // Signalled on resume and abort

	tiles          []*RenderTile
	next           int // First tile index in the order that may still be pending
	completed      int
	active         int
	samplesPerTile int

	workers []WorkerInfo
	paused  bool
	aborted bool

	durations       []time.Duration // Ring buffer of recent tile durations
	durationsNext   int
	avgTileTime     time.Duration
	timeSampleCount int

	now     func() time.Time
	started time.Time
}

// NewRenderState prepares the state for rendering tiles in the given order.
// The order is fixed from here on.
func NewRenderState(tiles []*RenderTile, opts StateOptions) *RenderState {
	core.Assert(opts.SamplesPerTile > 0, "samples per tile must be positive, got %d", opts.SamplesPerTile)
	if opts.ETAWindow <= 0 {
		opts.ETAWindow = DefaultETAWindow
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	s := &RenderState{
		tiles:          tiles,
		samplesPerTile: opts.SamplesPerTile,
		durations:      make([]time.Duration, 0, opts.ETAWindow),
		now:            opts.Clock,
	}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// SamplesPerTile returns the number of samples that completes a tile
func (s *RenderState) SamplesPerTile() int {
	return s.samplesPerTile
}

// TileCount returns the total number of tiles
func (s *RenderState) TileCount() int {
	return len(s.tiles)
}

// begin records the start time and registers n worker descriptors
func (s *RenderState) begin(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.started = s.now()
	s.workers = make([]WorkerInfo, n)
	for i := range s.workers {
		s.workers[i].ID = i
	}
}

// ClaimNextTile moves the next pending tile in order to in-progress and
// returns it. It returns false when every tile has been claimed or the
// render was aborted; the worker should then return.
func (s *RenderState) ClaimNextTile() (*RenderTile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.aborted {
		return nil, false
	}
	for s.next < len(s.tiles) {
		tile := s.tiles[s.next]
		s.next++
		if tile.State != TilePending {
			continue
		}
		tile.State = TileInProgress
		tile.Start = s.now()
		s.active++
		return tile, true
	}
	return nil, false
}

// AddSample records one more accumulated sample on a claimed tile and
// returns the new count
func (s *RenderState) AddSample(tile *RenderTile) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	core.Assert(tile.State == TileInProgress, "adding sample to tile %d in state %v", tile.Index, tile.State)
	tile.CompletedSamples++
	return tile.CompletedSamples
}

// CompleteTile marks a claimed tile as completed, folds its duration into
// the moving average and returns the completion event.
func (s *RenderState) CompleteTile(workerID int, tile *RenderTile) TileEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	core.Assert(tile.State == TileInProgress, "completing tile %d in state %v", tile.Index, tile.State)
	tile.Stop = s.now()
	tile.State = TileCompleted
	s.active--
	s.completed++

	duration := tile.Stop.Sub(tile.Start)
	s.recordDuration(duration)
	if workerID >= 0 && workerID < len(s.workers) {
		s.workers[workerID].TilesRendered++
	}

	return TileEvent{
		Index:          tile.Index,
		Bounds:         tile.Bounds(),
		WorkerID:       workerID,
		Samples:        tile.CompletedSamples,
		Duration:       duration,
		CompletedTiles: s.completed,
		TotalTiles:     len(s.tiles),
	}
}

// recordDuration updates the moving average. Caller holds mu.
func (s *RenderState) recordDuration(d time.Duration) {
	if len(s.durations) < cap(s.durations) {
		s.durations = append(s.durations, d)
	} else {
		s.durations[s.durationsNext] = d
		s.durationsNext = (s.durationsNext + 1) % len(s.durations)
	}
	s.timeSampleCount++

	var total time.Duration
	for _, v := range s.durations {
		total += v
	}
	s.avgTileTime = total / time.Duration(len(s.durations))
}

// workerDone marks a worker descriptor as finished
func (s *RenderState) workerDone(workerID int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if workerID >= 0 && workerID < len(s.workers) {
		s.workers[workerID].Complete = true
	}
}

// Pause asks workers to block at their next checkpoint
func (s *RenderState) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused = true
}

// Resume releases paused workers
func (s *RenderState) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused = false
	s.cond.Broadcast()
}

// TogglePause flips the pause flag and returns the new value
func (s *RenderState) TogglePause() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused = !s.paused
	if !s.paused {
		s.cond.Broadcast()
	}
	return s.paused
}

// Abort stops the render: workers return at their next checkpoint and no
// further tiles are claimed. Paused workers are woken so they can exit.
func (s *RenderState) Abort() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.aborted = true
	s.cond.Broadcast()
}

// IsPaused reports whether the pause flag is set
func (s *RenderState) IsPaused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}

// IsAborted reports whether the render was aborted
func (s *RenderState) IsAborted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.aborted
}

// Checkpoint is called by workers between samples. It blocks while the
// render is paused and returns false once it has been aborted.
func (s *RenderState) Checkpoint() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for s.paused && !s.aborted {
		s.cond.Wait()
	}
	return !s.aborted
}

// Done reports whether every tile has completed
func (s *RenderState) Done() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completed == len(s.tiles)
}

// Progress returns a snapshot of the render progress
func (s *RenderState) Progress() ProgressUpdate {
	s.mu.Lock()
	defer s.mu.Unlock()

	update := ProgressUpdate{
		TotalTiles:      len(s.tiles),
		CompletedTiles:  s.completed,
		ActiveTiles:     s.active,
		AverageTileTime: s.avgTileTime,
		TimeSamples:     s.timeSampleCount,
		Paused:          s.paused,
		Aborted:         s.aborted,
	}
	if !s.started.IsZero() {
		update.Elapsed = s.now().Sub(s.started)
	}

	workers := max(1, len(s.workers))
	remaining := len(s.tiles) - s.completed
	if s.timeSampleCount > 0 && remaining > 0 {
		update.ETA = s.avgTileTime * time.Duration(remaining) / time.Duration(workers)
	}
	return update
}

// Workers returns a copy of the worker descriptors
func (s *RenderState) Workers() []WorkerInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]WorkerInfo(nil), s.workers...)
}

// TileSnapshot returns copies of all tiles in traversal order
func (s *RenderState) TileSnapshot() []RenderTile {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := make([]RenderTile, len(s.tiles))
	for i, t := range s.tiles {
		snapshot[i] = *t
		snapshot[i].Random = nil
	}
	return snapshot
}
