package renderer

import (
	"context"
	"errors"
	"time"

	"github.com/df07/go-tile-raytracer/pkg/core"
)

// ErrRenderAborted is returned when a pass stops before every tile completed
var ErrRenderAborted = errors.New("render aborted")

// TileSampler accumulates one sample into every pixel of a claimed tile.
// Tiles never overlap, so concurrent calls for different tiles write
// disjoint regions.
type TileSampler interface {
	SampleTile(tile *RenderTile, sample int)
}

// TileSamplerFunc adapts a function to TileSampler
type TileSamplerFunc func(tile *RenderTile, sample int)

// SampleTile calls f
func (f TileSamplerFunc) SampleTile(tile *RenderTile, sample int) {
	f(tile, sample)
}

// PassOptions configures RunRenderPass
type PassOptions struct {
	NumWorkers int          // Number of parallel workers (0 = use CPU count)
	Sink       ProgressSink // Receives tile completions, may be nil
	Spawner    Spawner      // Worker scheduling, GoroutineSpawner when nil
	Logger     core.Logger  // Logger for rendering output, may be nil
}

// PassResult summarises a finished or aborted pass
type PassResult struct {
	Completed      bool // Every tile reached TileCompleted
	TilesCompleted int
	TotalTiles     int
	Duration       time.Duration
	Progress       ProgressUpdate // Final snapshot
}

// RunRenderPass renders every tile of state with a fixed pool of workers
// and blocks until all tiles are complete or the render is aborted.
//
// Each worker claims tiles in order, accumulates the configured number of
// samples into each and reports completion. Workers check for pause and
// abort between samples. Cancelling ctx aborts the render. An aborted
// pass returns ErrRenderAborted together with its partial result.
func RunRenderPass(ctx context.Context, state *RenderState, sampler TileSampler, opts PassOptions) (PassResult, error) {
	numWorkers := resolveWorkerCount(opts.NumWorkers)
	sink := opts.Sink
	if sink == nil {
		sink = NopSink{}
	}
	spawner := opts.Spawner
	if spawner == nil {
		spawner = GoroutineSpawner{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = core.NopLogger()
	}

	stop := context.AfterFunc(ctx, state.Abort)
	defer stop()
	if ctx.Err() != nil {
		// AfterFunc fires asynchronously; no tile may start after cancel
		state.Abort()
	}

	startTime := time.Now()
	state.begin(numWorkers)
	logger.Printf("Rendering %d tiles with %d workers, %d samples per tile\n",
		state.TileCount(), numWorkers, state.SamplesPerTile())

	// Completion events are funnelled to this goroutine so the sink is
	// only ever called from one place
	events := make(chan TileEvent, state.TileCount())
	group := spawner.Spawn(numWorkers, func(workerID int) {
		defer state.workerDone(workerID)
		renderWorker(workerID, state, sampler, events)
	})

	go func() {
		group.Wait()
		close(events)
	}()

	for event := range events {
		sink.TileCompleted(event)
		sink.Progress(state.Progress())
	}

	progress := state.Progress()
	result := PassResult{
		Completed:      progress.CompletedTiles == progress.TotalTiles,
		TilesCompleted: progress.CompletedTiles,
		TotalTiles:     progress.TotalTiles,
		Duration:       time.Since(startTime),
		Progress:       progress,
	}

	if !result.Completed {
		logger.Printf("Render aborted after %d of %d tiles\n", result.TilesCompleted, result.TotalTiles)
		return result, ErrRenderAborted
	}
	logger.Printf("Render completed in %v\n", result.Duration)
	return result, nil
}

// renderWorker is the claim-render-report loop of one worker
func renderWorker(workerID int, state *RenderState, sampler TileSampler, events chan<- TileEvent) {
	samplesPerTile := state.SamplesPerTile()

	for state.Checkpoint() {
		tile, ok := state.ClaimNextTile()
		if !ok {
			return
		}

		for sample := 0; sample < samplesPerTile; sample++ {
			if !state.Checkpoint() {
				// Partial tile stays in progress and is discarded
				return
			}
			sampler.SampleTile(tile, sample)
			state.AddSample(tile)
		}

		events <- state.CompleteTile(workerID, tile)
	}
}
