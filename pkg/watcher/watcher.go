// Package watcher triggers re-renders when input files change.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/df07/go-tile-raytracer/pkg/core"
)

// DefaultDebounce collapses the burst of events an editor produces on save
const DefaultDebounce = 200 * time.Millisecond

// FileWatcher watches files for changes and reports them once per burst.
//
// Parent directories are watched rather than the files themselves so that
// editors that save by renaming a temporary file are still noticed.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	logger   core.Logger
	debounce time.Duration

	mu      sync.Mutex
	files   map[string]bool // Absolute paths of watched files
	dirs    map[string]bool
	timer   *time.Timer
	gen     uint64 // Bumped whenever the timer is re-armed or stopped
	pending string // Last changed file of the current burst

	callMu sync.Mutex // Serialises onChange
}

// NewFileWatcher creates a new file watcher
func NewFileWatcher(debounce time.Duration, logger core.Logger) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = core.NopLogger()
	}

	return &FileWatcher{
		watcher:  watcher,
		logger:   logger,
		debounce: debounce,
		files:    make(map[string]bool),
		dirs:     make(map[string]bool),
	}, nil
}

// Watch adds files to the watch list. Empty names are skipped.
func (fw *FileWatcher) Watch(files ...string) error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	for _, file := range files {
		if file == "" {
			continue
		}
		absPath, err := filepath.Abs(file)
		if err != nil {
			return fmt.Errorf("failed to resolve path %s: %w", file, err)
		}

		dir := filepath.Dir(absPath)
		if !fw.dirs[dir] {
			if err := fw.watcher.Add(dir); err != nil {
				return fmt.Errorf("failed to watch %s: %w", dir, err)
			}
			fw.dirs[dir] = true
		}
		fw.files[absPath] = true
	}
	return nil
}

// Files returns the watched file paths, sorted
func (fw *FileWatcher) Files() []string {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	files := make([]string, 0, len(fw.files))
	for f := range fw.files {
		files = append(files, f)
	}
	sort.Strings(files)
	return files
}

// Run delivers debounced changes to onChange until ctx is cancelled or the
// watcher is closed. onChange runs on a timer goroutine, one call at a time.
func (fw *FileWatcher) Run(ctx context.Context, onChange func(path string)) error {
	for {
		select {
		case <-ctx.Done():
			fw.stopTimer()
			return ctx.Err()

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return nil
			}
			// Only trigger on write, create or rename-into-place
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				fw.handleFileChange(event.Name, onChange)
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return nil
			}
			fw.logger.Printf("Watcher error: %v\n", err)
		}
	}
}

// handleFileChange restarts the debounce timer for a watched file
func (fw *FileWatcher) handleFileChange(path string, onChange func(path string)) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return
	}

	fw.mu.Lock()
	defer fw.mu.Unlock()

	if !fw.files[absPath] {
		return
	}
	fw.pending = absPath

	if fw.timer != nil {
		fw.timer.Stop()
	}
	fw.gen++
	gen := fw.gen
	fw.timer = time.AfterFunc(fw.debounce, func() { fw.fire(gen, onChange) })
}

// fire delivers the pending change if the timer armed as gen is still
// current. A timer that was superseded while it waited for the lock does
// nothing; the newer timer reports the burst.
func (fw *FileWatcher) fire(gen uint64, onChange func(path string)) {
	fw.mu.Lock()
	if gen != fw.gen {
		fw.mu.Unlock()
		return
	}
	changed := fw.pending
	fw.timer = nil
	fw.mu.Unlock()

	fw.callMu.Lock()
	defer fw.callMu.Unlock()
	fw.logger.Printf("Detected change in %s\n", changed)
	onChange(changed)
}

func (fw *FileWatcher) stopTimer() {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	if fw.timer != nil {
		fw.timer.Stop()
		fw.timer = nil
	}
	fw.gen++
}

// Close stops the watcher
func (fw *FileWatcher) Close() error {
	fw.stopTimer()
	return fw.watcher.Close()
}
