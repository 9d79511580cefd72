package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

type changeRecorder struct {
	mu      sync.Mutex
	changes []string
}

func (r *changeRecorder) record(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, path)
}

func (r *changeRecorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.changes...)
}

func newTestWatcher(t *testing.T, debounce time.Duration, files ...string) *FileWatcher {
	t.Helper()
	fw, err := NewFileWatcher(debounce, nil)
	if err != nil {
		t.Fatalf("NewFileWatcher failed: %v", err)
	}
	t.Cleanup(func() { fw.Close() })
	if err := fw.Watch(files...); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	return fw
}

func TestHandleFileChange_DebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	config := filepath.Join(dir, "render.toml")
	mesh := filepath.Join(dir, "bunny.ply")
	fw := newTestWatcher(t, 30*time.Millisecond, config, mesh)

	recorder := &changeRecorder{}
	for i := 0; i < 5; i++ {
		fw.handleFileChange(config, recorder.record)
	}
	fw.handleFileChange(mesh, recorder.record)

	time.Sleep(150 * time.Millisecond)
	changes := recorder.snapshot()
	if len(changes) != 1 {
		t.Fatalf("Expected one debounced change, got %v", changes)
	}
	if changes[0] != mesh {
		t.Errorf("Expected last changed file %s, got %s", mesh, changes[0])
	}
}

func TestFire_SupersededTimerDoesNothing(t *testing.T) {
	config := filepath.Join(t.TempDir(), "render.toml")
	fw := newTestWatcher(t, time.Hour, config)
	recorder := &changeRecorder{}

	fw.handleFileChange(config, recorder.record)
	stale := fw.gen
	fw.handleFileChange(config, recorder.record)

	// The first timer fired just before being re-armed
	fw.fire(stale, recorder.record)
	if changes := recorder.snapshot(); len(changes) != 0 {
		t.Fatalf("Superseded timer reported %v", changes)
	}
	fw.mu.Lock()
	armed := fw.timer != nil
	fw.mu.Unlock()
	if !armed {
		t.Fatal("Superseded timer cleared the current timer")
	}

	fw.fire(fw.gen, recorder.record)
	if changes := recorder.snapshot(); len(changes) != 1 || changes[0] != config {
		t.Errorf("Expected one change for %s, got %v", config, changes)
	}
}

func TestFire_AfterStopDoesNothing(t *testing.T) {
	config := filepath.Join(t.TempDir(), "render.toml")
	fw := newTestWatcher(t, time.Hour, config)
	recorder := &changeRecorder{}

	fw.handleFileChange(config, recorder.record)
	gen := fw.gen
	fw.stopTimer()
	fw.fire(gen, recorder.record)

	if changes := recorder.snapshot(); len(changes) != 0 {
		t.Errorf("Stopped timer reported %v", changes)
	}
}

func TestHandleFileChange_IgnoresUnwatchedFiles(t *testing.T) {
	dir := t.TempDir()
	fw := newTestWatcher(t, 10*time.Millisecond, filepath.Join(dir, "render.toml"))

	recorder := &changeRecorder{}
	fw.handleFileChange(filepath.Join(dir, "other.toml"), recorder.record)

	time.Sleep(50 * time.Millisecond)
	if changes := recorder.snapshot(); len(changes) != 0 {
		t.Errorf("Expected no changes, got %v", changes)
	}
}

func TestWatch_SkipsEmptyAndSharesDirectories(t *testing.T) {
	dir := t.TempDir()
	fw := newTestWatcher(t, 0, filepath.Join(dir, "a.toml"), "", filepath.Join(dir, "b.ply"))

	if len(fw.Files()) != 2 {
		t.Errorf("Expected 2 watched files, got %v", fw.Files())
	}
	if len(fw.dirs) != 1 {
		t.Errorf("Expected one watched directory, got %d", len(fw.dirs))
	}
	if fw.debounce != DefaultDebounce {
		t.Errorf("Expected default debounce, got %v", fw.debounce)
	}
}

func TestRun_DetectsWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "render.toml")
	if err := os.WriteFile(path, []byte("width = 1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	fw := newTestWatcher(t, 20*time.Millisecond, path)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan string, 4)
	go fw.Run(ctx, func(p string) { changed <- p })

	// Give the watcher a moment to start reading events
	time.Sleep(20 * time.Millisecond)
	if err := os.WriteFile(path, []byte("width = 2\n"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case p := <-changed:
		if p != path {
			t.Errorf("Expected %s, got %s", path, p)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("No change reported")
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	fw := newTestWatcher(t, 0, filepath.Join(t.TempDir(), "x.toml"))
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error)
	go func() { done <- fw.Run(ctx, func(string) {}) }()
	cancel()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("Expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
