package renderer

import (
	"runtime"
	"sync"
)

// WorkerGroup is a handle on a set of spawned workers
type WorkerGroup interface {
	// Wait blocks until every worker has returned
	Wait()
}

// Spawner starts n workers running fn with their worker IDs 0..n-1.
// It is the only place that knows how workers are scheduled.
type Spawner interface {
	Spawn(n int, fn func(workerID int)) WorkerGroup
}

// GoroutineSpawner runs each worker on its own goroutine
type GoroutineSpawner struct{}

// Spawn starts n goroutines and returns a WaitGroup-backed handle
func (GoroutineSpawner) Spawn(n int, fn func(workerID int)) WorkerGroup {
	wg := &sync.WaitGroup{}
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			fn(id)
		}(i)
	}
	return wg
}

// resolveWorkerCount maps a non-positive count to the number of CPUs
func resolveWorkerCount(numWorkers int) int {
	if numWorkers <= 0 {
		return runtime.NumCPU()
	}
	return numWorkers
}
