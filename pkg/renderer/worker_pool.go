package renderer

import (
	"errors"
	"runtime"
	"sync"
)

// ErrPoolStopped is returned when rendering on a stopped pool
var ErrPoolStopped = errors.New("worker pool stopped")

// TileTask represents a tile rendering task for the worker pool
type TileTask struct {
	Tile   *Tile
	TaskID int // Index into the frame's tile list
	Job    *FrameJob
}

// TileResult contains the result from rendering a tile
type TileResult struct {
	TaskID int
	Stats  RenderStats
}

// WorkerPool manages parallel tile rendering with persistent workers
type WorkerPool struct {
	taskQueue   chan TileTask
	resultQueue chan TileResult
	numWorkers  int
	wg          sync.WaitGroup
	startOnce   sync.Once
	stopOnce    sync.Once
	renderMu    sync.Mutex // One frame in flight at a time
	stopped     bool
}

// NewWorkerPool creates a worker pool with the specified number of workers
func NewWorkerPool(numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	return &WorkerPool{
		taskQueue:   make(chan TileTask, numWorkers*2),
		resultQueue: make(chan TileResult, numWorkers*2),
		numWorkers:  numWorkers,
	}
}

// Start begins all workers. Calling Start more than once has no effect.
func (wp *WorkerPool) Start() {
	wp.startOnce.Do(func() {
		for i := 0; i < wp.numWorkers; i++ {
			wp.wg.Add(1)
			go wp.run()
		}
	})
}

// Stop gracefully shuts down all workers
func (wp *WorkerPool) Stop() {
	wp.stopOnce.Do(func() {
		wp.renderMu.Lock()
		defer wp.renderMu.Unlock()
		wp.stopped = true
		close(wp.taskQueue) // No more tasks
		wp.wg.Wait()        // Wait for workers to finish
		close(wp.resultQueue)
	})
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// RenderTiles renders every tile of job and returns the merged statistics.
// Tasks are fed from a separate goroutine so that bounded queues never
// deadlock against result collection.
func (wp *WorkerPool) RenderTiles(job *FrameJob, tiles []*Tile) (RenderStats, error) {
	wp.renderMu.Lock()
	defer wp.renderMu.Unlock()
	if wp.stopped {
		return RenderStats{}, ErrPoolStopped
	}
	wp.Start()

	go func() {
		for i, tile := range tiles {
			wp.taskQueue <- TileTask{Tile: tile, TaskID: i, Job: job}
		}
	}()

	var stats RenderStats
	for range tiles {
		result := <-wp.resultQueue
		stats.Merge(result.Stats)
	}
	return stats, nil
}

// run is the main worker loop
func (wp *WorkerPool) run() {
	defer wp.wg.Done()
	tr := NewTileRenderer()

	for task := range wp.taskQueue {
		// Tiles have non-overlapping bounds, so writing the shared image is safe
		stats := tr.RenderTileBounds(task.Tile.Bounds, task.Job)
		wp.resultQueue <- TileResult{TaskID: task.TaskID, Stats: stats}
	}
}
