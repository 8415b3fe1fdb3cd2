package detect

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tgsn-co/XPlore/pkg/logger"
)

// Job represents a single text whose language should be identified
type Job struct {
	// Index is the position of the text in the caller's input
	Index int
	Text  string
}

// Result represents the outcome of a detection job
type Result struct {
	Job      Job
	Language string
	Duration time.Duration
}

// Detector identifies the language of a text and returns the label to
// record for it
type Detector interface {
	Detect(text string) string
}

// WorkerPool fans language detection out over concurrent workers. Detection
// is pure CPU work on local data, so unlike API collection it can run wide.
type WorkerPool struct {
	numWorkers  int
	jobQueue    chan Job
	resultQueue chan Result
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
	detector    Detector
	logger      logger.Logger
}

// NewWorkerPool creates a new detection worker pool
func NewWorkerPool(numWorkers int, detector Detector, log logger.Logger) *WorkerPool {
	ctx, cancel := context.WithCancel(context.Background())

	if log == nil {
		log = logger.GetLogger()
	}
	if numWorkers < 1 {
		numWorkers = 1
	}

	return &WorkerPool{
		numWorkers:  numWorkers,
		jobQueue:    make(chan Job, numWorkers*2),
		resultQueue: make(chan Result, numWorkers),
		ctx:         ctx,
		cancel:      cancel,
		detector:    detector,
		logger:      log,
	}
}

// Start initializes and starts all workers
func (wp *WorkerPool) Start() {
	wp.logger.DebugWithFields("Starting detection pool", map[string]interface{}{
		"num_workers": wp.numWorkers,
	})

	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

// Stop gracefully shuts down the worker pool. Submitted jobs are drained
// before the result channel closes.
func (wp *WorkerPool) Stop() {
	close(wp.jobQueue)
	wp.wg.Wait()
	close(wp.resultQueue)
	wp.cancel()

	wp.logger.Debug("Detection pool stopped")
}

// Submit adds a new detection job to the queue
func (wp *WorkerPool) Submit(job Job) error {
	select {
	case wp.jobQueue <- job:
		return nil
	case <-wp.ctx.Done():
		return fmt.Errorf("worker pool is shutting down")
	}
}

// Results returns the channel detection results arrive on
func (wp *WorkerPool) Results() <-chan Result {
	return wp.resultQueue
}

// worker is the main worker routine
func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for job := range wp.jobQueue {
		select {
		case <-wp.ctx.Done():
			return
		default:
		}

		result := wp.processJob(job)

		select {
		case wp.resultQueue <- result:
		case <-wp.ctx.Done():
			return
		}
	}
}

// processJob runs the detector over a single text
func (wp *WorkerPool) processJob(job Job) Result {
	start := time.Now()
	language := wp.detector.Detect(job.Text)
	return Result{
		Job:      job,
		Language: language,
		Duration: time.Since(start),
	}
}

// QueueSize returns the current number of jobs waiting in the queue
func (wp *WorkerPool) QueueSize() int {
	return len(wp.jobQueue)
}

// Workers returns how many workers the pool runs
func (wp *WorkerPool) Workers() int {
	return wp.numWorkers
}
