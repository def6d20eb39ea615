package downloader

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"redditminer/pkg/logger"
	"redditminer/pkg/ratelimit"
	"redditminer/pkg/retry"
)

// DownloadJob represents a single download task
type DownloadJob struct {
	Index    int
	URL      string
	Filename string
}

// DownloadResult represents the result of a download job
type DownloadResult struct {
	Job      DownloadJob
	Success  bool
	Skipped  bool
	Error    error
	Duration time.Duration
	Size     int
}

// ImageDownloader fetches image bytes
type ImageDownloader interface {
	DownloadImage(ctx context.Context, url string) ([]byte, error)
}

// ImageStorage persists images and reports what already exists
type ImageStorage interface {
	IsDownloaded(filename string) bool
	SaveImage(r io.Reader, filename string) error
}

// WorkerPool manages concurrent download workers
type WorkerPool struct {
	numWorkers     int
	jobQueue       chan DownloadJob
	resultQueue    chan DownloadResult
	wg             sync.WaitGroup
	ctx            context.Context
	cancel         context.CancelFunc
	client         ImageDownloader
	storageManager ImageStorage
	rateLimiter    ratelimit.Limiter
	maxAttempts    int
	backoffFor     func(error) retry.BackoffStrategy
	logger         logger.Logger
}

// NewWorkerPool creates a new download worker pool. Cancelling ctx stops
// workers between jobs and aborts in-flight retries.
func NewWorkerPool(
	ctx context.Context,
	numWorkers int,
	client ImageDownloader,
	storageManager ImageStorage,
	rateLimiter ratelimit.Limiter,
	log logger.Logger,
) *WorkerPool {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)

	if log == nil {
		log = logger.GetLogger()
	}
	if numWorkers < 1 {
		numWorkers = 1
	}
	if rateLimiter == nil {
		rateLimiter = ratelimit.Unlimited{}
	}

	return &WorkerPool{
		numWorkers:     numWorkers,
		jobQueue:       make(chan DownloadJob, numWorkers*2), // Buffer size = 2x workers
		resultQueue:    make(chan DownloadResult, numWorkers),
		ctx:            ctx,
		cancel:         cancel,
		client:         client,
		storageManager: storageManager,
		rateLimiter:    rateLimiter,
		maxAttempts:    3,
		backoffFor:     retry.NewErrorTypeBackoff().For,
		logger:         log,
	}
}

// SetRetryPolicy changes how often a failing download is attempted and how
// long to wait between attempts. Call before Start.
func (wp *WorkerPool) SetRetryPolicy(maxAttempts int, backoffFor func(error) retry.BackoffStrategy) {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	wp.maxAttempts = maxAttempts
	if backoffFor != nil {
		wp.backoffFor = backoffFor
	}
}

// Start initializes and starts all workers
func (wp *WorkerPool) Start() {
	wp.logger.DebugWithFields("Starting worker pool", map[string]interface{}{
		"num_workers": wp.numWorkers,
	})

	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

// Stop closes the queue, waits for queued jobs to finish and closes Results
func (wp *WorkerPool) Stop() {
	close(wp.jobQueue)
	wp.wg.Wait()
	close(wp.resultQueue)
	wp.cancel()

	wp.logger.Debug("Worker pool stopped")
}

// Submit adds a new download job to the queue
func (wp *WorkerPool) Submit(job DownloadJob) error {
	select {
	case wp.jobQueue <- job:
		return nil
	case <-wp.ctx.Done():
		return fmt.Errorf("worker pool is shutting down")
	}
}

// Results returns the result channel for consuming download results
func (wp *WorkerPool) Results() <-chan DownloadResult {
	return wp.resultQueue
}

// worker is the main worker routine
func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for job := range wp.jobQueue {
		var result DownloadResult
		if err := wp.ctx.Err(); err != nil {
			result = DownloadResult{Job: job, Error: fmt.Errorf("download cancelled: %w", err)}
		} else {
			result = wp.processJob(job, id)
		}

		// Results are always delivered so the consumer sees every job
		wp.resultQueue <- result
	}
}

// processJob handles a single download job
func (wp *WorkerPool) processJob(job DownloadJob, workerID int) DownloadResult {
	start := time.Now()
	result := DownloadResult{Job: job}

	if wp.storageManager.IsDownloaded(job.Filename) {
		wp.logger.DebugWithFields("Image already downloaded", map[string]interface{}{
			"worker_id": workerID,
			"filename":  job.Filename,
		})
		result.Skipped = true
		result.Duration = time.Since(start)
		return result
	}

	data, err := retry.DoWithResult(func() ([]byte, error) {
		if err := wp.rateLimiter.Wait(wp.ctx); err != nil {
			return nil, err
		}
		return wp.client.DownloadImage(wp.ctx, job.URL)
	}, &retry.Config{
		MaxAttempts: wp.maxAttempts,
		BackoffFor:  wp.backoffFor,
		RetryIf:     retry.DefaultRetryIf,
		Context:     wp.ctx,
		Logger:      wp.logger.WithField("url", job.URL),
	})
	if err != nil {
		result.Error = fmt.Errorf("download failed: %w", err)
		result.Duration = time.Since(start)
		return result
	}

	result.Size = len(data)

	if err := wp.storageManager.SaveImage(bytes.NewReader(data), job.Filename); err != nil {
		result.Error = fmt.Errorf("save failed: %w", err)
		result.Duration = time.Since(start)
		return result
	}

	result.Success = true
	result.Duration = time.Since(start)

	wp.logger.DebugWithFields("Worker completed job", map[string]interface{}{
		"worker_id": workerID,
		"filename":  job.Filename,
		"size":      result.Size,
		"duration":  result.Duration,
	})

	return result
}

// GetQueueSize returns the current number of jobs in the queue
func (wp *WorkerPool) GetQueueSize() int {
	return len(wp.jobQueue)
}

// GetActiveWorkers returns the number of workers
func (wp *WorkerPool) GetActiveWorkers() int {
	return wp.numWorkers
}
