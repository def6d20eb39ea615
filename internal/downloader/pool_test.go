package downloader

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	errs "redditminer/pkg/errors"
	"redditminer/pkg/logger"
	"redditminer/pkg/ratelimit"
	"redditminer/pkg/retry"
)

// MockClient is a mock implementation of the image client
type MockClient struct {
	downloadDelay   time.Duration
	downloadError   error
	failFirst       int32
	downloadCounter int32
}

func (m *MockClient) DownloadImage(ctx context.Context, url string) ([]byte, error) {
	n := atomic.AddInt32(&m.downloadCounter, 1)
	if m.downloadDelay > 0 {
		time.Sleep(m.downloadDelay)
	}
	if n <= m.failFirst {
		return nil, errs.FromStatusCode(503, "unavailable")
	}
	if m.downloadError != nil {
		return nil, m.downloadError
	}
	return []byte("mock image data"), nil
}

func (m *MockClient) GetDownloadCount() int {
	return int(atomic.LoadInt32(&m.downloadCounter))
}

// MockStorageManager is a mock implementation of the storage manager
type MockStorageManager struct {
	saved     map[string]bool
	saveError error
	mu        sync.Mutex
}

func NewMockStorageManager() *MockStorageManager {
	return &MockStorageManager{
		saved: make(map[string]bool),
	}
}

func (m *MockStorageManager) IsDownloaded(filename string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saved[filename]
}

func (m *MockStorageManager) SaveImage(r io.Reader, filename string) error {
	if m.saveError != nil {
		return m.saveError
	}
	if _, err := io.ReadAll(r); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved[filename] = true
	return nil
}

func (m *MockStorageManager) GetSavedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.saved)
}

func fastRetry(err error) retry.BackoffStrategy {
	return &retry.ConstantBackoff{Delay: time.Millisecond}
}

func runPool(t *testing.T, pool *WorkerPool, jobs []DownloadJob) []DownloadResult {
	t.Helper()
	pool.Start()

	var results []DownloadResult
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for result := range pool.Results() {
			results = append(results, result)
		}
	}()

	for _, job := range jobs {
		if err := pool.Submit(job); err != nil {
			t.Errorf("Failed to submit job %d: %v", job.Index, err)
		}
	}

	pool.Stop()
	wg.Wait()
	return results
}

func makeJobs(n int) []DownloadJob {
	jobs := make([]DownloadJob, n)
	for i := range jobs {
		jobs[i] = DownloadJob{
			Index:    i + 1,
			URL:      fmt.Sprintf("https://i.redd.it/image%d.jpg", i),
			Filename: fmt.Sprintf("image%d.jpg", i),
		}
	}
	return jobs
}

func TestWorkerPoolBasicFunctionality(t *testing.T) {
	mockClient := &MockClient{downloadDelay: 10 * time.Millisecond}
	mockStorage := NewMockStorageManager()
	rateLimiter := ratelimit.NewTokenBucket(1000, 10)

	pool := NewWorkerPool(context.Background(), 3, mockClient, mockStorage, rateLimiter, logger.NewNopLogger())
	numJobs := 10
	results := runPool(t, pool, makeJobs(numJobs))

	if len(results) != numJobs {
		t.Errorf("Expected %d results, got %d", numJobs, len(results))
	}

	successCount := 0
	for _, result := range results {
		if result.Success {
			successCount++
		}
	}
	if successCount != numJobs {
		t.Errorf("Expected %d successful downloads, got %d", numJobs, successCount)
	}
	if mockClient.GetDownloadCount() != numJobs {
		t.Errorf("Expected %d download calls, got %d", numJobs, mockClient.GetDownloadCount())
	}
	if mockStorage.GetSavedCount() != numJobs {
		t.Errorf("Expected %d saved images, got %d", numJobs, mockStorage.GetSavedCount())
	}
}

func TestWorkerPoolWithErrors(t *testing.T) {
	mockClient := &MockClient{
		downloadError: errs.FromStatusCode(404, "gone"),
	}
	mockStorage := NewMockStorageManager()

	pool := NewWorkerPool(context.Background(), 2, mockClient, mockStorage, nil, logger.NewNopLogger())
	pool.SetRetryPolicy(3, fastRetry)
	numJobs := 5
	results := runPool(t, pool, makeJobs(numJobs))

	if len(results) != numJobs {
		t.Errorf("Expected %d results, got %d", numJobs, len(results))
	}
	for _, result := range results {
		if result.Success {
			t.Error("Expected all downloads to fail")
		}
		if result.Error == nil {
			t.Error("Expected error in result")
		}
	}

	// 404 is not retried
	if mockClient.GetDownloadCount() != numJobs {
		t.Errorf("Expected %d download calls, got %d", numJobs, mockClient.GetDownloadCount())
	}
}

func TestWorkerPoolRetriesTransientErrors(t *testing.T) {
	mockClient := &MockClient{failFirst: 2}
	mockStorage := NewMockStorageManager()

	pool := NewWorkerPool(context.Background(), 1, mockClient, mockStorage, nil, logger.NewNopLogger())
	pool.SetRetryPolicy(3, fastRetry)
	results := runPool(t, pool, makeJobs(1))

	if len(results) != 1 || !results[0].Success {
		t.Fatalf("Expected a single successful result, got %+v", results)
	}
	if mockClient.GetDownloadCount() != 3 {
		t.Errorf("Expected 3 download calls, got %d", mockClient.GetDownloadCount())
	}
}

func TestWorkerPoolConcurrency(t *testing.T) {
	mockClient := &MockClient{downloadDelay: 100 * time.Millisecond}
	mockStorage := NewMockStorageManager()

	pool := NewWorkerPool(context.Background(), 5, mockClient, mockStorage, nil, logger.NewNopLogger())

	numJobs := 10
	startTime := time.Now()
	results := runPool(t, pool, makeJobs(numJobs))
	elapsed := time.Since(startTime)

	// With 5 workers and 10 jobs taking 100ms each, it should take ~200ms
	expectedTime := 600 * time.Millisecond
	if elapsed > expectedTime {
		t.Errorf("Downloads took too long: %v (expected < %v)", elapsed, expectedTime)
	}
	if len(results) != numJobs {
		t.Errorf("Expected %d results, got %d", numJobs, len(results))
	}
}

func TestWorkerPoolDuplicateDetection(t *testing.T) {
	mockClient := &MockClient{}
	mockStorage := NewMockStorageManager()

	mockStorage.saved["existing1.jpg"] = true
	mockStorage.saved["existing2.jpg"] = true

	pool := NewWorkerPool(context.Background(), 2, mockClient, mockStorage, nil, logger.NewNopLogger())

	jobs := []DownloadJob{
		{Index: 1, URL: "https://i.redd.it/new1.jpg", Filename: "new1.jpg"},
		{Index: 2, URL: "https://i.redd.it/existing1.jpg", Filename: "existing1.jpg"},
		{Index: 3, URL: "https://i.redd.it/new2.jpg", Filename: "new2.jpg"},
		{Index: 4, URL: "https://i.redd.it/existing2.jpg", Filename: "existing2.jpg"},
	}
	results := runPool(t, pool, jobs)

	if len(results) != len(jobs) {
		t.Errorf("Expected %d results, got %d", len(jobs), len(results))
	}

	skipped := 0
	for _, r := range results {
		if r.Skipped {
			skipped++
		}
	}
	if skipped != 2 {
		t.Errorf("Expected 2 skipped results, got %d", skipped)
	}

	if mockClient.GetDownloadCount() != 2 {
		t.Errorf("Expected 2 downloads, got %d", mockClient.GetDownloadCount())
	}
	if mockStorage.GetSavedCount() != 4 {
		t.Errorf("Expected 4 saved images, got %d", mockStorage.GetSavedCount())
	}
}

func TestWorkerPoolCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	mockClient := &MockClient{}
	pool := NewWorkerPool(ctx, 2, mockClient, NewMockStorageManager(), nil, logger.NewNopLogger())
	pool.Start()

	go func() {
		for _, job := range makeJobs(4) {
			_ = pool.Submit(job)
		}
		pool.Stop()
	}()

	for result := range pool.Results() {
		if result.Success {
			t.Error("Expected no successful downloads after cancellation")
		}
	}
	if mockClient.GetDownloadCount() != 0 {
		t.Errorf("Expected no download calls, got %d", mockClient.GetDownloadCount())
	}
}
