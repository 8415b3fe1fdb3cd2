package detect

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// MockDetector is a detector with a fixed answer per text
type MockDetector struct {
	answers     map[string]string
	detectDelay time.Duration
	callCounter int32
}

func (m *MockDetector) Detect(text string) string {
	atomic.AddInt32(&m.callCounter, 1)
	if m.detectDelay > 0 {
		time.Sleep(m.detectDelay)
	}
	if lang, ok := m.answers[text]; ok {
		return lang
	}
	return "Unknown"
}

func (m *MockDetector) CallCount() int {
	return int(atomic.LoadInt32(&m.callCounter))
}

func TestWorkerPoolBasicFunctionality(t *testing.T) {
	detector := &MockDetector{
		answers: map[string]string{
			"hello world":   "en",
			"bonjour monde": "fr",
		},
	}

	pool := NewWorkerPool(3, detector, nil)
	pool.Start()

	var results []Result
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for result := range pool.Results() {
			results = append(results, result)
		}
	}()

	texts := []string{"hello world", "bonjour monde", "hello world", "???"}
	for i, text := range texts {
		if err := pool.Submit(Job{Index: i, Text: text}); err != nil {
			t.Errorf("Failed to submit job %d: %v", i, err)
		}
	}

	pool.Stop()
	wg.Wait()

	if len(results) != len(texts) {
		t.Fatalf("Expected %d results, got %d", len(texts), len(results))
	}
	if detector.CallCount() != len(texts) {
		t.Errorf("Expected %d detector calls, got %d", len(texts), detector.CallCount())
	}

	// Results can arrive in any order; correlate via the job index
	byIndex := make(map[int]string, len(results))
	for _, result := range results {
		byIndex[result.Job.Index] = result.Language
	}
	expected := map[int]string{0: "en", 1: "fr", 2: "en", 3: "Unknown"}
	for idx, want := range expected {
		if byIndex[idx] != want {
			t.Errorf("Job %d: expected language %q, got %q", idx, want, byIndex[idx])
		}
	}
}

func TestWorkerPoolConcurrency(t *testing.T) {
	detector := &MockDetector{detectDelay: 100 * time.Millisecond}

	pool := NewWorkerPool(5, detector, nil)
	pool.Start()

	var results []Result
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for result := range pool.Results() {
			results = append(results, result)
		}
	}()

	numJobs := 10
	startTime := time.Now()
	for i := 0; i < numJobs; i++ {
		if err := pool.Submit(Job{Index: i, Text: fmt.Sprintf("text %d", i)}); err != nil {
			t.Errorf("Failed to submit job %d: %v", i, err)
		}
	}

	pool.Stop()
	wg.Wait()

	elapsed := time.Since(startTime)

	// With 5 workers and 10 jobs taking 100ms each, it should take ~200ms
	expectedTime := 300 * time.Millisecond
	if elapsed > expectedTime {
		t.Errorf("Detection took too long: %v (expected < %v)", elapsed, expectedTime)
	}

	if len(results) != numJobs {
		t.Errorf("Expected %d results, got %d", numJobs, len(results))
	}
}

func TestWorkerPoolMinimumWorkers(t *testing.T) {
	pool := NewWorkerPool(0, &MockDetector{}, nil)
	if pool.Workers() != 1 {
		t.Errorf("Expected pool to clamp to 1 worker, got %d", pool.Workers())
	}

	pool.Start()

	var results []Result
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for result := range pool.Results() {
			results = append(results, result)
		}
	}()

	if err := pool.Submit(Job{Index: 0, Text: "solo"}); err != nil {
		t.Errorf("Failed to submit job: %v", err)
	}

	pool.Stop()
	wg.Wait()

	if len(results) != 1 {
		t.Errorf("Expected 1 result, got %d", len(results))
	}
}
