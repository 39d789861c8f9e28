package analyzer

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestBatchRunsAllJobs(t *testing.T) {
	pool := newWorkerPool(4)
	defer pool.Close()

	var count int64
	run := pool.NewBatch()
	for i := 0; i < 100; i++ {
		run.Submit(func() { atomic.AddInt64(&count, 1) })
	}
	run.Wait()

	if count != 100 {
		t.Errorf("Expected 100 jobs to run, got %d", count)
	}
}

func TestConcurrentBatchesOnSharedPool(t *testing.T) {
	pool := newWorkerPool(4)
	defer pool.Close()

	// Many goroutines driving Submit/Wait cycles through one pool, the way
	// concurrent measurements share one analyzer.
	var total int64
	var wg sync.WaitGroup
	for g := 0; g < 32; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				run := pool.NewBatch()
				run.Submit(func() { atomic.AddInt64(&total, 1) })
				run.Submit(func() { atomic.AddInt64(&total, 1) })
				run.Wait()
			}
		}()
	}
	wg.Wait()

	if total != 32*50*2 {
		t.Errorf("Expected %d jobs to run, got %d", 32*50*2, total)
	}
}

func TestBatchWaitCoversOnlyOwnJobs(t *testing.T) {
	pool := newWorkerPool(4)
	defer pool.Close()

	release := make(chan struct{})
	slow := pool.NewBatch()
	slow.Submit(func() { <-release })

	quick := pool.NewBatch()
	quick.Submit(func() {})

	done := make(chan struct{})
	go func() {
		quick.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Wait blocked on another batch's job")
	}

	close(release)
	slow.Wait()
}

func TestWorkerPoolMinimumOneWorker(t *testing.T) {
	pool := newWorkerPool(0)
	defer pool.Close()

	ran := false
	run := pool.NewBatch()
	run.Submit(func() { ran = true })
	run.Wait()

	if !ran {
		t.Error("Expected the job to run with the worker floor")
	}
}
