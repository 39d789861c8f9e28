package analyzer

import "sync"

// workerPool executes submitted jobs on a fixed number of goroutines. One
// pool is shared by a ringAnalyzer across runs; completion is tracked per
// batch so concurrent runs never share a WaitGroup.
type workerPool struct {
	jobs chan func()
	once sync.Once
}

func newWorkerPool(workers int) *workerPool {
	if workers < 1 {
		workers = 1
	}
	wp := &workerPool{jobs: make(chan func(), workers*2)}
	for i := 0; i < workers; i++ {
		go wp.worker()
	}
	return wp
}

func (wp *workerPool) worker() {
	for job := range wp.jobs {
		job()
	}
}

// NewBatch starts an independent group of jobs. Each pipeline run uses its
// own batch; Wait only covers jobs submitted through the same batch.
func (wp *workerPool) NewBatch() *batch {
	return &batch{pool: wp}
}

// Close stops the workers. Submitting after Close panics.
func (wp *workerPool) Close() {
	wp.once.Do(func() { close(wp.jobs) })
}

// batch tracks the jobs of a single run on a shared pool.
type batch struct {
	pool *workerPool
	wg   sync.WaitGroup
}

// Submit schedules a job. Callers pair it with Wait.
func (b *batch) Submit(job func()) {
	b.wg.Add(1)
	b.pool.jobs <- func() {
		defer b.wg.Done()
		job()
	}
}

// Wait blocks until all jobs submitted through this batch have finished.
func (b *batch) Wait() {
	b.wg.Wait()
}
