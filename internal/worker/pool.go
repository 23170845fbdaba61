package worker

import (
	"context"
	"sync"
)

// Job represents a unit of work to be executed
type Job interface {
	Execute(ctx context.Context) Result
}

// Result represents the result of a job execution
type Result interface {
	GetError() error
}

// skippedResult stands in for jobs that never ran because the pool was shut down
type skippedResult struct {
	err error
}

func (r *skippedResult) GetError() error {
	return r.err
}

type task struct {
	index int
	job   Job
}

// Pool runs jobs on a fixed number of workers. Results are returned in
// submission order regardless of completion order.
type Pool struct {
	workers    int
	jobQueue   chan task
	results    []Result
	mu         sync.Mutex
	wg         sync.WaitGroup
	ctx        context.Context
	cancelFunc context.CancelFunc
	closeOnce  sync.Once
}

// NewPool creates a new worker pool bound to ctx
func NewPool(ctx context.Context, workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(ctx)

	return &Pool{
		workers:    workers,
		jobQueue:   make(chan task, workers*2),
		ctx:        ctx,
		cancelFunc: cancel,
	}
}

// Start starts the worker goroutines
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case t, ok := <-p.jobQueue:
			if !ok || p.ctx.Err() != nil {
				return
			}
			result := t.job.Execute(p.ctx)
			p.mu.Lock()
			p.results[t.index] = result
			p.mu.Unlock()
		}
	}
}

// Submit queues a job. After shutdown the job is recorded as skipped.
// It must not be called after Wait.
func (p *Pool) Submit(job Job) {
	p.mu.Lock()
	index := len(p.results)
	p.results = append(p.results, nil)
	p.mu.Unlock()

	if p.ctx.Err() != nil {
		return
	}

	select {
	case <-p.ctx.Done():
	case p.jobQueue <- task{index: index, job: job}:
	}
}

// Wait waits for all submitted jobs and returns their results in submission order
func (p *Pool) Wait() []Result {
	defer p.cancelFunc()

	p.closeOnce.Do(func() { close(p.jobQueue) })
	p.wg.Wait()

	p.mu.Lock()
	defer p.mu.Unlock()

	results := make([]Result, len(p.results))
	for i, result := range p.results {
		if result == nil {
			result = &skippedResult{err: context.Cause(p.ctx)}
		}
		results[i] = result
	}
	return results
}

// Shutdown stops the workers; queued jobs that have not started are skipped
func (p *Pool) Shutdown() {
	p.cancelFunc()
	p.wg.Wait()
}
