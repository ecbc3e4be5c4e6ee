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

// Pool manages a pool of workers that execute jobs concurrently.
// Results are drained while jobs run, so any number of jobs can be submitted before Wait.
type Pool struct {
	workers    int
	jobQueue   chan Job
	results    chan Result
	collected  []Result
	done       chan struct{}
	wg         sync.WaitGroup
	ctx        context.Context
	cancelFunc context.CancelFunc
	closeOnce  sync.Once
	startOnce  sync.Once
	started    bool
}

// NewPool creates a new worker pool with the specified number of workers.
// Canceling ctx stops the workers; jobs still queued are not executed.
func NewPool(ctx context.Context, workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(ctx)

	return &Pool{
		workers:    workers,
		jobQueue:   make(chan Job, workers*2),
		results:    make(chan Result, workers*2),
		done:       make(chan struct{}),
		ctx:        ctx,
		cancelFunc: cancel,
	}
}

// Start starts the workers and the result collector
func (p *Pool) Start() {
	p.startOnce.Do(func() {
		p.started = true
		go p.collect()
		for i := 0; i < p.workers; i++ {
			p.wg.Add(1)
			go p.worker()
		}
	})
}

func (p *Pool) collect() {
	defer close(p.done)
	for result := range p.results {
		p.collected = append(p.collected, result)
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobQueue:
			if !ok {
				return
			}
			p.results <- job.Execute(p.ctx)
		}
	}
}

// Submit queues a job. It reports false when the pool was canceled first.
// Submit must not be called after Wait.
func (p *Pool) Submit(job Job) bool {
	if p.ctx.Err() != nil {
		return false
	}
	select {
	case <-p.ctx.Done():
		return false
	case p.jobQueue <- job:
		return true
	}
}

// Wait closes the queue, waits for the workers and returns every collected result.
// Results arrive in completion order.
func (p *Pool) Wait() []Result {
	close(p.jobQueue)
	return p.finish()
}

// Shutdown cancels the pool and returns the results collected so far
func (p *Pool) Shutdown() []Result {
	p.cancelFunc()
	return p.finish()
}

func (p *Pool) finish() []Result {
	p.wg.Wait()
	p.closeOnce.Do(func() {
		close(p.results)
	})
	if !p.started {
		return nil
	}
	<-p.done
	p.cancelFunc()
	return p.collected
}
