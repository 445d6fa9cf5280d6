// Package parallel runs independent mask analyses on a fixed set of worker
// goroutines.
package parallel

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
)

// ErrClosed is recorded for tasks handed to a pool that has been closed.
var ErrClosed = errors.New("parallel: pool closed")

// Pool is a pool of goroutines for batch analysis.
//
// Each worker owns a queue. Tasks are distributed round-robin and an idle
// worker steals from the other queues, so one large mask does not hold up
// the small ones queued behind it.
//
// Thread safety: Pool is safe for concurrent use.
type Pool struct {
	workers int
	queues  []chan func()

	// done signals workers to stop.
	done chan struct{}
	wg   sync.WaitGroup

	// mu is held shared while a batch is queued and exclusively while
	// closing, so no task is queued after the workers start draining.
	mu      sync.RWMutex
	running atomic.Bool
}

// NewPool starts a pool with the given number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	queueSize := max(workers*4, 8)

	p := &Pool{
		workers: workers,
		queues:  make([]chan func(), workers),
		done:    make(chan struct{}),
	}
	for i := range workers {
		p.queues[i] = make(chan func(), queueSize)
	}
	p.running.Store(true)

	p.wg.Add(workers)
	for i := range workers {
		go p.worker(i)
	}
	return p
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()

	own := p.queues[id]
	for {
		select {
		case <-p.done:
			drain(own)
			return
		case task := <-own:
			task()
			continue
		default:
		}

		if task := p.steal(id); task != nil {
			task()
			continue
		}

		select {
		case <-p.done:
			drain(own)
			return
		case task := <-own:
			task()
		}
	}
}

// drain runs whatever is left in a queue.
func drain(queue chan func()) {
	for {
		select {
		case task := <-queue:
			task()
		default:
			return
		}
	}
}

// steal takes one task from another worker's queue, or returns nil.
func (p *Pool) steal(id int) func() {
	for i := range p.workers {
		if i == id {
			continue
		}
		select {
		case task := <-p.queues[i]:
			return task
		default:
		}
	}
	return nil
}

// ExecuteAll runs every task on the pool and waits for all of them.
// It reports false without running anything if the pool is closed.
func (p *Pool) ExecuteAll(tasks []func()) bool {
	p.mu.RLock()
	if !p.running.Load() {
		p.mu.RUnlock()
		return false
	}
	if len(tasks) == 0 {
		p.mu.RUnlock()
		return true
	}

	var wg sync.WaitGroup
	wg.Add(len(tasks))
	for i, fn := range tasks {
		p.queues[i%p.workers] <- func() {
			defer wg.Done()
			fn()
		}
	}
	p.mu.RUnlock()

	wg.Wait()
	return true
}

// Close stops accepting work, waits for queued tasks and stops all workers.
// Close is safe to call multiple times.
func (p *Pool) Close() {
	p.mu.Lock()
	if !p.running.CompareAndSwap(true, false) {
		p.mu.Unlock()
		return
	}
	close(p.done)
	p.mu.Unlock()
	p.wg.Wait()
}

// Workers returns the number of workers in the pool.
func (p *Pool) Workers() int {
	return p.workers
}

// IsRunning reports whether the pool still accepts work.
func (p *Pool) IsRunning() bool {
	return p.running.Load()
}

// Result is the outcome of one Map task.
type Result[T any] struct {
	Value T
	Err   error
}

// Map applies fn to every item on the pool and returns the results in input
// order. Items not yet started when ctx is done get ctx.Err(); on a closed
// pool every item gets ErrClosed.
func Map[In, Out any](ctx context.Context, p *Pool, items []In, fn func(context.Context, In) (Out, error)) []Result[Out] {
	results := make([]Result[Out], len(items))
	tasks := make([]func(), len(items))
	for i, item := range items {
		tasks[i] = func() {
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return
			}
			results[i].Value, results[i].Err = fn(ctx, item)
		}
	}
	if !p.ExecuteAll(tasks) {
		for i := range results {
			results[i].Err = ErrClosed
		}
	}
	return results
}
