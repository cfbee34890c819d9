package logger

import (
	"context"
	"sync"
	"sync/atomic"
)

const (
	defaultQueueSize    = 1024
	defaultQueueWorkers = 1
)

// QueueConfig sizes an export Queue.
type QueueConfig struct {
	// Size is the number of tasks that may wait for a worker. Submissions
	// beyond it are dropped.
	Size int
	// Workers is the number of goroutines running tasks.
	Workers int
}

// Queue runs submitted tasks on a fixed set of worker goroutines. Submit
// never blocks: when the buffer is full the task is dropped and counted.
type Queue struct {
	tasks   chan func()
	workers sync.WaitGroup
	dropped atomic.Uint64

	mu       sync.Mutex
	closed   bool
	inflight int
	idle     chan struct{}
}

// NewQueue starts a queue with cfg, applying defaults to unset fields.
func NewQueue(cfg QueueConfig) *Queue {
	if cfg.Size <= 0 {
		cfg.Size = defaultQueueSize
	}
	if cfg.Workers <= 0 {
		cfg.Workers = defaultQueueWorkers
	}
	idle := make(chan struct{})
	close(idle)
	q := &Queue{
		tasks: make(chan func(), cfg.Size),
		idle:  idle,
	}
	q.workers.Add(cfg.Workers)
	for i := 0; i < cfg.Workers; i++ {
		go q.run()
	}
	return q
}

// Submit enqueues task and reports whether it was accepted.
func (q *Queue) Submit(task func()) bool {
	if q == nil || task == nil {
		return false
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		q.dropped.Add(1)
		return false
	}
	select {
	case q.tasks <- task:
	default:
		q.dropped.Add(1)
		return false
	}
	q.inflight++
	if q.inflight == 1 {
		q.idle = make(chan struct{})
	}
	return true
}

// Flush waits until every accepted task has finished or ctx is done.
func (q *Queue) Flush(ctx context.Context) error {
	if q == nil {
		return nil
	}
	q.mu.Lock()
	idle := q.idle
	q.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting tasks and waits for queued tasks to drain. Calling
// Close more than once is safe.
func (q *Queue) Close(ctx context.Context) error {
	if q == nil {
		return nil
	}
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.tasks)
	}
	q.mu.Unlock()

	done := make(chan struct{})
	go func() {
		q.workers.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Dropped returns how many submissions were rejected.
func (q *Queue) Dropped() uint64 {
	if q == nil {
		return 0
	}
	return q.dropped.Load()
}

func (q *Queue) run() {
	defer q.workers.Done()
	for task := range q.tasks {
		q.exec(task)
	}
}

func (q *Queue) exec(task func()) {
	defer func() {
		_ = recover()
		q.mu.Lock()
		q.inflight--
		if q.inflight == 0 {
			close(q.idle)
		}
		q.mu.Unlock()
	}()
	task()
}
