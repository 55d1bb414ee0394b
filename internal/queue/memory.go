package queue

import (
	"context"
	"sync"
)

// MemoryQueue is an in-process JobQueue for tests. Jobs are held in order
// and handed out through Consume without delay semantics.
type MemoryQueue struct {
	mu     sync.Mutex
	jobs   []*Job
	closed bool
}

// NewMemoryQueue creates an empty in-memory queue
func NewMemoryQueue() *MemoryQueue {
	return &MemoryQueue{}
}

// Enqueue appends the job
func (q *MemoryQueue) Enqueue(ctx context.Context, job *Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.jobs = append(q.jobs, job)
	return nil
}

// Jobs returns a snapshot of the queued jobs
func (q *MemoryQueue) Jobs() []*Job {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]*Job, len(q.jobs))
	copy(out, q.jobs)
	return out
}

// Consume drains the current backlog into a channel and closes it. NotBefore
// is ignored; tests control timing themselves.
func (q *MemoryQueue) Consume(ctx context.Context, prefetchCount int) (<-chan *Message, <-chan error, error) {
	q.mu.Lock()
	backlog := q.jobs
	q.jobs = nil
	q.mu.Unlock()

	msgChan := make(chan *Message, len(backlog))
	errChan := make(chan error, 1)
	for _, job := range backlog {
		msgChan <- &Message{Job: job}
	}
	close(msgChan)
	close(errChan)
	return msgChan, errChan, nil
}

// Close marks the queue closed
func (q *MemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	return nil
}

// HealthCheck reports closed state
func (q *MemoryQueue) HealthCheck(ctx context.Context) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return context.Canceled
	}
	return nil
}

var _ JobQueue = (*MemoryQueue)(nil)
