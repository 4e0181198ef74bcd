package jobs

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Queue is a bounded in-memory job queue. Enqueue never blocks.
type Queue struct {
	ch     chan *Job
	mu     sync.RWMutex
	closed bool
}

// NewQueue creates a queue holding at most size jobs
func NewQueue(size int) *Queue {
	return &Queue{ch: make(chan *Job, size)}
}

// Enqueue adds a new job to the queue
func (q *Queue) Enqueue(jobType string, payload any, maxRetries int) (*Job, error) {
	job := &Job{
		ID:         uuid.New(),
		Type:       jobType,
		Payload:    payload,
		MaxRetries: maxRetries,
		EnqueuedAt: time.Now(),
	}
	if err := q.push(job); err != nil {
		return nil, err
	}
	return job, nil
}

func (q *Queue) push(job *Job) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return ErrQueueClosed
	}
	select {
	case q.ch <- job:
		return nil
	default:
		return ErrQueueFull
	}
}

// Len reports the number of jobs waiting
func (q *Queue) Len() int {
	return len(q.ch)
}

// Close stops accepting jobs. Workers drain what is left.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	close(q.ch)
}

// calculateBackoff calculates exponential backoff in units
func calculateBackoff(attempt int) int {
	// Exponential backoff: 2^attempt units, max 3600
	if attempt > 12 {
		return 3600
	}
	backoff := 1 << attempt
	if backoff > 3600 {
		backoff = 3600
	}
	return backoff
}
