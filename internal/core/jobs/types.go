package jobs

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrQueueFull   = errors.New("job queue is full")
	ErrQueueClosed = errors.New("job queue is closed")
)

// Job is a unit of background work kept in memory.
type Job struct {
	ID         uuid.UUID
	Type       string
	Payload    any
	Attempts   int
	MaxRetries int
	EnqueuedAt time.Time
	LastError  string
}

// JobHandler is the interface that job handlers must implement
type JobHandler interface {
	Handle(ctx context.Context, job *Job) error
	GetType() string
}

// WorkerConfig contains configuration for the worker pool
type WorkerConfig struct {
	Concurrency int
	QueueSize   int
	Timeout     time.Duration // per job execution
	MaxRetries  int           // 0 disables retries
	BackoffUnit time.Duration // multiplied by 2^attempt
}

// DefaultWorkerConfig returns default worker configuration
func DefaultWorkerConfig() WorkerConfig {
	return WorkerConfig{
		Concurrency: 4,
		QueueSize:   256,
		Timeout:     30 * time.Second,
		BackoffUnit: time.Second,
	}
}

func (c WorkerConfig) withDefaults() WorkerConfig {
	d := DefaultWorkerConfig()
	if c.Concurrency <= 0 {
		c.Concurrency = d.Concurrency
	}
	if c.QueueSize <= 0 {
		c.QueueSize = d.QueueSize
	}
	if c.Timeout <= 0 {
		c.Timeout = d.Timeout
	}
	if c.BackoffUnit <= 0 {
		c.BackoffUnit = d.BackoffUnit
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	return c
}
