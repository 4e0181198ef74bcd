package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// WorkerPool runs registered handlers over a Queue with fixed concurrency.
type WorkerPool struct {
	queue    *Queue
	config   WorkerConfig
	handlers map[string]JobHandler
	mu       sync.RWMutex
	wg       sync.WaitGroup
	inflight sync.WaitGroup
	started  bool
}

// NewWorkerPool creates a pool with its own queue
func NewWorkerPool(config WorkerConfig) *WorkerPool {
	config = config.withDefaults()
	return &WorkerPool{
		queue:    NewQueue(config.QueueSize),
		config:   config,
		handlers: make(map[string]JobHandler),
	}
}

// RegisterHandler registers a job handler for a specific job type
func (p *WorkerPool) RegisterHandler(handler JobHandler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handlers[handler.GetType()] = handler
	log.Debug().Str("job_type", handler.GetType()).Msg("registered job handler")
}

// Enqueue schedules a job for the handler registered under jobType
func (p *WorkerPool) Enqueue(jobType string, payload any) (*Job, error) {
	p.inflight.Add(1)
	job, err := p.queue.Enqueue(jobType, payload, p.config.MaxRetries)
	if err != nil {
		p.inflight.Done()
		return nil, fmt.Errorf("enqueue %s: %w", jobType, err)
	}
	return job, nil
}

// Start starts the worker goroutines
func (p *WorkerPool) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return fmt.Errorf("worker pool already started")
	}
	p.started = true

	for i := 0; i < p.config.Concurrency; i++ {
		p.wg.Add(1)
		go p.runWorker(ctx, i+1)
	}

	log.Info().Int("workers", p.config.Concurrency).Int("queue_size", p.config.QueueSize).Msg("job workers started")
	return nil
}

// Stop closes the queue and waits for the workers to finish
func (p *WorkerPool) Stop() {
	p.queue.Close()
	p.wg.Wait()
	log.Info().Msg("job workers stopped")
}

// Wait blocks until every enqueued job, including scheduled retries, is done
func (p *WorkerPool) Wait() {
	p.inflight.Wait()
}

func (p *WorkerPool) runWorker(ctx context.Context, workerID int) {
	defer p.wg.Done()

	for {
		select {
		case <-ctx.Done():
			p.discard(workerID)
			return
		case job, ok := <-p.queue.ch:
			if !ok {
				return
			}
			p.process(ctx, workerID, job)
		}
	}
}

// discard closes the queue and releases every job still waiting in it, so
// Wait returns once the pool's context is gone.
func (p *WorkerPool) discard(workerID int) {
	p.queue.Close()
	for job := range p.queue.ch {
		log.Warn().Int("worker", workerID).Str("job_id", job.ID.String()).Str("job_type", job.Type).Msg("dropping job on shutdown")
		p.inflight.Done()
	}
}

func (p *WorkerPool) process(ctx context.Context, workerID int, job *Job) {
	job.Attempts++

	p.mu.RLock()
	handler, exists := p.handlers[job.Type]
	p.mu.RUnlock()

	if !exists {
		log.Error().Int("worker", workerID).Str("job_type", job.Type).Msg("no handler registered for job type")
		p.inflight.Done()
		return
	}

	jobCtx, cancel := context.WithTimeout(ctx, p.config.Timeout)
	start := time.Now()
	err := handler.Handle(jobCtx, job)
	cancel()

	logger := log.With().
		Int("worker", workerID).
		Str("job_id", job.ID.String()).
		Str("job_type", job.Type).
		Int("attempt", job.Attempts).
		Dur("duration", time.Since(start)).
		Logger()

	if err == nil {
		logger.Debug().Msg("job completed")
		p.inflight.Done()
		return
	}

	job.LastError = err.Error()
	if job.Attempts > job.MaxRetries {
		logger.Warn().Err(err).Msg("job failed")
		p.inflight.Done()
		return
	}

	wait := time.Duration(calculateBackoff(job.Attempts)) * p.config.BackoffUnit
	logger.Warn().Err(err).Dur("retry_in", wait).Msg("job failed, retrying")
	time.AfterFunc(wait, func() {
		if err := p.queue.push(job); err != nil {
			log.Warn().Err(err).Str("job_id", job.ID.String()).Msg("dropping job retry")
			p.inflight.Done()
		}
	})
}
