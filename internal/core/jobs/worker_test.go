package jobs

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type funcHandler struct {
	jobType string
	fn      func(ctx context.Context, job *Job) error
}

func (h funcHandler) Handle(ctx context.Context, job *Job) error { return h.fn(ctx, job) }
func (h funcHandler) GetType() string                            { return h.jobType }

func TestWorkerPoolRunsJobs(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var seen []string

	pool := NewWorkerPool(WorkerConfig{Concurrency: 2, QueueSize: 8})
	pool.RegisterHandler(funcHandler{jobType: "echo", fn: func(_ context.Context, job *Job) error {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, job.Payload.(string))
		return nil
	}})
	require.NoError(t, pool.Start(context.Background()))
	defer pool.Stop()

	for _, p := range []string{"a", "b", "c"} {
		_, err := pool.Enqueue("echo", p)
		require.NoError(t, err)
	}
	pool.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.ElementsMatch(t, []string{"a", "b", "c"}, seen)
}

func TestEnqueueFullQueue(t *testing.T) {
	t.Parallel()

	pool := NewWorkerPool(WorkerConfig{Concurrency: 1, QueueSize: 1})
	_, err := pool.Enqueue("x", nil)
	require.NoError(t, err)

	_, err = pool.Enqueue("x", nil)
	assert.ErrorIs(t, err, ErrQueueFull)
}

func TestEnqueueAfterStop(t *testing.T) {
	t.Parallel()

	pool := NewWorkerPool(WorkerConfig{Concurrency: 1, QueueSize: 1})
	require.NoError(t, pool.Start(context.Background()))
	pool.Stop()

	_, err := pool.Enqueue("x", nil)
	assert.ErrorIs(t, err, ErrQueueClosed)
}

func TestFailedJobIsRetried(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	pool := NewWorkerPool(WorkerConfig{Concurrency: 1, QueueSize: 4, MaxRetries: 2, BackoffUnit: time.Millisecond})
	pool.RegisterHandler(funcHandler{jobType: "flaky", fn: func(context.Context, *Job) error {
		if calls.Add(1) < 3 {
			return errors.New("boom")
		}
		return nil
	}})
	require.NoError(t, pool.Start(context.Background()))
	defer pool.Stop()

	_, err := pool.Enqueue("flaky", nil)
	require.NoError(t, err)
	pool.Wait()

	assert.Equal(t, int32(3), calls.Load())
}

func TestFailedJobWithoutRetries(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	pool := NewWorkerPool(WorkerConfig{Concurrency: 1, QueueSize: 4})
	pool.RegisterHandler(funcHandler{jobType: "once", fn: func(context.Context, *Job) error {
		calls.Add(1)
		return errors.New("boom")
	}})
	require.NoError(t, pool.Start(context.Background()))
	defer pool.Stop()

	_, err := pool.Enqueue("once", nil)
	require.NoError(t, err)
	pool.Wait()

	assert.Equal(t, int32(1), calls.Load())
}

func TestJobTimeout(t *testing.T) {
	t.Parallel()

	var gotErr atomic.Value
	pool := NewWorkerPool(WorkerConfig{Concurrency: 1, QueueSize: 1, Timeout: 20 * time.Millisecond})
	pool.RegisterHandler(funcHandler{jobType: "slow", fn: func(ctx context.Context, _ *Job) error {
		<-ctx.Done()
		gotErr.Store(ctx.Err())
		return ctx.Err()
	}})
	require.NoError(t, pool.Start(context.Background()))
	defer pool.Stop()

	_, err := pool.Enqueue("slow", nil)
	require.NoError(t, err)
	pool.Wait()

	assert.ErrorIs(t, gotErr.Load().(error), context.DeadlineExceeded)
}

func TestCalculateBackoff(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 2, calculateBackoff(1))
	assert.Equal(t, 8, calculateBackoff(3))
	assert.Equal(t, 3600, calculateBackoff(20))
}

func TestCancelledPoolReleasesQueuedJobs(t *testing.T) {
	t.Parallel()

	pool := NewWorkerPool(WorkerConfig{Concurrency: 2, QueueSize: 8, MaxRetries: 3, BackoffUnit: time.Millisecond})
	pool.RegisterHandler(funcHandler{jobType: "slow", fn: func(ctx context.Context, _ *Job) error {
		<-ctx.Done()
		return ctx.Err()
	}})

	for i := 0; i < 6; i++ {
		_, err := pool.Enqueue("slow", i)
		require.NoError(t, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, pool.Start(ctx))
	cancel()

	done := make(chan struct{})
	go func() {
		pool.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Wait did not return after the pool context was cancelled")
	}

	pool.Stop()
	assert.Zero(t, pool.queue.Len())
}
