// Package delay computes the humanized pause applied before automated replies.
package delay

import (
	"context"
	"math"
	"math/rand/v2"
	"time"
)

const (
	DefaultSeconds  = 1.5
	DefaultMaxBound = 30.0
)

type Reason string

const (
	ReasonRange   Reason = "range"
	ReasonFixed   Reason = "fixed"
	ReasonDefault Reason = "default"
)

// Config mirrors the DELAY_* settings. Zero values mean "not configured".
type Config struct {
	MinSeconds      float64
	MaxSeconds      float64
	FixedSeconds    float64
	MaxBoundSeconds float64
}

// Decision is logged for observability only.
type Decision struct {
	MinSeconds    float64 `json:"min_seconds"`
	MaxSeconds    float64 `json:"max_seconds"`
	ChosenSeconds float64 `json:"chosen_seconds"`
	Reason        Reason  `json:"reason"`
}

func (d Decision) Duration() time.Duration {
	return time.Duration(d.ChosenSeconds * float64(time.Second))
}

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

type Scheduler struct {
	cfg   Config
	float func() float64
	sleep Sleeper
}

func NewScheduler(cfg Config) *Scheduler {
	cfg.MinSeconds = finite(cfg.MinSeconds)
	cfg.MaxSeconds = finite(cfg.MaxSeconds)
	cfg.FixedSeconds = finite(cfg.FixedSeconds)
	cfg.MaxBoundSeconds = finite(cfg.MaxBoundSeconds)
	if cfg.MaxBoundSeconds <= 0 {
		cfg.MaxBoundSeconds = DefaultMaxBound
	}
	return &Scheduler{
		cfg:   cfg,
		float: rand.Float64,
		sleep: SleepContext,
	}
}

// WithSleeper replaces the real wait, used by tests.
func (s *Scheduler) WithSleeper(sleep Sleeper) *Scheduler {
	s.sleep = sleep
	return s
}

// Decide picks the delay for a single outbound send.
func (s *Scheduler) Decide() Decision {
	c := s.cfg
	d := Decision{MinSeconds: c.MinSeconds, MaxSeconds: c.MaxSeconds}

	switch {
	case c.MinSeconds > 0 && c.MaxSeconds >= c.MinSeconds:
		d.ChosenSeconds = c.MinSeconds + s.float()*(c.MaxSeconds-c.MinSeconds)
		d.Reason = ReasonRange
	case c.FixedSeconds > 0:
		d.ChosenSeconds = c.FixedSeconds
		d.Reason = ReasonFixed
	default:
		d.ChosenSeconds = DefaultSeconds
		d.Reason = ReasonDefault
	}

	if d.ChosenSeconds > c.MaxBoundSeconds {
		d.ChosenSeconds = c.MaxBoundSeconds
	}
	return d
}

// Wait blocks for the decided delay. It returns ctx.Err() when cancelled.
func (s *Scheduler) Wait(ctx context.Context, d Decision) error {
	return s.sleep(ctx, d.Duration())
}

func SleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// finite maps NaN and ±Inf to 0, which reads as "not configured".
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
