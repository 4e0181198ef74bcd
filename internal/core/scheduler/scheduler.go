// Package scheduler runs periodic housekeeping tasks on cron expressions.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Scheduler handles cron-based maintenance tasks
type Scheduler struct {
	cron     *cron.Cron
	tasks    map[string]cron.EntryID // task name -> entry id
	tasksMux sync.RWMutex
}

// NewScheduler creates a new scheduler. Expressions carry a seconds field.
func NewScheduler() *Scheduler {
	return &Scheduler{
		cron:  cron.New(cron.WithSeconds()),
		tasks: make(map[string]cron.EntryID),
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	s.cron.Start()
	log.Info().Int("tasks", len(s.TaskNames())).Msg("scheduler started")
}

// Stop stops the scheduler and waits for running tasks
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	log.Info().Msg("scheduler stopped")
}

// AddTask registers fn under name, replacing any task with the same name.
// Each run gets a context bounded by timeout.
func (s *Scheduler) AddTask(name, schedule string, timeout time.Duration, fn func(ctx context.Context) error) error {
	s.tasksMux.Lock()
	defer s.tasksMux.Unlock()

	if entryID, exists := s.tasks[name]; exists {
		s.cron.Remove(entryID)
		delete(s.tasks, name)
	}

	entryID, err := s.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		start := time.Now()
		if err := fn(ctx); err != nil {
			log.Error().Err(err).Str("task", name).Msg("scheduled task failed")
			return
		}
		log.Info().Str("task", name).Dur("duration", time.Since(start)).Msg("scheduled task finished")
	})
	if err != nil {
		return fmt.Errorf("failed to add cron job %s: %w", name, err)
	}

	s.tasks[name] = entryID
	log.Info().Str("task", name).Str("schedule", schedule).Msg("task scheduled")
	return nil
}

// RemoveTask removes a task from the scheduler
func (s *Scheduler) RemoveTask(name string) {
	s.tasksMux.Lock()
	defer s.tasksMux.Unlock()

	if entryID, exists := s.tasks[name]; exists {
		s.cron.Remove(entryID)
		delete(s.tasks, name)
	}
}

// TaskNames returns all currently scheduled task names
func (s *Scheduler) TaskNames() []string {
	s.tasksMux.RLock()
	defer s.tasksMux.RUnlock()

	names := make([]string, 0, len(s.tasks))
	for name := range s.tasks {
		names = append(names, name)
	}
	return names
}
