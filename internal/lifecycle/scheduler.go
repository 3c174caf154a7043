package lifecycle

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// Scheduler runs a task once after a delay. No handle is returned: scheduled
// work is never cancelled.
type Scheduler interface {
	After(d time.Duration, name string, task func()) error
}

// GocronScheduler wraps a gocron scheduler for one-time delayed tasks.
type GocronScheduler struct {
	scheduler gocron.Scheduler
}

// NewScheduler creates and starts a scheduler.
func NewScheduler() (*GocronScheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	s.Start()
	return &GocronScheduler{scheduler: s}, nil
}

// After schedules task to run once, d from now.
func (s *GocronScheduler) After(d time.Duration, name string, task func()) error {
	_, err := s.scheduler.NewJob(
		gocron.OneTimeJob(gocron.OneTimeJobStartDateTime(time.Now().Add(d))),
		gocron.NewTask(task),
		gocron.WithName(name),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule %s: %w", name, err)
	}
	return nil
}

// Stop waits for running tasks and shuts the scheduler down. Tasks that have
// not started yet are dropped.
func (s *GocronScheduler) Stop() error {
	slog.Info("Stopping scheduler")
	return s.scheduler.Shutdown()
}
