package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/example/linguist/internal/database"
	"github.com/example/linguist/internal/logger"
)

// Notifier sends the daily practice reminder
type Notifier interface {
	SendPracticeReminder(summary database.Summary) error
}

// SummarySource provides the collection overview
type SummarySource interface {
	Summary(ctx context.Context) (*database.Summary, error)
}

// Scheduler manages scheduled tasks for the application
type Scheduler struct {
	scheduler *gocron.Scheduler
	notifier  Notifier
	source    SummarySource
	hour      int
	log       *logger.Logger
}

// New creates a scheduler sending a reminder every day at hour (local time)
func New(notifier Notifier, source SummarySource, hour int, log *logger.Logger) *Scheduler {
	if log == nil {
		log = logger.Nop()
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.Local),
		notifier:  notifier,
		source:    source,
		hour:      hour,
		log:       log.With("component", "scheduler"),
	}
}

// Start begins running all scheduled tasks
func (s *Scheduler) Start() error {
	if s.hour < 0 || s.hour > 23 {
		return fmt.Errorf("invalid reminder hour %d", s.hour)
	}
	_, err := s.scheduler.Every(1).Day().At(fmt.Sprintf("%02d:00", s.hour)).Do(s.remind)
	if err != nil {
		return fmt.Errorf("failed to schedule reminder: %w", err)
	}

	// Start the scheduler in a non-blocking manner
	s.scheduler.StartAsync()
	s.log.Info("reminder scheduled", "hour", s.hour)
	return nil
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// JobCount returns the number of registered jobs
func (s *Scheduler) JobCount() int {
	return len(s.scheduler.Jobs())
}

func (s *Scheduler) remind() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	sent, err := s.RunManualCheck(ctx)
	if err != nil {
		s.log.Error("reminder failed", "error", err)
		return
	}
	if !sent {
		s.log.Debug("nothing to practice, reminder skipped")
	}
}

// RunManualCheck sends the reminder now. It reports false when there is nothing to practice.
func (s *Scheduler) RunManualCheck(ctx context.Context) (bool, error) {
	summary, err := s.source.Summary(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to load summary: %w", err)
	}
	if summary.TotalVocab == 0 {
		return false, nil
	}
	if err := s.notifier.SendPracticeReminder(*summary); err != nil {
		return false, fmt.Errorf("failed to send reminder: %w", err)
	}
	return true, nil
}
