package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/prachi-1604/Weather-Analysis/internal/services/collector"
	"github.com/prachi-1604/Weather-Analysis/pkg/logger"
)

// State is the scheduler's activity flag. It is owned by the caller and
// passed through Start/Stop as explicit transitions rather than toggled as
// shared mutable state from multiple call sites.
type State struct {
	Active bool
}

// Scheduler periodically runs a forced refresh over the configured
// locations. Jobs run in singleton mode, so a slow run is never overlapped
// by the next tick; a stop lets an in-flight run finish.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   *collector.Service
	locations []string
	interval  time.Duration
	l         *logger.Logger
}

func New(locations []string, interval time.Duration, service *collector.Service, l *logger.Logger) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		service:   service,
		locations: locations,
		interval:  interval,
		l:         l,
	}
}

// Start schedules the periodic job. Starting an already-active scheduler is
// a no-op returning the state unchanged.
func (s *Scheduler) Start(state State) (State, error) {
	if state.Active {
		return state, nil
	}
	if len(s.locations) == 0 {
		s.l.Warning("no locations configured, nothing to schedule")
		return state, nil
	}

	_, err := s.scheduler.Every(s.interval).SingletonMode().Do(s.runOnce)
	if err != nil {
		return state, err
	}

	s.scheduler.StartAsync()
	s.l.Info("scheduler started", map[string]any{
		"locations": s.locations,
		"interval":  s.interval.String(),
	})

	return State{Active: true}, nil
}

// Stop cancels future runs. Stopping an inactive scheduler is a no-op.
func (s *Scheduler) Stop(state State) State {
	if !state.Active {
		return state
	}

	s.scheduler.Stop()
	s.l.Info("scheduler stopped")

	return State{Active: false}
}

func (s *Scheduler) runOnce() {
	s.l.Info("running scheduled fetch", map[string]any{"locations": s.locations})

	summary, err := s.service.Run(context.Background(), s.locations, true)
	if err != nil {
		s.l.Error(err, map[string]any{"locations": s.locations})
		return
	}

	s.l.Info("scheduled fetch completed", map[string]any{
		"fetched": len(summary.Fetched),
		"skipped": len(summary.Skipped),
		"failed":  len(summary.Failed),
	})
}
