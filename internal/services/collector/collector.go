package collector

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/prachi-1604/Weather-Analysis/internal/models"
	"github.com/prachi-1604/Weather-Analysis/internal/repositories"
	"github.com/prachi-1604/Weather-Analysis/pkg/logger"
)

const DefaultFetchTimeout = 10 * time.Second

// Service orchestrates one fetch run: it decides per location whether a
// fetch is needed, fans the required fetches out concurrently, and persists
// all new observations as a single batch.
type Service struct {
	store  repositories.ObservationStore
	client repositories.WeatherRepository
	l      *logger.Logger

	dedupWindow  time.Duration
	fetchTimeout time.Duration

	// now is injected so window logic is deterministic under test.
	now func() time.Time
}

func NewService(store repositories.ObservationStore, client repositories.WeatherRepository, dedupWindow, fetchTimeout time.Duration, l *logger.Logger) *Service {
	if dedupWindow <= 0 {
		dedupWindow = DefaultDedupWindow
	}
	if fetchTimeout <= 0 {
		fetchTimeout = DefaultFetchTimeout
	}

	return &Service{
		store:        store,
		client:       client,
		l:            l,
		dedupWindow:  dedupWindow,
		fetchTimeout: fetchTimeout,
		now:          time.Now,
	}
}

// WithClock replaces the wall clock. Tests use this to pin "now".
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Run executes one fetch run over the requested locations. A single
// location's failure is reported in the summary, never fatal; only a store
// failure on the final batch append aborts the run with an error.
func (s *Service) Run(ctx context.Context, locations []string, forceRefresh bool) (models.RunSummary, error) {
	summary := models.RunSummary{
		Fetched: []models.Observation{},
		Skipped: []string{},
		Failed:  []models.FetchFailure{},
	}

	s.l.Info("starting fetch run", map[string]any{
		"locations":    locations,
		"forceRefresh": forceRefresh,
	})

	// One snapshot of the log drives every dedup decision in this run;
	// observations appended later in the run must not affect them.
	log, err := s.store.LoadAll(ctx)
	if err != nil {
		return summary, errors.Wrap(err, "failed to load observation log")
	}

	runStart := s.now()

	var toFetch []string
	for _, location := range locations {
		if forceRefresh || NeedsFetch(location, log, runStart, s.dedupWindow) {
			toFetch = append(toFetch, location)
			continue
		}
		s.l.Info("skipping location, recent data exists", map[string]any{
			"location": location,
			"window":   s.dedupWindow.String(),
		})
		summary.Skipped = append(summary.Skipped, location)
	}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)

	for _, location := range toFetch {
		wg.Add(1)

		go func(location string) {
			defer wg.Done()

			fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
			defer cancel()

			reading, err := s.client.FetchCurrent(fetchCtx, location)
			if err != nil {
				s.l.Warning("fetch failed", map[string]any{
					"location": location,
					"err":      err.Error(),
				})
				mu.Lock()
				summary.Failed = append(summary.Failed, models.FetchFailure{
					Location: location,
					Error:    err.Error(),
				})
				mu.Unlock()
				return
			}

			// Stamp at response acceptance, not request time.
			obs := reading.Stamp(s.now())

			mu.Lock()
			summary.Fetched = append(summary.Fetched, obs)
			mu.Unlock()

			s.l.Info("logged observation", map[string]any{
				"location":    obs.Location,
				"temperature": obs.TemperatureC,
				"description": obs.Description,
			})
		}(location)
	}

	wg.Wait()

	if len(summary.Fetched) > 0 {
		if err := s.store.AppendBatch(ctx, summary.Fetched); err != nil {
			return summary, errors.Wrap(err, "failed to persist fetched observations")
		}
	}

	s.l.Info("completed fetch run", map[string]any{
		"fetched": len(summary.Fetched),
		"skipped": len(summary.Skipped),
		"failed":  len(summary.Failed),
	})

	return summary, nil
}
