package analytics

import (
	"context"
	"errors"
	"sort"
	"time"

	pkgerrors "github.com/pkg/errors"

	"github.com/prachi-1604/Weather-Analysis/internal/models"
	"github.com/prachi-1604/Weather-Analysis/internal/repositories"
	"github.com/prachi-1604/Weather-Analysis/pkg/logger"
)

// ErrNoData signals that a query found nothing to report. It is a valid
// empty-result outcome, distinct from a store or computation failure.
var ErrNoData = errors.New("no weather data available")

// RecentWindow bounds the "recent" extremes computation.
const RecentWindow = 24 * time.Hour

// Service answers read-only analytics queries over the observation log.
// Every query reloads the log; the log may have grown since the last call.
type Service struct {
	store repositories.ObservationStore
	l     *logger.Logger
}

func NewService(store repositories.ObservationStore, l *logger.Logger) *Service {
	return &Service{store: store, l: l}
}

// LocationAverage is the mean temperature and sample count for one location.
type LocationAverage struct {
	Location         string  `json:"location" example:"Paris"`
	MeanTemperatureC float64 `json:"mean_temperature_c" example:"18.7"`
	Count            int     `json:"count" example:"12"`
}

// Averages groups observations by location and reports mean temperature and
// count per group, sorted ascending by mean (ties by location name).
//
// Grouping is by the exact stored string: "Paris" and "paris" are separate
// rows here even though the dedup filter folds case when deciding whether to
// fetch. The asymmetry is inherited behavior and pinned by tests.
func (s *Service) Averages(ctx context.Context) ([]LocationAverage, error) {
	log, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to load observation log")
	}
	if len(log) == 0 {
		return nil, ErrNoData
	}

	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, obs := range log {
		sums[obs.Location] += obs.TemperatureC
		counts[obs.Location]++
	}

	averages := make([]LocationAverage, 0, len(sums))
	for location, sum := range sums {
		averages = append(averages, LocationAverage{
			Location:         location,
			MeanTemperatureC: sum / float64(counts[location]),
			Count:            counts[location],
		})
	}

	sort.Slice(averages, func(i, j int) bool {
		if averages[i].MeanTemperatureC != averages[j].MeanTemperatureC {
			return averages[i].MeanTemperatureC < averages[j].MeanTemperatureC
		}
		return averages[i].Location < averages[j].Location
	})

	s.l.Debug("computed location averages", map[string]any{
		"observations": len(log),
		"locations":    len(averages),
	})

	return averages, nil
}

// ExtremesReport holds the single hottest and coldest observations, over the
// whole log and restricted to the recent window. The recent entries are nil
// when no observation falls inside the window.
type ExtremesReport struct {
	HottestOverall models.Observation  `json:"hottest_overall"`
	ColdestOverall models.Observation  `json:"coldest_overall"`
	HottestRecent  *models.Observation `json:"hottest_last_24h,omitempty"`
	ColdestRecent  *models.Observation `json:"coldest_last_24h,omitempty"`
}

// Extremes reports temperature extremes as of now. Ties on temperature are
// broken in favor of the earlier local timestamp.
func (s *Service) Extremes(ctx context.Context, now time.Time) (ExtremesReport, error) {
	log, err := s.store.LoadAll(ctx)
	if err != nil {
		return ExtremesReport{}, pkgerrors.Wrap(err, "failed to load observation log")
	}
	if len(log) == 0 {
		return ExtremesReport{}, ErrNoData
	}

	report := ExtremesReport{
		HottestOverall: log[0],
		ColdestOverall: log[0],
	}
	for _, obs := range log[1:] {
		report.HottestOverall = hotter(obs, report.HottestOverall)
		report.ColdestOverall = colder(obs, report.ColdestOverall)
	}

	cutoff := now.Add(-RecentWindow)
	for i := range log {
		obs := log[i]
		if !obs.ObservedAtLocal.After(cutoff) {
			continue
		}
		if report.HottestRecent == nil {
			cp := obs
			report.HottestRecent = &cp
			cp2 := obs
			report.ColdestRecent = &cp2
			continue
		}
		h := hotter(obs, *report.HottestRecent)
		report.HottestRecent = &h
		c := colder(obs, *report.ColdestRecent)
		report.ColdestRecent = &c
	}

	return report, nil
}

func hotter(a, b models.Observation) models.Observation {
	if a.TemperatureC > b.TemperatureC {
		return a
	}
	if a.TemperatureC == b.TemperatureC && a.ObservedAtLocal.Before(b.ObservedAtLocal) {
		return a
	}
	return b
}

func colder(a, b models.Observation) models.Observation {
	if a.TemperatureC < b.TemperatureC {
		return a
	}
	if a.TemperatureC == b.TemperatureC && a.ObservedAtLocal.Before(b.ObservedAtLocal) {
		return a
	}
	return b
}

// TrendPoint is one (timestamp, temperature) pair of a location's series.
type TrendPoint struct {
	Timestamp    time.Time `json:"timestamp"`
	TemperatureC float64   `json:"temperature_c"`
}

// Trend returns the location's time series in log order for an external
// plotter. A location with zero observations yields ErrNoData so callers can
// tell "nothing to plot" from "plotted nothing".
func (s *Service) Trend(ctx context.Context, location string) ([]TrendPoint, error) {
	log, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to load observation log")
	}

	var series []TrendPoint
	for _, obs := range log {
		if !obs.MatchesLocation(location) {
			continue
		}
		series = append(series, TrendPoint{
			Timestamp:    obs.ObservedAtLocal,
			TemperatureC: obs.TemperatureC,
		})
	}

	if len(series) == 0 {
		return nil, ErrNoData
	}
	return series, nil
}

// RecentLogs returns the last limit observations, optionally restricted to
// one location (case-insensitive). limit <= 0 means no limit.
func (s *Service) RecentLogs(ctx context.Context, location string, limit int) ([]models.Observation, error) {
	log, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to load observation log")
	}
	if len(log) == 0 {
		return nil, ErrNoData
	}

	filtered := log
	if location != "" {
		filtered = nil
		for _, obs := range log {
			if obs.MatchesLocation(location) {
				filtered = append(filtered, obs)
			}
		}
	}

	if limit > 0 && len(filtered) > limit {
		filtered = filtered[len(filtered)-limit:]
	}
	return filtered, nil
}
