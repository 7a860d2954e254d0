package collector_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prachi-1604/Weather-Analysis/internal/models"
	"github.com/prachi-1604/Weather-Analysis/internal/services/collector"
	"github.com/prachi-1604/Weather-Analysis/pkg/logger"
)

// MockStore implements repositories.ObservationStore for testing
type MockStore struct {
	mu        sync.Mutex
	log       []models.Observation
	loadErr   error
	appendErr error

	loadCalls   int
	appendCalls int
	appended    [][]models.Observation
}

func (m *MockStore) LoadAll(ctx context.Context) ([]models.Observation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadCalls++
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return append([]models.Observation(nil), m.log...), nil
}

func (m *MockStore) AppendBatch(ctx context.Context, batch []models.Observation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.appendCalls++
	m.appended = append(m.appended, batch)
	if m.appendErr != nil {
		return m.appendErr
	}
	m.log = append(m.log, batch...)
	return nil
}

// MockRepository implements repositories.WeatherRepository for testing
type MockRepository struct {
	mu       sync.Mutex
	readings map[string]models.Reading
	failures map[string]error
	calls    []string
}

func (m *MockRepository) Name() string { return "mock" }

func (m *MockRepository) FetchCurrent(ctx context.Context, location string) (models.Reading, error) {
	m.mu.Lock()
	m.calls = append(m.calls, location)
	m.mu.Unlock()

	if err, ok := m.failures[location]; ok {
		return models.Reading{}, err
	}
	if reading, ok := m.readings[location]; ok {
		return reading, nil
	}
	return models.Reading{Location: location, TemperatureC: 15.0, Description: "clear sky", HumidityPct: 40}, nil
}

func (m *MockRepository) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func newTestService(store *MockStore, repo *MockRepository, now time.Time) *collector.Service {
	l := logger.NewZapLogger("test-app")
	svc := collector.NewService(store, repo, 2*time.Hour, time.Second, l)
	return svc.WithClock(func() time.Time { return now })
}

func TestRun_FetchesAllNewLocations(t *testing.T) {
	now := time.Now()
	store := &MockStore{}
	repo := &MockRepository{}

	service := newTestService(store, repo, now)

	summary, err := service.Run(context.Background(), []string{"London", "Paris", "Tokyo"}, false)

	require.NoError(t, err)
	assert.Len(t, summary.Fetched, 3)
	assert.Empty(t, summary.Skipped)
	assert.Empty(t, summary.Failed)
	assert.Equal(t, 3, repo.callCount())
}

func TestRun_SkippedLocationsAreNotFetched(t *testing.T) {
	now := time.Now()
	store := &MockStore{
		log: []models.Observation{
			observationAt("London", now.Add(-10*time.Minute)),
			observationAt("Paris", now.Add(-3*time.Hour)),
		},
	}
	repo := &MockRepository{}

	service := newTestService(store, repo, now)

	// London is fresh, Paris is stale, Tokyo is unknown: 3 requested, 1
	// skipped, exactly 2 fetch calls.
	summary, err := service.Run(context.Background(), []string{"London", "Paris", "Tokyo"}, false)

	require.NoError(t, err)
	assert.Equal(t, []string{"London"}, summary.Skipped)
	assert.Len(t, summary.Fetched, 2)
	assert.Equal(t, 2, repo.callCount())
}

func TestRun_ForceRefreshBypassesDedup(t *testing.T) {
	now := time.Now()
	store := &MockStore{
		log: []models.Observation{
			observationAt("London", now.Add(-time.Minute)),
			observationAt("Paris", now.Add(-time.Minute)),
		},
	}
	repo := &MockRepository{}

	service := newTestService(store, repo, now)

	summary, err := service.Run(context.Background(), []string{"London", "Paris"}, true)

	require.NoError(t, err)
	assert.Empty(t, summary.Skipped)
	assert.Len(t, summary.Fetched, 2)
	assert.Equal(t, 2, repo.callCount())
}

func TestRun_PartialFailureDoesNotBlockOthers(t *testing.T) {
	now := time.Now()
	store := &MockStore{}
	repo := &MockRepository{
		failures: map[string]error{
			"Atlantis": &models.FetchError{Kind: models.FetchErrorRemote, Detail: "city not found", Status: 404},
		},
	}

	service := newTestService(store, repo, now)

	summary, err := service.Run(context.Background(), []string{"London", "Atlantis", "Paris"}, false)

	require.NoError(t, err)
	assert.Len(t, summary.Fetched, 2)
	require.Len(t, summary.Failed, 1)
	assert.Equal(t, "Atlantis", summary.Failed[0].Location)
	assert.Contains(t, summary.Failed[0].Error, "city not found")

	// The successes were still persisted, in a single batch.
	require.Equal(t, 1, store.appendCalls)
	assert.Len(t, store.appended[0], 2)
}

func TestRun_AllFailuresIsAValidSummary(t *testing.T) {
	now := time.Now()
	store := &MockStore{}
	repo := &MockRepository{
		failures: map[string]error{
			"London": &models.FetchError{Kind: models.FetchErrorTransport, Detail: "connection refused"},
			"Paris":  &models.FetchError{Kind: models.FetchErrorTransport, Detail: "connection refused"},
		},
	}

	service := newTestService(store, repo, now)

	summary, err := service.Run(context.Background(), []string{"London", "Paris"}, false)

	require.NoError(t, err)
	assert.Empty(t, summary.Fetched)
	assert.Len(t, summary.Failed, 2)
}

func TestRun_AllSkippedIsAValidSummary(t *testing.T) {
	now := time.Now()
	store := &MockStore{
		log: []models.Observation{
			observationAt("London", now.Add(-time.Minute)),
		},
	}
	repo := &MockRepository{}

	service := newTestService(store, repo, now)

	summary, err := service.Run(context.Background(), []string{"London"}, false)

	require.NoError(t, err)
	assert.Equal(t, []string{"London"}, summary.Skipped)
	assert.Empty(t, summary.Fetched)
	assert.Zero(t, repo.callCount())
}

func TestRun_StoreLoadFailureIsFatal(t *testing.T) {
	store := &MockStore{loadErr: errors.New("disk gone")}
	repo := &MockRepository{}

	service := newTestService(store, repo, time.Now())

	_, err := service.Run(context.Background(), []string{"London"}, false)

	require.Error(t, err)
	assert.Zero(t, repo.callCount())
}

func TestRun_AppendFailureIsFatalAndReported(t *testing.T) {
	store := &MockStore{appendErr: errors.New("disk full")}
	repo := &MockRepository{}

	service := newTestService(store, repo, time.Now())

	summary, err := service.Run(context.Background(), []string{"London", "Paris"}, false)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	// The summary still reports what was fetched before persistence failed.
	assert.Len(t, summary.Fetched, 2)
}

func TestRun_ObservationsStampedWithInjectedClock(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.FixedZone("CEST", 2*3600))
	store := &MockStore{}
	repo := &MockRepository{
		readings: map[string]models.Reading{
			"Paris": {Location: "Paris", TemperatureC: 23.5, Description: "few clouds", HumidityPct: 55},
		},
	}

	service := newTestService(store, repo, now)

	summary, err := service.Run(context.Background(), []string{"Paris"}, false)

	require.NoError(t, err)
	require.Len(t, summary.Fetched, 1)
	obs := summary.Fetched[0]
	assert.Equal(t, "Paris", obs.Location)
	assert.Equal(t, 23.5, obs.TemperatureC)
	assert.True(t, obs.ObservedAtLocal.Equal(now))
	assert.True(t, obs.ObservedAtUTC.Equal(now.UTC()))
	assert.Equal(t, time.UTC, obs.ObservedAtUTC.Location())
}

// Dedup decisions come from one snapshot taken at run start: the same run
// never re-reads the log, so concurrent appends cannot flip a decision.
func TestRun_LoadsLogExactlyOnce(t *testing.T) {
	store := &MockStore{}
	repo := &MockRepository{}

	service := newTestService(store, repo, time.Now())

	_, err := service.Run(context.Background(), []string{"London", "Paris", "Tokyo", "Oslo"}, false)

	require.NoError(t, err)
	assert.Equal(t, 1, store.loadCalls)
}
