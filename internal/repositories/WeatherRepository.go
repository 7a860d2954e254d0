package repositories

import (
	"context"
	"net/http"

	"github.com/prachi-1604/Weather-Analysis/internal/models"
)

// WeatherRepository is a remote current-weather source. One call maps one
// location to a reading or a *models.FetchError; there is no internal retry.
type WeatherRepository interface {
	Name() string
	FetchCurrent(ctx context.Context, location string) (models.Reading, error)
}

// ObservationStore is the durable append-only observation log. AppendBatch
// is all-or-nothing and calls are serialized relative to each other.
type ObservationStore interface {
	LoadAll(ctx context.Context) ([]models.Observation, error)
	AppendBatch(ctx context.Context, batch []models.Observation) error
}

// HTTPClient lets tests substitute the outbound HTTP transport.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}
