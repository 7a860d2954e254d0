package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/time/rate"

	"github.com/prachi-1604/Weather-Analysis/internal/models"
	"github.com/prachi-1604/Weather-Analysis/pkg/logger"
)

const (
	OpenWeatherBaseURL = "https://api.openweathermap.org/data/2.5/weather"

	// DefaultRequestsPerSecond keeps scheduled runs inside the free-tier
	// OpenWeatherMap quota even with large location lists.
	DefaultRequestsPerSecond = 1.0
	DefaultBurst             = 5
)

type OpenWeatherRepository struct {
	// BaseURL may be overridden for tests; empty means OpenWeatherBaseURL.
	BaseURL string

	apiKey     string
	httpClient HTTPClient
	limiter    *rate.Limiter
	l          *logger.Logger
}

func NewOpenWeatherRepository(apiKey string, rps float64, burst int, l *logger.Logger, httpClient HTTPClient) (*OpenWeatherRepository, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("API key cannot be empty")
	}
	if rps <= 0 {
		rps = DefaultRequestsPerSecond
	}
	if burst <= 0 {
		burst = DefaultBurst
	}

	return &OpenWeatherRepository{
		apiKey:     apiKey,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Limit(rps), burst),
		l:          l,
	}, nil
}

func (o *OpenWeatherRepository) Name() string {
	return "openweathermap"
}

// openWeatherResponse mirrors the fields of the current-weather payload we
// consume. Pointers distinguish "absent" from zero values.
type openWeatherResponse struct {
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp     *float64 `json:"temp"`
		Humidity *int     `json:"humidity"`
	} `json:"main"`
}

type openWeatherErrorResponse struct {
	Cod     any    `json:"cod"`
	Message string `json:"message"`
}

// FetchCurrent issues a single metric-units current-weather request for the
// location. All failure modes map to a typed *models.FetchError.
func (o *OpenWeatherRepository) FetchCurrent(ctx context.Context, location string) (models.Reading, error) {
	if err := o.limiter.Wait(ctx); err != nil {
		return models.Reading{}, &models.FetchError{
			Kind:   models.FetchErrorTransport,
			Detail: fmt.Sprintf("rate limit wait canceled: %v", err),
		}
	}

	params := url.Values{}
	params.Set("q", location)
	params.Set("appid", o.apiKey)
	params.Set("units", "metric")
	requestURL := o.baseURL() + "?" + params.Encode()

	o.l.Debug("making openweathermap API request", map[string]any{
		"repository": o.Name(),
		"location":   location,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return models.Reading{}, &models.FetchError{
			Kind:   models.FetchErrorTransport,
			Detail: fmt.Sprintf("failed to create request: %v", err),
		}
	}

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return models.Reading{}, &models.FetchError{
			Kind:   models.FetchErrorTransport,
			Detail: fmt.Sprintf("failed to do request: %v", err),
		}
	}
	defer resp.Body.Close()

	o.l.Debug("received openweathermap API response", map[string]any{
		"repository": o.Name(),
		"location":   location,
		"status":     resp.StatusCode,
	})

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.Reading{}, &models.FetchError{
			Kind:   models.FetchErrorTransport,
			Detail: fmt.Sprintf("failed to read response body: %v", err),
		}
	}

	if resp.StatusCode != http.StatusOK {
		detail := resp.Status
		var errResp openWeatherErrorResponse
		if jsonErr := json.Unmarshal(body, &errResp); jsonErr == nil && errResp.Message != "" {
			detail = errResp.Message
		}
		return models.Reading{}, &models.FetchError{
			Kind:   models.FetchErrorRemote,
			Detail: detail,
			Status: resp.StatusCode,
		}
	}

	var response openWeatherResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return models.Reading{}, &models.FetchError{
			Kind:   models.FetchErrorMalformed,
			Detail: fmt.Sprintf("failed to parse JSON response: %v", err),
		}
	}

	if response.Main.Temp == nil || response.Main.Humidity == nil || len(response.Weather) == 0 {
		return models.Reading{}, &models.FetchError{
			Kind:   models.FetchErrorMalformed,
			Detail: "response missing temperature, humidity or description",
		}
	}

	return models.Reading{
		Location:     location,
		TemperatureC: *response.Main.Temp,
		Description:  response.Weather[0].Description,
		HumidityPct:  *response.Main.Humidity,
	}, nil
}

func (o *OpenWeatherRepository) baseURL() string {
	if o.BaseURL != "" {
		return o.BaseURL
	}
	return OpenWeatherBaseURL
}
