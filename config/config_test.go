package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewConfig_Defaults(t *testing.T) {
	cnf := NewConfig()

	assert.Equal(t, "weather-analysis", cnf.AppName)
	assert.Equal(t, "8080", cnf.Port)
	assert.Equal(t, "weather_data.db", cnf.DBFile)
	assert.Equal(t, 2*time.Hour, cnf.DedupWindow)
	assert.Equal(t, 10*time.Second, cnf.FetchTimeout)
	assert.Equal(t, 15*time.Minute, cnf.FetchInterval)
	assert.Equal(t, 1.0, cnf.RateLimitRPS)
	assert.Equal(t, 5, cnf.RateLimitBurst)
}

func TestNewConfig_EnvironmentOverrides(t *testing.T) {
	t.Setenv("APP_NAME", "weather-analysis-test")
	t.Setenv("PORT", "9090")
	t.Setenv("OPENWEATHER_API_KEY", "secret")
	t.Setenv("DEDUP_WINDOW", "45m")
	t.Setenv("FETCH_INTERVAL", "1m")
	t.Setenv("LOCATIONS", "London,Paris,Tokyo")

	cnf := NewConfig()

	assert.Equal(t, "weather-analysis-test", cnf.AppName)
	assert.Equal(t, "9090", cnf.Port)
	assert.Equal(t, "secret", cnf.APIKey)
	assert.Equal(t, 45*time.Minute, cnf.DedupWindow)
	assert.Equal(t, time.Minute, cnf.FetchInterval)
	assert.Equal(t, []string{"London", "Paris", "Tokyo"}, cnf.Locations)
}

func TestNewConfig_InvalidDurationPanics(t *testing.T) {
	t.Setenv("DEDUP_WINDOW", "not-a-duration")

	assert.Panics(t, func() { NewConfig() })
}
