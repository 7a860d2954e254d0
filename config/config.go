package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

type Config struct {
	AppName    string `envconfig:"APP_NAME" default:"weather-analysis"`
	AppVersion string `envconfig:"APP_VERSION" default:"1.0.0"`
	Port       string `envconfig:"PORT" default:"8080"`

	// OpenWeatherMap credentials and tracked locations.
	APIKey    string   `envconfig:"OPENWEATHER_API_KEY" yaml:"api_key"`
	Locations []string `envconfig:"LOCATIONS" yaml:"locations"`

	// Observation log database file.
	DBFile string `envconfig:"DB_FILE" default:"weather_data.db" yaml:"db_file"`

	// DedupWindow suppresses re-fetching a location observed this recently.
	DedupWindow   time.Duration `envconfig:"DEDUP_WINDOW" default:"2h" yaml:"dedup_window"`
	FetchTimeout  time.Duration `envconfig:"FETCH_TIMEOUT" default:"10s" yaml:"fetch_timeout"`
	FetchInterval time.Duration `envconfig:"FETCH_INTERVAL" default:"15m" yaml:"fetch_interval"`

	RateLimitRPS   float64 `envconfig:"RATE_LIMIT_RPS" default:"1" yaml:"rate_limit_rps"`
	RateLimitBurst int     `envconfig:"RATE_LIMIT_BURST" default:"5" yaml:"rate_limit_burst"`
}

func NewConfig() *Config {
	var cnf Config

	// Read from YAML file first
	if yamlData, err := os.ReadFile("config/config.yaml"); err == nil {
		if err := yaml.Unmarshal(yamlData, &cnf); err != nil {
			panic(fmt.Sprintf("Warning: failed to parse YAML config: %v\n", err))
		}
	}

	// Override with environment variables
	if err := envconfig.Process("", &cnf); err != nil {
		panic(fmt.Errorf("error environment variable parsing: %w", err))
	}

	return &cnf
}
