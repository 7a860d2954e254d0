package models

import (
	"strings"
	"time"
)

// Observation is one weather reading for one location at one point in time.
// Observations are appended to the log and never mutated; repeated readings
// for the same location form that location's time series.
type Observation struct {
	Location        string    `json:"location" example:"Paris"`
	TemperatureC    float64   `json:"temperature_c" example:"21.4"`
	Description     string    `json:"description" example:"scattered clouds"`
	HumidityPct     int       `json:"humidity_pct" example:"63"`
	ObservedAtUTC   time.Time `json:"observed_at_utc"`
	ObservedAtLocal time.Time `json:"observed_at_local"`
}

// MatchesLocation reports whether the observation belongs to the given
// location, compared case-insensitively ("Paris" and "paris" are one series).
func (o Observation) MatchesLocation(location string) bool {
	return strings.EqualFold(o.Location, location)
}
