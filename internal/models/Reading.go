package models

import "time"

// Reading is a provider's raw current-weather answer for one location. It
// carries no timestamps: the orchestrator stamps a Reading into an
// Observation at the moment the response is accepted.
type Reading struct {
	Location     string
	TemperatureC float64
	Description  string
	HumidityPct  int
}

// Stamp turns a reading into an Observation recorded at the given instant.
func (r Reading) Stamp(now time.Time) Observation {
	return Observation{
		Location:        r.Location,
		TemperatureC:    r.TemperatureC,
		Description:     r.Description,
		HumidityPct:     r.HumidityPct,
		ObservedAtUTC:   now.UTC(),
		ObservedAtLocal: now,
	}
}
