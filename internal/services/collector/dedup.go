package collector

import (
	"strings"
	"time"

	"github.com/prachi-1604/Weather-Analysis/internal/models"
)

// DefaultDedupWindow is the recency threshold under which an existing
// observation suppresses a new fetch for the same location.
const DefaultDedupWindow = 2 * time.Hour

// NeedsFetch reports whether location has no observation in log younger than
// window, measured against the local fetch timestamp. Location matching is
// case-insensitive. The comparison is strict: an observation exactly window
// old no longer suppresses a fetch.
func NeedsFetch(location string, log []models.Observation, now time.Time, window time.Duration) bool {
	// Newest entries sit at the tail, so scan backwards.
	for i := len(log) - 1; i >= 0; i-- {
		if !strings.EqualFold(log[i].Location, location) {
			continue
		}
		return now.Sub(log[i].ObservedAtLocal) >= window
	}
	return true
}
