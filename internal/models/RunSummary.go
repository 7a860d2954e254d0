package models

// FetchFailure records one location whose fetch failed during a run.
type FetchFailure struct {
	Location string `json:"location" example:"Atlantis"`
	Error    string `json:"error" example:"remote returned status 404"`
}

// RunSummary reports the outcome of one orchestrator run. The three slices
// are disjoint: every requested location lands in exactly one of them, so an
// operator can tell "healthy, nothing new" from "fetches failing".
type RunSummary struct {
	Fetched []Observation  `json:"fetched"`
	Skipped []string       `json:"skipped"`
	Failed  []FetchFailure `json:"failed"`
}

// Requested returns the total number of locations covered by the summary.
func (s RunSummary) Requested() int {
	return len(s.Fetched) + len(s.Skipped) + len(s.Failed)
}
