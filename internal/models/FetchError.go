package models

import "fmt"

// FetchErrorKind classifies why a single fetch failed.
type FetchErrorKind string

const (
	// FetchErrorTransport covers connection, DNS and timeout failures.
	FetchErrorTransport FetchErrorKind = "transport"
	// FetchErrorRemote covers non-success HTTP status codes.
	FetchErrorRemote FetchErrorKind = "remote"
	// FetchErrorMalformed covers responses missing required fields.
	FetchErrorMalformed FetchErrorKind = "malformed"
)

// FetchError is the typed failure of a single weather fetch. Status is only
// set for FetchErrorRemote.
type FetchError struct {
	Kind   FetchErrorKind
	Detail string
	Status int
}

func (e *FetchError) Error() string {
	if e.Kind == FetchErrorRemote && e.Status != 0 {
		return fmt.Sprintf("%s error (status %d): %s", e.Kind, e.Status, e.Detail)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, e.Detail)
}
