// Package provider supplies raw flight, hotel and activity payloads for a
// trip query. Payloads are returned as JSON bytes for the extractor; an
// absent source yields nil rather than an error.
package provider

import (
	"context"
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/sells-group/tripscore/internal/config"
)

// Query describes one trip search.
type Query struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	DepartDate  string `json:"depart_date"`
	ReturnDate  string `json:"return_date,omitempty"`
	Location    string `json:"location,omitempty"` // hotel and activity area; defaults to Destination
	Adults      int    `json:"adults,omitempty"`
	Max         int    `json:"max,omitempty"`
}

// Area returns the location used for hotels and activities.
func (q Query) Area() string {
	if q.Location != "" {
		return q.Location
	}
	return q.Destination
}

// FlightResults holds raw outbound and return flight payloads. Return may be
// nil, or the same payload as Outbound when round trips arrive together.
type FlightResults struct {
	Outbound []byte
	Return   []byte
}

// FlightSearchProvider searches flights.
type FlightSearchProvider interface {
	SearchFlights(ctx context.Context, q Query) (FlightResults, error)
}

// ItineraryDataProvider supplies hotel and activity payloads.
type ItineraryDataProvider interface {
	Hotels(ctx context.Context, q Query) ([]byte, error)
	Activities(ctx context.Context, q Query) ([]byte, error)
}

// Provider is both a flight search and an itinerary data source.
type Provider interface {
	FlightSearchProvider
	ItineraryDataProvider
}

// New builds the provider selected by cfg.Kind.
func New(cfg config.ProviderConfig) (Provider, error) {
	switch cfg.Kind {
	case "file", "":
		return NewFileProvider(cfg.BaseDir), nil
	case "http":
		return NewHTTPProvider(cfg), nil
	default:
		return nil, eris.Errorf("provider: unknown kind %q", cfg.Kind)
	}
}

func (q Query) adults() string {
	if q.Adults <= 0 {
		return "1"
	}
	return strconv.Itoa(q.Adults)
}
