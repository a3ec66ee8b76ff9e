package provider

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/tripscore/internal/config"
	"github.com/sells-group/tripscore/internal/fetcher"
)

// HTTPProvider fetches payloads from configured URL templates. Templates may
// contain {origin}, {destination}, {depart}, {return}, {location}, {adults}
// and {max}; values are query-escaped.
type HTTPProvider struct {
	fetcher       fetcher.Fetcher
	flightsURL    string
	hotelsURL     string
	activitiesURL string
	maxOptions    int
}

// NewHTTPProvider creates an HTTPProvider backed by a rate-limited fetcher.
func NewHTTPProvider(cfg config.ProviderConfig) *HTTPProvider {
	return NewHTTPProviderWithFetcher(cfg, fetcher.NewHTTPFetcher(fetcher.OptionsFor(cfg)))
}

// NewHTTPProviderWithFetcher creates an HTTPProvider using f.
func NewHTTPProviderWithFetcher(cfg config.ProviderConfig, f fetcher.Fetcher) *HTTPProvider {
	return &HTTPProvider{
		fetcher:       f,
		flightsURL:    cfg.FlightsURL,
		hotelsURL:     cfg.HotelsURL,
		activitiesURL: cfg.ActivitiesURL,
		maxOptions:    cfg.MaxOptionCount,
	}
}

// SearchFlights fetches one payload carrying both legs. The extractor reads
// the return leg from the same document.
func (p *HTTPProvider) SearchFlights(ctx context.Context, q Query) (FlightResults, error) {
	if p.flightsURL == "" {
		return FlightResults{}, eris.New("provider: flights url not configured")
	}
	data, err := p.get(ctx, p.flightsURL, q)
	if err != nil {
		return FlightResults{}, eris.Wrap(err, "provider: search flights")
	}
	res := FlightResults{Outbound: data}
	if q.ReturnDate != "" {
		res.Return = data
	}
	return res, nil
}

func (p *HTTPProvider) Hotels(ctx context.Context, q Query) ([]byte, error) {
	data, err := p.get(ctx, p.hotelsURL, q)
	return data, eris.Wrap(err, "provider: hotels")
}

func (p *HTTPProvider) Activities(ctx context.Context, q Query) ([]byte, error) {
	data, err := p.get(ctx, p.activitiesURL, q)
	return data, eris.Wrap(err, "provider: activities")
}

func (p *HTTPProvider) get(ctx context.Context, tmpl string, q Query) ([]byte, error) {
	if tmpl == "" {
		return nil, nil
	}
	u := p.expand(tmpl, q)
	data, err := p.fetcher.Get(ctx, u)
	if errors.Is(err, fetcher.ErrNotFound) {
		zap.L().Debug("provider: no data", zap.String("url", u))
		return nil, nil
	}
	return data, err
}

func (p *HTTPProvider) expand(tmpl string, q Query) string {
	maxOptions := q.Max
	if maxOptions <= 0 {
		maxOptions = p.maxOptions
	}
	r := strings.NewReplacer(
		"{origin}", url.QueryEscape(q.Origin),
		"{destination}", url.QueryEscape(q.Destination),
		"{depart}", url.QueryEscape(q.DepartDate),
		"{return}", url.QueryEscape(q.ReturnDate),
		"{location}", url.QueryEscape(q.Area()),
		"{adults}", q.adults(),
		"{max}", strconv.Itoa(maxOptions),
	)
	return r.Replace(tmpl)
}
