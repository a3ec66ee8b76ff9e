package provider

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"

	"github.com/sells-group/tripscore/internal/fetcher"
)

var fixtureExts = []string{".json", ".yaml", ".yml"}

// FileProvider serves fixture payloads from a directory:
// flights, return_flights, hotels and activities, each as .json, .yaml or
// .yml. Files named <destination>_<kind> take precedence, so one directory
// can hold fixtures for several destinations.
type FileProvider struct {
	dir string
}

// NewFileProvider creates a FileProvider rooted at dir.
func NewFileProvider(dir string) *FileProvider {
	return &FileProvider{dir: dir}
}

func (p *FileProvider) SearchFlights(_ context.Context, q Query) (FlightResults, error) {
	out, err := p.load(q.Destination, "flights")
	if err != nil {
		return FlightResults{}, err
	}
	res := FlightResults{Outbound: out}
	if q.ReturnDate == "" {
		return res, nil
	}

	ret, err := p.load(q.Destination, "return_flights")
	if err != nil {
		return FlightResults{}, err
	}
	if ret == nil {
		ret = out
	}
	res.Return = ret
	return res, nil
}

func (p *FileProvider) Hotels(_ context.Context, q Query) ([]byte, error) {
	return p.load(q.Area(), "hotels")
}

func (p *FileProvider) Activities(_ context.Context, q Query) ([]byte, error) {
	return p.load(q.Area(), "activities")
}

func (p *FileProvider) load(scope, kind string) ([]byte, error) {
	names := []string{kind}
	if scope != "" {
		names = []string{scope + "_" + kind, kind}
	}
	for _, name := range names {
		for _, ext := range fixtureExts {
			path := filepath.Join(p.dir, name+ext)
			if _, err := os.Stat(path); err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					continue
				}
				return nil, eris.Wrapf(err, "provider: stat %s", path)
			}
			data, err := fetcher.LoadPayload(path)
			return data, eris.Wrapf(err, "provider: load %s", kind)
		}
	}
	return nil, nil
}
