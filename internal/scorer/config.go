// Package scorer normalizes preference weights and scores flights, hotels and
// activities against them.
package scorer

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/tripscore/internal/config"
	"github.com/sells-group/tripscore/internal/model"
)

// Config controls the ranking helpers around the scoring formulas.
type Config struct {
	// OptimalCheapest flags the N cheapest flights as optimal.
	OptimalCheapest int
	// OptimalDirectWindow flags nonstop flights among the N cheapest.
	OptimalDirectWindow int
	// Defaults are the raw weights used when a session has none stored.
	Defaults model.RawWeights
}

// DefaultConfig returns the ranking defaults: top 3 cheapest, nonstops in
// the top 5, and no stored default weights.
func DefaultConfig() Config {
	return Config{
		OptimalCheapest:     3,
		OptimalDirectWindow: 5,
	}
}

// FromConfig builds a scorer Config from the application scoring section,
// falling back to DefaultConfig for unset values.
func FromConfig(c config.ScoringConfig) Config {
	out := DefaultConfig()
	if c.OptimalCheapest > 0 {
		out.OptimalCheapest = c.OptimalCheapest
	}
	if c.OptimalDirectWindow > 0 {
		out.OptimalDirectWindow = c.OptimalDirectWindow
	}
	if c.DefaultWeights != nil {
		out.Defaults = model.Raw(
			c.DefaultWeights.Budget,
			c.DefaultWeights.Quality,
			c.DefaultWeights.Convenience,
		)
	}
	return out
}

// SessionDefault returns the normalized weights for a session with nothing
// stored.
func (c Config) SessionDefault() model.PreferenceWeights {
	return Normalize(c.Defaults)
}

// ValidateConfig checks that the scoring section is internally consistent.
func ValidateConfig(c config.ScoringConfig) error {
	var errs []string

	if c.OptimalCheapest < 0 {
		errs = append(errs, "optimal_cheapest must be >= 0")
	}
	if c.OptimalDirectWindow < 0 {
		errs = append(errs, "optimal_direct_window must be >= 0")
	}
	if dw := c.DefaultWeights; dw != nil {
		for _, w := range []struct {
			name  string
			value float64
		}{
			{"budget", dw.Budget},
			{"quality", dw.Quality},
			{"convenience", dw.Convenience},
		} {
			if w.value < 0 {
				errs = append(errs, fmt.Sprintf("default_weights.%s must be >= 0", w.name))
			}
		}
	}

	if len(errs) > 0 {
		return eris.Errorf("scorer: config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
