package resilience

import (
	"context"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/tripscore/internal/config"
)

// Policy controls exponential backoff between attempts.
type Policy struct {
	// Attempts is the total number of tries, including the first.
	Attempts int
	// Base is the delay before the first retry; it doubles after each one.
	Base time.Duration
	// Max caps a single delay.
	Max time.Duration
	// Jitter is the fraction of each delay randomized in either direction.
	Jitter float64
	// Name labels retry log lines.
	Name string
}

// DefaultPolicy returns the policy used for provider fetches.
func DefaultPolicy() Policy {
	return Policy{
		Attempts: 3,
		Base:     500 * time.Millisecond,
		Max:      10 * time.Second,
		Jitter:   0.25,
		Name:     "provider",
	}
}

// PolicyFor derives a retry policy from provider settings.
func PolicyFor(cfg config.ProviderConfig) Policy {
	p := DefaultPolicy()
	if cfg.MaxRetries > 0 {
		p.Attempts = cfg.MaxRetries
	}
	if cfg.Kind != "" {
		p.Name = cfg.Kind
	}
	return p
}

// Do runs fn until it succeeds, returns a non-transient error, exhausts the
// policy or ctx is done. The last error is returned unchanged.
func Do(ctx context.Context, p Policy, fn func(ctx context.Context) error) error {
	_, err := DoVal(ctx, p, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

// DoVal is Do for functions that produce a value.
func DoVal[T any](ctx context.Context, p Policy, fn func(ctx context.Context) (T, error)) (T, error) {
	if p.Attempts <= 0 {
		p.Attempts = 1
	}

	var (
		zero T
		err  error
	)
	for attempt := range p.Attempts {
		var val T
		val, err = fn(ctx)
		if err == nil {
			return val, nil
		}
		if ctx.Err() != nil || !IsTransient(err) || attempt == p.Attempts-1 {
			return zero, err
		}

		zap.L().Debug("resilience: retrying",
			zap.String("name", p.Name),
			zap.Int("attempt", attempt+1),
			zap.Error(err),
		)

		timer := time.NewTimer(p.delay(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, err
		case <-timer.C:
		}
	}
	return zero, err
}

func (p Policy) delay(attempt int) time.Duration {
	d := p.Base << attempt
	if p.Max > 0 && (d > p.Max || d <= 0) {
		d = p.Max
	}
	if p.Jitter > 0 {
		span := float64(d) * p.Jitter
		d += time.Duration((rand.Float64()*2 - 1) * span)
	}
	if d < 0 {
		return 0
	}
	return d
}
