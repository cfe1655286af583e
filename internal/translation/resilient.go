package translation

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"codeberg.org/snonux/mdtranslate/internal/retry"
)

// Resilient wraps a provider with retries, an optional circuit breaker and
// optional request pacing. Callers only see the final outcome.
type Resilient struct {
	next    Provider
	policy  retry.Policy
	breaker *gobreaker.CircuitBreaker
	limiter *rate.Limiter
}

// ResilientOptions configures NewResilient
type ResilientOptions struct {
	Policy retry.Policy
	// Breaker opens after this many consecutive failures; zero disables it
	BreakerThreshold uint32
	// BreakerTimeout is how long the breaker stays open
	BreakerTimeout    time.Duration
	RequestsPerSecond float64
	Logger            zerolog.Logger
}

// NewResilient wraps next according to opts
func NewResilient(next Provider, opts ResilientOptions) *Resilient {
	r := &Resilient{
		next:   next,
		policy: opts.Policy,
	}
	if r.policy.MaxAttempts == 0 {
		r.policy = retry.DefaultPolicy()
	}

	if opts.BreakerThreshold > 0 {
		timeout := opts.BreakerTimeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}
		threshold := opts.BreakerThreshold
		logger := opts.Logger
		r.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        next.Identity(),
			MaxRequests: 1,
			Timeout:     timeout,
			ReadyToTrip: func(c gobreaker.Counts) bool {
				return c.ConsecutiveFailures >= threshold
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.Warn().
					Str("provider", name).
					Str("from", from.String()).
					Str("to", to.String()).
					Msg("circuit breaker state changed")
			},
		})
	}

	if opts.RequestsPerSecond > 0 {
		burst := int(opts.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		r.limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	}
	return r
}

// Identity implements Provider and is the identity of the wrapped provider
func (r *Resilient) Identity() string {
	return r.next.Identity()
}

// WithSourceLang implements SourceSwitcher. The copy shares the breaker and
// the limiter with r.
func (r *Resilient) WithSourceLang(lang string) Provider {
	c := *r
	c.next = ForSource(r.next, lang)
	return &c
}

// Translate implements Provider
func (r *Resilient) Translate(ctx context.Context, text string) (string, error) {
	var translated string
	err := r.policy.Do(ctx, func(ctx context.Context) error {
		out, err := r.attempt(ctx, text)
		if err != nil {
			return err
		}
		translated = out
		return nil
	})
	if err != nil {
		return "", err
	}
	return translated, nil
}

func (r *Resilient) attempt(ctx context.Context, text string) (string, error) {
	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			return "", err
		}
	}

	if r.breaker == nil {
		return r.next.Translate(ctx, text)
	}

	out, err := r.breaker.Execute(func() (interface{}, error) {
		return r.next.Translate(ctx, text)
	})
	if err != nil {
		return "", err
	}
	return out.(string), nil
}
