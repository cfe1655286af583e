// Package retry runs an operation repeatedly with a backoff between attempts.
package retry

import (
	"context"
	"time"
)

// Policy describes how often and how patiently an operation is retried
type Policy struct {
	// MaxAttempts is the total number of tries, including the first
	MaxAttempts int
	// Backoff returns the wait after the given failed attempt (1-based)
	Backoff func(attempt int) time.Duration
	// Sleep waits for d or until ctx is done; nil uses a timer
	Sleep func(ctx context.Context, d time.Duration) error
}

// Exponential returns a backoff of base * 2^(attempt-1)
func Exponential(base time.Duration) func(int) time.Duration {
	return func(attempt int) time.Duration {
		if attempt < 1 {
			attempt = 1
		}
		return base << (attempt - 1)
	}
}

// DefaultPolicy tries three times, waiting one then two seconds
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		Backoff:     Exponential(time.Second),
	}
}

// Do calls fn until it succeeds or the attempts are used up. The error of
// the last attempt is returned unchanged. A cancelled context stops the
// wait between attempts and returns the context error.
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = Sleep
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if attempt == attempts {
			break
		}

		var wait time.Duration
		if p.Backoff != nil {
			wait = p.Backoff(attempt)
		}
		if serr := sleep(ctx, wait); serr != nil {
			return serr
		}
	}
	return err
}

// Sleep pauses for d unless ctx ends first
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
