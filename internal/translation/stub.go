package translation

import (
	"context"
	"sync/atomic"
	"time"
)

// StubProvider is a deterministic offline provider. It wraps the input as
// "[T:" + text + "]" so results can be checked without a model.
type StubProvider struct {
	// Delay is applied before answering
	Delay time.Duration

	calls atomic.Int64
}

// NewStubProvider creates a stub provider without delay
func NewStubProvider() *StubProvider {
	return &StubProvider{}
}

// Identity implements Provider
func (p *StubProvider) Identity() string {
	return "stub"
}

// Translate implements Provider
func (p *StubProvider) Translate(ctx context.Context, text string) (string, error) {
	p.calls.Add(1)
	if p.Delay > 0 {
		timer := time.NewTimer(p.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-timer.C:
		}
	}
	return StubTranslation(text), nil
}

// Calls returns the number of Translate invocations
func (p *StubProvider) Calls() int64 {
	return p.calls.Load()
}

// StubTranslation is the stub's translation function
func StubTranslation(text string) string {
	return "[T:" + text + "]"
}
