package testutil

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"codeberg.org/snonux/mdtranslate/internal/cache"
	"codeberg.org/snonux/mdtranslate/internal/translation"
)

// MockProvider mocks a translation provider. Without a configured
// translation it answers "[T:" + text + "]".
type MockProvider struct {
	ID           string
	Translations map[string]string
	Errors       map[string]error
	// Delay returns how long the call for text takes
	Delay func(text string) time.Duration

	mu      sync.Mutex
	calls   []string
	sources []string

	inFlight    atomic.Int64
	maxInFlight atomic.Int64
}

// NewMockProvider creates a mock provider with identity "mock"
func NewMockProvider() *MockProvider {
	return &MockProvider{
		ID:           "mock",
		Translations: make(map[string]string),
		Errors:       make(map[string]error),
	}
}

// Identity implements the provider interface
func (m *MockProvider) Identity() string {
	return m.ID
}

// Translate implements the provider interface
func (m *MockProvider) Translate(ctx context.Context, text string) (string, error) {
	n := m.inFlight.Add(1)
	defer m.inFlight.Add(-1)
	for {
		peak := m.maxInFlight.Load()
		if n <= peak || m.maxInFlight.CompareAndSwap(peak, n) {
			break
		}
	}

	m.mu.Lock()
	m.calls = append(m.calls, text)
	m.mu.Unlock()

	if m.Delay != nil {
		if d := m.Delay(text); d > 0 {
			timer := time.NewTimer(d)
			select {
			case <-ctx.Done():
				timer.Stop()
				return "", ctx.Err()
			case <-timer.C:
			}
		}
	}

	if err, ok := m.Errors[text]; ok {
		return "", err
	}
	if translation, ok := m.Translations[text]; ok {
		return translation, nil
	}
	return "[T:" + text + "]", nil
}

// Calls returns the texts sent to the provider in call order
func (m *MockProvider) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// WithSourceLang implements translation.SourceSwitcher. Calls through the
// returned provider are recorded under lang.
func (m *MockProvider) WithSourceLang(lang string) translation.Provider {
	return &mockSource{MockProvider: m, lang: lang}
}

// SourceLangs returns the source language of every call made through
// WithSourceLang
func (m *MockProvider) SourceLangs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.sources...)
}

type mockSource struct {
	*MockProvider
	lang string
}

func (s *mockSource) Translate(ctx context.Context, text string) (string, error) {
	s.mu.Lock()
	s.sources = append(s.sources, s.lang)
	s.mu.Unlock()
	return s.MockProvider.Translate(ctx, text)
}

// MaxInFlight returns the highest number of concurrent Translate calls seen
func (m *MockProvider) MaxInFlight() int64 {
	return m.maxInFlight.Load()
}

// ErrMockWrite is returned by FailingCache.Set
var ErrMockWrite = errors.New("mock cache write failed")

// FailingCache never hits and fails every write
type FailingCache struct {
	mu    sync.Mutex
	stats cache.Stats
	Sets  int
}

// Get implements cache.Backend
func (c *FailingCache) Get(source, identity, langPair string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats.TotalRequests++
	c.stats.CacheMisses++
	return "", false
}

// Set implements cache.Backend
func (c *FailingCache) Set(source, translation, identity, langPair string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Sets++
	return &cache.Error{Op: "set", Key: cache.Key(source, identity, langPair), Err: ErrMockWrite}
}

// Clear implements cache.Backend
func (c *FailingCache) Clear() error {
	return &cache.Error{Op: "clear", Err: ErrMockWrite}
}

// Stats implements cache.Backend
func (c *FailingCache) Stats() cache.Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// CountingReporter records progress updates
type CountingReporter struct {
	count    atomic.Int64
	finished atomic.Bool
}

// Increment implements progress.Reporter
func (r *CountingReporter) Increment() {
	r.count.Add(1)
}

// Finish implements progress.Reporter
func (r *CountingReporter) Finish() {
	r.finished.Store(true)
}

// Count returns the number of increments
func (r *CountingReporter) Count() int64 {
	return r.count.Load()
}

// Finished reports whether Finish was called
func (r *CountingReporter) Finished() bool {
	return r.finished.Load()
}

// String describes the reporter state for test failures
func (r *CountingReporter) String() string {
	return fmt.Sprintf("increments=%d finished=%v", r.Count(), r.Finished())
}
