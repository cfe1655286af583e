package translation

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrEmptyTranslation is returned when a provider answers with no text
	ErrEmptyTranslation = errors.New("empty translation returned")
	// ErrMissingAPIKey is returned when a hosted provider has no credentials
	ErrMissingAPIKey = errors.New("API key not found")
	// ErrUnknownProvider is returned by New for an unsupported provider name
	ErrUnknownProvider = errors.New("unknown translation provider")
)

// Provider translates text from one language to another
type Provider interface {
	Translate(ctx context.Context, text string) (string, error)
	// Identity names the provider and model, e.g. "ollama:qwen2.5:7b"
	Identity() string
}

// SourceSwitcher is implemented by providers whose requests name the source
// language
type SourceSwitcher interface {
	WithSourceLang(lang string) Provider
}

// ForSource returns p translating from lang. Providers that ignore the source
// language are returned as is.
func ForSource(p Provider, lang string) Provider {
	if s, ok := p.(SourceSwitcher); ok {
		return s.WithSourceLang(lang)
	}
	return p
}

// ProviderError describes a failed provider call
type ProviderError struct {
	Provider   string
	StatusCode int
	Message    string
	Err        error
}

func (e *ProviderError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s error (status %d): %s", e.Provider, e.StatusCode, msg)
	}
	return fmt.Sprintf("%s error: %s", e.Provider, msg)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Config holds the settings shared by all providers
type Config struct {
	Provider   string
	Model      string
	BaseURL    string
	APIKey     string
	SourceLang string
	TargetLang string
	Timeout    time.Duration

	// RequestsPerSecond paces provider calls; zero disables pacing
	RequestsPerSecond float64
	// Breaker enables the circuit breaker around provider calls
	Breaker bool
}

// Default provider settings
const (
	DefaultProvider    = "ollama"
	DefaultOllamaURL   = "http://localhost:11434"
	DefaultOllamaModel = "qwen2.5:7b"
	DefaultOpenAIModel = "gpt-4o-mini"
	DefaultGeminiModel = "gemini-2.0-flash"
	DefaultTimeout     = 30 * time.Second
	defaultTemperature = 0.3
)

// DefaultModel returns the model used when none is configured
func DefaultModel(provider string) string {
	switch provider {
	case "", "ollama":
		return DefaultOllamaModel
	case "openai":
		return DefaultOpenAIModel
	case "gemini":
		return DefaultGeminiModel
	}
	return ""
}

func identity(provider, model string) string {
	return provider + ":" + model
}
