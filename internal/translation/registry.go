package translation

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"
)

type factory func(ctx context.Context, cfg Config) (Provider, error)

var factories = map[string]factory{
	"ollama": func(_ context.Context, cfg Config) (Provider, error) {
		return NewOllamaProvider(cfg), nil
	},
	"openai": func(_ context.Context, cfg Config) (Provider, error) {
		if cfg.APIKey == "" {
			return nil, &ProviderError{Provider: "openai", Err: ErrMissingAPIKey}
		}
		return NewOpenAIProvider(cfg), nil
	},
	"gemini": func(ctx context.Context, cfg Config) (Provider, error) {
		return NewGeminiProvider(ctx, cfg)
	},
	"stub": func(context.Context, Config) (Provider, error) {
		return NewStubProvider(), nil
	},
}

// Names returns the supported provider names
func Names() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New creates the provider named in cfg. Network providers are wrapped in
// Resilient with the default retry policy.
func New(ctx context.Context, cfg Config, logger zerolog.Logger) (Provider, error) {
	name := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if name == "" {
		name = DefaultProvider
	}

	create, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (supported: %s)", ErrUnknownProvider, cfg.Provider, strings.Join(Names(), ", "))
	}

	p, err := create(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if name == "stub" {
		return p, nil
	}

	opts := ResilientOptions{
		RequestsPerSecond: cfg.RequestsPerSecond,
		Logger:            logger,
	}
	if cfg.Breaker {
		opts.BreakerThreshold = 5
	}
	return NewResilient(p, opts), nil
}
