package translation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// GeminiProvider translates with Google Gemini models
type GeminiProvider struct {
	client     *genai.Client
	model      string
	sourceLang string
	targetLang string
}

// NewGeminiProvider creates a Gemini provider using the Gemini API backend
func NewGeminiProvider(ctx context.Context, cfg Config) (*GeminiProvider, error) {
	if cfg.APIKey == "" {
		return nil, &ProviderError{Provider: "gemini", Err: ErrMissingAPIKey}
	}
	if cfg.Model == "" {
		cfg.Model = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiProvider{
		client:     client,
		model:      cfg.Model,
		sourceLang: cfg.SourceLang,
		targetLang: cfg.TargetLang,
	}, nil
}

// WithSourceLang implements SourceSwitcher
func (p *GeminiProvider) WithSourceLang(lang string) Provider {
	c := *p
	c.sourceLang = lang
	return &c
}

// Identity implements Provider
func (p *GeminiProvider) Identity() string {
	return identity("gemini", p.model)
}

// Translate implements Provider
func (p *GeminiProvider) Translate(ctx context.Context, text string) (string, error) {
	resp, err := p.client.Models.GenerateContent(ctx, p.model,
		genai.Text(BuildPrompt(p.sourceLang, p.targetLang, text)),
		&genai.GenerateContentConfig{
			Temperature: genai.Ptr[float32](defaultTemperature),
		})
	if err != nil {
		pe := &ProviderError{Provider: "gemini", Err: err}
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			pe.StatusCode = apiErr.Code
			pe.Message = apiErr.Message
		}
		return "", pe
	}

	translated := strings.TrimSpace(resp.Text())
	if translated == "" {
		return "", &ProviderError{Provider: "gemini", Err: ErrEmptyTranslation}
	}
	return translated, nil
}
