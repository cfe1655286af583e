package translation

import (
	"context"
	"errors"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// OpenAIProvider translates with the OpenAI chat completion API
type OpenAIProvider struct {
	apiKey     string
	client     *openai.Client
	model      string
	sourceLang string
	targetLang string
}

// NewOpenAIProvider creates an OpenAI provider. BaseURL overrides the API
// endpoint for compatible servers.
func NewOpenAIProvider(cfg Config) *OpenAIProvider {
	if cfg.Model == "" {
		cfg.Model = DefaultOpenAIModel
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &OpenAIProvider{
		apiKey:     cfg.APIKey,
		client:     openai.NewClientWithConfig(clientCfg),
		model:      cfg.Model,
		sourceLang: cfg.SourceLang,
		targetLang: cfg.TargetLang,
	}
}

// WithSourceLang implements SourceSwitcher
func (p *OpenAIProvider) WithSourceLang(lang string) Provider {
	c := *p
	c.sourceLang = lang
	return &c
}

// Identity implements Provider
func (p *OpenAIProvider) Identity() string {
	return identity("openai", p.model)
}

// Translate implements Provider
func (p *OpenAIProvider) Translate(ctx context.Context, text string) (string, error) {
	if p.apiKey == "" {
		return "", &ProviderError{Provider: "openai", Err: ErrMissingAPIKey}
	}

	req := openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt(p.sourceLang, p.targetLang),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: text,
			},
		},
		Temperature: defaultTemperature,
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		pe := &ProviderError{Provider: "openai", Err: err}
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			pe.StatusCode = apiErr.HTTPStatusCode
			pe.Message = apiErr.Message
		}
		return "", pe
	}

	if len(resp.Choices) == 0 {
		return "", &ProviderError{Provider: "openai", Err: ErrEmptyTranslation}
	}

	translated := strings.TrimSpace(resp.Choices[0].Message.Content)
	if translated == "" {
		return "", &ProviderError{Provider: "openai", Err: ErrEmptyTranslation}
	}
	return translated, nil
}
