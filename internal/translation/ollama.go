package translation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// OllamaProvider translates with a model served by a local Ollama instance
type OllamaProvider struct {
	client     *http.Client
	baseURL    string
	model      string
	sourceLang string
	targetLang string
}

// generateRequest is the Ollama /api/generate request format.
type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
}

// generateResponse is the Ollama /api/generate response format.
type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// NewOllamaProvider creates an Ollama provider, filling defaults for unset fields
func NewOllamaProvider(cfg Config) *OllamaProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultOllamaURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultOllamaModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &OllamaProvider{
		client:     &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		model:      cfg.Model,
		sourceLang: cfg.SourceLang,
		targetLang: cfg.TargetLang,
	}
}

// WithSourceLang implements SourceSwitcher
func (p *OllamaProvider) WithSourceLang(lang string) Provider {
	c := *p
	c.sourceLang = lang
	return &c
}

// Identity implements Provider
func (p *OllamaProvider) Identity() string {
	return identity("ollama", p.model)
}

// Translate implements Provider
func (p *OllamaProvider) Translate(ctx context.Context, text string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Model:   p.model,
		Prompt:  BuildPrompt(p.sourceLang, p.targetLang, text),
		Stream:  false,
		Options: generateOptions{Temperature: defaultTemperature},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := p.client.Do(req)
	if err != nil {
		return "", &ProviderError{Provider: "ollama", Err: fmt.Errorf("send request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", &ProviderError{
			Provider:   "ollama",
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(msg)),
		}
	}

	var genResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return "", &ProviderError{Provider: "ollama", Err: fmt.Errorf("decode response after %s: %w", time.Since(start).Round(time.Millisecond), err)}
	}

	translated := strings.TrimSpace(genResp.Response)
	if translated == "" {
		return "", &ProviderError{Provider: "ollama", Err: ErrEmptyTranslation}
	}
	return translated, nil
}
