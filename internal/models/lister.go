package models

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"google.golang.org/genai"

	"codeberg.org/snonux/mdtranslate/internal/translation"
)

// Lister returns the model names available from one provider
type Lister interface {
	ListModels(ctx context.Context) ([]string, error)
}

// NewLister creates the lister for the provider named in cfg
func NewLister(ctx context.Context, cfg translation.Config) (Lister, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", "ollama":
		return NewOllamaLister(cfg.BaseURL), nil
	case "openai":
		return NewOpenAILister(cfg.APIKey, cfg.BaseURL), nil
	case "gemini":
		return NewGeminiLister(ctx, cfg.APIKey)
	case "stub":
		return staticLister{"stub"}, nil
	}
	return nil, fmt.Errorf("%w: %q", translation.ErrUnknownProvider, cfg.Provider)
}

// OpenAILister handles listing available OpenAI models
type OpenAILister struct {
	apiKey string
	client *openai.Client
}

// NewOpenAILister creates a new OpenAI model lister
func NewOpenAILister(apiKey, baseURL string) *OpenAILister {
	clientCfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientCfg.BaseURL = baseURL
	}
	return &OpenAILister{
		apiKey: apiKey,
		client: openai.NewClientWithConfig(clientCfg),
	}
}

// ListModels returns the chat models usable for translation
func (l *OpenAILister) ListModels(ctx context.Context) ([]string, error) {
	if l.apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key not found. Set OPENAI_API_KEY environment variable or configure in .mdtranslate.yaml")
	}

	models, err := l.client.ListModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}

	chatModels := []string{}
	for _, model := range models.Models {
		if isChatModel(model.ID) {
			chatModels = append(chatModels, model.ID)
		}
	}
	sort.Strings(chatModels)
	return chatModels, nil
}

func isChatModel(id string) bool {
	for _, skip := range []string{"tts", "audio", "dall-e", "whisper", "embedding", "realtime", "transcribe", "image"} {
		if strings.Contains(id, skip) {
			return false
		}
	}
	return strings.Contains(id, "gpt") || strings.Contains(id, "chat") ||
		strings.HasPrefix(id, "o1") || strings.HasPrefix(id, "o3") || strings.HasPrefix(id, "o4")
}

// OllamaLister lists models pulled into a local Ollama instance
type OllamaLister struct {
	baseURL string
	client  *http.Client
}

type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// NewOllamaLister creates a lister for the Ollama API at baseURL
func NewOllamaLister(baseURL string) *OllamaLister {
	if baseURL == "" {
		baseURL = translation.DefaultOllamaURL
	}
	return &OllamaLister{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// ListModels queries /api/tags
func (l *OllamaLister) ListModels(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.baseURL+"/api/tags", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach ollama at %s: %w", l.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("ollama returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var tags tagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return nil, fmt.Errorf("failed to decode ollama response: %w", err)
	}

	names := make([]string, 0, len(tags.Models))
	for _, m := range tags.Models {
		names = append(names, m.Name)
	}
	sort.Strings(names)
	return names, nil
}

// GeminiLister lists Gemini models through the genai SDK
type GeminiLister struct {
	client *genai.Client
}

// NewGeminiLister creates a Gemini lister
func NewGeminiLister(ctx context.Context, apiKey string) (*GeminiLister, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key not found. Set GEMINI_API_KEY environment variable or configure in .mdtranslate.yaml")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiLister{client: client}, nil
}

// ListModels returns the gemini-* model names
func (l *GeminiLister) ListModels(ctx context.Context) ([]string, error) {
	names := []string{}
	for model, err := range l.client.Models.All(ctx) {
		if err != nil {
			return nil, fmt.Errorf("failed to list models: %w", err)
		}
		name := strings.TrimPrefix(model.Name, "models/")
		if strings.HasPrefix(name, "gemini") {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

type staticLister []string

func (s staticLister) ListModels(context.Context) ([]string, error) {
	return []string(s), nil
}

// Print writes the model list in the CLI format
func Print(w io.Writer, provider string, models []string, current string) {
	fmt.Fprintf(w, "Available %s models:\n", provider)
	if len(models) == 0 {
		fmt.Fprintln(w, "  No models found")
		return
	}
	for _, m := range models {
		marker := " "
		if m == current {
			marker = "*"
		}
		fmt.Fprintf(w, " %s %s\n", marker, m)
	}
}
