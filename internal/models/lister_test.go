package models

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"codeberg.org/snonux/mdtranslate/internal/translation"
)

func TestNewLister(t *testing.T) {
	tests := []struct {
		provider string
		wantType string
	}{
		{"", "*models.OllamaLister"},
		{"ollama", "*models.OllamaLister"},
		{"OpenAI", "*models.OpenAILister"},
		{"stub", "models.staticLister"},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			l, err := NewLister(context.Background(), translation.Config{Provider: tt.provider})
			if err != nil {
				t.Fatalf("NewLister() error = %v", err)
			}
			if got := fmt.Sprintf("%T", l); got != tt.wantType {
				t.Errorf("NewLister() type = %s, want %s", got, tt.wantType)
			}
		})
	}

	_, err := NewLister(context.Background(), translation.Config{Provider: "deepl"})
	if !errors.Is(err, translation.ErrUnknownProvider) {
		t.Errorf("expected ErrUnknownProvider, got %v", err)
	}

	if _, err := NewLister(context.Background(), translation.Config{Provider: "gemini"}); err == nil {
		t.Error("expected an error for gemini without API key")
	}
}

func TestOllamaLister(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"models":[{"name":"qwen2.5:7b"},{"name":"llama3.2:3b"}]}`))
	}))
	defer srv.Close()

	got, err := NewOllamaLister(srv.URL + "/").ListModels(context.Background())
	if err != nil {
		t.Fatalf("ListModels() error = %v", err)
	}
	if diff := cmp.Diff([]string{"llama3.2:3b", "qwen2.5:7b"}, got); diff != "" {
		t.Errorf("ListModels() mismatch (-want +got):\n%s", diff)
	}
}

func TestOllamaListerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewOllamaLister(srv.URL).ListModels(context.Background())
	if err == nil || !strings.Contains(err.Error(), "500") {
		t.Errorf("expected status error, got %v", err)
	}
}

func TestOpenAILister(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/models" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"object":"list","data":[
			{"id":"gpt-4o","object":"model"},
			{"id":"tts-1","object":"model"},
			{"id":"dall-e-3","object":"model"},
			{"id":"gpt-4o-mini","object":"model"},
			{"id":"text-embedding-3-small","object":"model"},
			{"id":"o3-mini","object":"model"}
		]}`))
	}))
	defer srv.Close()

	got, err := NewOpenAILister("test-key", srv.URL+"/v1").ListModels(context.Background())
	if err != nil {
		t.Fatalf("ListModels() error = %v", err)
	}
	want := []string{"gpt-4o", "gpt-4o-mini", "o3-mini"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ListModels() mismatch (-want +got):\n%s", diff)
	}
}

func TestOpenAIListerNoAPIKey(t *testing.T) {
	_, err := NewOpenAILister("", "").ListModels(context.Background())
	if err == nil {
		t.Fatal("Expected error for missing API key")
	}

	expectedError := "OpenAI API key not found. Set OPENAI_API_KEY environment variable or configure in .mdtranslate.yaml"
	if err.Error() != expectedError {
		t.Errorf("Expected error '%s', got: %v", expectedError, err)
	}
}

func TestOpenAIListerIntegration(t *testing.T) {
	// Skip if no API key
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		t.Skip("Skipping integration test: OPENAI_API_KEY not set")
	}

	models, err := NewOpenAILister(apiKey, "").ListModels(context.Background())
	if err != nil {
		t.Fatalf("ListModels failed: %v", err)
	}
	if len(models) == 0 {
		t.Error("expected at least one chat model")
	}
}

func TestPrint(t *testing.T) {
	var buf bytes.Buffer
	Print(&buf, "ollama", []string{"llama3.2:3b", "qwen2.5:7b"}, "qwen2.5:7b")

	want := "Available ollama models:\n   llama3.2:3b\n * qwen2.5:7b\n"
	if buf.String() != want {
		t.Errorf("Print() = %q, want %q", buf.String(), want)
	}

	buf.Reset()
	Print(&buf, "openai", nil, "")
	if !strings.Contains(buf.String(), "No models found") {
		t.Errorf("Print() = %q", buf.String())
	}
}
