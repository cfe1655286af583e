package cli

import (
	"testing"

	"github.com/spf13/viper"
)

func executeForSettings(t *testing.T, args ...string) Settings {
	t.Helper()
	resetViper(t)
	cmd := CreateRootCommand(NewFlags(), &fakeRunner{})
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	s, err := ResolveSettings()
	if err != nil {
		t.Fatalf("ResolveSettings() error = %v", err)
	}
	return s
}

func TestResolveSettingsDefaults(t *testing.T) {
	t.Setenv("OLLAMA_HOST", "")
	s := executeForSettings(t, "translate", "a.md")

	if s.Pipeline.SourceLang != "en" || s.Pipeline.TargetLang != "ja" {
		t.Errorf("languages = %s->%s, want en->ja", s.Pipeline.SourceLang, s.Pipeline.TargetLang)
	}
	if !s.Pipeline.UseCache || !s.Pipeline.ShowProgress {
		t.Error("cache and progress should be enabled by default")
	}
	if s.Pipeline.ParallelRequests != 3 {
		t.Errorf("ParallelRequests = %d, want 3", s.Pipeline.ParallelRequests)
	}
	if s.Provider.Provider != "ollama" || s.Provider.BaseURL != "http://localhost:11434" {
		t.Errorf("provider = %s at %s", s.Provider.Provider, s.Provider.BaseURL)
	}
	if s.Provider.TargetLang != "ja" {
		t.Errorf("provider target = %s, want ja", s.Provider.TargetLang)
	}
	if s.Cache.Backend != "file" {
		t.Errorf("cache backend = %s, want file", s.Cache.Backend)
	}
	if s.Format != "markdown" {
		t.Errorf("format = %s, want markdown", s.Format)
	}
	if s.Addr != "127.0.0.1:3000" {
		t.Errorf("addr = %s", s.Addr)
	}
}

func TestResolveSettingsFlags(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	s := executeForSettings(t,
		"--provider", "OpenAI", "--model", "gpt-4o",
		"-s", "auto", "-t", "DE", "-j", "8", "--no-progress", "--no-cache",
		"translate", "-f", "html", "a.md")

	if s.Provider.Provider != "openai" || s.Provider.Model != "gpt-4o" {
		t.Errorf("provider = %s/%s", s.Provider.Provider, s.Provider.Model)
	}
	if s.Provider.APIKey != "sk-test" {
		t.Errorf("APIKey = %q, want sk-test", s.Provider.APIKey)
	}
	if s.Provider.BaseURL != "" {
		t.Errorf("ollama URL must not leak into openai config, got %q", s.Provider.BaseURL)
	}
	if s.Pipeline.SourceLang != "auto" || s.Pipeline.TargetLang != "de" {
		t.Errorf("languages = %s->%s", s.Pipeline.SourceLang, s.Pipeline.TargetLang)
	}
	if s.Pipeline.ParallelRequests != 8 || s.Pipeline.UseCache || s.Pipeline.ShowProgress {
		t.Errorf("pipeline = %+v", s.Pipeline)
	}
	if s.Format != "html" {
		t.Errorf("format = %s, want html", s.Format)
	}
}

func TestResolveSettingsOllamaHost(t *testing.T) {
	t.Setenv("OLLAMA_HOST", "gpu-box:11434")
	s := executeForSettings(t, "translate", "a.md")
	if s.Provider.BaseURL != "http://gpu-box:11434" {
		t.Errorf("BaseURL = %q, want http://gpu-box:11434", s.Provider.BaseURL)
	}

	s = executeForSettings(t, "--ollama-url", "http://other:1234", "translate", "a.md")
	if s.Provider.BaseURL != "http://other:1234" {
		t.Errorf("explicit flag should win, got %q", s.Provider.BaseURL)
	}
}

func TestResolveSettingsPostgresDSN(t *testing.T) {
	t.Setenv("MDTRANSLATE_POSTGRES_DSN", "postgres://db/cache")
	s := executeForSettings(t, "--cache-backend", "postgres", "cache", "stats")
	if s.Cache.DSN != "postgres://db/cache" {
		t.Errorf("DSN = %q", s.Cache.DSN)
	}
}

func TestResolveSettingsInvalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  interface{}
	}{
		{"zero parallel", "translate.parallel", 0},
		{"empty target", "translate.target_lang", ""},
		{"bad format", "translate.format", "pdf"},
		{"negative rps", "provider.rps", -1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetViper(t)
			CreateRootCommand(NewFlags(), &fakeRunner{})
			viper.Set(tt.key, tt.val)

			if _, err := ResolveSettings(); err == nil {
				t.Errorf("ResolveSettings() should fail for %s=%v", tt.key, tt.val)
			}
		})
	}
}

func TestOllamaURL(t *testing.T) {
	tests := map[string]string{
		"localhost:11434":        "http://localhost:11434",
		"http://host:11434/":     "http://host:11434",
		"https://secure.example": "https://secure.example",
	}
	for in, want := range tests {
		if got := ollamaURL(in); got != want {
			t.Errorf("ollamaURL(%q) = %q, want %q", in, got, want)
		}
	}
}
