package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"codeberg.org/snonux/mdtranslate/internal/cache"
	"codeberg.org/snonux/mdtranslate/internal/processor"
	"codeberg.org/snonux/mdtranslate/internal/translation"
)

// Settings is the effective configuration after merging flags, config
// file and environment
type Settings struct {
	Pipeline processor.Config
	Provider translation.Config
	Cache    cache.Options

	LogLevel  string
	LogFormat string

	Format    string
	OutputDir string
	Addr      string
}

// ResolveSettings merges viper values (flags win over env, env over the
// config file) with credentials into Settings and validates them
func ResolveSettings() (Settings, error) {
	creds, err := LoadCredentials()
	if err != nil {
		return Settings{}, err
	}

	s := Settings{
		Pipeline: processor.Config{
			SourceLang:       strings.ToLower(viper.GetString("translate.source_lang")),
			TargetLang:       strings.ToLower(viper.GetString("translate.target_lang")),
			UseCache:         !viper.GetBool("translate.no_cache"),
			ParallelRequests: viper.GetInt("translate.parallel"),
			ShowProgress:     !viper.GetBool("translate.no_progress"),
		},
		Provider: translation.Config{
			Provider:          strings.ToLower(viper.GetString("provider.name")),
			Model:             viper.GetString("provider.model"),
			BaseURL:           viper.GetString("provider.ollama_url"),
			RequestsPerSecond: viper.GetFloat64("provider.rps"),
			Breaker:           viper.GetBool("provider.breaker"),
		},
		Cache: cache.Options{
			Backend: strings.ToLower(viper.GetString("cache.backend")),
			Dir:     viper.GetString("cache.dir"),
			DSN:     viper.GetString("cache.dsn"),
		},
		LogLevel:  viper.GetString("log.level"),
		LogFormat: viper.GetString("log.format"),
		Format:    strings.ToLower(viper.GetString("translate.format")),
		OutputDir: viper.GetString("translate.output_dir"),
		Addr:      viper.GetString("server.addr"),
	}

	s.Provider.SourceLang = s.Pipeline.SourceLang
	s.Provider.TargetLang = s.Pipeline.TargetLang

	switch s.Provider.Provider {
	case "openai":
		s.Provider.APIKey = creds.OpenAIKey
		// The Ollama URL flag does not apply to OpenAI
		s.Provider.BaseURL = viper.GetString("provider.openai_url")
	case "gemini":
		s.Provider.APIKey = creds.GeminiKey
		s.Provider.BaseURL = ""
	case "ollama":
		// OLLAMA_HOST applies unless the URL was given explicitly
		if !viper.IsSet("provider.ollama_url") && creds.OllamaHost != "" {
			s.Provider.BaseURL = ollamaURL(creds.OllamaHost)
		}
	}

	if s.Cache.DSN == "" {
		s.Cache.DSN = creds.PostgresDSN
	}
	if s.Format == "" {
		s.Format = processor.FormatMarkdown
	}
	if s.Addr == "" {
		s.Addr = NewFlags().Addr
	}

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks values that cannot be fixed up silently
func (s Settings) Validate() error {
	if s.Pipeline.TargetLang == "" {
		return fmt.Errorf("target language must not be empty")
	}
	if s.Pipeline.SourceLang == "" {
		return fmt.Errorf("source language must not be empty")
	}
	if s.Pipeline.ParallelRequests < 1 {
		return fmt.Errorf("parallel must be at least 1, got %d", s.Pipeline.ParallelRequests)
	}
	if err := processor.ValidateFormat(s.Format); err != nil {
		return err
	}
	if s.Provider.RequestsPerSecond < 0 {
		return fmt.Errorf("rps must not be negative")
	}
	return nil
}

// ollamaURL turns an OLLAMA_HOST value such as "0.0.0.0:11434" into a URL
func ollamaURL(host string) string {
	if strings.HasPrefix(host, "http://") || strings.HasPrefix(host, "https://") {
		return strings.TrimRight(host, "/")
	}
	return "http://" + host
}
