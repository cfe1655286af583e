package cli

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

// Credentials holds provider secrets and endpoints taken from the environment
type Credentials struct {
	OpenAIKey   string `envconfig:"OPENAI_API_KEY"`
	GeminiKey   string `envconfig:"GEMINI_API_KEY"`
	OllamaHost  string `envconfig:"OLLAMA_HOST"`
	PostgresDSN string `envconfig:"MDTRANSLATE_POSTGRES_DSN"`
}

// LoadEnvFile loads variables from path into the process environment.
// An explicit path overrides existing variables and must exist; the
// default ./.env only fills in unset variables and may be missing.
func LoadEnvFile(path string) error {
	if path != "" {
		if err := godotenv.Overload(path); err != nil {
			return fmt.Errorf("failed to load env file %s: %w", path, err)
		}
		return nil
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

// LoadCredentials reads credentials from the environment, falling back to
// the config file keys provider.openai_key, provider.gemini_key and cache.dsn
func LoadCredentials() (Credentials, error) {
	var creds Credentials
	if err := envconfig.Process("", &creds); err != nil {
		return Credentials{}, fmt.Errorf("failed to read credentials: %w", err)
	}

	if creds.OpenAIKey == "" {
		creds.OpenAIKey = viper.GetString("provider.openai_key")
	}
	if creds.GeminiKey == "" {
		creds.GeminiKey = viper.GetString("provider.gemini_key")
	}
	return creds, nil
}
