package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	if err := os.WriteFile(path, []byte("MDTRANSLATE_ENV_TEST=from-file\n"), 0644); err != nil {
		t.Fatalf("Failed to write env file: %v", err)
	}

	// Registers cleanup of the variable
	t.Setenv("MDTRANSLATE_ENV_TEST", "from-env")

	if err := LoadEnvFile(path); err != nil {
		t.Fatalf("LoadEnvFile() error = %v", err)
	}
	if got := os.Getenv("MDTRANSLATE_ENV_TEST"); got != "from-file" {
		t.Errorf("explicit env file should override, got %q", got)
	}
}

func TestLoadEnvFileMissing(t *testing.T) {
	t.Chdir(t.TempDir())

	if err := LoadEnvFile(""); err != nil {
		t.Errorf("missing default .env should be ignored, got %v", err)
	}
	if err := LoadEnvFile("does-not-exist.env"); err == nil {
		t.Error("missing explicit env file should fail")
	}
}

func TestLoadEnvFileDefaultKeepsEnvironment(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.WriteFile(".env", []byte("MDTRANSLATE_ENV_TEST=from-file\n"), 0644); err != nil {
		t.Fatalf("Failed to write .env: %v", err)
	}
	t.Setenv("MDTRANSLATE_ENV_TEST", "from-env")

	if err := LoadEnvFile(""); err != nil {
		t.Fatalf("LoadEnvFile() error = %v", err)
	}
	if got := os.Getenv("MDTRANSLATE_ENV_TEST"); got != "from-env" {
		t.Errorf("default .env must not override, got %q", got)
	}
}

func TestLoadCredentialsOpenAIKey(t *testing.T) {
	tests := []struct {
		name      string
		envKey    string
		configKey string
		expected  string
	}{
		{
			name:      "from environment",
			envKey:    "env-test-key",
			configKey: "config-test-key",
			expected:  "env-test-key",
		},
		{
			name:      "from config when no env",
			envKey:    "",
			configKey: "config-test-key",
			expected:  "config-test-key",
		},
		{
			name:      "empty when neither set",
			envKey:    "",
			configKey: "",
			expected:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetViper(t)

			// Empty counts as unset for envconfig
			t.Setenv("OPENAI_API_KEY", tt.envKey)

			if tt.configKey != "" {
				viper.Set("provider.openai_key", tt.configKey)
			}

			creds, err := LoadCredentials()
			if err != nil {
				t.Fatalf("LoadCredentials() error = %v", err)
			}
			if creds.OpenAIKey != tt.expected {
				t.Errorf("OpenAIKey = %v, want %v", creds.OpenAIKey, tt.expected)
			}
		})
	}
}

func TestLoadCredentials(t *testing.T) {
	resetViper(t)
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "gem-key")
	t.Setenv("OLLAMA_HOST", "10.0.0.5:11434")
	t.Setenv("MDTRANSLATE_POSTGRES_DSN", "postgres://localhost/test")

	creds, err := LoadCredentials()
	if err != nil {
		t.Fatalf("LoadCredentials() error = %v", err)
	}

	want := Credentials{
		GeminiKey:   "gem-key",
		OllamaHost:  "10.0.0.5:11434",
		PostgresDSN: "postgres://localhost/test",
	}
	if creds != want {
		t.Errorf("LoadCredentials() = %+v, want %+v", creds, want)
	}
}
