package cli

import (
	"codeberg.org/snonux/mdtranslate/internal/cache"
	"codeberg.org/snonux/mdtranslate/internal/processor"
	"codeberg.org/snonux/mdtranslate/internal/translation"
)

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile    string
	EnvFile    string
	LogLevel   string
	LogFormat  string
	NoProgress bool

	// Provider flags
	Provider  string
	Model     string
	OllamaURL string
	RPS       float64
	Breaker   bool

	// Pipeline flags
	SourceLang string
	TargetLang string
	Parallel   int

	// Cache flags
	NoCache      bool
	CacheBackend string
	CacheDir     string
	CacheDSN     string

	// translate flags
	OutputFile string
	OutputDir  string
	Format     string
	BatchFile  string

	// serve flags
	Addr     string
	WatchDir string
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	defaults := processor.DefaultConfig()
	return &Flags{
		LogLevel:     "warn",
		LogFormat:    "console",
		Provider:     translation.DefaultProvider,
		OllamaURL:    translation.DefaultOllamaURL,
		SourceLang:   defaults.SourceLang,
		TargetLang:   defaults.TargetLang,
		Parallel:     defaults.ParallelRequests,
		CacheBackend: cache.BackendFile,
		Format:       processor.FormatMarkdown,
		Addr:         "127.0.0.1:3000",
	}
}
