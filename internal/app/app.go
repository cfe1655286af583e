package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/browser"
	"github.com/rs/zerolog"

	"codeberg.org/snonux/mdtranslate/internal"
	"codeberg.org/snonux/mdtranslate/internal/cache"
	"codeberg.org/snonux/mdtranslate/internal/cli"
	"codeberg.org/snonux/mdtranslate/internal/logging"
	"codeberg.org/snonux/mdtranslate/internal/processor"
	"codeberg.org/snonux/mdtranslate/internal/translation"
)

// App implements cli.Runner
type App struct {
	flags  *cli.Flags
	out    io.Writer
	errOut io.Writer
	styles *styles

	resolve     func() (cli.Settings, error)
	openBrowser func(path string) error

	settings cli.Settings
	logger   zerolog.Logger
}

var _ cli.Runner = (*App)(nil)

// Option customises an App
type Option func(*App)

// WithOutput sets the writers for normal and error output
func WithOutput(out, errOut io.Writer) Option {
	return func(a *App) {
		a.out = out
		a.errOut = errOut
	}
}

// WithSettings bypasses viper and uses s as the effective configuration
func WithSettings(s cli.Settings) Option {
	return func(a *App) {
		a.resolve = func() (cli.Settings, error) { return s, s.Validate() }
	}
}

// WithBrowser replaces the function that opens HTML files
func WithBrowser(open func(path string) error) Option {
	return func(a *App) { a.openBrowser = open }
}

// New creates the application for the parsed flags
func New(flags *cli.Flags, opts ...Option) *App {
	a := &App{
		flags:       flags,
		out:         os.Stdout,
		errOut:      os.Stderr,
		styles:      newStyles(),
		resolve:     cli.ResolveSettings,
		openBrowser: browser.OpenFile,
		logger:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// setup resolves the effective settings and builds the logger
func (a *App) setup() error {
	settings, err := a.resolve()
	if err != nil {
		return err
	}
	a.settings = settings

	logger, err := logging.NewWithWriter(a.errOut, settings.LogFormat, settings.LogLevel)
	if err != nil {
		return err
	}
	a.logger = logger
	return nil
}

// openCache opens the configured backend, or returns nil when caching is off
func (a *App) openCache() (cache.Backend, error) {
	if !a.settings.Pipeline.UseCache {
		return nil, nil
	}
	backend, err := cache.Open(a.settings.Cache)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s cache: %w", a.settings.Cache.Backend, err)
	}
	return backend, nil
}

// pipeline builds a processor. The returned cleanup releases the cache.
func (a *App) pipeline(ctx context.Context, showProgress bool) (*processor.Processor, func(), error) {
	provider, err := translation.New(ctx, a.settings.Provider, a.logger)
	if err != nil {
		return nil, nil, err
	}

	backend, err := a.openCache()
	if err != nil {
		return nil, nil, err
	}

	cfg := a.settings.Pipeline
	cfg.ShowProgress = cfg.ShowProgress && showProgress

	proc := processor.NewProcessor(provider, backend, cfg,
		processor.WithLogger(a.logger),
		processor.WithOutput(a.out),
		processor.WithErrorOutput(a.errOut),
	)

	a.logger.Debug().
		Str("provider", provider.Identity()).
		Str("source", cfg.SourceLang).
		Str("target", cfg.TargetLang).
		Int("parallel", cfg.ParallelRequests).
		Bool("cache", backend != nil).
		Msg("pipeline ready")

	cleanup := func() {
		if backend == nil {
			return
		}
		if err := cache.Close(backend); err != nil {
			a.logger.Warn().Err(err).Msg("failed to close cache")
		}
	}
	return proc, cleanup, nil
}

// outputFor returns the output path for input inside outDir, or "" to let
// the processor write next to the input
func (a *App) outputFor(input, outDir string) string {
	if outDir == "" {
		return ""
	}
	ext := ".md"
	if a.settings.Format == processor.FormatHTML {
		ext = ".html"
	}
	return filepath.Join(outDir, filepath.Base(internal.OutputPath(input, a.settings.Pipeline.TargetLang, ext)))
}

func (a *App) printCacheSummary(proc *processor.Processor) {
	stats, ok := proc.CacheStats()
	if !ok {
		return
	}
	fmt.Fprintln(a.out, a.styles.Muted.Render(fmt.Sprintf(
		"cache: %d hits, %d misses (%.0f%% hit rate)",
		stats.CacheHits, stats.CacheMisses, stats.HitRate())))
}
