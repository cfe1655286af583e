package processor

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"codeberg.org/snonux/mdtranslate/internal"
	"codeberg.org/snonux/mdtranslate/internal/cache"
	"codeberg.org/snonux/mdtranslate/internal/document"
	"codeberg.org/snonux/mdtranslate/internal/langdetect"
	"codeberg.org/snonux/mdtranslate/internal/progress"
	"codeberg.org/snonux/mdtranslate/internal/render"
	"codeberg.org/snonux/mdtranslate/internal/translation"
)

// Config controls one pipeline
type Config struct {
	SourceLang       string
	TargetLang       string
	UseCache         bool
	ParallelRequests int
	ShowProgress     bool
}

// DefaultConfig translates English to Japanese with caching, three
// concurrent requests and a progress bar.
func DefaultConfig() Config {
	return Config{
		SourceLang:       "en",
		TargetLang:       "ja",
		UseCache:         true,
		ParallelRequests: 3,
		ShowProgress:     true,
	}
}

// Processor runs documents through cache and provider
type Processor struct {
	provider    translation.Provider
	cache       cache.Backend
	config      Config
	logger      zerolog.Logger
	out         io.Writer
	errOut      io.Writer
	newReporter func(total int) progress.Reporter
}

// Option customises a Processor
type Option func(*Processor)

// WithLogger sets the logger
func WithLogger(logger zerolog.Logger) Option {
	return func(p *Processor) { p.logger = logger }
}

// WithOutput sets where summaries are printed
func WithOutput(w io.Writer) Option {
	return func(p *Processor) { p.out = w }
}

// WithErrorOutput sets where per-document failures are printed
func WithErrorOutput(w io.Writer) Option {
	return func(p *Processor) { p.errOut = w }
}

// WithReporter overrides how progress reporters are created
func WithReporter(fn func(total int) progress.Reporter) Option {
	return func(p *Processor) { p.newReporter = fn }
}

// NewProcessor creates a processor. A nil cache disables caching.
func NewProcessor(provider translation.Provider, backend cache.Backend, config Config, opts ...Option) *Processor {
	if config.ParallelRequests < 1 {
		config.ParallelRequests = 1
	}
	if backend == nil {
		config.UseCache = false
	}

	p := &Processor{
		provider: provider,
		cache:    backend,
		config:   config,
		logger:   zerolog.Nop(),
		out:      os.Stdout,
		errOut:   os.Stderr,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.newReporter == nil {
		p.newReporter = func(total int) progress.Reporter {
			if !p.config.ShowProgress {
				return progress.Nop()
			}
			return progress.NewBar(os.Stderr, total, "translating")
		}
	}
	return p
}

// Config returns the effective configuration
func (p *Processor) Config() Config {
	return p.config
}

// runStats counts unit outcomes for the run summary
type runStats struct {
	passthrough atomic.Int64
	cached      atomic.Int64
	translated  atomic.Int64
	failed      atomic.Int64
}

// TranslateDocument returns a sequence of the same length and order as
// units. Units without translatable text are copied unchanged; the others
// carry either their translation or, if the provider failed, their original
// text.
func (p *Processor) TranslateDocument(ctx context.Context, units []document.Unit) []document.Unit {
	runID := internal.NewRunID()
	logger := p.logger.With().Str("run_id", runID).Logger()
	start := time.Now()

	slots := make([]document.Unit, len(units))
	identity := p.provider.Identity()
	source := p.sourceLang(units)
	pair := cache.LanguagePair(source, p.config.TargetLang)

	provider := p.provider
	if source != p.config.SourceLang {
		provider = translation.ForSource(p.provider, source)
		logger.Debug().Str("source_lang", source).Msg("detected source language")
	}

	reporter := p.newReporter(len(units))
	defer reporter.Finish()

	var (
		stats runStats
		wg    sync.WaitGroup
		sem   = semaphore.NewWeighted(int64(p.config.ParallelRequests))
	)

	for i, unit := range units {
		text, ok := unit.TranslatableText()
		if !ok {
			slots[i] = unit
			stats.passthrough.Add(1)
			reporter.Increment()
			continue
		}

		if p.config.UseCache {
			if cached, hit := p.cache.Get(text, identity, pair); hit {
				if translated, err := unit.WithText(cached); err == nil {
					slots[i] = translated
					stats.cached.Add(1)
					reporter.Increment()
					continue
				}
				logger.Debug().Int("index", i).Msg("cached translation does not fit unit, retranslating")
			}
		}

		// the job acquires capacity; the dispatch loop never blocks
		wg.Add(1)
		go func(i int, unit document.Unit, text string) {
			defer wg.Done()
			defer reporter.Increment()

			if err := sem.Acquire(ctx, 1); err != nil {
				logger.Debug().Err(err).Int("index", i).Msg("unit not dispatched")
				slots[i] = unit
				stats.failed.Add(1)
				return
			}
			translated, err := provider.Translate(ctx, text)
			sem.Release(1)

			var result document.Unit
			if err == nil {
				result, err = unit.WithText(translated)
			}
			if err != nil {
				logger.Warn().Err(err).Int("index", i).Str("kind", unit.Kind.String()).Msg("translation failed, keeping original")
				slots[i] = unit
				stats.failed.Add(1)
				return
			}

			if p.config.UseCache {
				if err := p.cache.Set(text, translated, identity, pair); err != nil {
					logger.Warn().Err(err).Int("index", i).Msg("cache write failed")
				}
			}
			logger.Debug().Int("index", i).Str("kind", unit.Kind.String()).Msg("unit translated")
			slots[i] = result
			stats.translated.Add(1)
		}(i, unit, text)
	}

	wg.Wait()

	logger.Info().
		Str("provider", identity).
		Str("language_pair", pair).
		Int("units", len(units)).
		Int64("passthrough", stats.passthrough.Load()).
		Int64("cached", stats.cached.Load()).
		Int64("translated", stats.translated.Load()).
		Int64("failed", stats.failed.Load()).
		Dur("elapsed", time.Since(start)).
		Msg("document translated")

	return slots
}

// sourceLang resolves the "auto" source language from the document text
func (p *Processor) sourceLang(units []document.Unit) string {
	if !strings.EqualFold(p.config.SourceLang, langdetect.Auto) {
		return p.config.SourceLang
	}

	var sample strings.Builder
	for _, u := range units {
		if text, ok := u.TranslatableText(); ok {
			sample.WriteString(text)
			sample.WriteString("\n")
		}
	}
	return langdetect.Resolve(p.config.SourceLang, sample.String(), langdetect.Auto)
}

// TranslateMarkdown translates Markdown source and renders it back to
// Markdown. Only segmentation failures are returned as errors.
func (p *Processor) TranslateMarkdown(ctx context.Context, src string) (string, error) {
	units, err := document.Parse(src)
	if err != nil {
		return "", fmt.Errorf("failed to parse document: %w", err)
	}
	return render.Markdown(p.TranslateDocument(ctx, units)), nil
}

// TranslateToHTML translates Markdown source and renders an HTML page
func (p *Processor) TranslateToHTML(ctx context.Context, src, title string) (string, error) {
	units, err := document.Parse(src)
	if err != nil {
		return "", fmt.Errorf("failed to parse document: %w", err)
	}
	return render.HTML(p.TranslateDocument(ctx, units), render.Page{Title: title, Lang: p.config.TargetLang})
}

// CacheStats returns the cache statistics; ok is false without a cache
func (p *Processor) CacheStats() (stats cache.Stats, ok bool) {
	if p.cache == nil {
		return cache.Stats{}, false
	}
	return p.cache.Stats(), true
}

// ClearCache removes all cached translations
func (p *Processor) ClearCache() error {
	if p.cache == nil {
		return nil
	}
	if err := p.cache.Clear(); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}
