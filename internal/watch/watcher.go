package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"codeberg.org/snonux/mdtranslate/internal"
)

// DefaultDebounce is how long a file must stay quiet before it is translated
const DefaultDebounce = 500 * time.Millisecond

// Handler translates one changed file
type Handler func(ctx context.Context, path string) error

// Option customises a Watcher
type Option func(*Watcher)

// WithDebounce sets the quiet period
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithLogger sets the logger
func WithLogger(logger zerolog.Logger) Option {
	return func(w *Watcher) { w.logger = logger }
}

// Watcher calls a Handler for Markdown sources that change in one directory
type Watcher struct {
	dir        string
	targetLang string
	handle     Handler
	debounce   time.Duration
	logger     zerolog.Logger
}

// New creates a watcher for dir. Files that already look like translations
// into targetLang (name.<target>.md) are ignored so output written to the
// watched directory does not trigger another run.
func New(dir, targetLang string, handle Handler, opts ...Option) *Watcher {
	w := &Watcher{
		dir:        dir,
		targetLang: targetLang,
		handle:     handle,
		debounce:   DefaultDebounce,
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run watches until ctx is cancelled. Handler errors are logged and do not
// stop the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}
	w.logger.Info().Str("dir", w.dir).Dur("debounce", w.debounce).Msg("watching for changes")

	done := make(chan struct{})
	defer close(done)

	ready := make(chan string)
	pending := map[string]*time.Timer{}
	defer func() {
		for _, t := range pending {
			t.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			path, relevant := w.relevant(event)
			if !relevant {
				continue
			}
			if t, exists := pending[path]; exists {
				t.Stop()
			}
			pending[path] = time.AfterFunc(w.debounce, func() {
				select {
				case ready <- path:
				case <-done:
				}
			})

		case path := <-ready:
			delete(pending, path)
			start := time.Now()
			if err := w.handle(ctx, path); err != nil {
				w.logger.Error().Err(err).Str("file", path).Msg("translation failed")
				continue
			}
			w.logger.Info().Str("file", path).Dur("took", time.Since(start)).Msg("translated")

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn().Err(err).Msg("watcher error")
		}
	}
}

// relevant returns the file path when the event should trigger a translation
func (w *Watcher) relevant(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return "", false
	}

	name := filepath.Base(event.Name)
	if strings.HasPrefix(name, ".") || !internal.IsMarkdownFile(name) {
		return "", false
	}
	if IsTranslation(name, w.targetLang) {
		return "", false
	}

	info, err := os.Stat(event.Name)
	if err != nil || info.IsDir() {
		return "", false
	}
	return event.Name, true
}

// IsTranslation reports whether name looks like output for targetLang,
// e.g. "guide.ja.md" for "ja"
func IsTranslation(name, targetLang string) bool {
	if targetLang == "" {
		return false
	}
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	return strings.EqualFold(filepath.Ext(stem), "."+internal.SanitizeFilename(targetLang))
}
