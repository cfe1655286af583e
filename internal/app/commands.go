package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"codeberg.org/snonux/mdtranslate/internal/archive"
	"codeberg.org/snonux/mdtranslate/internal/cache"
	"codeberg.org/snonux/mdtranslate/internal/models"
	"codeberg.org/snonux/mdtranslate/internal/processor"
	"codeberg.org/snonux/mdtranslate/internal/server"
	"codeberg.org/snonux/mdtranslate/internal/translation"
	"codeberg.org/snonux/mdtranslate/internal/watch"
)

// Translate translates the given files, or the batch file when one is set
func (a *App) Translate(ctx context.Context, inputs []string) error {
	if err := a.setup(); err != nil {
		return err
	}

	proc, cleanup, err := a.pipeline(ctx, true)
	if err != nil {
		return err
	}
	defer cleanup()

	if a.flags.BatchFile != "" {
		if err := proc.ProcessBatch(ctx, a.flags.BatchFile, a.settings.OutputDir, a.settings.Format); err != nil {
			return err
		}
		a.printCacheSummary(proc)
		return nil
	}

	var failed []string
	for _, input := range inputs {
		output := a.flags.OutputFile
		if output == "" {
			output = a.outputFor(input, a.settings.OutputDir)
		}

		written, err := proc.TranslateFile(ctx, input, output, a.settings.Format)
		if err != nil {
			fmt.Fprintln(a.errOut, a.styles.Error.Render(fmt.Sprintf("✗ %s: %v", input, err)))
			failed = append(failed, input)
			continue
		}
		fmt.Fprintln(a.out, a.styles.Success.Render("✓ ")+written)
	}

	a.printCacheSummary(proc)

	if len(failed) > 0 {
		return fmt.Errorf("failed to translate %d of %d files: %s", len(failed), len(inputs), strings.Join(failed, ", "))
	}
	return nil
}

// View translates input to HTML in a temporary file and opens it
func (a *App) View(ctx context.Context, input string) error {
	if err := a.setup(); err != nil {
		return err
	}

	proc, cleanup, err := a.pipeline(ctx, true)
	if err != nil {
		return err
	}
	defer cleanup()

	src, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}

	title := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	html, err := proc.TranslateToHTML(ctx, string(src), title)
	if err != nil {
		return err
	}

	f, err := os.CreateTemp("", "mdtranslate-*.html")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	if _, err := f.WriteString(html); err != nil {
		f.Close()
		return fmt.Errorf("failed to write temporary file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write temporary file: %w", err)
	}

	fmt.Fprintln(a.out, a.styles.Success.Render("✓ ")+f.Name())
	if err := a.openBrowser(f.Name()); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	return nil
}

// withCache opens the configured backend regardless of --no-cache
func (a *App) withCache(fn func(cache.Backend) error) error {
	if err := a.setup(); err != nil {
		return err
	}
	backend, err := cache.Open(a.settings.Cache)
	if err != nil {
		return fmt.Errorf("failed to open %s cache: %w", a.settings.Cache.Backend, err)
	}
	defer cache.Close(backend)
	return fn(backend)
}

// CacheStats prints backend statistics
func (a *App) CacheStats(ctx context.Context) error {
	return a.withCache(func(backend cache.Backend) error {
		stats := backend.Stats()
		backendName := a.settings.Cache.Backend
		if backendName == "" {
			backendName = cache.BackendFile
		}

		lines := []string{
			a.styles.Title.Render("Translation cache"),
			a.styles.row("backend", backendName),
			a.styles.row("size", formatBytes(stats.TotalSizeBytes)),
		}
		if n, ok, err := cache.Entries(backend); ok {
			if err != nil {
				a.logger.Warn().Err(err).Msg("failed to count cache entries")
			} else {
				lines = append(lines, a.styles.row("entries", fmt.Sprint(n)))
			}
		}
		if backendName == cache.BackendFile || backendName == cache.BackendSQLite {
			lines = append(lines, a.styles.row("location", a.cacheDir()))
		}
		fmt.Fprintln(a.out, a.styles.Box.Render(strings.Join(lines, "\n")))
		return nil
	})
}

// CacheClear removes every cached translation
func (a *App) CacheClear(ctx context.Context) error {
	return a.withCache(func(backend cache.Backend) error {
		if err := backend.Clear(); err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}
		fmt.Fprintln(a.out, a.styles.Success.Render("✓ ")+"cache cleared")
		return nil
	})
}

// CacheArchive moves the file cache directory aside
func (a *App) CacheArchive(ctx context.Context) error {
	if err := a.setup(); err != nil {
		return err
	}
	if b := a.settings.Cache.Backend; b != "" && b != cache.BackendFile && b != cache.BackendSQLite {
		return fmt.Errorf("archive works on the file and sqlite backends, not %s", b)
	}

	path, err := archive.ArchiveCache(a.cacheDir())
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, a.styles.Success.Render("✓ ")+"cache archived to: "+path)
	return nil
}

func (a *App) cacheDir() string {
	if a.settings.Cache.Dir != "" {
		return a.settings.Cache.Dir
	}
	return cache.DefaultDir()
}

// Models lists the models of the configured provider
func (a *App) Models(ctx context.Context) error {
	if err := a.setup(); err != nil {
		return err
	}

	lister, err := models.NewLister(ctx, a.settings.Provider)
	if err != nil {
		return err
	}
	names, err := lister.ListModels(ctx)
	if err != nil {
		return err
	}

	provider := a.settings.Provider.Provider
	if provider == "" {
		provider = translation.DefaultProvider
	}
	current := a.settings.Provider.Model
	if current == "" {
		current = translation.DefaultModel(provider)
	}
	models.Print(a.out, provider, names, current)
	return nil
}

// Serve runs the HTTP API and, with --watch, the directory watcher
func (a *App) Serve(ctx context.Context) error {
	if err := a.setup(); err != nil {
		return err
	}

	proc, cleanup, err := a.pipeline(ctx, false)
	if err != nil {
		return err
	}
	defer cleanup()

	g, ctx := errgroup.WithContext(ctx)

	srv := server.NewServer(proc, a.logger, server.Options{Addr: a.settings.Addr})
	g.Go(func() error {
		return srv.Start(ctx)
	})

	if dir := a.flags.WatchDir; dir != "" {
		outDir := a.settings.OutputDir
		if outDir == "" {
			outDir = dir
		}
		w := watch.New(dir, a.settings.Pipeline.TargetLang, a.watchHandler(proc, outDir), watch.WithLogger(a.logger))
		g.Go(func() error {
			return w.Run(ctx)
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func (a *App) watchHandler(proc *processor.Processor, outDir string) watch.Handler {
	return func(ctx context.Context, path string) error {
		written, err := proc.TranslateFile(ctx, path, a.outputFor(path, outDir), a.settings.Format)
		if err != nil {
			return err
		}
		a.logger.Info().Str("input", path).Str("output", written).Msg("watched file translated")
		return nil
	}
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
