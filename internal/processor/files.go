package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"codeberg.org/snonux/mdtranslate/internal"
	"codeberg.org/snonux/mdtranslate/internal/batch"
)

// Output formats accepted by TranslateFile
const (
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
)

// ValidateFormat checks an output format name
func ValidateFormat(format string) error {
	switch format {
	case FormatMarkdown, FormatHTML:
		return nil
	}
	return fmt.Errorf("unsupported output format %q (use %s or %s)", format, FormatMarkdown, FormatHTML)
}

// Render translates Markdown source into the requested format
func (p *Processor) Render(ctx context.Context, src, title, format string) (string, error) {
	if format == FormatHTML {
		return p.TranslateToHTML(ctx, src, title)
	}
	return p.TranslateMarkdown(ctx, src)
}

// TranslateFile translates inputPath and writes the result. An empty
// outputPath is derived from the input name and target language. The path
// written is returned.
func (p *Processor) TranslateFile(ctx context.Context, inputPath, outputPath, format string) (string, error) {
	if err := ValidateFormat(format); err != nil {
		return "", err
	}

	src, err := os.ReadFile(inputPath)
	if err != nil {
		return "", fmt.Errorf("failed to read input file: %w", err)
	}

	if outputPath == "" {
		ext := ".md"
		if format == FormatHTML {
			ext = ".html"
		}
		outputPath = internal.OutputPath(inputPath, p.config.TargetLang, ext)
	}

	title := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	out, err := p.Render(ctx, string(src), title, format)
	if err != nil {
		return "", err
	}

	if dir := filepath.Dir(outputPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(outputPath, []byte(out), 0644); err != nil {
		return "", fmt.Errorf("failed to write output file: %w", err)
	}
	return outputPath, nil
}

// ProcessBatch translates every document listed in batchFile. Entries
// without an explicit output are written next to their input, or into
// outputDir when it is set. A failing document does not stop the batch.
func (p *Processor) ProcessBatch(ctx context.Context, batchFile, outputDir, format string) error {
	entries, err := batch.ReadBatchFile(batchFile)
	if err != nil {
		return err
	}
	if err := ValidateFormat(format); err != nil {
		return err
	}

	processedCount := 0
	errorCount := 0

	for i, entry := range entries {
		fmt.Fprintf(p.out, "\nProcessing %d/%d: %s\n", i+1, len(entries), entry.Input)

		output := entry.Output
		if output == "" && outputDir != "" {
			ext := ".md"
			if format == FormatHTML {
				ext = ".html"
			}
			output = filepath.Join(outputDir, filepath.Base(internal.OutputPath(entry.Input, p.config.TargetLang, ext)))
		}

		written, err := p.TranslateFile(ctx, entry.Input, output, format)
		if err != nil {
			p.logger.Error().Err(err).Str("input", entry.Input).Msg("failed to process document")
			fmt.Fprintf(p.errOut, "Error processing '%s': %v\n", entry.Input, err)
			errorCount++
			continue
		}
		fmt.Fprintf(p.out, "  ✓ %s\n", written)
		processedCount++
	}

	// Print summary
	fmt.Fprintf(p.out, "\n=== Batch Processing Summary ===\n")
	fmt.Fprintf(p.out, "Total documents: %d\n", len(entries))
	fmt.Fprintf(p.out, "Processed: %d\n", processedCount)
	if errorCount > 0 {
		fmt.Fprintf(p.out, "Errors: %d\n", errorCount)
	}
	fmt.Fprintf(p.out, "================================\n")

	if errorCount > 0 && processedCount == 0 {
		return fmt.Errorf("all %d documents failed", errorCount)
	}
	return nil
}
