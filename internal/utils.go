package internal

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// NewRunID returns a short identifier used to correlate log lines of one run
func NewRunID() string {
	return uuid.NewString()[:8]
}

// OutputPath derives the translated file name from the input path.
// "docs/guide.md" with target "ja" becomes "docs/guide.ja.md".
func OutputPath(inputPath, targetLang, ext string) string {
	base := strings.TrimSuffix(inputPath, filepath.Ext(inputPath))
	if ext == "" {
		ext = filepath.Ext(inputPath)
	}
	if ext == "" {
		ext = ".md"
	}
	return base + "." + SanitizeFilename(targetLang) + ext
}

// IsMarkdownFile reports whether the path has a Markdown extension
func IsMarkdownFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return true
	}
	return false
}

// SanitizeFilename creates a safe filename from a string
func SanitizeFilename(s string) string {
	var b strings.Builder
	for _, r := range s {
		if isAlphaNumeric(r) || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

// isAlphaNumeric checks if a rune is an ASCII letter or digit
func isAlphaNumeric(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}
