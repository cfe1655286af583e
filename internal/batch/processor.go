package batch

import (
	"fmt"
	"os"
	"strings"
)

// Entry is one document to translate
type Entry struct {
	Input string
	// Output is empty when the output path should be derived from Input
	Output string
}

// ReadBatchFile reads document paths from a file and returns Entry slice
// Supports formats:
// - Input only: "docs/guide.md" (output becomes docs/guide.<lang>.md)
// - With output: "docs/guide.md = out/guide.md"
// - Comments: lines starting with '#' are ignored
func ReadBatchFile(filename string) ([]Entry, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}
	return ParseBatch(string(content)), nil
}

// ParseBatch parses batch file content
func ParseBatch(content string) []Entry {
	var entries []Entry
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		input, output, found := strings.Cut(line, "=")
		input = strings.TrimSpace(input)
		if input == "" {
			// Ignore lines without an input path
			continue
		}

		entry := Entry{Input: input}
		if found {
			entry.Output = strings.TrimSpace(output)
		}
		entries = append(entries, entry)
	}
	return entries
}
