package document

import (
	"fmt"
	"strings"
)

// Fence returns a backtick fence longer than any backtick run in code, and
// never shorter than three.
func Fence(code string) string {
	longest, run := 0, 0
	for _, r := range code {
		if r != '`' {
			run = 0
			continue
		}
		run++
		longest = max(longest, run)
	}
	return strings.Repeat("`", max(3, longest+1))
}

// FencedCode renders a fenced code block
func FencedCode(language, code string) string {
	fence := Fence(code)
	return fence + language + "\n" + code + "\n" + fence
}

// ListMarkdown renders list items. Lines after the first line of an item are
// indented to the item's content column so nested blocks stay inside it.
func ListMarkdown(ordered bool, items []string) string {
	var b strings.Builder
	for i, item := range items {
		marker := "- "
		if ordered {
			marker = fmt.Sprintf("%d. ", i+1)
		}
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(marker)
		b.WriteString(indent(item, strings.Repeat(" ", len(marker))))
	}
	return b.String()
}

// QuoteMarkdown prefixes every line of text with a quote marker
func QuoteMarkdown(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line == "" {
			lines[i] = ">"
		} else {
			lines[i] = "> " + line
		}
	}
	return strings.Join(lines, "\n")
}

// indent prefixes every non-blank line but the first
func indent(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i := 1; i < len(lines); i++ {
		if lines[i] != "" {
			lines[i] = prefix + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}
