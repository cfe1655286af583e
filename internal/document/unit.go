package document

import (
	"errors"
	"fmt"
	"strings"
)

// Kind identifies the variant of a Unit
type Kind int

const (
	KindHeading Kind = iota
	KindParagraph
	KindCodeBlock
	KindList
	KindBlockQuote
	KindRule
)

var kindNames = map[Kind]string{
	KindHeading:    "heading",
	KindParagraph:  "paragraph",
	KindCodeBlock:  "code_block",
	KindList:       "list",
	KindBlockQuote: "block_quote",
	KindRule:       "rule",
}

// String returns the lowercase name of the kind
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Unit is one structural element of a document. Only the fields that belong
// to its Kind are meaningful.
type Unit struct {
	Kind Kind

	// Heading
	Level int

	// Heading, Paragraph and BlockQuote
	Text string

	// CodeBlock
	Language string
	Code     string

	// List
	Ordered bool
	Items   []string
}

// Heading creates a heading unit of the given level (1-6)
func Heading(level int, text string) Unit {
	if level < 1 {
		level = 1
	}
	if level > 6 {
		level = 6
	}
	return Unit{Kind: KindHeading, Level: level, Text: text}
}

// Paragraph creates a paragraph unit
func Paragraph(text string) Unit {
	return Unit{Kind: KindParagraph, Text: text}
}

// CodeBlock creates a code block unit; language may be empty
func CodeBlock(language, code string) Unit {
	return Unit{Kind: KindCodeBlock, Language: language, Code: code}
}

// List creates a list unit
func List(ordered bool, items ...string) Unit {
	return Unit{Kind: KindList, Ordered: ordered, Items: append([]string(nil), items...)}
}

// BlockQuote creates a block quote unit
func BlockQuote(text string) Unit {
	return Unit{Kind: KindBlockQuote, Text: text}
}

// Rule creates a horizontal rule unit
func Rule() Unit {
	return Unit{Kind: KindRule}
}

// IsTranslatable reports whether the unit carries non-blank text that should
// be sent to a translation provider.
func (u Unit) IsTranslatable() bool {
	_, ok := u.TranslatableText()
	return ok
}

// ErrListShape is returned by WithText when a translated list does not
// split back into the same number of items
var ErrListShape = errors.New("list item count changed")

// ItemBreak is the line separating list items in translatable text when one
// of them spans several lines
const ItemBreak = "<!-- item -->"

// listSeparator returns the separator joining items in translatable text.
// Single-line items are joined with newlines; otherwise ItemBreak lines are
// used so blank lines inside an item survive.
func listSeparator(items []string) string {
	for _, item := range items {
		if strings.TrimSpace(item) == "" || strings.Contains(item, "\n") {
			return "\n\n" + ItemBreak + "\n\n"
		}
	}
	return "\n"
}

// TranslatableText returns the text to translate. A list is translated in
// one request with its items joined by listSeparator.
func (u Unit) TranslatableText() (string, bool) {
	var text string
	switch u.Kind {
	case KindHeading, KindParagraph, KindBlockQuote:
		text = u.Text
	case KindList:
		text = strings.Join(u.Items, listSeparator(u.Items))
	default:
		return "", false
	}
	if strings.TrimSpace(text) == "" {
		return "", false
	}
	return text, true
}

// WithText returns a copy of the unit with its translatable text replaced.
// A list translation must split into exactly as many items as the list has,
// otherwise ErrListShape is returned with the unit unchanged. Units without
// translatable text are returned unchanged.
func (u Unit) WithText(text string) (Unit, error) {
	switch u.Kind {
	case KindHeading, KindParagraph, KindBlockQuote:
		u.Text = text
	case KindList:
		items := splitItems(text, listSeparator(u.Items))
		if len(items) != len(u.Items) {
			return u, fmt.Errorf("%w: %d -> %d", ErrListShape, len(u.Items), len(items))
		}
		u.Items = items
	}
	return u, nil
}

func splitItems(text, sep string) []string {
	if sep == "\n" {
		var items []string
		for _, line := range strings.Split(text, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				items = append(items, line)
			}
		}
		return items
	}

	parts := strings.Split(text, ItemBreak)
	for i, part := range parts {
		parts[i] = strings.TrimRight(strings.Trim(part, "\n"), " \t")
	}
	return parts
}
