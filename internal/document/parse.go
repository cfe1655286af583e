package document

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// ErrSegmentation is returned when a document cannot be split into units
var ErrSegmentation = errors.New("segmentation failed")

var markdown = goldmark.New()

// Parse splits Markdown source into an ordered sequence of units. Raw HTML
// blocks are dropped.
func Parse(src string) (units []Unit, err error) {
	if !utf8.ValidString(src) {
		return nil, fmt.Errorf("%w: input is not valid UTF-8", ErrSegmentation)
	}

	defer func() {
		if r := recover(); r != nil {
			units = nil
			err = fmt.Errorf("%w: %v", ErrSegmentation, r)
		}
	}()

	source := []byte(src)
	root := markdown.Parser().Parse(text.NewReader(source))

	units = []Unit{}
	for node := root.FirstChild(); node != nil; node = node.NextSibling() {
		if unit, ok := convert(node, source); ok {
			units = append(units, unit)
		}
	}
	return units, nil
}

func convert(node ast.Node, source []byte) (Unit, bool) {
	switch n := node.(type) {
	case *ast.Heading:
		return Heading(n.Level, inlineText(n, source)), true
	case *ast.Paragraph:
		return Paragraph(inlineText(n, source)), true
	case *ast.FencedCodeBlock:
		return CodeBlock(string(n.Language(source)), rawText(n, source)), true
	case *ast.CodeBlock:
		return CodeBlock("", rawText(n, source)), true
	case *ast.List:
		return List(n.IsOrdered(), listItems(n, source)...), true
	case *ast.Blockquote:
		return BlockQuote(quoteText(n, source)), true
	case *ast.ThematicBreak:
		return Rule(), true
	}
	return Unit{}, false
}

// inlineText returns the raw Markdown of a leaf block with inline markup kept
func inlineText(node ast.Node, source []byte) string {
	var b strings.Builder
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(source))
	}

	parts := strings.Split(strings.TrimSpace(b.String()), "\n")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return strings.Join(parts, "\n")
}

// rawText returns code block content verbatim without the final newline
func rawText(node ast.Node, source []byte) string {
	var b strings.Builder
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(source))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func listItems(list *ast.List, source []byte) []string {
	sep := "\n\n"
	if list.IsTight {
		sep = "\n"
	}

	var items []string
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		items = append(items, childrenText(item, source, sep))
	}
	return items
}

func quoteText(quote *ast.Blockquote, source []byte) string {
	return childrenText(quote, source, "\n\n")
}

// childrenText renders the blocks nested in a list item or quote back to
// Markdown, joined by sep
func childrenText(parent ast.Node, source []byte, sep string) string {
	var parts []string
	for child := parent.FirstChild(); child != nil; child = child.NextSibling() {
		if t := blockText(child, source); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, sep)
}

// blockText returns the Markdown of a nested block. Raw HTML is dropped as
// it is at the top level.
func blockText(node ast.Node, source []byte) string {
	switch n := node.(type) {
	case *ast.TextBlock, *ast.Paragraph:
		return inlineText(n, source)
	case *ast.Heading:
		return strings.Repeat("#", n.Level) + " " + inlineText(n, source)
	case *ast.FencedCodeBlock:
		return FencedCode(string(n.Language(source)), rawText(n, source))
	case *ast.CodeBlock:
		return FencedCode("", rawText(n, source))
	case *ast.List:
		return ListMarkdown(n.IsOrdered(), listItems(n, source))
	case *ast.Blockquote:
		return QuoteMarkdown(quoteText(n, source))
	case *ast.ThematicBreak:
		// "---" under a text line would turn it into a heading
		return "***"
	}
	return ""
}
