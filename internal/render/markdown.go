package render

import (
	"strings"

	"codeberg.org/snonux/mdtranslate/internal/document"
)

// separator is placed between rendered units
const separator = "\n\n"

// Markdown serializes units in order. Each unit is rendered on its own and
// units are joined by a blank line. The result ends with a newline unless
// there are no units.
func Markdown(units []document.Unit) string {
	if len(units) == 0 {
		return ""
	}

	parts := make([]string, 0, len(units))
	for _, u := range units {
		parts = append(parts, Unit(u))
	}
	return strings.Join(parts, separator) + "\n"
}

// Unit renders a single unit as Markdown
func Unit(u document.Unit) string {
	switch u.Kind {
	case document.KindHeading:
		return strings.Repeat("#", u.Level) + " " + u.Text
	case document.KindParagraph:
		return u.Text
	case document.KindCodeBlock:
		return document.FencedCode(u.Language, u.Code)
	case document.KindList:
		return document.ListMarkdown(u.Ordered, u.Items)
	case document.KindBlockQuote:
		return document.QuoteMarkdown(u.Text)
	case document.KindRule:
		return "---"
	}
	return ""
}
