// Package document models a Markdown document as an ordered sequence of
// typed units. Headings, paragraphs, lists and block quotes carry text that
// can be translated; code blocks and horizontal rules are carried through
// untouched. Parse builds the sequence from Markdown source using goldmark.
package document
