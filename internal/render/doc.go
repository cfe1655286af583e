// Package render turns an ordered unit sequence back into document text.
// Markdown output follows a fixed rule per unit kind; HTML output renders
// that Markdown with goldmark and wraps it in a standalone page.
package render
