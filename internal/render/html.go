package render

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"codeberg.org/snonux/mdtranslate/internal/document"
)

var htmlRenderer = goldmark.New(goldmark.WithExtensions(extension.GFM))

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="{{.Lang}}">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
body { max-width: 860px; margin: 2rem auto; padding: 0 1rem; font-family: -apple-system, "Segoe UI", "Hiragino Sans", "Noto Sans JP", sans-serif; line-height: 1.7; color: #24292f; }
h1, h2 { border-bottom: 1px solid #d0d7de; padding-bottom: .3em; }
pre { background: #f6f8fa; padding: 1em; border-radius: 6px; overflow-x: auto; }
code { font-family: ui-monospace, SFMono-Regular, Menlo, monospace; font-size: 90%; }
blockquote { margin: 0; padding: 0 1em; color: #57606a; border-left: .25em solid #d0d7de; }
hr { border: 0; border-top: 1px solid #d0d7de; }
</style>
</head>
<body>
{{.Body}}
</body>
</html>
`))

// Page describes the HTML document wrapper
type Page struct {
	Title string
	Lang  string
}

// HTML renders units to a standalone HTML page
func HTML(units []document.Unit, page Page) (string, error) {
	var body bytes.Buffer
	if err := htmlRenderer.Convert([]byte(Markdown(units)), &body); err != nil {
		return "", fmt.Errorf("failed to convert markdown: %w", err)
	}

	if page.Title == "" {
		page.Title = "Translated document"
	}
	if page.Lang == "" {
		page.Lang = "en"
	}

	var out bytes.Buffer
	err := pageTemplate.Execute(&out, struct {
		Title string
		Lang  string
		Body  template.HTML
	}{
		Title: page.Title,
		Lang:  page.Lang,
		Body:  template.HTML(body.String()),
	})
	if err != nil {
		return "", fmt.Errorf("failed to render page: %w", err)
	}
	return out.String(), nil
}
