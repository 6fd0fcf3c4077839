package render

import (
	"bytes"
	_ "embed"
	"html/template"
	"io"

	"github.com/abiiranathan/dialog-template-lsp/analyzer/languages"
)

//go:embed templates/preview.html.tmpl
var pageSource string

var pageTemplate = template.Must(template.New("preview").Parse(pageSource))

// DefaultCaption is the window caption drawn above the dialog.
const DefaultCaption = "Microsoft Outlook"

// Page is the data of a standalone HTML preview page.
//
// Content must come from a Pipeline rendering for HTMLTarget: its Title,
// Body and Options are inserted into the page without further escaping.
type Page struct {
	Content Content
	// Choices, when set, are rendered as language links (?lang=code).
	Choices []languages.Choice
	Caption string
}

// Title returns the escaped title as trusted HTML.
func (p Page) Title() template.HTML { return template.HTML(p.Content.Title) }

// Body returns the rendered body as trusted HTML.
func (p Page) Body() template.HTML { return template.HTML(p.Content.Body) }

// Options returns the escaped options as trusted HTML.
func (p Page) Options() []template.HTML {
	out := make([]template.HTML, len(p.Content.Options))
	for i, o := range p.Content.Options {
		out[i] = template.HTML(o)
	}
	return out
}

// WritePage writes the preview page for p to w.
func WritePage(w io.Writer, p Page) error {
	if p.Caption == "" {
		p.Caption = DefaultCaption
	}
	return pageTemplate.Execute(w, p)
}

// PageHTML returns the preview page for p as a string.
func PageHTML(p Page) (string, error) {
	var buf bytes.Buffer
	if err := WritePage(&buf, p); err != nil {
		return "", err
	}
	return buf.String(), nil
}
