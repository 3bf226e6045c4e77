// Package quoterender renders human-readable quote summaries.
package quoterender

import (
	"bytes"
	_ "embed"
	htmltemplate "html/template"
	"strings"
	"text/template"

	"quote-templater/internal/model"
)

// Summary is the data behind both renderings.
type Summary struct {
	ID          int64
	Destination string
	Quoted      string
}

//go:embed summary.html.tmpl
var htmlTpl string

//go:embed summary.txt.tmpl
var textTpl string

var (
	compiledHTML = htmltemplate.Must(htmltemplate.New("summary_html").Parse(htmlTpl))
	compiledText = template.Must(template.New("summary").Parse(textTpl))
)

// NewSummary builds the summary for q; destination may be empty.
func NewSummary(q model.Quote, destination string) Summary {
	s := Summary{ID: q.ID, Destination: destination}
	if !q.DateQuoted.IsZero() {
		s.Quoted = q.DateQuoted.UTC().Format("2006-01-02")
	}
	return s
}

// RenderHTML renders s as an HTML fragment. Values are escaped.
func RenderHTML(s Summary) (string, error) {
	var buf bytes.Buffer
	if err := compiledHTML.Execute(&buf, s); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}

// RenderText renders s as plain text.
func RenderText(s Summary) (string, error) {
	var buf bytes.Buffer
	if err := compiledText.Execute(&buf, s); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}
