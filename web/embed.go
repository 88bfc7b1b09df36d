// Package web holds the single-page dashboard served at "/".
package web

import (
	"bytes"
	_ "embed"
	"html/template"
)

//go:embed index.html
var indexHTML string

var indexTmpl = template.Must(template.New("index").Parse(indexHTML))

// Page is what the template needs.
type Page struct {
	GitHubURL string
}

// Render executes the page template.
func Render(p Page) ([]byte, error) {
	var buf bytes.Buffer
	if err := indexTmpl.Execute(&buf, p); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
