// Package assets embeds the web index page and renders it minified.
package assets

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
	"github.com/tdewolff/minify/v2/svg"
)

//go:embed index.html.tpl style.css script.js icon.svg
var files embed.FS

// PageData fills the index template.
type PageData struct {
	Title string
	CSS   string
	JS    string
	SVG   string
}

// Index renders the index page with inlined, minified CSS, JS and icon.
func Index(title string) ([]byte, error) {
	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.AddFunc("text/html", html.Minify)
	m.AddFunc("text/javascript", js.Minify)
	m.AddFunc("image/svg+xml", svg.Minify)

	cssMin, err := minifyFile(m, "text/css", "style.css")
	if err != nil {
		return nil, err
	}
	jsMin, err := minifyFile(m, "text/javascript", "script.js")
	if err != nil {
		return nil, err
	}
	svgMin, err := minifyFile(m, "image/svg+xml", "icon.svg")
	if err != nil {
		return nil, err
	}

	htmlRaw, err := files.ReadFile("index.html.tpl")
	if err != nil {
		return nil, fmt.Errorf("read HTML: %w", err)
	}

	tmpl, err := template.New("index").Parse(string(htmlRaw))
	if err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, PageData{
		Title: title,
		CSS:   cssMin,
		JS:    jsMin,
		SVG:   svgMin,
	})
	if err != nil {
		return nil, fmt.Errorf("execute template: %w", err)
	}

	out, err := m.Bytes("text/html", buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("minify HTML: %w", err)
	}
	return out, nil
}

func minifyFile(m *minify.M, mediatype, name string) (string, error) {
	raw, err := files.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}

	out, err := m.String(mediatype, string(raw))
	if err != nil {
		return "", fmt.Errorf("minify %s: %w", name, err)
	}
	return out, nil
}
