// Package prompt implements the prompt-stage extractors (spec.md §4.3, C3):
// critique extraction, key-points extraction, cloze identification, and
// context enhancement, plus the shared NLP-guidance formatter (§4.3.5).
//
// Prompt templates are plain text/template files, one per stage, embedded
// into the binary from templates/ and parsed once by LoadTemplates; they are
// read from disk only when LoadTemplates gets a non-empty directory, which
// the CLI does not pass. text/template is the standard-library choice for
// flat placeholder interpolation and no pack dependency offers anything it
// doesn't already provide (recorded in DESIGN.md as the one ambient concern
// kept on the standard library).
package prompt

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

var templateFuncs = template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}

// Templates holds the four parsed stage templates.
type Templates struct {
	Critique  *template.Template
	KeyPoints *template.Template
	Cloze     *template.Template
	Enhance   *template.Template
}

// LoadTemplates parses the embedded prompt templates. dir, if non-empty,
// overrides the embedded copies by reading from disk instead — operators
// can edit prompts without rebuilding the binary (spec.md §9: "Prompt
// templates are data").
func LoadTemplates(dir string) (*Templates, error) {
	load := func(name string) (*template.Template, error) {
		if dir != "" {
			return template.New(name).Funcs(templateFuncs).ParseFiles(dir + "/" + name)
		}
		data, err := embeddedTemplates.ReadFile("templates/" + name)
		if err != nil {
			return nil, fmt.Errorf("reading embedded template %s: %w", name, err)
		}
		return template.New(name).Funcs(templateFuncs).Parse(string(data))
	}

	var t Templates
	var err error
	if t.Critique, err = load("critique.tmpl"); err != nil {
		return nil, err
	}
	if t.KeyPoints, err = load("keypoints.tmpl"); err != nil {
		return nil, err
	}
	if t.Cloze, err = load("cloze.tmpl"); err != nil {
		return nil, err
	}
	if t.Enhance, err = load("enhance.tmpl"); err != nil {
		return nil, err
	}
	return &t, nil
}

func render(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering template %s: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}
