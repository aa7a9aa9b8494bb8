package util

import (
	"bytes"
	"strings"
	"text/template"
)

// RenderTemplate renders a prompt template against a state map. Plain
// strings without template markers pass through untouched.
//
// Prompt text must not be HTML-escaped, so this uses text/template:
// control titles like "<Button>" have to survive verbatim. Referencing
// a key absent from the state map is an error, not "<no value>".
func RenderTemplate(text string, state map[string]any) (string, error) {
	if !strings.Contains(text, "{{") {
		return text, nil
	}

	tmpl, err := template.New("prompt").Option("missingkey=error").Parse(text)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, state); err != nil {
		return "", err
	}
	return buf.String(), nil
}
