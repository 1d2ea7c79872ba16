package rendering

import (
	_ "embed"
	"strings"
	"text/template"
)

// DefaultFont is the font family used for Hebrew and Latin text.
const DefaultFont = "Ezra SIL"

//go:embed templates/preamble.tex.tmpl
var preambleSource string

// preambleData is passed to the preamble template.
type preambleData struct {
	Font string
}

// Preamble renders the fixed document opening for font. The result ends
// with a newline so row blocks can be appended directly.
func Preamble(font string) (string, error) {
	if strings.TrimSpace(font) == "" {
		font = DefaultFont
	}
	if strings.ContainsAny(font, `{}\`) {
		return "", &TemplateError{Message: "font name must not contain braces or backslashes"}
	}

	tmpl, err := template.New("preamble").Delims("<<", ">>").Parse(preambleSource)
	if err != nil {
		return "", &TemplateError{
			Message: "failed to parse template",
			Cause:   err,
		}
	}

	var out strings.Builder
	if err := tmpl.Execute(&out, preambleData{Font: font}); err != nil {
		return "", &TemplateError{
			Message: "failed to execute template",
			Cause:   err,
		}
	}
	return strings.TrimSpace(out.String()) + "\n", nil
}
