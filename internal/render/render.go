// Package render executes user-supplied text templates against analyzed
// aggregates. Templates are standard text/template with a small helper set
// for the casing conventions code generators need.
package render

import (
	"fmt"
	"strings"
	"text/template"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Error reports a template failure with the failing phase attached.
type Error struct {
	Template string
	Phase    string // "parse" or "execute"
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("template %q: %s: %v", e.Template, e.Phase, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Renderer renders templates against model values. The zero value is ready
// to use.
type Renderer struct{}

// Funcs is the helper set available inside templates.
func Funcs() template.FuncMap {
	title := cases.Title(language.English, cases.NoLower)
	return template.FuncMap{
		"lower": strings.ToLower,
		"upper": strings.ToUpper,
		"title": title.String,
		"camel": camel,
	}
}

// Render parses the named template text and executes it against the given
// value. Unknown fields fail the execution instead of rendering "<no value>".
func (r *Renderer) Render(name, text string, data any) (string, error) {
	tmpl, err := template.New(name).Funcs(Funcs()).Option("missingkey=error").Parse(text)
	if err != nil {
		return "", &Error{Template: name, Phase: "parse", Err: err}
	}
	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", &Error{Template: name, Phase: "execute", Err: err}
	}
	return sb.String(), nil
}

// camel lower-cases the leading run of upper-case letters: "OrderID" becomes
// "orderID", "ID" becomes "id".
func camel(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	upper := 0
	for upper < len(runes) && runes[upper] >= 'A' && runes[upper] <= 'Z' {
		upper++
	}
	switch upper {
	case 0:
		return s
	case len(runes):
		return strings.ToLower(s)
	default:
		// Keep the last upper rune as the start of the next word, unless
		// only one leads.
		if upper > 1 {
			upper--
		}
		return strings.ToLower(string(runes[:upper])) + string(runes[upper:])
	}
}
