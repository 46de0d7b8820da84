// Package views holds the console's HTML templates.
package views

import (
	"embed"
	"html/template"
	"strings"
	"unicode/utf8"

	"cms-console/pkg/models"
)

//go:embed templates/*.html
var files embed.FS

const (
	dateLayout     = "Jan 2, 2006"
	dateTimeLayout = "Jan 2, 2006 3:04 PM"
)

var funcs = template.FuncMap{
	"date":     func(t models.Timestamp) string { return t.Format(dateLayout) },
	"datetime": func(t models.Timestamp) string { return t.Format(dateTimeLayout) },
	"lines":    Lines,
	"field":    func(r models.Record, key string) string { return r.Field(key) },
	"truncate": Truncate,
	"inc":      func(i int) int { return i + 1 },
}

// Templates parses every embedded page. Pages share the "header" and
// "footer" blocks from layout.html.
func Templates() *template.Template {
	return template.Must(template.New("").Funcs(funcs).ParseFS(files, "templates/*.html"))
}

// Lines splits stored <br /> markup back into text lines so bodies render
// escaped.
func Lines(body string) []string {
	body = strings.ReplaceAll(body, "<br />", "\n")
	body = strings.ReplaceAll(body, "<br>", "\n")
	return strings.Split(body, "\n")
}

// Truncate shortens s to n runes, appending an ellipsis when cut.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "…"
}
