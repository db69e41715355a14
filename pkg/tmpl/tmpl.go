// Package tmpl renders user supplied Go templates, such as the --format flag
// of list commands.
package tmpl

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/dustin/go-humanize"
)

// Placeholder is rendered for absent optional values.
const Placeholder = "-"

// opt dereferences optional values, returning def when v is nil.
func opt(def string, v any) string {
	switch p := v.(type) {
	case nil:
		return def
	case *string:
		if p == nil || *p == "" {
			return def
		}
		return *p
	case *int:
		if p == nil {
			return def
		}
		return strconv.Itoa(*p)
	case *float64:
		if p == nil {
			return def
		}
		return strconv.FormatFloat(*p, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// num formats a number with one decimal. Nil pointers render as Placeholder.
func num(v any) string {
	switch n := v.(type) {
	case float64:
		return strconv.FormatFloat(n, 'f', 1, 64)
	case *float64:
		if n == nil {
			return Placeholder
		}
		return strconv.FormatFloat(*n, 'f', 1, 64)
	case int:
		return strconv.Itoa(n)
	case *int:
		if n == nil {
			return Placeholder
		}
		return strconv.Itoa(*n)
	default:
		return fmt.Sprint(v)
	}
}

func date(layout string, t time.Time) string {
	return t.Format(layout)
}

func ago(t time.Time) string {
	return humanize.Time(t)
}

func size(n int) string {
	if n < 0 {
		n = 0
	}
	return humanize.Bytes(uint64(n))
}

func pad(width int, s string) string {
	return fmt.Sprintf("%-*s", width, s)
}

var funcs = template.FuncMap{
	"opt":   opt,
	"num":   num,
	"date":  date,
	"ago":   ago,
	"size":  size,
	"pad":   pad,
	"upper": strings.ToUpper,
	"lower": strings.ToLower,
}

// Render executes a Go template string with the given data.
// Returns an error if the template is invalid or references undefined keys.
//
// Available template functions:
//   - opt DEFAULT VALUE: dereference an optional value or fall back to DEFAULT
//   - num VALUE: format a number with one decimal, "-" when absent
//   - date LAYOUT TIME: format a time with a Go layout
//   - ago TIME: relative time, e.g. "3 days ago"
//   - size BYTES: human readable size
//   - pad WIDTH TEXT: left align TEXT in WIDTH columns
//   - upper, lower
func Render(tmpl string, data any) (string, error) {
	t, err := Parse(tmpl)
	if err != nil {
		return "", err
	}
	return Execute(t, data)
}

// Parse compiles tmpl once for repeated execution.
func Parse(tmpl string) (*template.Template, error) {
	t, err := template.New("").Funcs(funcs).Option("missingkey=error").Parse(tmpl)
	if err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}
	return t, nil
}

// Execute renders a template compiled with Parse.
func Execute(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}
	return buf.String(), nil
}
