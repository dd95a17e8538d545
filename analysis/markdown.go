// ABOUTME: Renders an analysis Report as Markdown with \( \) math spans, and as HTML via goldmark.
// ABOUTME: All ASCII punctuation is escaped so math content survives Markdown processing intact.
package analysis

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
)

// Markdown returns the report as Markdown. Math values render as \(...\) spans after
// conversion, ready for a typesetter to pick up.
func (r Report) Markdown() string {
	var b strings.Builder
	b.WriteString("**Current function:** ")
	b.WriteString(mathSpan(r.Formula()))
	b.WriteString("\n\n")
	if r.Error != "" {
		b.WriteString("*" + escape(r.Error) + "*\n\n")
	}

	for _, s := range r.Sections {
		b.WriteString(strings.Repeat("#", max(1, s.Level)))
		b.WriteString(" ")
		b.WriteString(escape(s.Title))
		b.WriteString("\n\n")
		if s.Note != "" {
			b.WriteString(escape(s.Note))
			b.WriteString("\n\n")
		}
		if len(s.Items) == 0 {
			continue
		}
		for _, it := range s.Items {
			writeItem(&b, it, "")
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}

func writeItem(b *strings.Builder, it Item, indent string) {
	b.WriteString(indent)
	b.WriteString("- ")
	value := escape(it.Value)
	if it.Math {
		value = mathSpan(it.Value)
	}
	if it.Equation {
		b.WriteString(escape(it.Label) + " \\= " + value)
	} else {
		b.WriteString("**" + escape(it.Label) + ":** " + value)
	}
	b.WriteString("\n")
	for _, d := range it.Details {
		writeItem(b, d, indent+"  ")
	}
}

// mathSpan wraps s so that, once converted, it reads \(s\).
func mathSpan(s string) string {
	return `\\(` + escape(s) + `\\)`
}

// escape backslash-escapes every ASCII punctuation character.
func escape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x80 && isASCIIPunct(byte(r)) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isASCIIPunct(c byte) bool {
	return (c >= '!' && c <= '/') || (c >= ':' && c <= '@') || (c >= '[' && c <= '`') || (c >= '{' && c <= '~')
}

// RenderHTML converts the report's Markdown to HTML using goldmark.
func RenderHTML(r Report) template.HTML {
	var buf bytes.Buffer
	md := goldmark.New()
	src := r.Markdown()
	if err := md.Convert([]byte(src), &buf); err != nil {
		return template.HTML("<pre>" + template.HTMLEscapeString(src) + "</pre>")
	}
	return template.HTML(buf.String())
}
