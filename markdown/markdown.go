// Package markdown renders merged documents as Markdown using
// github.com/nao1215/markdown.
package markdown

import (
	"context"
	"io"
	"regexp"
	"strings"

	"github.com/fwojciec/docmerge"
	"github.com/nao1215/markdown"
)

// Ensure Renderer implements docmerge.Renderer at compile time.
var _ docmerge.Renderer = (*Renderer)(nil)

// Renderer writes documents as Markdown.
type Renderer struct {
	// Verbatim writes section text unchanged. Set it when the text already is
	// Markdown; otherwise lines that would start a Markdown block are escaped
	// so plain text stays plain.
	Verbatim bool
}

// NewRenderer creates a new Renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Extension returns ".md".
func (r *Renderer) Extension() string {
	return ".md"
}

// Render writes each section as a level-one heading holding the source URL
// followed by the text.
func (r *Renderer) Render(ctx context.Context, w io.Writer, doc *docmerge.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	md := markdown.NewMarkdown(w)
	if doc != nil {
		for i, s := range doc.Sections {
			if i > 0 {
				md.PlainText("")
			}
			md.H1(s.SourceURL)
			md.PlainText("")
			if r.Verbatim {
				md.PlainText(s.Text)
			} else {
				md.PlainText(EscapeText(s.Text))
			}
		}
	}
	return md.Build()
}

// orderedMarker matches an ordered list marker such as "1." or "12)".
var orderedMarker = regexp.MustCompile(`^[0-9]{1,9}[.)]`)

// EscapeText backslash-escapes the leading character of every line that
// Markdown would read as a heading, list item, quote, fence, table row,
// thematic break or HTML block.
func EscapeText(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = escapeLine(line)
	}
	return strings.Join(lines, "\n")
}

func escapeLine(line string) string {
	rest := strings.TrimLeft(line, " ")
	indent := line[:len(line)-len(rest)]
	if rest == "" || len(indent) > 3 {
		// Four spaces already make an indented code block, shown literally.
		return line
	}

	switch rest[0] {
	case '#', '>', '-', '+', '*', '=', '_', '|', '`', '~', '<':
		return indent + `\` + rest
	}
	if m := orderedMarker.FindString(rest); m != "" {
		n := len(m) - 1
		return indent + rest[:n] + `\` + rest[n:]
	}
	return line
}
