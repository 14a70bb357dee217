// Package render selects the document renderer for an output format.
package render

import (
	"github.com/fwojciec/docmerge"
	"github.com/fwojciec/docmerge/docx"
	"github.com/fwojciec/docmerge/markdown"
	"github.com/fwojciec/docmerge/rod"
)

// Option configures ForFormat.
type Option func(*config)

type config struct {
	markdownText bool
}

// WithMarkdownText reports whether section text is already Markdown, in which
// case the Markdown renderer writes it unescaped.
func WithMarkdownText(enabled bool) Option {
	return func(c *config) {
		c.markdownText = enabled
	}
}

// ForFormat returns the renderer for format. An empty format means DOCX.
// PDF output prints through Chrome and therefore needs a rod browser.
func ForFormat(format docmerge.Format, browser docmerge.Browser, opts ...Option) (docmerge.Renderer, error) {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	switch format {
	case docmerge.FormatDOCX, "":
		return docx.NewRenderer(), nil
	case docmerge.FormatMarkdown:
		return &markdown.Renderer{Verbatim: cfg.markdownText}, nil
	case docmerge.FormatPDF:
		chrome, ok := browser.(*rod.Browser)
		if !ok {
			return nil, docmerge.Errorf(docmerge.EINVALID, "pdf output requires a Chrome browser")
		}
		return rod.NewPDFRenderer(chrome), nil
	default:
		return nil, docmerge.Errorf(docmerge.EINVALID, "unsupported format: %q", format)
	}
}
