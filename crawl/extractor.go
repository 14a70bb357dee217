package crawl

import (
	"context"
	"strings"
	"time"

	"github.com/fwojciec/docmerge"
	"github.com/fwojciec/docmerge/goquery"
)

// DefaultContentSelector identifies the main content container of a
// Mintlify-style documentation page.
const DefaultContentSelector = "#content-area"

// bodySelector is awaited when re-rendering a page for fallback extraction.
const bodySelector = "body"

var _ docmerge.ContentExtractor = (*Extractor)(nil)

// Extractor returns the visible text of a page's content container.
type Extractor struct {
	Browser docmerge.Browser

	// Selector identifies the content container. Defaults to
	// DefaultContentSelector.
	Selector string

	// Timeout bounds loading the page and waiting for the container.
	// Defaults to DefaultTimeout.
	Timeout time.Duration

	// Converter, when set, turns the container HTML into Markdown instead of
	// returning its plain visible text.
	Converter docmerge.Converter

	// Fallback, when set, extracts the main content of pages on which the
	// container never appeared.
	Fallback docmerge.Extractor
}

// ExtractText loads pageURL, waits for the container and returns its
// rendered text, trimmed.
func (e *Extractor) ExtractText(ctx context.Context, pageURL string) docmerge.TextResult {
	renderCtx, cancel := context.WithTimeout(ctx, timeoutOrDefault(e.Timeout))
	defer cancel()

	text, err := e.containerText(renderCtx, pageURL)
	if err != nil {
		result := docmerge.TextResult{Status: docmerge.StatusOf(err), Err: err}
		if e.Fallback != nil && result.Status == docmerge.StatusTimeout {
			return e.fallback(ctx, pageURL, result)
		}
		return result
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return docmerge.TextResult{Status: docmerge.StatusEmpty}
	}

	return docmerge.TextResult{Text: text, Status: docmerge.StatusOK}
}

func (e *Extractor) selector() string {
	if e.Selector == "" {
		return DefaultContentSelector
	}
	return e.Selector
}

// containerText returns the browser's innerText of the container, or its
// Markdown conversion when a Converter is set.
func (e *Extractor) containerText(ctx context.Context, pageURL string) (string, error) {
	if e.Converter == nil {
		return e.Browser.Text(ctx, pageURL, e.selector())
	}

	html, err := e.Browser.Render(ctx, pageURL, e.selector())
	if err != nil {
		return "", err
	}

	inner, found, err := goquery.ContainerHTML(html, e.selector())
	if err != nil || !found {
		return "", err
	}
	return e.Converter.Convert(inner)
}

// fallback re-renders the page without waiting for the container and runs
// the fallback extractor over it. On any failure the original result is
// returned.
func (e *Extractor) fallback(ctx context.Context, pageURL string, original docmerge.TextResult) docmerge.TextResult {
	ctx, cancel := context.WithTimeout(ctx, timeoutOrDefault(e.Timeout))
	defer cancel()

	html, err := e.Browser.Render(ctx, pageURL, bodySelector)
	if err != nil {
		return original
	}

	res, err := e.Fallback.Extract(html)
	if err != nil {
		return original
	}

	text := res.ContentText
	if e.Converter != nil && res.ContentHTML != "" {
		if md, err := e.Converter.Convert(res.ContentHTML); err == nil {
			text = md
		}
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return original
	}
	return docmerge.TextResult{Text: text, Status: docmerge.StatusOK}
}
