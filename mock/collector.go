package mock

import (
	"context"

	"github.com/fwojciec/docmerge"
)

var (
	_ docmerge.LinkCollector    = (*LinkCollector)(nil)
	_ docmerge.ContentExtractor = (*ContentExtractor)(nil)
)

// LinkCollector is a mock implementation of docmerge.LinkCollector.
type LinkCollector struct {
	CollectLinksFn func(ctx context.Context, pageURL, prefix string) docmerge.LinkResult
}

func (c *LinkCollector) CollectLinks(ctx context.Context, pageURL, prefix string) docmerge.LinkResult {
	return c.CollectLinksFn(ctx, pageURL, prefix)
}

// ContentExtractor is a mock implementation of docmerge.ContentExtractor.
type ContentExtractor struct {
	ExtractTextFn func(ctx context.Context, pageURL string) docmerge.TextResult
}

func (e *ContentExtractor) ExtractText(ctx context.Context, pageURL string) docmerge.TextResult {
	return e.ExtractTextFn(ctx, pageURL)
}
