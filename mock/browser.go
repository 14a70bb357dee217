package mock

import (
	"context"

	"github.com/fwojciec/docmerge"
)

var _ docmerge.Browser = (*Browser)(nil)

// Browser is a mock implementation of docmerge.Browser.
type Browser struct {
	RenderFn func(ctx context.Context, url string, selector string) (string, error)
	TextFn   func(ctx context.Context, url string, selector string) (string, error)
	CloseFn  func() error
}

func (b *Browser) Render(ctx context.Context, url string, selector string) (string, error) {
	return b.RenderFn(ctx, url, selector)
}

func (b *Browser) Text(ctx context.Context, url string, selector string) (string, error) {
	return b.TextFn(ctx, url, selector)
}

func (b *Browser) Close() error {
	return b.CloseFn()
}
