// Package rod implements docmerge.Browser on top of headless Chrome driven by
// go-rod.
package rod

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/fwojciec/docmerge"
	"github.com/go-rod/rod"
)

// Ensure Browser implements docmerge.Browser at compile time.
var _ docmerge.Browser = (*Browser)(nil)

// Browser renders pages in a shared headless Chrome process.
// Every Render opens its own tab, so concurrent renders never observe each
// other's navigation.
type Browser struct {
	manager      *BrowserManager
	pollInterval time.Duration
	closed       atomic.Bool
}

// Option configures a Browser.
type Option func(*browserConfig)

type browserConfig struct {
	pollInterval time.Duration
	managerOpts  []ManagerOption
}

// WithPollInterval sets the delay between selector checks while waiting for
// an element to appear. Defaults to docmerge.DefaultPollInterval.
func WithPollInterval(d time.Duration) Option {
	return func(c *browserConfig) {
		c.pollInterval = d
	}
}

// WithManagerOptions passes options to the underlying BrowserManager.
func WithManagerOptions(opts ...ManagerOption) Option {
	return func(c *browserConfig) {
		c.managerOpts = append(c.managerOpts, opts...)
	}
}

// NewBrowser launches a headless Chrome browser.
// Close must be called when the Browser is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewBrowser(opts ...Option) (*Browser, error) {
	cfg := browserConfig{pollInterval: docmerge.DefaultPollInterval}
	for _, opt := range opts {
		opt(&cfg)
	}

	manager, err := NewBrowserManager(cfg.managerOpts...)
	if err != nil {
		return nil, err
	}

	return &Browser{
		manager:      manager,
		pollInterval: cfg.pollInterval,
	}, nil
}

// Render navigates to url, waits until selector matches at least one element
// and returns the rendered HTML.
func (b *Browser) Render(ctx context.Context, url string, selector string) (string, error) {
	var html string
	err := b.withElement(ctx, url, selector, func(page *rod.Page, _ *rod.Element) (err error) {
		html, err = page.HTML()
		return err
	})
	return html, err
}

// Text navigates to url, waits until selector matches and returns the
// element's innerText. The browser computes it from the laid-out page, so
// elements hidden by stylesheets contribute nothing.
func (b *Browser) Text(ctx context.Context, url string, selector string) (string, error) {
	var text string
	err := b.withElement(ctx, url, selector, func(_ *rod.Page, el *rod.Element) (err error) {
		text, err = el.Text()
		return err
	})
	return text, err
}

// withElement opens url in a fresh tab, waits for the first element matching
// selector and passes both to fn. The tab is closed afterwards.
func (b *Browser) withElement(ctx context.Context, url string, selector string, fn func(*rod.Page, *rod.Element) error) error {
	if b.closed.Load() {
		return docmerge.Errorf(docmerge.EINVALID, "browser is closed")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	page, release, err := b.manager.NewTab()
	if err != nil {
		return docmerge.Errorf(docmerge.EUNAVAILABLE, "opening tab: %v", err)
	}
	defer release()

	page = page.Context(ctx)

	if err := page.Navigate(url); err != nil {
		return loadError(url, err)
	}

	var el *rod.Element
	err = docmerge.Poll(ctx, b.pollInterval, func(context.Context) (bool, error) {
		has, found, err := page.Has(selector)
		el = found
		return has, err
	})
	if err != nil {
		if docmerge.ErrorCode(err) == docmerge.ETIMEOUT {
			return docmerge.Errorf(docmerge.ETIMEOUT, "no element matching %q on %s", selector, url)
		}
		return loadError(url, err)
	}

	if err := fn(page, el); err != nil {
		return loadError(url, err)
	}
	return nil
}

// Close releases browser resources. Close is safe to call multiple times.
func (b *Browser) Close() error {
	if !b.closed.CompareAndSwap(false, true) {
		return nil
	}
	return b.manager.Close()
}

// LauncherPID returns the process ID of the browser launcher.
// This method exists for testing purposes to verify proper cleanup.
func (b *Browser) LauncherPID() int {
	return b.manager.LauncherPID()
}

// loadError classifies a navigation failure.
func loadError(url string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return docmerge.Errorf(docmerge.ETIMEOUT, "loading %s: deadline exceeded", url)
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return docmerge.Errorf(docmerge.EUNAVAILABLE, "loading %s: %v", url, err)
}
