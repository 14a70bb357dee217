package docmerge

import "context"

// Browser renders pages in a headless browser session.
// A single Browser is acquired at startup and released with Close at shutdown.
type Browser interface {
	// Render navigates to url, waits until at least one element matches the
	// CSS selector, and returns the rendered HTML.
	// The context deadline bounds the whole operation.
	// Returns ETIMEOUT if the selector never matched before the deadline and
	// EUNAVAILABLE if the page could not be loaded.
	Render(ctx context.Context, url string, selector string) (html string, err error)

	// Text navigates to url, waits like Render and returns the rendered text
	// of the first element matching selector, as the browser lays it out:
	// content hidden by CSS is excluded.
	Text(ctx context.Context, url string, selector string) (text string, err error)

	// Close releases browser resources.
	Close() error
}
