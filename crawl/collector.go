package crawl

import (
	"context"
	"time"

	"github.com/fwojciec/docmerge"
	"github.com/fwojciec/docmerge/goquery"
)

// DefaultTimeout bounds each page load and element wait.
const DefaultTimeout = 10 * time.Second

var _ docmerge.LinkCollector = (*Collector)(nil)

// Collector discovers prefixed links on a rendered listing page.
type Collector struct {
	Browser docmerge.Browser

	// Timeout bounds loading the page and waiting for the first anchor.
	// Defaults to DefaultTimeout.
	Timeout time.Duration
}

// CollectLinks renders pageURL, waits for at least one anchor and returns
// every resolved href starting with prefix.
func (c *Collector) CollectLinks(ctx context.Context, pageURL, prefix string) docmerge.LinkResult {
	ctx, cancel := context.WithTimeout(ctx, timeoutOrDefault(c.Timeout))
	defer cancel()

	html, err := c.Browser.Render(ctx, pageURL, goquery.AnchorSelector)
	if err != nil {
		return docmerge.LinkResult{Status: docmerge.StatusOf(err), Err: err}
	}

	links, err := goquery.ExtractLinks(html, pageURL, prefix)
	if err != nil {
		return docmerge.LinkResult{Status: docmerge.StatusFailed, Err: err}
	}
	if len(links) == 0 {
		return docmerge.LinkResult{Status: docmerge.StatusEmpty}
	}

	return docmerge.LinkResult{Links: links, Status: docmerge.StatusOK}
}

func timeoutOrDefault(d time.Duration) time.Duration {
	if d <= 0 {
		return DefaultTimeout
	}
	return d
}
