// Package slog provides logging decorators for docmerge services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docmerge"
)

// Ensure LoggingBrowser implements docmerge.Browser.
var _ docmerge.Browser = (*LoggingBrowser)(nil)

// LoggingBrowser wraps a Browser with debug logging.
type LoggingBrowser struct {
	next   docmerge.Browser
	logger *slog.Logger
}

// NewLoggingBrowser creates a new LoggingBrowser.
func NewLoggingBrowser(next docmerge.Browser, logger *slog.Logger) *LoggingBrowser {
	return &LoggingBrowser{next: next, logger: logger}
}

// Render delegates to the wrapped browser and logs the operation.
func (b *LoggingBrowser) Render(ctx context.Context, url string, selector string) (html string, err error) {
	defer func(begin time.Time) {
		b.logger.Debug("render",
			"url", url,
			"selector", selector,
			"bytes", len(html),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return b.next.Render(ctx, url, selector)
}

// Text delegates to the wrapped browser and logs the operation.
func (b *LoggingBrowser) Text(ctx context.Context, url string, selector string) (text string, err error) {
	defer func(begin time.Time) {
		b.logger.Debug("text",
			"url", url,
			"selector", selector,
			"bytes", len(text),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return b.next.Text(ctx, url, selector)
}

// Close delegates to the wrapped browser.
func (b *LoggingBrowser) Close() error {
	err := b.next.Close()
	b.logger.Debug("browser closed", "err", err)
	return err
}
