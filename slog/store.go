package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docmerge"
)

// Ensure LoggingStore implements docmerge.DocumentStore.
var _ docmerge.DocumentStore = (*LoggingStore)(nil)

// LoggingStore wraps a DocumentStore with logging.
type LoggingStore struct {
	next   docmerge.DocumentStore
	logger *slog.Logger
}

// NewLoggingStore creates a new LoggingStore.
func NewLoggingStore(next docmerge.DocumentStore, logger *slog.Logger) *LoggingStore {
	return &LoggingStore{next: next, logger: logger}
}

// SaveDocument delegates to the wrapped store and logs the operation.
func (s *LoggingStore) SaveDocument(ctx context.Context, doc *docmerge.Document, r docmerge.Renderer) (path string, err error) {
	defer func(begin time.Time) {
		s.logger.Info("save document",
			"path", path,
			"format", r.Extension(),
			"sections", doc.Len(),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.SaveDocument(ctx, doc, r)
}
