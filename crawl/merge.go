// Package crawl orchestrates link discovery, per-page text extraction and
// document assembly.
package crawl

import (
	"context"
	"log/slog"

	"github.com/fwojciec/docmerge"
)

// NoLinksMessage is reported when the listing page yields no matching links.
const NoLinksMessage = "No matching links found."

// Merger collects links from a listing page, extracts every linked page in
// discovery order and assembles the results into a document.
// Pages are processed one at a time.
type Merger struct {
	Links   docmerge.LinkCollector
	Content docmerge.ContentExtractor

	// Store and Renderer persist the document in Run.
	Store    docmerge.DocumentStore
	Renderer docmerge.Renderer

	// Extractions, when set, records each saved document.
	Extractions docmerge.ExtractionService

	Logger *slog.Logger
}

// Merged is the outcome of Merge.
type Merged struct {
	Document *docmerge.Document
	Links    []string
	Skipped  int
}

// Result holds the outcome of Run.
type Result struct {
	Path         string
	Links        int
	Sections     int
	Skipped      int
	ExtractionID string
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressExtracting
	ProgressCompleted
	ProgressSkipped
	ProgressFinished
)

// ProgressEvent reports progress during a merge.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URL       string
	Status    docmerge.Status
	Error     error
}

// ProgressFunc is a callback for reporting merge progress.
type ProgressFunc func(event ProgressEvent)

// Merge collects links for req and extracts each linked page.
// Returns ENOTFOUND when no matching links were found; pages yielding no
// text are skipped and counted.
func (m *Merger) Merge(ctx context.Context, req docmerge.CrawlRequest, progress ProgressFunc) (*Merged, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	logger := m.logger()
	report := func(e ProgressEvent) {
		if progress != nil {
			progress(e)
		}
	}

	logger.Info("gathering links", "url", req.StartURL, "prefix", req.Prefix)
	links := m.Links.CollectLinks(ctx, req.StartURL, req.Prefix)
	if links.Status != docmerge.StatusOK {
		if links.Err != nil {
			logger.Warn("link collection failed", "url", req.StartURL, "status", links.Status, "err", links.Err)
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return nil, docmerge.Errorf(docmerge.ENOTFOUND, NoLinksMessage)
	}

	total := len(links.Links)
	report(ProgressEvent{Type: ProgressStarted, Total: total, URL: req.StartURL})

	merged := &Merged{Document: &docmerge.Document{}, Links: links.Links}
	for i, link := range links.Links {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		logger.Debug("extracting content", "url", link)
		report(ProgressEvent{Type: ProgressExtracting, Completed: i, Total: total, URL: link})
		text := m.Content.ExtractText(ctx, link)
		if merged.Document.AddSection(link, text.Text) {
			report(ProgressEvent{Type: ProgressCompleted, Completed: i + 1, Total: total, URL: link, Status: text.Status})
			continue
		}

		merged.Skipped++
		logger.Warn("no content extracted", "url", link, "status", text.Status, "err", text.Err)
		report(ProgressEvent{Type: ProgressSkipped, Completed: i + 1, Total: total, URL: link, Status: text.Status, Error: text.Err})
	}

	report(ProgressEvent{Type: ProgressFinished, Completed: total, Total: total})
	return merged, nil
}

// Run merges req and persists the document.
// A persistence failure is returned as EINTERNAL.
func (m *Merger) Run(ctx context.Context, req docmerge.CrawlRequest, progress ProgressFunc) (*Result, error) {
	merged, err := m.Merge(ctx, req, progress)
	if err != nil {
		return nil, err
	}
	logger := m.logger()

	path, err := m.Store.SaveDocument(ctx, merged.Document, m.Renderer)
	if err != nil {
		return nil, docmerge.Errorf(docmerge.EINTERNAL, "Could not save document: %v", err)
	}
	logger.Info("document saved", "path", path, "sections", merged.Document.Len(), "skipped", merged.Skipped)

	result := &Result{
		Path:     path,
		Links:    len(merged.Links),
		Sections: merged.Document.Len(),
		Skipped:  merged.Skipped,
	}

	if m.Extractions != nil {
		e := &docmerge.Extraction{
			StartURL:  req.StartURL,
			Prefix:    req.Prefix,
			FilePath:  path,
			LinkCount: len(merged.Links),
		}
		if err := m.Extractions.CreateExtraction(ctx, e, merged.Document); err != nil {
			logger.Warn("failed to record extraction", "path", path, "err", err)
		} else {
			result.ExtractionID = e.ID
		}
	}

	return result, nil
}

func (m *Merger) logger() *slog.Logger {
	if m.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return m.Logger
}
