package crawl_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/fwojciec/docmerge"
	"github.com/fwojciec/docmerge/crawl"
	"github.com/fwojciec/docmerge/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testRequest = docmerge.CrawlRequest{
	StartURL: "https://docs.pipecat.ai/guides/introduction",
	Prefix:   "https://docs.pipecat.ai/",
}

func staticLinks(links ...string) *mock.LinkCollector {
	return &mock.LinkCollector{
		CollectLinksFn: func(context.Context, string, string) docmerge.LinkResult {
			if len(links) == 0 {
				return docmerge.LinkResult{Status: docmerge.StatusEmpty}
			}
			return docmerge.LinkResult{Links: links, Status: docmerge.StatusOK}
		},
	}
}

func staticContent(pages map[string]string) *mock.ContentExtractor {
	return &mock.ContentExtractor{
		ExtractTextFn: func(_ context.Context, pageURL string) docmerge.TextResult {
			text, ok := pages[pageURL]
			if !ok || text == "" {
				return docmerge.TextResult{Status: docmerge.StatusTimeout, Err: docmerge.Errorf(docmerge.ETIMEOUT, "timeout")}
			}
			return docmerge.TextResult{Text: text, Status: docmerge.StatusOK}
		},
	}
}

func unusedStore(t *testing.T) *mock.DocumentStore {
	t.Helper()
	return &mock.DocumentStore{
		SaveDocumentFn: func(context.Context, *docmerge.Document, docmerge.Renderer) (string, error) {
			t.Fatal("document must not be saved")
			return "", nil
		},
	}
}

func TestMerger_Merge(t *testing.T) {
	t.Parallel()

	t.Run("skips pages without content and keeps discovery order", func(t *testing.T) {
		t.Parallel()

		m := &crawl.Merger{
			Links: staticLinks("https://docs.pipecat.ai/a", "https://docs.pipecat.ai/b", "https://docs.pipecat.ai/c"),
			Content: staticContent(map[string]string{
				"https://docs.pipecat.ai/a": "Alpha",
				"https://docs.pipecat.ai/c": "Gamma",
			}),
		}

		merged, err := m.Merge(context.Background(), testRequest, nil)

		require.NoError(t, err)
		assert.Equal(t, []docmerge.Section{
			{SourceURL: "https://docs.pipecat.ai/a", Text: "Alpha"},
			{SourceURL: "https://docs.pipecat.ai/c", Text: "Gamma"},
		}, merged.Document.Sections)
		assert.Len(t, merged.Links, 3)
		assert.Equal(t, 1, merged.Skipped)
	})

	t.Run("extracts duplicate links once per occurrence", func(t *testing.T) {
		t.Parallel()

		var calls int
		m := &crawl.Merger{
			Links: staticLinks("https://docs.pipecat.ai/a", "https://docs.pipecat.ai/a"),
			Content: &mock.ContentExtractor{
				ExtractTextFn: func(context.Context, string) docmerge.TextResult {
					calls++
					return docmerge.TextResult{Text: "Alpha", Status: docmerge.StatusOK}
				},
			},
		}

		merged, err := m.Merge(context.Background(), testRequest, nil)

		require.NoError(t, err)
		assert.Equal(t, 2, calls)
		assert.Equal(t, 2, merged.Document.Len())
	})

	t.Run("returns ENOTFOUND when no links match", func(t *testing.T) {
		t.Parallel()

		m := &crawl.Merger{
			Links: staticLinks(),
			Content: &mock.ContentExtractor{
				ExtractTextFn: func(context.Context, string) docmerge.TextResult {
					t.Fatal("no page should be extracted")
					return docmerge.TextResult{}
				},
			},
		}

		_, err := m.Merge(context.Background(), testRequest, nil)

		assert.Equal(t, docmerge.ENOTFOUND, docmerge.ErrorCode(err))
		assert.Equal(t, crawl.NoLinksMessage, docmerge.ErrorMessage(err))
	})

	t.Run("returns ENOTFOUND when the listing page fails to load", func(t *testing.T) {
		t.Parallel()

		m := &crawl.Merger{
			Links: &mock.LinkCollector{
				CollectLinksFn: func(context.Context, string, string) docmerge.LinkResult {
					return docmerge.LinkResult{Status: docmerge.StatusFailed, Err: errors.New("dns failure")}
				},
			},
		}

		_, err := m.Merge(context.Background(), testRequest, nil)

		assert.Equal(t, docmerge.ENOTFOUND, docmerge.ErrorCode(err))
	})

	t.Run("rejects an invalid request", func(t *testing.T) {
		t.Parallel()

		m := &crawl.Merger{}

		_, err := m.Merge(context.Background(), docmerge.CrawlRequest{Prefix: "https://x/"}, nil)

		assert.Equal(t, docmerge.EINVALID, docmerge.ErrorCode(err))
	})

	t.Run("accepts an empty prefix and keeps every resolved link", func(t *testing.T) {
		t.Parallel()

		m := &crawl.Merger{
			Links: &crawl.Collector{
				Browser: &mock.Browser{
					RenderFn: func(context.Context, string, string) (string, error) {
						return `<html><body><a href="/guides/a">A</a></body></html>`, nil
					},
				},
			},
			Content: staticContent(map[string]string{
				"https://docs.pipecat.ai/guides/a": "Alpha",
			}),
		}

		merged, err := m.Merge(context.Background(), docmerge.CrawlRequest{
			StartURL: "https://docs.pipecat.ai/guides/introduction",
		}, nil)

		require.NoError(t, err)
		assert.Equal(t, []docmerge.Section{
			{SourceURL: "https://docs.pipecat.ai/guides/a", Text: "Alpha"},
		}, merged.Document.Sections)
	})

	t.Run("returns ENOTFOUND for a start URL the browser cannot load", func(t *testing.T) {
		t.Parallel()

		m := &crawl.Merger{
			Links: &crawl.Collector{
				Browser: &mock.Browser{
					RenderFn: func(_ context.Context, url string, _ string) (string, error) {
						return "", docmerge.Errorf(docmerge.EUNAVAILABLE, "cannot navigate to %q", url)
					},
				},
			},
			Content: staticContent(nil),
		}

		_, err := m.Merge(context.Background(), docmerge.CrawlRequest{StartURL: "docs.pipecat.ai/guides"}, nil)

		assert.Equal(t, docmerge.ENOTFOUND, docmerge.ErrorCode(err))
	})

	t.Run("stops when the context is canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		var calls int
		m := &crawl.Merger{
			Links: staticLinks("https://docs.pipecat.ai/a", "https://docs.pipecat.ai/b"),
			Content: &mock.ContentExtractor{
				ExtractTextFn: func(context.Context, string) docmerge.TextResult {
					calls++
					cancel()
					return docmerge.TextResult{Text: "Alpha", Status: docmerge.StatusOK}
				},
			},
		}

		_, err := m.Merge(ctx, testRequest, nil)

		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})

	t.Run("reports progress events", func(t *testing.T) {
		t.Parallel()

		m := &crawl.Merger{
			Links: staticLinks("https://docs.pipecat.ai/a", "https://docs.pipecat.ai/b"),
			Content: staticContent(map[string]string{
				"https://docs.pipecat.ai/a": "Alpha",
			}),
		}

		var events []crawl.ProgressEvent
		_, err := m.Merge(context.Background(), testRequest, func(e crawl.ProgressEvent) {
			events = append(events, e)
		})

		require.NoError(t, err)
		require.Len(t, events, 6)
		assert.Equal(t, crawl.ProgressStarted, events[0].Type)
		assert.Equal(t, 2, events[0].Total)
		assert.Equal(t, crawl.ProgressExtracting, events[1].Type)
		assert.Equal(t, "https://docs.pipecat.ai/a", events[1].URL)
		assert.Equal(t, crawl.ProgressCompleted, events[2].Type)
		assert.Equal(t, "https://docs.pipecat.ai/a", events[2].URL)
		assert.Equal(t, crawl.ProgressExtracting, events[3].Type)
		assert.Equal(t, crawl.ProgressSkipped, events[4].Type)
		assert.Equal(t, docmerge.StatusTimeout, events[4].Status)
		assert.Error(t, events[4].Error)
		assert.Equal(t, crawl.ProgressFinished, events[5].Type)
		assert.Equal(t, 2, events[5].Completed)
	})
}

func TestMerger_Run(t *testing.T) {
	t.Parallel()

	t.Run("saves the merged document with the configured renderer", func(t *testing.T) {
		t.Parallel()

		renderer := &mock.Renderer{}
		var saved *docmerge.Document
		var usedRenderer docmerge.Renderer
		m := &crawl.Merger{
			Links: staticLinks("https://docs.pipecat.ai/a", "https://docs.pipecat.ai/b", "https://docs.pipecat.ai/c"),
			Content: staticContent(map[string]string{
				"https://docs.pipecat.ai/a": "Alpha",
				"https://docs.pipecat.ai/c": "Gamma",
			}),
			Store: &mock.DocumentStore{
				SaveDocumentFn: func(_ context.Context, doc *docmerge.Document, r docmerge.Renderer) (string, error) {
					saved = doc
					usedRenderer = r
					return "extracted_documents/abc.docx", nil
				},
			},
			Renderer: renderer,
		}

		result, err := m.Run(context.Background(), testRequest, nil)

		require.NoError(t, err)
		assert.Equal(t, "extracted_documents/abc.docx", result.Path)
		assert.Equal(t, 3, result.Links)
		assert.Equal(t, 2, result.Sections)
		assert.Equal(t, 1, result.Skipped)
		assert.Empty(t, result.ExtractionID)
		assert.Same(t, renderer, usedRenderer)
		assert.Equal(t, 2, saved.Len())
	})

	t.Run("does not save when no links match", func(t *testing.T) {
		t.Parallel()

		m := &crawl.Merger{
			Links: staticLinks(),
			Store: unusedStore(t),
		}

		result, err := m.Run(context.Background(), testRequest, nil)

		assert.Nil(t, result)
		assert.Equal(t, docmerge.ENOTFOUND, docmerge.ErrorCode(err))
	})

	t.Run("saves an empty document when every page is skipped", func(t *testing.T) {
		t.Parallel()

		var saved *docmerge.Document
		m := &crawl.Merger{
			Links:   staticLinks("https://docs.pipecat.ai/a"),
			Content: staticContent(nil),
			Store: &mock.DocumentStore{
				SaveDocumentFn: func(_ context.Context, doc *docmerge.Document, _ docmerge.Renderer) (string, error) {
					saved = doc
					return "out.docx", nil
				},
			},
		}

		result, err := m.Run(context.Background(), testRequest, nil)

		require.NoError(t, err)
		assert.Equal(t, 0, saved.Len())
		assert.Equal(t, 0, result.Sections)
		assert.Equal(t, 1, result.Skipped)
	})

	t.Run("wraps save failures as EINTERNAL", func(t *testing.T) {
		t.Parallel()

		m := &crawl.Merger{
			Links:   staticLinks("https://docs.pipecat.ai/a"),
			Content: staticContent(map[string]string{"https://docs.pipecat.ai/a": "Alpha"}),
			Store: &mock.DocumentStore{
				SaveDocumentFn: func(context.Context, *docmerge.Document, docmerge.Renderer) (string, error) {
					return "", errors.New("disk full")
				},
			},
		}

		_, err := m.Run(context.Background(), testRequest, nil)

		assert.Equal(t, docmerge.EINTERNAL, docmerge.ErrorCode(err))
		assert.Equal(t, "Could not save document: disk full", docmerge.ErrorMessage(err))
	})

	t.Run("records the extraction when a ledger is configured", func(t *testing.T) {
		t.Parallel()

		var recorded *docmerge.Extraction
		var recordedDoc *docmerge.Document
		m := &crawl.Merger{
			Links:   staticLinks("https://docs.pipecat.ai/a", "https://docs.pipecat.ai/b"),
			Content: staticContent(map[string]string{"https://docs.pipecat.ai/a": "Alpha"}),
			Store: &mock.DocumentStore{
				SaveDocumentFn: func(context.Context, *docmerge.Document, docmerge.Renderer) (string, error) {
					return "extracted_documents/abc.docx", nil
				},
			},
			Extractions: &mock.ExtractionService{
				CreateExtractionFn: func(_ context.Context, e *docmerge.Extraction, doc *docmerge.Document) error {
					e.ID = "ext-1"
					recorded = e
					recordedDoc = doc
					return nil
				},
			},
		}

		result, err := m.Run(context.Background(), testRequest, nil)

		require.NoError(t, err)
		assert.Equal(t, "ext-1", result.ExtractionID)
		require.NotNil(t, recorded)
		assert.Equal(t, testRequest.StartURL, recorded.StartURL)
		assert.Equal(t, testRequest.Prefix, recorded.Prefix)
		assert.Equal(t, "extracted_documents/abc.docx", recorded.FilePath)
		assert.Equal(t, 2, recorded.LinkCount)
		assert.Equal(t, 1, recordedDoc.Len())
	})

	t.Run("keeps the saved document when recording fails", func(t *testing.T) {
		t.Parallel()

		m := &crawl.Merger{
			Links:   staticLinks("https://docs.pipecat.ai/a"),
			Content: staticContent(map[string]string{"https://docs.pipecat.ai/a": "Alpha"}),
			Store: &mock.DocumentStore{
				SaveDocumentFn: func(context.Context, *docmerge.Document, docmerge.Renderer) (string, error) {
					return "out.docx", nil
				},
			},
			Extractions: &mock.ExtractionService{
				CreateExtractionFn: func(context.Context, *docmerge.Extraction, *docmerge.Document) error {
					return errors.New("database is locked")
				},
			},
		}

		result, err := m.Run(context.Background(), testRequest, nil)

		require.NoError(t, err)
		assert.Equal(t, "out.docx", result.Path)
		assert.Empty(t, result.ExtractionID)
	})
}

func TestMerger_ConcurrentRuns(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	paths := map[string]bool{}
	var n int
	m := &crawl.Merger{
		Links:   staticLinks("https://docs.pipecat.ai/a"),
		Content: staticContent(map[string]string{"https://docs.pipecat.ai/a": "Alpha"}),
		Store: &mock.DocumentStore{
			SaveDocumentFn: func(context.Context, *docmerge.Document, docmerge.Renderer) (string, error) {
				mu.Lock()
				defer mu.Unlock()
				n++
				p := "doc-" + string(rune('a'+n))
				paths[p] = true
				return p, nil
			},
		},
	}

	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := m.Run(context.Background(), testRequest, nil)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Len(t, paths, 4)
}
