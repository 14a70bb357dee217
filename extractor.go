package docmerge

import "context"

// Status describes the outcome of a single collection or extraction step.
type Status string

// Step outcomes.
const (
	StatusOK      Status = "ok"
	StatusEmpty   Status = "empty"
	StatusTimeout Status = "timeout"
	StatusFailed  Status = "failed"
)

// StatusOf maps an error returned by a Browser to a Status.
func StatusOf(err error) Status {
	switch {
	case err == nil:
		return StatusOK
	case ErrorCode(err) == ETIMEOUT:
		return StatusTimeout
	default:
		return StatusFailed
	}
}

// LinkResult is the outcome of collecting links from one page.
// Links is empty unless Status is StatusOK.
type LinkResult struct {
	Links  []string
	Status Status
	Err    error
}

// TextResult is the outcome of extracting text from one page.
// Text is empty unless Status is StatusOK.
type TextResult struct {
	Text   string
	Status Status
	Err    error
}

// LinkCollector discovers links on a listing page.
type LinkCollector interface {
	// CollectLinks loads pageURL and returns, in DOM order and without
	// deduplication, every anchor href resolved against pageURL that starts
	// with prefix. Load and wait failures are reported through the result,
	// never as a panic or separate error.
	CollectLinks(ctx context.Context, pageURL, prefix string) LinkResult
}

// ContentExtractor extracts the main text of a page.
type ContentExtractor interface {
	// ExtractText loads pageURL, waits for the content container and returns
	// its visible text, trimmed.
	ExtractText(ctx context.Context, pageURL string) TextResult
}

// ExtractResult holds the extracted content from an HTML page.
type ExtractResult struct {
	// Title is the page title extracted from metadata.
	Title string

	// ContentHTML is the main content as clean HTML.
	ContentHTML string

	// ContentText is the main content as plain text.
	ContentText string
}

// Extractor extracts main content from HTML pages, removing boilerplate.
// It is used as a fallback when a page has no designated content container.
type Extractor interface {
	Extract(html string) (*ExtractResult, error)
}
