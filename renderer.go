package docmerge

import (
	"context"
	"io"
)

// Format identifies an output document format.
type Format string

// Supported output formats.
const (
	FormatDOCX     Format = "docx"
	FormatMarkdown Format = "md"
	FormatPDF      Format = "pdf"
)

// Renderer encodes a Document into a file format.
type Renderer interface {
	// Render writes doc to w. Each section becomes a top-level heading
	// holding the source URL followed by one paragraph holding the text.
	Render(ctx context.Context, w io.Writer, doc *Document) error

	// Extension returns the file extension including the dot (e.g. ".docx").
	Extension() string
}

// DocumentStore persists rendered documents.
type DocumentStore interface {
	// SaveDocument renders doc and writes it to storage, returning the path.
	SaveDocument(ctx context.Context, doc *Document, r Renderer) (path string, err error)
}
