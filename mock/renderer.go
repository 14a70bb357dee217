package mock

import (
	"context"
	"io"

	"github.com/fwojciec/docmerge"
)

var (
	_ docmerge.Renderer      = (*Renderer)(nil)
	_ docmerge.DocumentStore = (*DocumentStore)(nil)
)

// Renderer is a mock implementation of docmerge.Renderer.
type Renderer struct {
	RenderFn    func(ctx context.Context, w io.Writer, doc *docmerge.Document) error
	ExtensionFn func() string
}

func (r *Renderer) Render(ctx context.Context, w io.Writer, doc *docmerge.Document) error {
	return r.RenderFn(ctx, w, doc)
}

func (r *Renderer) Extension() string {
	return r.ExtensionFn()
}

// DocumentStore is a mock implementation of docmerge.DocumentStore.
type DocumentStore struct {
	SaveDocumentFn func(ctx context.Context, doc *docmerge.Document, r docmerge.Renderer) (string, error)
}

func (s *DocumentStore) SaveDocument(ctx context.Context, doc *docmerge.Document, r docmerge.Renderer) (string, error) {
	return s.SaveDocumentFn(ctx, doc, r)
}
