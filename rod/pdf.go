package rod

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/fwojciec/docmerge"
	"github.com/go-rod/rod/lib/proto"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Ensure PDFRenderer implements docmerge.Renderer at compile time.
var _ docmerge.Renderer = (*PDFRenderer)(nil)

// documentStyle keeps extracted line breaks and gives headings room.
const documentStyle = `body { font-family: sans-serif; margin: 2em; }
h1 { font-size: 1.4em; word-break: break-all; }
p { white-space: pre-wrap; }`

// PDFRenderer prints documents to PDF through the shared Chrome process.
type PDFRenderer struct {
	browser *Browser
}

// NewPDFRenderer creates a PDFRenderer that prints with browser.
func NewPDFRenderer(browser *Browser) *PDFRenderer {
	return &PDFRenderer{browser: browser}
}

// Extension returns ".pdf".
func (r *PDFRenderer) Extension() string {
	return ".pdf"
}

// Render lays doc out as HTML and prints it to w as PDF.
func (r *PDFRenderer) Render(ctx context.Context, w io.Writer, doc *docmerge.Document) error {
	if r.browser.closed.Load() {
		return docmerge.Errorf(docmerge.EINVALID, "browser is closed")
	}

	content, err := DocumentHTML(doc)
	if err != nil {
		return err
	}

	page, release, err := r.browser.manager.NewTab()
	if err != nil {
		return fmt.Errorf("opening tab: %w", err)
	}
	defer release()

	page = page.Context(ctx)
	if err := page.SetDocumentContent(content); err != nil {
		return fmt.Errorf("setting document content: %w", err)
	}

	stream, err := page.PDF(&proto.PagePrintToPDF{PrintBackground: true})
	if err != nil {
		return fmt.Errorf("printing PDF: %w", err)
	}

	if _, err := io.Copy(w, stream); err != nil {
		return fmt.Errorf("writing PDF: %w", err)
	}
	return nil
}

// DocumentHTML renders doc as a standalone HTML page: one h1 holding the
// source URL and one paragraph holding the text per section.
func DocumentHTML(doc *docmerge.Document) (string, error) {
	root := &html.Node{Type: html.DocumentNode}
	root.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	htmlEl := newElement(atom.Html)
	root.AppendChild(htmlEl)

	head := newElement(atom.Head)
	htmlEl.AppendChild(head)
	meta := newElement(atom.Meta)
	meta.Attr = []html.Attribute{{Key: "charset", Val: "utf-8"}}
	head.AppendChild(meta)
	style := newElement(atom.Style)
	style.AppendChild(&html.Node{Type: html.TextNode, Data: documentStyle})
	head.AppendChild(style)

	body := newElement(atom.Body)
	htmlEl.AppendChild(body)

	if doc != nil {
		for _, s := range doc.Sections {
			h1 := newElement(atom.H1)
			h1.AppendChild(&html.Node{Type: html.TextNode, Data: s.SourceURL})
			body.AppendChild(h1)

			p := newElement(atom.P)
			p.AppendChild(&html.Node{Type: html.TextNode, Data: s.Text})
			body.AppendChild(p)
		}
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, root); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func newElement(a atom.Atom) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
}
