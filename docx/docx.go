// Package docx renders merged documents as Office Open XML word processing
// files (.docx). Package parts are built with etree and zipped in the order
// Word expects.
package docx

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/fwojciec/docmerge"
)

// Ensure Renderer implements docmerge.Renderer at compile time.
var _ docmerge.Renderer = (*Renderer)(nil)

// XML namespaces and relationship types used by the package parts.
const (
	nsWordML        = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsContentTypes  = "http://schemas.openxmlformats.org/package/2006/content-types"
	nsRelationships = "http://schemas.openxmlformats.org/package/2006/relationships"
	nsCoreProps     = "http://schemas.openxmlformats.org/package/2006/metadata/core-properties"

	relOfficeDocument = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	relStyles         = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"
	relCoreProps      = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"

	ctDocument  = "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"
	ctStyles    = "application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"
	ctCoreProps = "application/vnd.openxmlformats-package.core-properties+xml"
	ctRels      = "application/vnd.openxmlformats-package.relationships+xml"
)

// Paragraph style IDs.
const (
	StyleNormal   = "Normal"
	StyleHeading1 = "Heading1"
)

// DefaultCreator is written to the document's core properties.
const DefaultCreator = "docmerge"

// Renderer writes documents as .docx files.
type Renderer struct {
	creator string
	title   string
	now     func() time.Time
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithTitle sets the document title stored in the core properties.
func WithTitle(title string) Option {
	return func(r *Renderer) {
		r.title = title
	}
}

// WithCreator sets the document author stored in the core properties.
func WithCreator(creator string) Option {
	return func(r *Renderer) {
		r.creator = creator
	}
}

// WithClock sets the clock used for the creation timestamp.
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) {
		r.now = now
	}
}

// NewRenderer creates a new Renderer.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		creator: DefaultCreator,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Extension returns ".docx".
func (r *Renderer) Extension() string {
	return ".docx"
}

// Render writes doc to w as a .docx package. Each section becomes a
// Heading1 paragraph with the source URL followed by a Normal paragraph
// with the text.
func (r *Renderer) Render(ctx context.Context, w io.Writer, doc *docmerge.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	parts := []struct {
		name string
		doc  *etree.Document
	}{
		{"[Content_Types].xml", contentTypes()},
		{"_rels/.rels", packageRels()},
		{"word/document.xml", documentPart(doc)},
		{"word/_rels/document.xml.rels", documentRels()},
		{"word/styles.xml", stylesPart()},
		{"docProps/core.xml", r.coreProps()},
	}

	zw := zip.NewWriter(w)
	for _, p := range parts {
		f, err := zw.Create(p.name)
		if err != nil {
			return fmt.Errorf("creating %s: %w", p.name, err)
		}
		p.doc.Indent(etree.NoIndent)
		if _, err := p.doc.WriteTo(f); err != nil {
			return fmt.Errorf("writing %s: %w", p.name, err)
		}
	}
	return zw.Close()
}

func newPart() *etree.Document {
	d := etree.NewDocument()
	d.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)
	return d
}

func contentTypes() *etree.Document {
	d := newPart()
	types := d.CreateElement("Types")
	types.CreateAttr("xmlns", nsContentTypes)

	def := types.CreateElement("Default")
	def.CreateAttr("Extension", "rels")
	def.CreateAttr("ContentType", ctRels)
	def = types.CreateElement("Default")
	def.CreateAttr("Extension", "xml")
	def.CreateAttr("ContentType", "application/xml")

	for _, o := range []struct{ part, ct string }{
		{"/word/document.xml", ctDocument},
		{"/word/styles.xml", ctStyles},
		{"/docProps/core.xml", ctCoreProps},
	} {
		override := types.CreateElement("Override")
		override.CreateAttr("PartName", o.part)
		override.CreateAttr("ContentType", o.ct)
	}
	return d
}

func relationships(rels ...[3]string) *etree.Document {
	d := newPart()
	root := d.CreateElement("Relationships")
	root.CreateAttr("xmlns", nsRelationships)
	for _, rel := range rels {
		el := root.CreateElement("Relationship")
		el.CreateAttr("Id", rel[0])
		el.CreateAttr("Type", rel[1])
		el.CreateAttr("Target", rel[2])
	}
	return d
}

func packageRels() *etree.Document {
	return relationships(
		[3]string{"rId1", relOfficeDocument, "word/document.xml"},
		[3]string{"rId2", relCoreProps, "docProps/core.xml"},
	)
}

func documentRels() *etree.Document {
	return relationships([3]string{"rId1", relStyles, "styles.xml"})
}

func documentPart(doc *docmerge.Document) *etree.Document {
	d := newPart()
	root := d.CreateElement("w:document")
	root.CreateAttr("xmlns:w", nsWordML)
	body := root.CreateElement("w:body")

	if doc != nil {
		for _, s := range doc.Sections {
			addParagraph(body, StyleHeading1, s.SourceURL)
			addParagraph(body, "", s.Text)
		}
	}

	body.CreateElement("w:sectPr")
	return d
}

// addParagraph appends a paragraph holding text. Newlines become line
// breaks and tabs become tab stops within a single run.
func addParagraph(body *etree.Element, style string, text string) {
	p := body.CreateElement("w:p")
	if style != "" {
		pPr := p.CreateElement("w:pPr")
		pPr.CreateElement("w:pStyle").CreateAttr("w:val", style)
	}

	run := p.CreateElement("w:r")
	text = strings.ReplaceAll(sanitize(text), "\r\n", "\n")
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			run.CreateElement("w:br")
		}
		for j, chunk := range strings.Split(line, "\t") {
			if j > 0 {
				run.CreateElement("w:tab")
			}
			if chunk == "" {
				continue
			}
			t := run.CreateElement("w:t")
			t.CreateAttr("xml:space", "preserve")
			t.SetText(chunk)
		}
	}
}

func stylesPart() *etree.Document {
	d := newPart()
	styles := d.CreateElement("w:styles")
	styles.CreateAttr("xmlns:w", nsWordML)

	normal := styles.CreateElement("w:style")
	normal.CreateAttr("w:type", "paragraph")
	normal.CreateAttr("w:default", "1")
	normal.CreateAttr("w:styleId", StyleNormal)
	normal.CreateElement("w:name").CreateAttr("w:val", "Normal")
	normal.CreateElement("w:qFormat")

	heading := styles.CreateElement("w:style")
	heading.CreateAttr("w:type", "paragraph")
	heading.CreateAttr("w:styleId", StyleHeading1)
	heading.CreateElement("w:name").CreateAttr("w:val", "heading 1")
	heading.CreateElement("w:basedOn").CreateAttr("w:val", StyleNormal)
	heading.CreateElement("w:next").CreateAttr("w:val", StyleNormal)
	heading.CreateElement("w:qFormat")
	pPr := heading.CreateElement("w:pPr")
	pPr.CreateElement("w:keepNext")
	spacing := pPr.CreateElement("w:spacing")
	spacing.CreateAttr("w:before", "480")
	spacing.CreateAttr("w:after", "120")
	pPr.CreateElement("w:outlineLvl").CreateAttr("w:val", "0")
	rPr := heading.CreateElement("w:rPr")
	rPr.CreateElement("w:b")
	rPr.CreateElement("w:sz").CreateAttr("w:val", "32")

	return d
}

func (r *Renderer) coreProps() *etree.Document {
	d := newPart()
	props := d.CreateElement("cp:coreProperties")
	props.CreateAttr("xmlns:cp", nsCoreProps)
	props.CreateAttr("xmlns:dc", "http://purl.org/dc/elements/1.1/")
	props.CreateAttr("xmlns:dcterms", "http://purl.org/dc/terms/")
	props.CreateAttr("xmlns:xsi", "http://www.w3.org/2001/XMLSchema-instance")

	if r.title != "" {
		props.CreateElement("dc:title").SetText(sanitize(r.title))
	}
	props.CreateElement("dc:creator").SetText(sanitize(r.creator))
	created := props.CreateElement("dcterms:created")
	created.CreateAttr("xsi:type", "dcterms:W3CDTF")
	created.SetText(r.now().UTC().Format(time.RFC3339))
	return d
}

// sanitize drops runes that XML 1.0 cannot represent.
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\t' || r == '\n' || r == '\r':
			return r
		case r < 0x20, r == 0xFFFE, r == 0xFFFF, r >= 0xD800 && r <= 0xDFFF:
			return -1
		}
		return r
	}, s)
}
