package docmerge

// Section is the text extracted from one linked page.
type Section struct {
	SourceURL string `json:"sourceUrl"`
	Text      string `json:"text"`
}

// Document is the merged output: sections in link discovery order.
// It is built in memory for a single request, persisted once and discarded.
type Document struct {
	Sections []Section `json:"sections"`
}

// AddSection appends a section for sourceURL. Empty text is not stored;
// the return value reports whether the section was added.
func (d *Document) AddSection(sourceURL, text string) bool {
	if text == "" {
		return false
	}
	d.Sections = append(d.Sections, Section{SourceURL: sourceURL, Text: text})
	return true
}

// Len returns the number of sections in the document.
func (d *Document) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Sections)
}
