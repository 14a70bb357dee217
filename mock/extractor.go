package mock

import "github.com/fwojciec/docmerge"

var _ docmerge.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of docmerge.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*docmerge.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*docmerge.ExtractResult, error) {
	return e.ExtractFn(html)
}
