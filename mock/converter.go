package mock

import "github.com/fwojciec/docmerge"

var _ docmerge.Converter = (*Converter)(nil)

// Converter is a mock implementation of docmerge.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
