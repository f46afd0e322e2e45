package mock

import "github.com/fwojciec/officeai"

var _ officeai.Converter = (*Converter)(nil)

// Converter is a mock implementation of officeai.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
