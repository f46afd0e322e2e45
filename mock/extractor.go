package mock

import "github.com/fwojciec/officeai"

var _ officeai.TextExtractor = (*TextExtractor)(nil)

// TextExtractor is a mock implementation of officeai.TextExtractor.
type TextExtractor struct {
	ExtractFn func(html string) (*officeai.ExtractResult, error)
}

func (e *TextExtractor) Extract(html string) (*officeai.ExtractResult, error) {
	return e.ExtractFn(html)
}
