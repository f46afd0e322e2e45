// Package trafilatura implements officeai.TextExtractor with go-trafilatura's
// main-content detection. It is the fallback for pages where stripping
// chrome alone leaves too little text.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/fwojciec/officeai"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure TextExtractor implements officeai.TextExtractor at compile time.
var _ officeai.TextExtractor = (*TextExtractor)(nil)

// TextExtractor finds the main content of a page and renders it to text
// through an officeai.Converter.
type TextExtractor struct {
	conv officeai.Converter
}

// NewTextExtractor creates a new TextExtractor. A nil converter makes
// Extract return trafilatura's own plain-text rendering.
func NewTextExtractor(conv officeai.Converter) *TextExtractor {
	return &TextExtractor{conv: conv}
}

// Extract processes raw HTML and returns the main content as text.
func (e *TextExtractor) Extract(rawHTML string) (*officeai.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, officeai.Errorf(officeai.EINVALID, "empty HTML input")
	}

	opts := trafilatura.Options{
		EnableFallback: true,
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, officeai.Errorf(officeai.ENOTFOUND, "no main content: %v", err)
	}

	text := result.ContentText
	if e.conv != nil && result.ContentNode != nil {
		contentHTML, err := renderNode(result.ContentNode)
		if err != nil {
			return nil, err
		}
		if text, err = e.conv.Convert(contentHTML); err != nil {
			return nil, err
		}
	}

	return &officeai.ExtractResult{
		Title: result.Metadata.Title,
		Text:  strings.TrimSpace(text),
	}, nil
}

// renderNode converts an html.Node to a string.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
