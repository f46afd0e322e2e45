// Package goquery implements officeai.TextExtractor by stripping page
// chrome with CSS selectors and flattening the remaining DOM to lines.
package goquery

import (
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/officeai"
	"golang.org/x/net/html"
)

// NoiseSelector matches elements that never carry answer text.
const NoiseSelector = "script, style, noscript, nav, footer, header, iframe, svg, form"

// blockTags end a line of text.
var blockTags = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"br": true, "dd": true, "div": true, "dl": true, "dt": true,
	"figcaption": true, "h1": true, "h2": true, "h3": true, "h4": true,
	"h5": true, "h6": true, "hr": true, "li": true, "main": true,
	"ol": true, "p": true, "pre": true, "section": true, "table": true,
	"td": true, "th": true, "tr": true, "ul": true,
}

// Ensure TextExtractor implements officeai.TextExtractor at compile time.
var _ officeai.TextExtractor = (*TextExtractor)(nil)

// TextExtractor removes scripts, navigation and other chrome, then returns
// the page text with one block element per line.
type TextExtractor struct{}

// NewTextExtractor creates a new TextExtractor.
func NewTextExtractor() *TextExtractor {
	return &TextExtractor{}
}

// Extract parses rawHTML and returns its title and readable text.
func (e *TextExtractor) Extract(rawHTML string) (*officeai.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, officeai.Errorf(officeai.EINVALID, "empty HTML input")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, officeai.Errorf(officeai.EINVALID, "failed to parse HTML: %v", err)
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())

	doc.Find(NoiseSelector).Remove()
	removeComments(doc.Nodes)

	root := doc.Find("body")
	if root.Length() == 0 {
		root = doc.Selection
	}

	var sb strings.Builder
	for _, n := range root.Nodes {
		writeText(&sb, n)
	}

	return &officeai.ExtractResult{
		Title: title,
		Text:  cleanLines(sb.String()),
	}, nil
}

func removeComments(nodes []*html.Node) {
	for _, n := range nodes {
		for c := n.FirstChild; c != nil; {
			next := c.NextSibling
			if c.Type == html.CommentNode {
				n.RemoveChild(c)
			} else {
				removeComments([]*html.Node{c})
			}
			c = next
		}
	}
}

func writeText(sb *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		sb.WriteString(strings.Map(flattenSpace, n.Data))
		return
	case html.ElementNode:
		if blockTags[n.Data] {
			sb.WriteByte('\n')
			defer sb.WriteByte('\n')
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(sb, c)
	}
}

// flattenSpace keeps source line breaks from splitting a paragraph.
func flattenSpace(r rune) rune {
	if unicode.IsSpace(r) {
		return ' '
	}
	return r
}

// cleanLines collapses whitespace within each line and drops empty lines.
func cleanLines(text string) string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
