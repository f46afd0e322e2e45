// Package htmltomarkdown renders extracted HTML as readable text via
// html-to-markdown, then strips the markup that would clutter a stored answer.
package htmltomarkdown

import (
	"regexp"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/officeai"
)

// Ensure Converter implements officeai.Converter at compile time.
var _ officeai.Converter = (*Converter)(nil)

// Converter wraps html-to-markdown. By default its output is plain prose;
// WithMarkdown keeps the Markdown syntax.
type Converter struct {
	conv     *converter.Converter
	markdown bool
}

// Option configures a Converter.
type Option func(*Converter)

// WithMarkdown keeps links, emphasis and other Markdown syntax in the output.
func WithMarkdown() Option {
	return func(c *Converter) {
		c.markdown = true
	}
}

// NewConverter creates a new Converter.
func NewConverter(opts ...Option) *Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	c := &Converter{conv: conv}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Convert transforms HTML content into text, one block per line.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", officeai.Errorf(officeai.EINVALID, "empty HTML input")
	}

	result, err := c.conv.ConvertString(html)
	if err != nil {
		return "", err
	}

	if c.markdown {
		return result, nil
	}
	return Plain(result), nil
}

var plainRules = []struct {
	re   *regexp.Regexp
	repl string
}{
	{regexp.MustCompile("(?m)^[ \\t]*(```|~~~).*$"), ""},
	{regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`), ""},
	{regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`), "$1"},
	{regexp.MustCompile(`(?m)^[ \t]{0,3}#{1,6}[ \t]+`), ""},
	{regexp.MustCompile(`(?m)^[ \t]*>[ \t]?`), ""},
	{regexp.MustCompile(`\*\*([^*]+)\*\*`), "$1"},
	{regexp.MustCompile(`\*([^*\s][^*]*)\*`), "$1"},
	{regexp.MustCompile("`([^`]*)`"), "$1"},
	{regexp.MustCompile(`\\([\\` + "`" + `*_{}\[\]()#+\-.!>|])`), "$1"},
	{regexp.MustCompile(`\n{3,}`), "\n\n"},
}

// Plain strips Markdown syntax from md: link targets, images, heading and
// quote markers, emphasis, code fences and backslash escapes.
func Plain(md string) string {
	for _, r := range plainRules {
		md = r.re.ReplaceAllString(md, r.repl)
	}
	return strings.TrimSpace(md)
}
