package officeai

import (
	"strings"
	"unicode/utf8"
)

// ExtractResult holds the readable text extracted from an HTML page.
type ExtractResult struct {
	// Title is the page title, if one was found.
	Title string

	// Text is the page's readable content, one paragraph per line.
	// Boilerplate (scripts, navigation, headers, footers) has been removed.
	Text string
}

// TextExtractor turns raw HTML into plain text suitable for learning.
type TextExtractor interface {
	// Extract processes raw HTML and returns its readable text.
	Extract(html string) (*ExtractResult, error)
}

// MinLineLength is the shortest line of extracted text kept for learning.
// Shorter lines are almost always menus, buttons or captions.
const MinLineLength = 30

// LongLines trims every line of text and keeps those longer than minLen
// characters.
func LongLines(text string, minLen int) string {
	var kept []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if utf8.RuneCountInString(line) > minLen {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
