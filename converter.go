package officeai

// Converter renders extracted HTML as readable text.
type Converter interface {
	// Convert transforms an HTML fragment into text with one block per line.
	Convert(html string) (string, error)
}
