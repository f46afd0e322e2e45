package officeai

import (
	"strings"
	"sync"

	"github.com/coregx/ahocorasick"
)

// TopicGeneral is assigned when no topic keyword matches.
const TopicGeneral = "general"

// Topic is a coarse subject area with the keywords that identify it.
type Topic struct {
	Name     string
	Keywords []string
}

// Topics is the ordered topic list. Order matters: when keywords of several
// topics appear in a question, the earliest topic wins.
var Topics = []Topic{
	{Name: "excel", Keywords: []string{
		"excel", "spreadsheet", "worksheet", "workbook", "hoja de calculo", "hoja", "calculo",
		"formula", "celda", "cell", "tabla dinamica", "pivot table", "buscarv", "vlookup", "xlookup",
	}},
	{Name: "word", Keywords: []string{
		"word", "procesador de textos", "word processor", "estilos", "styles", "indice",
		"table of contents", "documento", "document", "redactar",
	}},
	{Name: "access", Keywords: []string{
		"access", "base de datos", "database", "tabla", "table", "clave primaria", "primary key",
		"consulta", "query",
	}},
	{Name: "powerpoint", Keywords: []string{
		"powerpoint", "presentacion", "presentation", "diapositiva", "slide",
	}},
	{Name: "outlook", Keywords: []string{
		"outlook", "correo", "email", "e-mail", "calendario", "calendar", "reglas", "rules", "inbox",
	}},
	{Name: "base_office", Keywords: []string{
		"office", "microsoft office", "suite",
	}},
}

// TopicClassifier assigns a topic to a question by substring keyword match.
type TopicClassifier struct {
	ac *ahocorasick.Automaton

	// patternTopic maps automaton pattern IDs to indexes into topics.
	patternTopic []int
	topics       []Topic
}

// NewTopicClassifier builds a classifier over the ordered topic list.
func NewTopicClassifier(topics []Topic) (*TopicClassifier, error) {
	var patterns []string
	var patternTopic []int
	for i, t := range topics {
		for _, kw := range t.Keywords {
			patterns = append(patterns, strings.ToLower(FoldAccents(kw)))
			patternTopic = append(patternTopic, i)
		}
	}

	ac, err := ahocorasick.NewBuilder().
		AddStrings(patterns).
		Build()
	if err != nil {
		return nil, err
	}

	return &TopicClassifier{ac: ac, patternTopic: patternTopic, topics: topics}, nil
}

// Classify returns the first topic, in list order, with a keyword contained
// in the question, or TopicGeneral.
func (c *TopicClassifier) Classify(question string) string {
	haystack := []byte(strings.ToLower(FoldAccents(question)))

	best := -1
	for _, m := range c.ac.FindAllOverlapping(haystack) {
		idx := c.patternTopic[m.PatternID]
		if best == -1 || idx < best {
			best = idx
		}
	}
	if best == -1 {
		return TopicGeneral
	}
	return c.topics[best].Name
}

var defaultTopicClassifier = sync.OnceValue(func() *TopicClassifier {
	c, err := NewTopicClassifier(Topics)
	if err != nil {
		panic("officeai: invalid topic keywords: " + err.Error())
	}
	return c
})

// ClassifyTopic classifies a question against the default Topics list.
func ClassifyTopic(question string) string {
	return defaultTopicClassifier().Classify(question)
}
