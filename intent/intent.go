// Package intent classifies user utterances with a prioritized table of
// lexical rules and answers small talk from fixed response pools.
package intent

import (
	"regexp"
	"strings"

	"github.com/fwojciec/officeai"
)

// Intent is the classified purpose of an utterance.
type Intent string

// Intents returned by Classify.
const (
	Greeting          Intent = "GREETING"
	Farewell          Intent = "FAREWELL"
	Identification    Intent = "IDENTIFICATION"
	Capabilities      Intent = "CAPABILITIES"
	Feeling           Intent = "FEELING"
	Acknowledgement   Intent = "ACKNOWLEDGEMENT"
	DefinitionOffice  Intent = "DEFINITION_OFFICE"
	DefinitionGeneral Intent = "DEFINITION_GENERAL"
	Opinion           Intent = "OPINION"
	Technical         Intent = "TECHNICAL"
	Unknown           Intent = "UNKNOWN"

	// DefinitionFound is returned by Process when an office definition was
	// answered from the internal dictionary.
	DefinitionFound Intent = "DEFINITION_FOUND"
)

// Rule maps a set of patterns to an intent. A rule matches when any of its
// patterns matches.
type Rule struct {
	Intent   Intent
	Patterns []*regexp.Regexp
}

// Match reports whether any pattern matches text.
func (r Rule) Match(text string) bool {
	for _, p := range r.Patterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

// Rules is the classification table. Definition and Opinion are checked
// first, OfficeTopic sets the technical tie-break flag, and Conversational is
// evaluated in slice order with the first match winning.
type Rules struct {
	Definition     Rule
	Opinion        Rule
	OfficeTopic    Rule
	Conversational []Rule
}

func patterns(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile(e)
	}
	return out
}

// DefaultRules holds the bilingual (English and Spanish) rule table.
var DefaultRules = Rules{
	Definition: Rule{Intent: DefinitionGeneral, Patterns: patterns(
		`\b(what\s?is|what\s?are|what'?s|definition\s?of|meaning\s?of|define|tell\s?me\s?about|what\s?do\s?you\s?know\s?about|information\s?about)\b`,
		`\b(que\s?es|definicion\s?de|significado\s?de|define)\b`,
		`\b(sabes\s?de|conoces\s?sobre|informacion\s?de|hablame\s?de|dime\s?de|dime\s?lo\s?que\s?sepas\s?de)\b`,
	)},
	Opinion: Rule{Intent: Opinion, Patterns: patterns(
		`\b(what\s?do\s?you\s?think|your\s?opinion)\b`,
		`\b(que\s?opinas|tu\s?opinion)\b`,
	)},
	OfficeTopic: Rule{Intent: Technical, Patterns: patterns(
		`\b(excel|word|powerpoint|access|outlook|office|formula|macro|table|cell|slide|email)\b`,
		`\b(tabla|celda|diapositiva|correo)\b`,
	)},
	Conversational: []Rule{
		{Intent: Greeting, Patterns: patterns(
			`\b(hi|hello|hey|good\s?morning|good\s?afternoon|good\s?evening)\b`,
			`\b(hola|buenos\s?dias|buenas\s?tardes|buenas\s?noches|ey|que\s?tal)\b`,
		)},
		{Intent: Farewell, Patterns: patterns(
			`\b(bye|goodbye|see\s?you|farewell)\b`,
			`\b(adios|hasta\s?luego|nos\s?vemos|chao|cerrar|salir|fin)\b`,
		)},
		{Intent: Identification, Patterns: patterns(
			`\b(who\s?are\s?you|your\s?name|introduce\s?yourself)\b`,
			`\b(quien\s?eres|como\s?te\s?llamas|presentate|que\s?eres)\b`,
			`\b(tu\s?nombre)\b`,
		)},
		{Intent: Capabilities, Patterns: patterns(
			`\b(what\s?can\s?you\s?do|what\s?do\s?you\s?do|help|features)\b`,
			`\b(que\s?haces|que\s?puedes\s?hacer|ayuda|funciones|para\s?que\s?sirves)\b`,
		)},
		{Intent: Feeling, Patterns: patterns(
			`\b(how\s?are\s?you|how\s?do\s?you\s?feel|all\s?good)\b`,
			`\b(como\s?estas|que\s?tal\s?estas|todo\s?bien|como\s?te\s?sientes)\b`,
		)},
		{Intent: Acknowledgement, Patterns: patterns(
			`\b(thanks|thank\s?you|ok|okay|got\s?it|perfect|great|nice)\b`,
			`\b(gracias|vale|entendido|perfecto|genial|bien)\b`,
		)},
	},
}

// Definition is a canned answer for an office product name.
type Definition struct {
	Key  string
	Text string
}

// Definitions is the internal dictionary, checked in order.
var Definitions = []Definition{
	{Key: "office", Text: "Microsoft Office is a suite of productivity applications developed by Microsoft. It includes Word, Excel, PowerPoint, Outlook and Access, among others."},
	{Key: "microsoft office", Text: "Microsoft Office is a suite of productivity applications developed by Microsoft. It includes Word, Excel, PowerPoint, Outlook and Access, among others."},
	{Key: "excel", Text: "Microsoft Excel is a spreadsheet developed by Microsoft for Windows, macOS, Android and iOS. It offers calculation tools, charts, pivot tables and a macro language called Visual Basic for Applications."},
	{Key: "word", Text: "Microsoft Word is word processing software. It was created by Microsoft and ships as part of the Microsoft Office suite."},
	{Key: "powerpoint", Text: "Microsoft PowerPoint is a presentation program developed by Microsoft for Windows, macOS and, more recently, Android and iOS."},
	{Key: "access", Text: "Microsoft Access is a database management system included in the Microsoft Office suite."},
	{Key: "outlook", Text: "Microsoft Outlook is a personal information manager from Microsoft, available as part of the Microsoft Office suite. It includes an email client, calendar, task list and contacts."},
}

var definitionPatterns = func() []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(Definitions))
	for i, d := range Definitions {
		out[i] = regexp.MustCompile(`\b` + regexp.QuoteMeta(d.Key) + `\b`)
	}
	return out
}()

// LookupDefinition returns the first internal definition whose key appears
// in text as a whole word.
func LookupDefinition(text string) (string, bool) {
	s := prepare(text)
	for i, p := range definitionPatterns {
		if p.MatchString(s) {
			return Definitions[i].Text, true
		}
	}
	return "", false
}

// prepare lower-cases and strips diacritics so patterns can be ASCII-only.
func prepare(text string) string {
	return strings.TrimSpace(officeai.FoldAccents(strings.ToLower(text)))
}
