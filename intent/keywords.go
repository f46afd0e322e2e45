package intent

import (
	"strings"

	"github.com/fwojciec/officeai"
	"github.com/orsinium-labs/stopwords"
)

// StopWords are conversational fillers removed on top of the generic
// English and Spanish stop-word lists.
var StopWords = map[string]bool{
	"el": true, "la": true, "los": true, "las": true, "un": true, "una": true, "unos": true, "unas": true,
	"y": true, "o": true, "pero": true, "si": true, "no": true, "en": true, "con": true, "por": true,
	"para": true, "de": true, "del": true, "al": true, "se": true, "es": true, "son": true,
	"fue": true, "era": true, "que": true, "cual": true, "quien": true, "cuando": true, "donde": true,
	"como": true, "cuanto": true, "porque": true, "pues": true, "aunque": true, "mi": true, "tu": true,
	"su": true, "me": true, "te": true, "le": true, "nos": true, "lo": true, "yo": true,
	"este": true, "esta": true, "ese": true, "esa": true, "esto": true, "eso": true,
	"hola": true, "adios": true, "gracias": true, "favor": true, "buenos": true, "dias": true,
	"tardes": true, "noches": true, "dime": true, "sabes": true, "conoces": true, "opinas": true,
	"acerca": true, "sobre": true, "tienes": true, "puedes": true, "sepas": true, "hacer": true,
	"quiero": true, "necesito": true, "gustaria": true, "cuenta": true, "explica": true,
	"hello": true, "hi": true, "thanks": true, "please": true, "tell": true, "know": true,
	"explain": true, "want": true, "need": true, "can": true, "you": true, "how": true,
	"what": true, "is": true, "the": true, "do": true, "i": true,
}

// ProductNames maps office keywords to the canonical product names used in
// refined search queries. These keywords are never treated as stop words.
var ProductNames = map[string]string{
	"excel":      "Microsoft Excel",
	"word":       "Microsoft Word",
	"powerpoint": "Microsoft PowerPoint",
	"access":     "Microsoft Access",
	"outlook":    "Microsoft Outlook",
	"office":     "Microsoft Office",
}

var (
	english = stopwords.MustGet("en")
	spanish = stopwords.MustGet("es")
)

// ExtractKeywords returns the content-bearing tokens of text in order.
func ExtractKeywords(text string) []string {
	var keywords []string
	for _, tok := range officeai.Tokens(text) {
		if len(tok) <= 1 {
			continue
		}
		if _, ok := ProductNames[tok]; !ok {
			if StopWords[tok] || english.Contains(tok) || spanish.Contains(tok) {
				continue
			}
		}
		keywords = append(keywords, tok)
	}
	return keywords
}

// RefineQuery builds a search query from the keywords of text, expanding
// office keywords to full product names. Returns text unchanged if no
// keywords remain.
func RefineQuery(text string) string {
	keywords := ExtractKeywords(text)
	if len(keywords) == 0 {
		return text
	}

	refined := make([]string, len(keywords))
	for i, kw := range keywords {
		if name, ok := ProductNames[kw]; ok {
			refined[i] = name
		} else {
			refined[i] = kw
		}
	}
	return strings.Join(refined, " ")
}
