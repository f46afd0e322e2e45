package intent

import (
	"math/rand/v2"
	"strings"
	"sync"
)

// Responses are the fixed reply pools for conversational intents.
var Responses = map[Intent][]string{
	Greeting: {
		"Hello! How can I help you with Office today?",
		"Good day! I'm your Office assistant. What do you need?",
		"Hi! I'm ready to answer your questions about Excel, Word and more.",
	},
	Farewell: {
		"See you later! Come back whenever you have more Office questions.",
		"Goodbye! Have a great, productive day.",
		"See you. Good luck with your documents!",
	},
	Identification: {
		"I'm OfficeAI, an assistant built to help you with Microsoft Office.",
		"My name is OfficeAI. I'm here to answer your questions about Excel, Word, PowerPoint and more.",
	},
	Capabilities: {
		"I can help with Excel formulas, Word formatting, PowerPoint presentations and Outlook problems. Try me!",
		"I answer Office questions, search the web for solutions and learn from your corrections.",
	},
	Feeling: {
		"Running at 100%! Ready to help.",
		"All good here, processing data at full speed. And you?",
		"Feeling very binary today! 0s and 1s in perfect harmony. How can I help?",
	},
	Acknowledgement: {
		"You're welcome! Anything else?",
		"Glad I could help. More questions?",
		"Great! I'm still here if you need anything else.",
	},
}

// Opinion replies.
const (
	OfficeOpinion  = "As an AI I don't hold personal opinions, but it is a very capable tool and an industry standard."
	GeneralOpinion = "I don't have opinions about that."
)

// Classifier classifies utterances against a rule table and picks replies
// from the response pools. It is safe for concurrent use.
type Classifier struct {
	rules Rules

	mu  sync.Mutex
	rng *rand.Rand
}

// NewClassifier returns a Classifier over DefaultRules with a fixed-seed RNG.
func NewClassifier() *Classifier {
	return NewClassifierWithRules(DefaultRules)
}

// NewClassifierWithRules returns a Classifier over a custom rule table.
func NewClassifierWithRules(rules Rules) *Classifier {
	return &Classifier{
		rules: rules,
		rng:   rand.New(rand.NewPCG(1, 2)),
	}
}

// Classify returns the intent of an utterance.
func (c *Classifier) Classify(text string) Intent {
	s := prepare(text)

	if c.rules.Definition.Match(s) {
		if c.rules.OfficeTopic.Match(s) {
			return DefinitionOffice
		}
		return DefinitionGeneral
	}

	if c.rules.Opinion.Match(s) {
		return Opinion
	}

	officeRelated := c.rules.OfficeTopic.Match(s)

	for _, r := range c.rules.Conversational {
		if !r.Match(s) {
			continue
		}
		// Small talk mixed into a longer office question is technical.
		if officeRelated && len(strings.Fields(s)) > 3 {
			return Technical
		}
		return r.Intent
	}

	if officeRelated {
		return Technical
	}
	return Unknown
}

// Process classifies text and produces a reply when the utterance can be
// answered without retrieval. An empty response means the caller should
// continue with the returned intent.
func (c *Classifier) Process(text string) (response string, in Intent) {
	in = c.Classify(text)

	switch in {
	case DefinitionOffice:
		if def, ok := LookupDefinition(text); ok {
			return def, DefinitionFound
		}
		return "", Technical
	case Opinion:
		if _, ok := LookupDefinition(text); ok {
			return OfficeOpinion, Opinion
		}
		return GeneralOpinion, Opinion
	case Technical, Unknown, DefinitionGeneral:
		return "", in
	}

	return c.pick(in), in
}

func (c *Classifier) pick(in Intent) string {
	pool := Responses[in]
	if len(pool) == 0 {
		return ""
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return pool[c.rng.IntN(len(pool))]
}
