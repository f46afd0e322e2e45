package assistant

import (
	"fmt"
	"strings"

	"github.com/fwojciec/officeai"
)

// Turn is one question and the answer given to it.
type Turn struct {
	Question string
	Answer   string
}

// Session holds per-conversation state. It is never persisted and is not
// safe for concurrent use.
type Session struct {
	LastQuestion string

	// LastAnswer is set when the last answer was a single text.
	LastAnswer string

	// LastCandidates is set when the user was asked to choose.
	LastCandidates []*officeai.ScoredAnswer

	LastSource Source

	// LastLearnedID is the knowledge ID saved by the most recent web answer.
	LastLearnedID string

	// LastCacheKey is the web cache key of the most recent web answer.
	LastCacheKey string

	turns    []Turn
	maxTurns int
	skipped  map[string]struct{}
}

// NewSession returns an empty session keeping up to maxTurns turns.
func NewSession(maxTurns int) *Session {
	if maxTurns <= 0 {
		maxTurns = DefaultConfig().ContextTurns
	}
	return &Session{
		maxTurns: maxTurns,
		skipped:  make(map[string]struct{}),
	}
}

// AddToContext appends a turn, evicting the oldest beyond the bound.
func (s *Session) AddToContext(question, answer string) {
	s.turns = append(s.turns, Turn{Question: question, Answer: answer})
	if len(s.turns) > s.maxTurns {
		s.turns = append([]Turn(nil), s.turns[len(s.turns)-s.maxTurns:]...)
	}
}

// Context returns a copy of the recent turns, oldest first.
func (s *Session) Context() []Turn {
	return append([]Turn(nil), s.turns...)
}

// popContext drops the most recent turn.
func (s *Session) popContext() {
	if len(s.turns) > 0 {
		s.turns = s.turns[:len(s.turns)-1]
	}
}

// SkipFeedback stops feedback prompts for question for the rest of the session.
func (s *Session) SkipFeedback(question string) {
	s.skipped[officeai.Normalize(question)] = struct{}{}
}

// ShouldAskFeedback reports whether the user may be asked to rate an answer
// to question.
func (s *Session) ShouldAskFeedback(question string) bool {
	_, skipped := s.skipped[officeai.Normalize(question)]
	return !skipped
}

// ContextSummary renders the last three turns on one line.
func (s *Session) ContextSummary() string {
	turns := s.turns
	if len(turns) > 3 {
		turns = turns[len(turns)-3:]
	}

	parts := make([]string, len(turns))
	for i, t := range turns {
		parts[i] = fmt.Sprintf("Q: %s... A: %s...", clip(t.Question, 50), clip(t.Answer, 50))
	}
	return strings.Join(parts, " | ")
}

// clip returns at most n runes of s.
func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
