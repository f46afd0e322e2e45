package assistant

import (
	"context"
	"strings"

	"github.com/fwojciec/officeai"
)

const (
	exactAnswerLimit       = 5
	similarAnswerLimit     = 3
	maxRetrievedCandidates = 5
)

// BadPhrases mark hedged answers that should not be recalled with confidence.
var BadPhrases = []string{
	"no se", "quizas", "puede ser", "no tengo informacion", "no estoy seguro",
	"i don't know", "i dont know", "maybe", "not sure", "no information",
}

// IsBadAnswer reports whether an answer is too short or hedged to recall.
func IsBadAnswer(answer string) bool {
	if len(strings.Fields(answer)) < 2 {
		return true
	}
	lower := officeai.FoldAccents(strings.ToLower(answer))
	for _, p := range BadPhrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// Retriever finds stored answers for a question, first by exact normalized
// match and then by fuzzy question similarity.
type Retriever struct {
	store officeai.KnowledgeService

	// FuzzyThreshold is the minimum similarity for the fuzzy path.
	FuzzyThreshold float64
}

// NewRetriever creates a new Retriever.
func NewRetriever(store officeai.KnowledgeService, fuzzyThreshold float64) *Retriever {
	return &Retriever{store: store, FuzzyThreshold: fuzzyThreshold}
}

// FindAnswers returns usable candidates best first, or nil if neither path
// produced anything.
func (r *Retriever) FindAnswers(ctx context.Context, question string) ([]*officeai.ScoredAnswer, error) {
	exact, err := r.store.SearchAnswers(ctx, question, exactAnswerLimit)
	if err != nil {
		return nil, err
	}
	if good := goodAnswers(exact); len(good) > 0 {
		return good, nil
	}

	similar, err := r.store.SimilarQuestions(ctx, question, r.FuzzyThreshold)
	if err != nil {
		return nil, err
	}

	var out []*officeai.ScoredAnswer
	seen := make(map[string]bool)
	for _, q := range similar {
		answers, err := r.store.SearchAnswers(ctx, q, similarAnswerLimit)
		if err != nil {
			return nil, err
		}
		for _, a := range goodAnswers(answers) {
			if seen[a.Answer] {
				continue
			}
			seen[a.Answer] = true
			out = append(out, a)
		}
	}

	if len(out) > maxRetrievedCandidates {
		out = out[:maxRetrievedCandidates]
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

func goodAnswers(answers []*officeai.ScoredAnswer) []*officeai.ScoredAnswer {
	var good []*officeai.ScoredAnswer
	for _, a := range answers {
		if !IsBadAnswer(a.Answer) {
			good = append(good, a)
		}
	}
	return good
}
