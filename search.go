package officeai

import "context"

// SearchRequest is a question handed to an external search provider.
type SearchRequest struct {
	// Question is the user's question as typed.
	Question string

	// Keywords is a refined search query derived from the question.
	Keywords string
}

// SearchResult is a synthesized answer with the URLs it was grounded on.
type SearchResult struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources"`
}

// Searcher answers questions with a web-grounded language model.
type Searcher interface {
	// Search returns a synthesized answer. Implementations degrade through
	// their own fallbacks and return EUNAVAILABLE once those are exhausted.
	Search(ctx context.Context, req *SearchRequest) (*SearchResult, error)
}
