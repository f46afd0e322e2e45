package mock

import (
	"context"

	"github.com/fwojciec/officeai"
)

var _ officeai.Searcher = (*Searcher)(nil)

// Searcher is a mock implementation of officeai.Searcher.
type Searcher struct {
	SearchFn func(ctx context.Context, req *officeai.SearchRequest) (*officeai.SearchResult, error)
}

func (s *Searcher) Search(ctx context.Context, req *officeai.SearchRequest) (*officeai.SearchResult, error) {
	return s.SearchFn(ctx, req)
}
