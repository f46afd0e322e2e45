package assistant

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/fwojciec/officeai"
	"github.com/fwojciec/officeai/intent"
)

// DefaultCacheTTL is how long a web answer is served from the cache.
const DefaultCacheTTL = 24 * time.Hour

var _ officeai.Searcher = (*CachedSearcher)(nil)

// CachedSearcher serves repeated web searches from the store's web cache.
type CachedSearcher struct {
	searcher officeai.Searcher
	store    officeai.KnowledgeService
	ttl      time.Duration
	logger   *slog.Logger
}

// NewCachedSearcher wraps searcher with a cache kept in store.
func NewCachedSearcher(searcher officeai.Searcher, store officeai.KnowledgeService, ttl time.Duration, logger *slog.Logger) *CachedSearcher {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedSearcher{searcher: searcher, store: store, ttl: ttl, logger: logger}
}

// CacheKey returns the cache key for a request: the normalized refined query.
func CacheKey(req *officeai.SearchRequest) string {
	keywords := req.Keywords
	if keywords == "" {
		keywords = intent.RefineQuery(req.Question)
	}
	return officeai.Normalize(keywords)
}

// Search returns a cached result when one is fresh, otherwise it delegates
// and caches a successful result. Cache faults never fail the search.
func (s *CachedSearcher) Search(ctx context.Context, req *officeai.SearchRequest) (*officeai.SearchResult, error) {
	key := CacheKey(req)

	if key != "" {
		payload, err := s.store.CachedResults(ctx, key)
		switch {
		case err == nil:
			var result officeai.SearchResult
			if err := json.Unmarshal([]byte(payload), &result); err == nil && result.Answer != "" {
				return &result, nil
			}
			s.logger.Warn("discarding unreadable cache entry", "query", key)
		case officeai.ErrorCode(err) != officeai.ENOTFOUND:
			s.logger.Warn("cache lookup failed", "query", key, "err", err)
		}
	}

	result, err := s.searcher.Search(ctx, req)
	if err != nil {
		return nil, err
	}

	if key != "" && result != nil && result.Answer != "" {
		payload, err := json.Marshal(result)
		if err == nil {
			err = s.store.CacheResults(ctx, key, string(payload), s.ttl)
		}
		if err != nil {
			s.logger.Warn("cache write failed", "query", key, "err", err)
		}
	}

	return result, nil
}
