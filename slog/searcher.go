package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/officeai"
)

// Ensure LoggingSearcher implements officeai.Searcher.
var _ officeai.Searcher = (*LoggingSearcher)(nil)

// LoggingSearcher wraps a Searcher with logging.
type LoggingSearcher struct {
	next   officeai.Searcher
	logger *slog.Logger
}

// NewLoggingSearcher creates a new LoggingSearcher.
func NewLoggingSearcher(next officeai.Searcher, logger *slog.Logger) *LoggingSearcher {
	return &LoggingSearcher{next: next, logger: logger}
}

// Search delegates to the wrapped searcher and logs the operation.
func (s *LoggingSearcher) Search(ctx context.Context, req *officeai.SearchRequest) (result *officeai.SearchResult, err error) {
	defer func(begin time.Time) {
		var sources int
		if result != nil {
			sources = len(result.Sources)
		}
		s.logger.Info("web search",
			"question", req.Question,
			"keywords", req.Keywords,
			"sources", sources,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Search(ctx, req)
}
