package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/officeai"
)

// Ensure LoggingKnowledgeService implements officeai.KnowledgeService.
var _ officeai.KnowledgeService = (*LoggingKnowledgeService)(nil)

// LoggingKnowledgeService wraps a KnowledgeService and logs every mutation.
// Reads are delegated silently.
type LoggingKnowledgeService struct {
	next   officeai.KnowledgeService
	logger *slog.Logger
}

// NewLoggingKnowledgeService creates a new LoggingKnowledgeService.
func NewLoggingKnowledgeService(next officeai.KnowledgeService, logger *slog.Logger) *LoggingKnowledgeService {
	return &LoggingKnowledgeService{next: next, logger: logger}
}

func (s *LoggingKnowledgeService) AddKnowledge(ctx context.Context, question, answer, topic string) (id string, err error) {
	defer func(begin time.Time) {
		s.logger.Info("add knowledge",
			"question", question,
			"topic", topic,
			"id", id,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.AddKnowledge(ctx, question, answer, topic)
}

func (s *LoggingKnowledgeService) DeleteKnowledge(ctx context.Context, id string) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("delete knowledge",
			"id", id,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.DeleteKnowledge(ctx, id)
}

func (s *LoggingKnowledgeService) SearchAnswers(ctx context.Context, question string, limit int) ([]*officeai.ScoredAnswer, error) {
	return s.next.SearchAnswers(ctx, question, limit)
}

func (s *LoggingKnowledgeService) SimilarQuestions(ctx context.Context, question string, threshold float64) ([]string, error) {
	return s.next.SimilarQuestions(ctx, question, threshold)
}

func (s *LoggingKnowledgeService) UpdateScore(ctx context.Context, question, answer string, delta float64) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("update score",
			"question", question,
			"delta", delta,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.UpdateScore(ctx, question, answer, delta)
}

func (s *LoggingKnowledgeService) RecordSelection(ctx context.Context, question, answer string, correct bool) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("record selection",
			"question", question,
			"correct", correct,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.RecordSelection(ctx, question, answer, correct)
}

func (s *LoggingKnowledgeService) AddHistory(ctx context.Context, entry *officeai.HistoryEntry) (err error) {
	defer func(begin time.Time) {
		s.logger.Debug("add history",
			"source", entry.Source,
			"id", entry.ID,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.AddHistory(ctx, entry)
}

func (s *LoggingKnowledgeService) FindHistory(ctx context.Context, limit int) ([]*officeai.HistoryEntry, error) {
	return s.next.FindHistory(ctx, limit)
}

func (s *LoggingKnowledgeService) CacheResults(ctx context.Context, query, results string, ttl time.Duration) (err error) {
	defer func(begin time.Time) {
		s.logger.Debug("cache results",
			"query", query,
			"ttl", ttl,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.CacheResults(ctx, query, results, ttl)
}

func (s *LoggingKnowledgeService) CachedResults(ctx context.Context, query string) (string, error) {
	return s.next.CachedResults(ctx, query)
}

func (s *LoggingKnowledgeService) DeleteCachedResults(ctx context.Context, query string) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("delete cached results",
			"query", query,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.DeleteCachedResults(ctx, query)
}

func (s *LoggingKnowledgeService) Stats(ctx context.Context) (*officeai.Stats, error) {
	return s.next.Stats(ctx)
}

func (s *LoggingKnowledgeService) Snapshot(ctx context.Context) (*officeai.Snapshot, error) {
	return s.next.Snapshot(ctx)
}
