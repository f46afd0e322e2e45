package mock

import (
	"context"
	"time"

	"github.com/fwojciec/officeai"
)

var _ officeai.KnowledgeService = (*KnowledgeService)(nil)

// KnowledgeService is a mock implementation of officeai.KnowledgeService.
type KnowledgeService struct {
	AddKnowledgeFn        func(ctx context.Context, question, answer, topic string) (string, error)
	DeleteKnowledgeFn     func(ctx context.Context, id string) error
	SearchAnswersFn       func(ctx context.Context, question string, limit int) ([]*officeai.ScoredAnswer, error)
	SimilarQuestionsFn    func(ctx context.Context, question string, threshold float64) ([]string, error)
	UpdateScoreFn         func(ctx context.Context, question, answer string, delta float64) error
	RecordSelectionFn     func(ctx context.Context, question, answer string, correct bool) error
	AddHistoryFn          func(ctx context.Context, entry *officeai.HistoryEntry) error
	FindHistoryFn         func(ctx context.Context, limit int) ([]*officeai.HistoryEntry, error)
	CacheResultsFn        func(ctx context.Context, query, results string, ttl time.Duration) error
	CachedResultsFn       func(ctx context.Context, query string) (string, error)
	DeleteCachedResultsFn func(ctx context.Context, query string) error
	StatsFn               func(ctx context.Context) (*officeai.Stats, error)
	SnapshotFn            func(ctx context.Context) (*officeai.Snapshot, error)
}

func (s *KnowledgeService) AddKnowledge(ctx context.Context, question, answer, topic string) (string, error) {
	return s.AddKnowledgeFn(ctx, question, answer, topic)
}

func (s *KnowledgeService) DeleteKnowledge(ctx context.Context, id string) error {
	return s.DeleteKnowledgeFn(ctx, id)
}

func (s *KnowledgeService) SearchAnswers(ctx context.Context, question string, limit int) ([]*officeai.ScoredAnswer, error) {
	return s.SearchAnswersFn(ctx, question, limit)
}

func (s *KnowledgeService) SimilarQuestions(ctx context.Context, question string, threshold float64) ([]string, error) {
	return s.SimilarQuestionsFn(ctx, question, threshold)
}

func (s *KnowledgeService) UpdateScore(ctx context.Context, question, answer string, delta float64) error {
	return s.UpdateScoreFn(ctx, question, answer, delta)
}

func (s *KnowledgeService) RecordSelection(ctx context.Context, question, answer string, correct bool) error {
	return s.RecordSelectionFn(ctx, question, answer, correct)
}

func (s *KnowledgeService) AddHistory(ctx context.Context, entry *officeai.HistoryEntry) error {
	return s.AddHistoryFn(ctx, entry)
}

func (s *KnowledgeService) FindHistory(ctx context.Context, limit int) ([]*officeai.HistoryEntry, error) {
	return s.FindHistoryFn(ctx, limit)
}

func (s *KnowledgeService) CacheResults(ctx context.Context, query, results string, ttl time.Duration) error {
	return s.CacheResultsFn(ctx, query, results, ttl)
}

func (s *KnowledgeService) CachedResults(ctx context.Context, query string) (string, error) {
	return s.CachedResultsFn(ctx, query)
}

func (s *KnowledgeService) DeleteCachedResults(ctx context.Context, query string) error {
	return s.DeleteCachedResultsFn(ctx, query)
}

func (s *KnowledgeService) Stats(ctx context.Context) (*officeai.Stats, error) {
	return s.StatsFn(ctx)
}

func (s *KnowledgeService) Snapshot(ctx context.Context) (*officeai.Snapshot, error) {
	return s.SnapshotFn(ctx)
}
