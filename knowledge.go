package officeai

import (
	"context"
	"time"
)

// Knowledge is a learned (question, answer, topic) fact. The pair
// (QuestionNormalized, Answer) is unique across the store.
type Knowledge struct {
	ID                 string    `json:"id"`
	QuestionNormalized string    `json:"questionNormalized"`
	QuestionOriginal   string    `json:"questionOriginal"`
	Answer             string    `json:"answer"`
	AnswerHash         string    `json:"answerHash"`
	Topic              string    `json:"topic"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// Score is the reward accumulator for one (question, answer) pair.
// Value is additive and unbounded; it only changes on explicit reward events.
type Score struct {
	QuestionNormalized string    `json:"questionNormalized"`
	Answer             string    `json:"answer"`
	Value              float64   `json:"value"`
	TimesSelected      int       `json:"timesSelected"`
	TimesCorrect       int       `json:"timesCorrect"`
	TimesIncorrect     int       `json:"timesIncorrect"`
	LastUsedAt         time.Time `json:"lastUsedAt"`
}

// ScoredAnswer is a candidate answer joined with its score.
// Answers that never received a reward carry a zero score.
type ScoredAnswer struct {
	Answer        string  `json:"answer"`
	Topic         string  `json:"topic"`
	Score         float64 `json:"score"`
	TimesSelected int     `json:"timesSelected"`
}

// Source tags where a history entry came from.
type Source string

// History sources.
const (
	SourceLocal             Source = "local"
	SourceConversational    Source = "conversational"
	SourceMeta              Source = "meta"
	SourceGeminiSearch      Source = "gemini_search"
	SourceUserCorrection    Source = "user_correction"
	SourceUserAlternative   Source = "user_alternative"
	SourceUserURLCorrection Source = "user_url_correction"
)

// HistoryEntry is one row of the append-only interaction log.
// WasCorrect is nil when no feedback was given.
type HistoryEntry struct {
	ID         int64     `json:"id"`
	Question   string    `json:"question"`
	Answer     string    `json:"answer"`
	Source     Source    `json:"source"`
	WasCorrect *bool     `json:"wasCorrect"`
	Timestamp  time.Time `json:"timestamp"`
}

// Validate returns an error if the entry contains invalid fields.
func (e *HistoryEntry) Validate() error {
	if e.Question == "" {
		return Errorf(EINVALID, "history question required")
	}
	if e.Source == "" {
		return Errorf(EINVALID, "history source required")
	}
	return nil
}

// Stats summarizes the store contents.
type Stats struct {
	TotalKnowledge    int `json:"totalKnowledge"`
	TotalTopics       int `json:"totalTopics"`
	TotalInteractions int `json:"totalInteractions"`
	CachedSearches    int `json:"cachedSearches"`
}

// Snapshot is a full dump of the store used for backups.
type Snapshot struct {
	Knowledge  []*Knowledge    `json:"knowledge"`
	History    []*HistoryEntry `json:"history"`
	Scores     []*Score        `json:"scores"`
	ExportedAt time.Time       `json:"exportedAt"`
}

// KnowledgeService persists knowledge, scores, history and the web cache.
// Every mutating call is atomic.
type KnowledgeService interface {
	// AddKnowledge stores a new fact keyed by the normalized question.
	// Returns an empty ID and no error if the pair already exists.
	AddKnowledge(ctx context.Context, question, answer, topic string) (id string, err error)

	// DeleteKnowledge removes a fact.
	// Returns ENOTFOUND if the fact does not exist.
	DeleteKnowledge(ctx context.Context, id string) error

	// SearchAnswers returns answers stored for the exact normalized question,
	// best score first.
	SearchAnswers(ctx context.Context, question string, limit int) ([]*ScoredAnswer, error)

	// SimilarQuestions returns up to five stored normalized questions whose
	// token-set similarity to question is at least threshold, most similar first.
	SimilarQuestions(ctx context.Context, question string, threshold float64) ([]string, error)

	// UpdateScore adds delta to the pair's score, creating it at zero if absent.
	UpdateScore(ctx context.Context, question, answer string, delta float64) error

	// RecordSelection counts a selection outcome for an existing score.
	// It is a no-op when the pair has no score yet.
	RecordSelection(ctx context.Context, question, answer string, correct bool) error

	// AddHistory appends to the interaction log.
	AddHistory(ctx context.Context, entry *HistoryEntry) error

	// FindHistory returns the most recent log entries, newest first.
	FindHistory(ctx context.Context, limit int) ([]*HistoryEntry, error)

	// CacheResults upserts a search result that expires after ttl.
	CacheResults(ctx context.Context, query, results string, ttl time.Duration) error

	// CachedResults returns an unexpired cached result.
	// Returns ENOTFOUND if the query is not cached or has expired.
	CachedResults(ctx context.Context, query string) (string, error)

	// DeleteCachedResults drops the cached result for query, if any.
	DeleteCachedResults(ctx context.Context, query string) error

	// Stats returns store counters.
	Stats(ctx context.Context) (*Stats, error)

	// Snapshot dumps knowledge, scores and recent history.
	Snapshot(ctx context.Context) (*Snapshot, error)
}
