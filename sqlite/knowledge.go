package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/fwojciec/officeai"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ officeai.KnowledgeService = (*KnowledgeService)(nil)

const (
	maxSimilarQuestions = 5
	snapshotHistory     = 100
)

// KnowledgeService implements officeai.KnowledgeService using SQLite.
type KnowledgeService struct {
	db *DB

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// NewKnowledgeService creates a new KnowledgeService.
func NewKnowledgeService(db *DB) *KnowledgeService {
	return &KnowledgeService{db: db, Now: time.Now}
}

func (s *KnowledgeService) now() time.Time {
	return s.Now().UTC().Truncate(time.Second)
}

// AddKnowledge stores a new fact keyed by the normalized question.
func (s *KnowledgeService) AddKnowledge(ctx context.Context, question, answer, topic string) (string, error) {
	var id string
	err := s.db.WithTx(ctx, func(tx *sql.Tx) error {
		var err error
		id, err = s.insertKnowledge(ctx, tx, question, answer, topic)
		return err
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// insertKnowledge inserts a fact and returns its ID, or an empty ID if the
// (normalized question, answer) pair already exists.
func (s *KnowledgeService) insertKnowledge(ctx context.Context, tx *sql.Tx, question, answer, topic string) (string, error) {
	normalized := officeai.Normalize(question)
	if normalized == "" {
		return "", officeai.Errorf(officeai.EINVALID, "question required")
	}
	if strings.TrimSpace(answer) == "" {
		return "", officeai.Errorf(officeai.EINVALID, "answer required")
	}
	if topic == "" {
		topic = officeai.TopicGeneral
	}

	id := uuid.New().String()
	now := formatTime(s.now())

	result, err := tx.ExecContext(ctx, `
		INSERT INTO knowledge (id, question_normalized, question_original, answer, answer_hash, topic, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (question_normalized, answer_hash) DO NOTHING
	`, id, normalized, question, answer, hashAnswer(answer), topic, now, now)
	if err != nil {
		return "", err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return "", err
	}
	if n == 0 {
		return "", nil
	}
	return id, nil
}

// Seed loads facts into an empty knowledge table and returns how many were
// inserted. A store that already holds knowledge is left untouched.
func (s *KnowledgeService) Seed(ctx context.Context, seeds []officeai.Seed) (int, error) {
	var inserted int
	err := s.db.WithTx(ctx, func(tx *sql.Tx) error {
		var count int
		if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM knowledge").Scan(&count); err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		for _, seed := range seeds {
			id, err := s.insertKnowledge(ctx, tx, seed.Question, seed.Answer, seed.Topic)
			if err != nil {
				return err
			}
			if id != "" {
				inserted++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

// DeleteKnowledge permanently removes a fact.
func (s *KnowledgeService) DeleteKnowledge(ctx context.Context, id string) error {
	return s.db.WithTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, "DELETE FROM knowledge WHERE id = ?", id)
		if err != nil {
			return err
		}

		n, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return officeai.Errorf(officeai.ENOTFOUND, "knowledge not found")
		}
		return nil
	})
}

// SearchAnswers returns answers stored for the exact normalized question.
// Ties on score and selection count keep insertion order.
func (s *KnowledgeService) SearchAnswers(ctx context.Context, question string, limit int) ([]*officeai.ScoredAnswer, error) {
	var query strings.Builder
	args := []any{officeai.Normalize(question)}

	query.WriteString(`
		SELECT k.answer, k.topic, COALESCE(s.score, 0), COALESCE(s.times_selected, 0)
		FROM knowledge k
		LEFT JOIN scores s ON s.question_normalized = k.question_normalized AND s.answer = k.answer
		WHERE k.question_normalized = ?
		ORDER BY COALESCE(s.score, 0) DESC, COALESCE(s.times_selected, 0) DESC, k.rowid ASC
	`)
	if limit > 0 {
		query.WriteString(" LIMIT ?")
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var answers []*officeai.ScoredAnswer
	for rows.Next() {
		var a officeai.ScoredAnswer
		if err := rows.Scan(&a.Answer, &a.Topic, &a.Score, &a.TimesSelected); err != nil {
			return nil, err
		}
		answers = append(answers, &a)
	}

	return answers, rows.Err()
}

// SimilarQuestions returns stored normalized questions whose token-set
// similarity to question is at least threshold. Equal similarities keep the
// order in which the questions were first stored.
func (s *KnowledgeService) SimilarQuestions(ctx context.Context, question string, threshold float64) ([]string, error) {
	tokens := officeai.Tokens(question)
	if len(tokens) == 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT question_normalized
		FROM knowledge
		GROUP BY question_normalized
		ORDER BY MIN(rowid)
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	type candidate struct {
		question   string
		similarity float64
	}

	var candidates []candidate
	for rows.Next() {
		var stored string
		if err := rows.Scan(&stored); err != nil {
			return nil, err
		}
		if sim := officeai.Jaccard(tokens, strings.Fields(stored)); sim >= threshold {
			candidates = append(candidates, candidate{question: stored, similarity: sim})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].similarity > candidates[j].similarity
	})

	if len(candidates) > maxSimilarQuestions {
		candidates = candidates[:maxSimilarQuestions]
	}

	similar := make([]string, len(candidates))
	for i, c := range candidates {
		similar[i] = c.question
	}
	return similar, nil
}

// UpdateScore adds delta to the pair's score, creating it at zero if absent.
func (s *KnowledgeService) UpdateScore(ctx context.Context, question, answer string, delta float64) error {
	normalized := officeai.Normalize(question)
	now := formatTime(s.now())

	return s.db.WithTx(ctx, func(tx *sql.Tx) error {
		var current float64
		err := tx.QueryRowContext(ctx, `
			SELECT score FROM scores WHERE question_normalized = ? AND answer = ?
		`, normalized, answer).Scan(&current)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO scores (question_normalized, answer, score, last_used_at)
			VALUES (?, ?, ?, ?)
			ON CONFLICT (question_normalized, answer) DO UPDATE SET
				score = excluded.score,
				last_used_at = excluded.last_used_at
		`, normalized, answer, current+delta, now)
		return err
	})
}

// RecordSelection counts a selection outcome for an existing score.
func (s *KnowledgeService) RecordSelection(ctx context.Context, question, answer string, correct bool) error {
	correctInc, incorrectInc := 0, 1
	if correct {
		correctInc, incorrectInc = 1, 0
	}

	return s.db.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			UPDATE scores
			SET times_selected = times_selected + 1,
				times_correct = times_correct + ?,
				times_incorrect = times_incorrect + ?
			WHERE question_normalized = ? AND answer = ?
		`, correctInc, incorrectInc, officeai.Normalize(question), answer)
		return err
	})
}

// AddHistory appends to the interaction log and sets the entry's ID.
// A zero Timestamp is stamped with the current time.
func (s *KnowledgeService) AddHistory(ctx context.Context, entry *officeai.HistoryEntry) error {
	if err := entry.Validate(); err != nil {
		return err
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = s.now()
	}

	return s.db.WithTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
			INSERT INTO history (question, answer, source, was_correct, timestamp)
			VALUES (?, ?, ?, ?, ?)
		`, entry.Question, entry.Answer, string(entry.Source), nullBool(entry.WasCorrect), formatTime(entry.Timestamp))
		if err != nil {
			return err
		}

		entry.ID, err = result.LastInsertId()
		return err
	})
}

// FindHistory returns the most recent log entries, newest first.
func (s *KnowledgeService) FindHistory(ctx context.Context, limit int) ([]*officeai.HistoryEntry, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, question, answer, source, was_correct, timestamp FROM history ORDER BY id DESC")
	if limit > 0 {
		query.WriteString(" LIMIT ?")
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*officeai.HistoryEntry
	for rows.Next() {
		var e officeai.HistoryEntry
		var source, timestamp string
		var wasCorrect sql.NullBool

		if err := rows.Scan(&e.ID, &e.Question, &e.Answer, &source, &wasCorrect, &timestamp); err != nil {
			return nil, err
		}

		e.Source = officeai.Source(source)
		e.WasCorrect = boolPtr(wasCorrect)
		if e.Timestamp, err = parseRFC3339(timestamp, "timestamp"); err != nil {
			return nil, err
		}

		entries = append(entries, &e)
	}

	return entries, rows.Err()
}

// CacheResults upserts a search result that expires after ttl.
func (s *KnowledgeService) CacheResults(ctx context.Context, query, results string, ttl time.Duration) error {
	if query == "" {
		return officeai.Errorf(officeai.EINVALID, "cache query required")
	}

	now := s.now()

	return s.db.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO web_cache (query, results, created_at, expires_at)
			VALUES (?, ?, ?, ?)
			ON CONFLICT (query) DO UPDATE SET
				results = excluded.results,
				created_at = excluded.created_at,
				expires_at = excluded.expires_at
		`, query, results, formatTime(now), formatTime(now.Add(ttl)))
		return err
	})
}

// CachedResults returns an unexpired cached result. Expired rows stay in the
// table and are filtered at read time.
func (s *KnowledgeService) CachedResults(ctx context.Context, query string) (string, error) {
	var results string
	err := s.db.QueryRowContext(ctx, `
		SELECT results FROM web_cache WHERE query = ? AND expires_at > ?
	`, query, formatTime(s.now())).Scan(&results)

	if errors.Is(err, sql.ErrNoRows) {
		return "", officeai.Errorf(officeai.ENOTFOUND, "no cached results for %q", query)
	}
	if err != nil {
		return "", err
	}
	return results, nil
}

// DeleteCachedResults removes the cached result for query. A missing entry
// is not an error.
func (s *KnowledgeService) DeleteCachedResults(ctx context.Context, query string) error {
	return s.db.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, "DELETE FROM web_cache WHERE query = ?", query)
		return err
	})
}

// Stats returns store counters.
func (s *KnowledgeService) Stats(ctx context.Context) (*officeai.Stats, error) {
	var stats officeai.Stats
	err := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM knowledge),
			(SELECT COUNT(DISTINCT topic) FROM knowledge),
			(SELECT COUNT(*) FROM history),
			(SELECT COUNT(*) FROM web_cache)
	`).Scan(&stats.TotalKnowledge, &stats.TotalTopics, &stats.TotalInteractions, &stats.CachedSearches)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// Snapshot dumps all knowledge and scores plus the most recent history.
func (s *KnowledgeService) Snapshot(ctx context.Context) (*officeai.Snapshot, error) {
	knowledge, err := s.findKnowledge(ctx)
	if err != nil {
		return nil, err
	}

	scores, err := s.findScores(ctx)
	if err != nil {
		return nil, err
	}

	history, err := s.FindHistory(ctx, snapshotHistory)
	if err != nil {
		return nil, err
	}

	return &officeai.Snapshot{
		Knowledge:  knowledge,
		History:    history,
		Scores:     scores,
		ExportedAt: s.now(),
	}, nil
}

func (s *KnowledgeService) findKnowledge(ctx context.Context) ([]*officeai.Knowledge, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, question_normalized, question_original, answer, answer_hash, topic, created_at, updated_at
		FROM knowledge
		ORDER BY rowid
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*officeai.Knowledge
	for rows.Next() {
		var k officeai.Knowledge
		var createdAt, updatedAt string

		if err := rows.Scan(&k.ID, &k.QuestionNormalized, &k.QuestionOriginal, &k.Answer,
			&k.AnswerHash, &k.Topic, &createdAt, &updatedAt); err != nil {
			return nil, err
		}

		if k.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
			return nil, err
		}
		if k.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at"); err != nil {
			return nil, err
		}

		out = append(out, &k)
	}

	return out, rows.Err()
}

func (s *KnowledgeService) findScores(ctx context.Context) ([]*officeai.Score, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT question_normalized, answer, score, times_selected, times_correct, times_incorrect, last_used_at
		FROM scores
		ORDER BY rowid
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*officeai.Score
	for rows.Next() {
		var sc officeai.Score
		var lastUsedAt string

		if err := rows.Scan(&sc.QuestionNormalized, &sc.Answer, &sc.Value, &sc.TimesSelected,
			&sc.TimesCorrect, &sc.TimesIncorrect, &lastUsedAt); err != nil {
			return nil, err
		}

		if sc.LastUsedAt, err = parseRFC3339(lastUsedAt, "last_used_at"); err != nil {
			return nil, err
		}

		out = append(out, &sc)
	}

	return out, rows.Err()
}
