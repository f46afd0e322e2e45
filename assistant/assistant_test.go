package assistant_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/fwojciec/officeai/sqlite"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) *sqlite.KnowledgeService {
	t.Helper()
	db := sqlite.NewDB(":memory:")
	require.NoError(t, db.Open())
	t.Cleanup(func() { db.Close() })
	return sqlite.NewKnowledgeService(db)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// scoreOf returns the stored score of an answer, failing if it has none.
func scoreOf(t *testing.T, store *sqlite.KnowledgeService, answer string) float64 {
	t.Helper()
	snap, err := store.Snapshot(context.Background())
	require.NoError(t, err)
	for _, s := range snap.Scores {
		if s.Answer == answer {
			return s.Value
		}
	}
	t.Fatalf("no score for answer %q", answer)
	return 0
}

func addScored(t *testing.T, store *sqlite.KnowledgeService, question, answer string, score float64) {
	t.Helper()
	ctx := context.Background()
	_, err := store.AddKnowledge(ctx, question, answer, "excel")
	require.NoError(t, err)
	if score != 0 {
		require.NoError(t, store.UpdateScore(ctx, question, answer, score))
	}
}
