package main_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/fwojciec/officeai"
	main "github.com/fwojciec/officeai/cmd/officeai"
	"github.com/fwojciec/officeai/mock"
	"github.com/fwojciec/officeai/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testContext returns a background context for tests.
func testContext() context.Context {
	return context.Background()
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupStore(t *testing.T) *sqlite.KnowledgeService {
	t.Helper()
	db := sqlite.NewDB(":memory:")
	require.NoError(t, db.Open())
	t.Cleanup(func() { db.Close() })
	return sqlite.NewKnowledgeService(db)
}

// scoreOf returns the stored score of an answer, failing if it has none.
func scoreOf(t *testing.T, store officeai.KnowledgeService, answer string) float64 {
	t.Helper()
	snap, err := store.Snapshot(testContext())
	require.NoError(t, err)
	for _, s := range snap.Scores {
		if s.Answer == answer {
			return s.Value
		}
	}
	t.Fatalf("no score for answer %q", answer)
	return 0
}

// newMain returns a Main backed by a database in a temp dir.
func newMain(t *testing.T) *main.Main {
	t.Helper()
	m := main.NewMain()
	m.DBPath = filepath.Join(t.TempDir(), "officeai.db")
	m.Stdin = strings.NewReader("")
	return m
}

// run executes the CLI and returns stdout, stderr and the error.
func run(t *testing.T, m *main.Main, args ...string) (string, string, error) {
	t.Helper()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	err := m.Run(testContext(), append([]string{"--log-stderr", "--api-key="}, args...), stdout, stderr)
	return stdout.String(), stderr.String(), err
}

const learnPage = `<html><head><title>Freeze panes</title></head><body>
<nav>Home Excel Word</nav>
<p>To keep an area of a worksheet visible while you scroll, select the View tab and then Freeze Panes.</p>
<p>Choose Freeze Top Row to keep the first row visible while you scroll through the rest of the sheet.</p>
<footer>Copyright</footer>
</body></html>`

func TestMain_Run(t *testing.T) {
	t.Parallel()

	t.Run("seeds the knowledge base on first run", func(t *testing.T) {
		t.Parallel()

		m := newMain(t)
		stdout, _, err := run(t, m, "stats")

		require.NoError(t, err)
		assert.Contains(t, stdout, "Facts learned:    "+strconv.Itoa(len(officeai.InitialKnowledge)))
		assert.Contains(t, stdout, "Interactions:     0")
	})

	t.Run("does not seed twice", func(t *testing.T) {
		t.Parallel()

		m := newMain(t)
		_, _, err := run(t, m, "stats")
		require.NoError(t, err)

		stdout, _, err := run(t, m, "stats")

		require.NoError(t, err)
		assert.Contains(t, stdout, "Facts learned:    "+strconv.Itoa(len(officeai.InitialKnowledge)))
	})

	t.Run("answers a seeded question", func(t *testing.T) {
		t.Parallel()

		m := newMain(t)
		stdout, _, err := run(t, m, "ask", "what", "is", "vlookup")

		require.NoError(t, err)
		assert.Contains(t, stdout, "VLOOKUP is a function")
	})

	t.Run("records asked questions in history", func(t *testing.T) {
		t.Parallel()

		m := newMain(t)
		_, _, err := run(t, m, "ask", "what is vlookup")
		require.NoError(t, err)

		stdout, _, err := run(t, m, "history")

		require.NoError(t, err)
		assert.Contains(t, stdout, "what is vlookup")
		assert.Contains(t, stdout, "local")
	})

	t.Run("shows an empty history", func(t *testing.T) {
		t.Parallel()

		m := newMain(t)
		stdout, _, err := run(t, m, "history")

		require.NoError(t, err)
		assert.Contains(t, stdout, "No interactions yet.")
	})

	t.Run("answers small talk without searching", func(t *testing.T) {
		t.Parallel()

		m := newMain(t)
		m.Searcher = &mock.Searcher{
			SearchFn: func(ctx context.Context, req *officeai.SearchRequest) (*officeai.SearchResult, error) {
				t.Fatal("unexpected search")
				return nil, nil
			},
		}

		stdout, _, err := run(t, m, "ask", "hello")

		require.NoError(t, err)
		assert.NotEmpty(t, strings.TrimSpace(stdout))
	})

	t.Run("prints the no-answer message without a searcher", func(t *testing.T) {
		t.Parallel()

		m := newMain(t)
		stdout, _, err := run(t, m, "ask", "how do I merge mail in word")

		require.NoError(t, err)
		assert.Contains(t, stdout, main.NoAnswer)
	})

	t.Run("searches the web for unknown questions", func(t *testing.T) {
		t.Parallel()

		var got *officeai.SearchRequest
		m := newMain(t)
		m.Searcher = &mock.Searcher{
			SearchFn: func(ctx context.Context, req *officeai.SearchRequest) (*officeai.SearchResult, error) {
				got = req
				return &officeai.SearchResult{
					Answer:  "Open Mailings and choose Start Mail Merge.",
					Sources: []string{"https://support.example.com/mail-merge"},
				}, nil
			},
		}

		stdout, _, err := run(t, m, "ask", "how do I merge mail in word")

		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "how do I merge mail in word", got.Question)
		assert.Contains(t, stdout, "Open Mailings and choose Start Mail Merge.")
		assert.Contains(t, stdout, "Sources:")
		assert.Contains(t, stdout, "https://support.example.com/mail-merge")
	})

	t.Run("serves repeated web questions from the knowledge base", func(t *testing.T) {
		t.Parallel()

		var calls int
		m := newMain(t)
		m.Searcher = &mock.Searcher{
			SearchFn: func(ctx context.Context, req *officeai.SearchRequest) (*officeai.SearchResult, error) {
				calls++
				return &officeai.SearchResult{Answer: "Open Mailings and choose Start Mail Merge."}, nil
			},
		}

		_, _, err := run(t, m, "ask", "how do I merge mail in word")
		require.NoError(t, err)
		stdout, _, err := run(t, m, "ask", "how do I merge mail in word")

		require.NoError(t, err)
		assert.Equal(t, 1, calls)
		assert.Contains(t, stdout, "Open Mailings and choose Start Mail Merge.")
	})

	t.Run("does not save web answers with --no-auto-save", func(t *testing.T) {
		t.Parallel()

		m := newMain(t)
		m.Searcher = &mock.Searcher{
			SearchFn: func(ctx context.Context, req *officeai.SearchRequest) (*officeai.SearchResult, error) {
				return &officeai.SearchResult{Answer: "Open Mailings and choose Start Mail Merge."}, nil
			},
		}

		_, _, err := run(t, m, "--no-auto-save", "ask", "how do I merge mail in word")
		require.NoError(t, err)
		stdout, _, err := run(t, m, "stats")

		require.NoError(t, err)
		assert.Contains(t, stdout, "Facts learned:    "+strconv.Itoa(len(officeai.InitialKnowledge)))
	})

	t.Run("returns error when the web search fails", func(t *testing.T) {
		t.Parallel()

		m := newMain(t)
		m.Searcher = &mock.Searcher{
			SearchFn: func(ctx context.Context, req *officeai.SearchRequest) (*officeai.SearchResult, error) {
				return nil, errors.New("quota exhausted")
			},
		}

		_, stderr, err := run(t, m, "ask", "how do I merge mail in word")

		require.Error(t, err)
		assert.Equal(t, officeai.EUNAVAILABLE, officeai.ErrorCode(err))
		assert.Contains(t, stderr, "error: web search failed")
	})

	t.Run("returns error for an empty question", func(t *testing.T) {
		t.Parallel()

		m := newMain(t)
		_, stderr, err := run(t, m, "ask", " ")

		require.Error(t, err)
		assert.Equal(t, officeai.EINVALID, officeai.ErrorCode(err))
		assert.Contains(t, stderr, "question required")
	})

	t.Run("exports the knowledge base to stdout", func(t *testing.T) {
		t.Parallel()

		m := newMain(t)
		stdout, _, err := run(t, m, "export")
		require.NoError(t, err)

		var snap officeai.Snapshot
		require.NoError(t, json.Unmarshal([]byte(stdout), &snap))
		assert.Len(t, snap.Knowledge, len(officeai.InitialKnowledge))
		assert.False(t, snap.ExportedAt.IsZero())
	})

	t.Run("exports the knowledge base to a file", func(t *testing.T) {
		t.Parallel()

		m := newMain(t)
		path := filepath.Join(t.TempDir(), "backup.json")
		stdout, _, err := run(t, m, "export", path)
		require.NoError(t, err)
		assert.Contains(t, stdout, "Exported knowledge base to "+path)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		var snap officeai.Snapshot
		require.NoError(t, json.Unmarshal(data, &snap))
		assert.NotEmpty(t, snap.Knowledge)
	})

	t.Run("learns an answer from a web page", func(t *testing.T) {
		t.Parallel()

		m := newMain(t)
		m.Fetcher = &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				assert.Equal(t, "https://support.example.com/freeze", url)
				return learnPage, nil
			},
			CloseFn: func() error { return nil },
		}

		stdout, _, err := run(t, m, "learn", "https://support.example.com/freeze", "-q", "how do I freeze the top row")
		require.NoError(t, err)
		assert.Contains(t, stdout, "Learned an answer")

		stdout, _, err = run(t, m, "ask", "how do I freeze the top row")

		require.NoError(t, err)
		assert.Contains(t, stdout, "Freeze Top Row")
		assert.NotContains(t, stdout, "Copyright")
	})

	t.Run("returns error when the page cannot be fetched", func(t *testing.T) {
		t.Parallel()

		m := newMain(t)
		m.Fetcher = &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				return "", officeai.Errorf(officeai.ENOTFOUND, "HTTP 404")
			},
			CloseFn: func() error { return nil },
		}

		_, stderr, err := run(t, m, "learn", "https://support.example.com/missing", "-q", "how do I freeze the top row")

		require.Error(t, err)
		assert.Equal(t, officeai.EUNAVAILABLE, officeai.ErrorCode(err))
		assert.Contains(t, stderr, "could not learn")
	})

	t.Run("requires a question to learn", func(t *testing.T) {
		t.Parallel()

		m := newMain(t)
		_, _, err := run(t, m, "learn", "https://support.example.com/freeze")

		require.Error(t, err)
	})

	t.Run("chats by default", func(t *testing.T) {
		t.Parallel()

		m := newMain(t)
		m.Stdin = strings.NewReader("what is vlookup\ns\nexit\n")

		stdout, _, err := run(t, m)

		require.NoError(t, err)
		assert.Contains(t, stdout, "VLOOKUP is a function")
		assert.Contains(t, stdout, "Goodbye!")
	})

	t.Run("rejects an invalid log level", func(t *testing.T) {
		t.Parallel()

		m := newMain(t)
		_, _, err := run(t, m, "--log-level=loud", "stats")

		require.Error(t, err)
		assert.Equal(t, officeai.EINVALID, officeai.ErrorCode(err))
	})

	t.Run("writes the log file next to the database", func(t *testing.T) {
		t.Parallel()

		m := newMain(t)
		stdout := &bytes.Buffer{}
		err := m.Run(testContext(), []string{"--api-key=", "stats"}, stdout, &bytes.Buffer{})
		require.NoError(t, err)

		data, err := os.ReadFile(filepath.Join(filepath.Dir(m.DBPath), "officeai.log"))
		require.NoError(t, err)
		assert.Contains(t, string(data), "seeded knowledge base")
	})

	t.Run("uses the database from --db", func(t *testing.T) {
		t.Parallel()

		m := newMain(t)
		path := filepath.Join(t.TempDir(), "other.db")
		_, _, err := run(t, m, "--db", path, "stats")

		require.NoError(t, err)
		assert.Equal(t, path, m.DBPath)
		_, err = os.Stat(path)
		assert.NoError(t, err)
	})
}
