package main_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/officeai"
	"github.com/fwojciec/officeai/assistant"
	main "github.com/fwojciec/officeai/cmd/officeai"
	"github.com/fwojciec/officeai/goquery"
	"github.com/fwojciec/officeai/mock"
	"github.com/fwojciec/officeai/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const vlookupAnswer = "VLOOKUP searches the first column of a table and returns a value from the same row."

// newChat returns a Chat over store reading input. A nil searcher disables
// the web fallback.
func newChat(t *testing.T, store *sqlite.KnowledgeService, searcher officeai.Searcher, input string) (*main.Chat, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	logger := discardLogger()
	return &main.Chat{
		Resolver:  assistant.NewResolver(store, searcher, assistant.DefaultConfig(), logger),
		Knowledge: store,
		In:        strings.NewReader(input),
		Out:       out,
		ExportDir: t.TempDir(),
		Logger:    logger,
	}, out
}

func addKnowledge(t *testing.T, store *sqlite.KnowledgeService, question, answer string) {
	t.Helper()
	_, err := store.AddKnowledge(testContext(), question, answer, "excel")
	require.NoError(t, err)
}

func TestChat_Run(t *testing.T) {
	t.Parallel()

	t.Run("answers small talk and says goodbye", func(t *testing.T) {
		t.Parallel()

		chat, out := newChat(t, setupStore(t), nil, "hello\nexit\n")

		err := chat.Run(testContext())

		require.NoError(t, err)
		assert.Contains(t, out.String(), "Office assistant.")
		assert.Contains(t, out.String(), "You: ")
		assert.Contains(t, out.String(), "Assistant: Goodbye!")
	})

	t.Run("stops at end of input", func(t *testing.T) {
		t.Parallel()

		chat, out := newChat(t, setupStore(t), nil, "hello\n")

		err := chat.Run(testContext())

		require.NoError(t, err)
		assert.NotContains(t, out.String(), "Goodbye!")
	})

	t.Run("stops when the context is canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(testContext())
		cancel()
		chat, _ := newChat(t, setupStore(t), nil, "hello\n")

		err := chat.Run(ctx)

		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("skips empty lines", func(t *testing.T) {
		t.Parallel()

		chat, out := newChat(t, setupStore(t), nil, "\n   \nexit\n")

		err := chat.Run(testContext())

		require.NoError(t, err)
		assert.Equal(t, 3, strings.Count(out.String(), "You: "))
		assert.Equal(t, 1, strings.Count(out.String(), "Assistant: "))
	})

	t.Run("confirmed answers gain score", func(t *testing.T) {
		t.Parallel()

		store := setupStore(t)
		addKnowledge(t, store, "what is vlookup", vlookupAnswer)
		chat, out := newChat(t, store, nil, "what is vlookup\ny\nexit\n")

		err := chat.Run(testContext())

		require.NoError(t, err)
		assert.Contains(t, out.String(), "Assistant: "+vlookupAnswer)
		assert.Contains(t, out.String(), "Was that right?")
		assert.InDelta(t, assistant.RewardLocalAnswer+assistant.RewardConfirmed, scoreOf(t, store, vlookupAnswer), 0.001)
	})

	t.Run("rejected answers are replaced by the correction", func(t *testing.T) {
		t.Parallel()

		store := setupStore(t)
		addKnowledge(t, store, "what is vlookup", vlookupAnswer)
		correct := "VLOOKUP finds a value by row in a table range."
		chat, out := newChat(t, store, nil, "what is vlookup\nn\n"+correct+"\nexit\n")

		err := chat.Run(testContext())

		require.NoError(t, err)
		assert.Contains(t, out.String(), "learned the correct answer")
		assert.InDelta(t, assistant.RewardLocalAnswer+assistant.PenaltyCorrected, scoreOf(t, store, vlookupAnswer), 0.001)
		assert.InDelta(t, assistant.RewardCorrection, scoreOf(t, store, correct), 0.001)
	})

	t.Run("adds an alternative answer", func(t *testing.T) {
		t.Parallel()

		store := setupStore(t)
		addKnowledge(t, store, "what is vlookup", vlookupAnswer)
		alt := "VLOOKUP is a lookup function; XLOOKUP is its newer replacement."
		chat, out := newChat(t, store, nil, "what is vlookup\na\n"+alt+"\nexit\n")

		err := chat.Run(testContext())

		require.NoError(t, err)
		assert.Contains(t, out.String(), "keep both answers")
		assert.InDelta(t, assistant.RewardAlternative, scoreOf(t, store, alt), 0.001)
	})

	t.Run("stops asking for feedback on request", func(t *testing.T) {
		t.Parallel()

		store := setupStore(t)
		addKnowledge(t, store, "what is vlookup", vlookupAnswer)
		chat, out := newChat(t, store, nil, "what is vlookup\ns\nwhat is vlookup\nexit\n")

		err := chat.Run(testContext())

		require.NoError(t, err)
		assert.Equal(t, 1, strings.Count(out.String(), "Was that right?"))
		assert.Equal(t, 2, strings.Count(out.String(), "Assistant: "+vlookupAnswer))
	})

	t.Run("selects one of several answers", func(t *testing.T) {
		t.Parallel()

		store := setupStore(t)
		first := "Select View and then Freeze Panes."
		second := "Use View, Freeze Panes, Freeze Top Row."
		addKnowledge(t, store, "how do i freeze panes in excel", first)
		addKnowledge(t, store, "how do i freeze panes in excel", second)
		chat, out := newChat(t, store, nil, "how do i freeze panes in excel\n2\nexit\n")

		err := chat.Run(testContext())

		require.NoError(t, err)
		assert.Contains(t, out.String(), "I know several answers")
		assert.Contains(t, out.String(), "1. "+first)
		assert.Contains(t, out.String(), "2. "+second)
		assert.InDelta(t, assistant.RewardSelectedCorrect, scoreOf(t, store, second), 0.001)
	})

	t.Run("rejects an out of range selection", func(t *testing.T) {
		t.Parallel()

		store := setupStore(t)
		addKnowledge(t, store, "how do i freeze panes in excel", "Select View and then Freeze Panes.")
		addKnowledge(t, store, "how do i freeze panes in excel", "Use View, Freeze Panes, Freeze Top Row.")
		chat, out := newChat(t, store, nil, "how do i freeze panes in excel\n7\nexit\n")

		err := chat.Run(testContext())

		require.NoError(t, err)
		assert.Contains(t, out.String(), "didn't understand that choice")
	})

	t.Run("answers from the web with sources", func(t *testing.T) {
		t.Parallel()

		store := setupStore(t)
		searcher := &mock.Searcher{
			SearchFn: func(ctx context.Context, req *officeai.SearchRequest) (*officeai.SearchResult, error) {
				return &officeai.SearchResult{
					Answer:  "Select View and then Freeze Panes.",
					Sources: []string{"https://a.example.com", "https://b.example.com", "https://c.example.com", "https://d.example.com"},
				}, nil
			},
		}
		chat, out := newChat(t, store, searcher, "how do i freeze panes in excel\nexit\n")

		err := chat.Run(testContext())

		require.NoError(t, err)
		assert.Contains(t, out.String(), "Searching the web...")
		assert.Contains(t, out.String(), "Assistant: Select View and then Freeze Panes.")
		assert.Contains(t, out.String(), "https://c.example.com")
		assert.NotContains(t, out.String(), "https://d.example.com")
		assert.InDelta(t, assistant.RewardWebAnswer, scoreOf(t, store, "Select View and then Freeze Panes."), 0.001)
	})

	t.Run("reports a failed web search", func(t *testing.T) {
		t.Parallel()

		searcher := &mock.Searcher{
			SearchFn: func(ctx context.Context, req *officeai.SearchRequest) (*officeai.SearchResult, error) {
				return nil, errors.New("quota exhausted")
			},
		}
		chat, out := newChat(t, setupStore(t), searcher, "how do i freeze panes in excel\nexit\n")

		err := chat.Run(testContext())

		require.NoError(t, err)
		assert.Contains(t, out.String(), "couldn't find an answer online")
	})

	t.Run("says it does not know without a searcher", func(t *testing.T) {
		t.Parallel()

		chat, out := newChat(t, setupStore(t), nil, "how do i freeze panes in excel\nexit\n")

		err := chat.Run(testContext())

		require.NoError(t, err)
		assert.Contains(t, out.String(), main.NoAnswer)
	})

	t.Run("corrects a web answer with the correction code", func(t *testing.T) {
		t.Parallel()

		store := setupStore(t)
		wrong := "Press Ctrl+F to freeze everything."
		correct := "Select View and then Freeze Panes."
		searcher := &mock.Searcher{
			SearchFn: func(ctx context.Context, req *officeai.SearchRequest) (*officeai.SearchResult, error) {
				return &officeai.SearchResult{Answer: wrong}, nil
			},
		}
		input := "how do i freeze panes in excel\n" + main.CorrectionCode + "\n1\n" + correct + "\nexit\n"
		chat, out := newChat(t, store, searcher, input)

		err := chat.Run(testContext())

		require.NoError(t, err)
		assert.Contains(t, out.String(), `Correcting: "how do i freeze panes in excel"`)

		answers, err := store.SearchAnswers(testContext(), "how do i freeze panes in excel", 0)
		require.NoError(t, err)
		require.Len(t, answers, 1)
		assert.Equal(t, correct, answers[0].Answer)
		assert.InDelta(t, assistant.RewardCorrection, answers[0].Score, 0.001)
	})

	t.Run("treats a correction cue as the correction code", func(t *testing.T) {
		t.Parallel()

		store := setupStore(t)
		addKnowledge(t, store, "what is vlookup", vlookupAnswer)
		chat, out := newChat(t, store, nil, "what is vlookup\n\nthat's wrong\nexit\n")

		err := chat.Run(testContext())

		require.NoError(t, err)
		assert.Contains(t, out.String(), "I have nothing recent to forget.")
		assert.NotContains(t, out.String(), "Correcting:")
	})

	t.Run("has nothing to correct at the start", func(t *testing.T) {
		t.Parallel()

		chat, out := newChat(t, setupStore(t), nil, main.CorrectionCode+"\nexit\n")

		err := chat.Run(testContext())

		require.NoError(t, err)
		assert.Contains(t, out.String(), "I have nothing recent to forget.")
		assert.NotContains(t, out.String(), "Correcting:")
	})

	t.Run("just forgets the web answer", func(t *testing.T) {
		t.Parallel()

		store := setupStore(t)
		searcher := &mock.Searcher{
			SearchFn: func(ctx context.Context, req *officeai.SearchRequest) (*officeai.SearchResult, error) {
				return &officeai.SearchResult{Answer: "Press Ctrl+F to freeze everything."}, nil
			},
		}
		chat, out := newChat(t, store, searcher, "how do i freeze panes in excel\n"+main.CorrectionCode+"\n3\nexit\n")

		err := chat.Run(testContext())

		require.NoError(t, err)
		assert.Contains(t, out.String(), "I have forgotten the last learned answer.")
		assert.Contains(t, out.String(), "the interaction has been deleted")
		answers, err := store.SearchAnswers(testContext(), "how do i freeze panes in excel", 0)
		require.NoError(t, err)
		assert.Empty(t, answers)
	})

	t.Run("rejects an unknown correction option", func(t *testing.T) {
		t.Parallel()

		searcher := &mock.Searcher{
			SearchFn: func(ctx context.Context, req *officeai.SearchRequest) (*officeai.SearchResult, error) {
				return &officeai.SearchResult{Answer: "Press Ctrl+F to freeze everything."}, nil
			},
		}
		chat, out := newChat(t, setupStore(t), searcher, "how do i freeze panes in excel\n"+main.CorrectionCode+"\n9\nexit\n")

		err := chat.Run(testContext())

		require.NoError(t, err)
		assert.Contains(t, out.String(), "That is not a valid option.")
	})

	t.Run("searches the web again after forgetting", func(t *testing.T) {
		t.Parallel()

		store := setupStore(t)
		var calls int
		provider := &mock.Searcher{
			SearchFn: func(ctx context.Context, req *officeai.SearchRequest) (*officeai.SearchResult, error) {
				calls++
				return &officeai.SearchResult{Answer: "Press Ctrl+F to freeze everything."}, nil
			},
		}
		searcher := assistant.NewCachedSearcher(provider, store, time.Hour, discardLogger())
		input := "how do i freeze panes in excel\n" + main.CorrectionCode + "\n3\nhow do i freeze panes in excel\nexit\n"
		chat, _ := newChat(t, store, searcher, input)

		err := chat.Run(testContext())

		require.NoError(t, err)
		assert.Equal(t, 2, calls)
	})

	t.Run("learns a correction from a web page", func(t *testing.T) {
		t.Parallel()

		store := setupStore(t)
		searcher := &mock.Searcher{
			SearchFn: func(ctx context.Context, req *officeai.SearchRequest) (*officeai.SearchResult, error) {
				return &officeai.SearchResult{Answer: "Press Ctrl+F to freeze everything."}, nil
			},
		}
		chat, out := newChat(t, store, searcher, "how do i freeze the top row\n"+main.CorrectionCode+"\n2\nhttps://support.example.com/freeze\nexit\n")
		chat.Learner = assistant.NewLearner(store, &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				return learnPage, nil
			},
		}, discardLogger(), goquery.NewTextExtractor())

		err := chat.Run(testContext())

		require.NoError(t, err)
		assert.Contains(t, out.String(), "learned from that page")
		answers, err := store.SearchAnswers(testContext(), "how do i freeze the top row", 0)
		require.NoError(t, err)
		require.Len(t, answers, 1)
		assert.Contains(t, answers[0].Answer, "Freeze Top Row")
	})

	t.Run("recovers from a failing turn", func(t *testing.T) {
		t.Parallel()

		searcher := &mock.Searcher{
			SearchFn: func(ctx context.Context, req *officeai.SearchRequest) (*officeai.SearchResult, error) {
				panic("boom")
			},
		}
		chat, out := newChat(t, setupStore(t), searcher, "how do i freeze panes in excel\nhello\nexit\n")

		err := chat.Run(testContext())

		require.NoError(t, err)
		assert.Contains(t, out.String(), "Something went wrong")
		assert.Contains(t, out.String(), "Goodbye!")
	})

	t.Run("shows the conversation context", func(t *testing.T) {
		t.Parallel()

		chat, out := newChat(t, setupStore(t), nil, "context\nhello\ncontext\nexit\n")

		err := chat.Run(testContext())

		require.NoError(t, err)
		assert.Contains(t, out.String(), "We haven't talked about anything yet.")
		assert.Contains(t, out.String(), "Recent conversation: ")
		assert.Contains(t, out.String(), "hello")
	})

	t.Run("keeps meta questions out of the context", func(t *testing.T) {
		t.Parallel()

		chat, out := newChat(t, setupStore(t), nil, "hello\nwhat did I ask before\ncontext\nexit\n")

		err := chat.Run(testContext())

		require.NoError(t, err)
		assert.Contains(t, out.String(), "Recent conversation: Q: hello")
		assert.NotContains(t, out.String(), "Q: what did I ask before")
	})

	t.Run("shows history and stats", func(t *testing.T) {
		t.Parallel()

		store := setupStore(t)
		addKnowledge(t, store, "what is vlookup", vlookupAnswer)
		chat, out := newChat(t, store, nil, "what is vlookup\ny\nhistory\nstats\nexit\n")

		err := chat.Run(testContext())

		require.NoError(t, err)
		assert.Contains(t, out.String(), "what is vlookup")
		assert.Contains(t, out.String(), "Facts learned:    1")
	})

	t.Run("exports to a timestamped file", func(t *testing.T) {
		t.Parallel()

		store := setupStore(t)
		addKnowledge(t, store, "what is vlookup", vlookupAnswer)
		chat, out := newChat(t, store, nil, "export\nexit\n")
		chat.Now = func() time.Time { return time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC) }

		err := chat.Run(testContext())

		require.NoError(t, err)
		path := filepath.Join(chat.ExportDir, "officeai_backup_20240305_143000.json")
		assert.Contains(t, out.String(), "exported to "+path)
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), vlookupAnswer)
	})
}
