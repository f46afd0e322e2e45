package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/officeai"
	"github.com/fwojciec/officeai/assistant"
	"github.com/fwojciec/officeai/gemini"
	"github.com/fwojciec/officeai/goquery"
	"github.com/fwojciec/officeai/htmltomarkdown"
	officeaihttp "github.com/fwojciec/officeai/http"
	officeaislog "github.com/fwojciec/officeai/slog"
	"github.com/fwojciec/officeai/sqlite"
	"github.com/fwojciec/officeai/trafilatura"
	"github.com/joho/godotenv"
	"google.golang.org/genai"
)

func main() {
	ctx := context.Background()

	// A missing .env file is fine; the environment may already be set.
	_ = godotenv.Load()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run(); --db overrides it.
	DBPath string

	// Input for the interactive chat.
	Stdin io.Reader

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing. When Searcher or Fetcher is set it is
	// used instead of the real Gemini client or HTTP fetcher.
	Knowledge officeai.KnowledgeService
	Searcher  officeai.Searcher
	Fetcher   officeai.Fetcher

	logFile *os.File
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
		Stdin:  os.Stdin,
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.logFile != nil {
		_ = m.logFile.Close()
		m.logFile = nil
	}
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdin:  m.Stdin,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("officeai"),
		kong.Description("A Microsoft Office help assistant that learns from feedback"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 1 && (args[0] == "help" || args[0] == "--help" || args[0] == "-h") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	if cli.DB != "" {
		m.DBPath = cli.DB
	}

	logger, err := m.openLogger(cli.LogLevel, cli.LogStderr, stderr)
	if err != nil {
		return err
	}
	defer m.Close()

	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set OFFICEAI_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}

	store := sqlite.NewKnowledgeService(m.DB)
	n, err := store.Seed(ctx, officeai.InitialKnowledge)
	if err != nil {
		return fmt.Errorf("failed to seed knowledge base: %w", err)
	}
	if n > 0 {
		logger.Info("seeded knowledge base", "facts", n)
	}
	m.Knowledge = officeaislog.NewLoggingKnowledgeService(store, logger)

	searcher, err := m.searcher(ctx, cli, logger)
	if err != nil {
		fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
		return fmt.Errorf("failed to connect to Gemini API: %w", err)
	}

	fetcher := m.Fetcher
	if fetcher == nil {
		fetcher = officeaihttp.NewRetryFetcher(officeaihttp.NewFetcher(), logger)
	}
	fetcher = officeaislog.NewLoggingFetcher(fetcher, logger)
	defer fetcher.Close()

	cfg := assistant.DefaultConfig()
	cfg.AutoSave = !cli.NoAutoSave
	cfg.ContextTurns = cli.ContextTurns
	cfg.SearchTimeout = cli.Timeout

	deps.DataDir = filepath.Dir(m.DBPath)
	deps.Logger = logger
	deps.Knowledge = m.Knowledge
	deps.Resolver = assistant.NewResolver(m.Knowledge, searcher, cfg, logger)
	deps.Learner = assistant.NewLearner(m.Knowledge, fetcher, logger,
		goquery.NewTextExtractor(),
		trafilatura.NewTextExtractor(htmltomarkdown.NewConverter()),
	)

	return kongCtx.Run(deps)
}

// searcher builds the web fallback: the Gemini searcher wrapped with logging
// and the store-backed cache. It returns nil when no API key is configured.
func (m *Main) searcher(ctx context.Context, cli *CLI, logger *slog.Logger) (officeai.Searcher, error) {
	next := m.Searcher
	if next == nil {
		if cli.APIKey == "" {
			logger.Info("GEMINI_API_KEY not set, web search disabled")
			return nil, nil
		}

		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cli.APIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, err
		}
		next = gemini.NewSearcher(client.Models,
			gemini.WithAttempts(gemini.DefaultAttempts(cli.Model, cli.FallbackModel)...),
		)
	}

	next = officeaislog.NewLoggingSearcher(next, logger)
	return assistant.NewCachedSearcher(next, m.Knowledge, cli.CacheTTL, logger), nil
}

// openLogger sends logs to a file next to the database, or to stderr.
func (m *Main) openLogger(level string, toStderr bool, stderr io.Writer) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, officeai.Errorf(officeai.EINVALID, "invalid log level %q", level)
	}

	var w io.Writer = stderr
	if !toStderr && m.DBPath != ":memory:" {
		dir := filepath.Dir(m.DBPath)
		_ = os.MkdirAll(dir, 0755)
		path := filepath.Join(dir, "officeai.log")
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %q: %w", path, err)
		}
		m.logFile = f
		w = f
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "officeai.db"
	}
	dir := filepath.Join(home, ".officeai")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "officeai.db")
}
