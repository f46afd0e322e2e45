package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/officeai"
	"github.com/fwojciec/officeai/assistant"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdin     io.Reader
	Stdout    io.Writer
	Stderr    io.Writer
	DataDir   string
	Logger    *slog.Logger
	Knowledge officeai.KnowledgeService
	Resolver  *assistant.Resolver
	Learner   *assistant.Learner
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	DB            string        `name:"db" env:"OFFICEAI_DB" help:"Database path (default ~/.officeai/officeai.db)"`
	APIKey        string        `name:"api-key" env:"GEMINI_API_KEY" help:"Gemini API key; web search is disabled without one"`
	Model         string        `env:"OFFICEAI_MODEL" default:"gemini-flash-latest" help:"Primary Gemini model"`
	FallbackModel string        `default:"gemini-2.5-flash" help:"Model tried when the primary model is not found"`
	Timeout       time.Duration `default:"8s" help:"Web search timeout"`
	NoAutoSave    bool          `help:"Do not save web answers to the knowledge base"`
	ContextTurns  int           `default:"5" help:"Conversation turns kept in context"`
	CacheTTL      time.Duration `name:"cache-ttl" default:"24h" help:"How long web answers are cached"`
	LogLevel      string        `env:"LOG_LEVEL" default:"info" help:"Log level (debug, info, warn, error)"`
	LogStderr     bool          `help:"Log to stderr instead of the log file"`

	Chat    ChatCmd    `cmd:"" default:"1" help:"Chat with the assistant (default)"`
	Ask     AskCmd     `cmd:"" help:"Answer a single question"`
	History HistoryCmd `cmd:"" help:"Show recent interactions"`
	Stats   StatsCmd   `cmd:"" help:"Show knowledge base statistics"`
	Export  ExportCmd  `cmd:"" help:"Export the knowledge base as JSON"`
	Learn   LearnCmd   `cmd:"" help:"Learn the answer to a question from a web page"`
}

// ChatCmd is the "chat" subcommand.
type ChatCmd struct{}

// AskCmd is the "ask" subcommand.
type AskCmd struct {
	Question []string `arg:"" help:"Question to ask"`
}

// HistoryCmd is the "history" subcommand.
type HistoryCmd struct {
	Limit int `short:"n" default:"10" help:"Number of entries to show"`
}

// StatsCmd is the "stats" subcommand.
type StatsCmd struct{}

// ExportCmd is the "export" subcommand.
type ExportCmd struct {
	Path string `arg:"" optional:"" help:"Output file (default stdout)"`
}

// LearnCmd is the "learn" subcommand.
type LearnCmd struct {
	URL      string `arg:"" help:"Page to learn from"`
	Question string `short:"q" required:"" help:"Question the page answers"`
}
