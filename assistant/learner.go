package assistant

import (
	"context"
	"log/slog"
	"strings"

	"github.com/fwojciec/officeai"
)

const (
	// MinLearnedText is the least extracted text a page must yield.
	MinLearnedText = 100

	// MaxSynthesisLength caps the text stored from a page.
	MaxSynthesisLength = 600
)

// Learner turns a user-supplied web page into an answer for a question.
type Learner struct {
	store      officeai.KnowledgeService
	fetcher    officeai.Fetcher
	extractors []officeai.TextExtractor
	logger     *slog.Logger
}

// NewLearner creates a Learner. Extractors are tried in order; the first one
// yielding enough text wins.
func NewLearner(store officeai.KnowledgeService, fetcher officeai.Fetcher, logger *slog.Logger, extractors ...officeai.TextExtractor) *Learner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Learner{
		store:      store,
		fetcher:    fetcher,
		extractors: extractors,
		logger:     logger,
	}
}

// LearnFromURL fetches url and stores its text as the answer to question.
// Returns false, with nothing persisted, if the page cannot be fetched or
// yields too little text.
func (l *Learner) LearnFromURL(ctx context.Context, question, url string) bool {
	if strings.TrimSpace(question) == "" || strings.TrimSpace(url) == "" {
		return false
	}

	html, err := l.fetcher.Fetch(ctx, url)
	if err != nil {
		l.logger.Warn("fetch failed", "url", url, "err", err)
		return false
	}

	text := l.extract(html)
	if len([]rune(text)) < MinLearnedText {
		l.logger.Warn("not enough text extracted", "url", url, "chars", len([]rune(text)))
		return false
	}
	text = clip(text, MaxSynthesisLength)

	if _, err := l.store.AddKnowledge(ctx, question, text, officeai.ClassifyTopic(question)); err != nil {
		l.logger.Warn("saving learned answer failed", "url", url, "err", err)
		return false
	}
	if err := l.store.UpdateScore(ctx, question, text, RewardLearnedFromURL); err != nil {
		l.logger.Warn("score update failed", "url", url, "err", err)
	}
	correct := true
	if err := l.store.AddHistory(ctx, &officeai.HistoryEntry{
		Question:   question,
		Answer:     text,
		Source:     officeai.SourceUserURLCorrection,
		WasCorrect: &correct,
	}); err != nil {
		l.logger.Warn("history append failed", "url", url, "err", err)
	}

	return true
}

// extract returns the first extractor output long enough to learn from, or
// the longest output seen.
func (l *Learner) extract(html string) string {
	var best string
	for _, e := range l.extractors {
		result, err := e.Extract(html)
		if err != nil {
			l.logger.Debug("extractor failed", "err", err)
			continue
		}
		text := officeai.LongLines(result.Text, officeai.MinLineLength)
		if len([]rune(text)) >= MinLearnedText {
			return text
		}
		if len(text) > len(best) {
			best = text
		}
	}
	return best
}
