package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/fwojciec/officeai"
	"github.com/fwojciec/officeai/intent"
)

// Source tags how a question was resolved.
type Source string

// Resolution sources.
const (
	SourceConversational Source = "conversational"
	SourceMeta           Source = "meta"
	SourceLocal          Source = "local"
	SourceLocalMulti     Source = "local_multi"
	SourceUnknown        Source = "unknown"

	// SourceGemini is recorded in the session after a web answer.
	SourceGemini Source = "gemini"
)

// Resolution is the outcome of ProcessQuestion. Text is set for single
// answers and Candidates for SourceLocalMulti. SourceUnknown carries neither
// and means the caller should try the web.
type Resolution struct {
	Source     Source
	Text       string
	Candidates []*officeai.ScoredAnswer
}

// ForgetOutcome is the result of ForgetLastInteraction.
type ForgetOutcome int

// Forget outcomes.
const (
	ForgetNothing ForgetOutcome = iota
	ForgetDone
	ForgetFailed
)

// Meta replies.
const (
	MetaJustAsked = "You just asked me that."
	MetaNoHistory = "I don't recall talking about anything before this session."
)

var metaPatterns = []*regexp.Regexp{
	regexp.MustCompile(`what (did|have) i (just )?(ask|asked|say|said)`),
	regexp.MustCompile(`what was my (last|previous) question`),
	regexp.MustCompile(`what were we talking about`),
	regexp.MustCompile(`que te pregunte|cual fue mi ultima|que dije antes|de que hablamos|que pregunte`),
}

// IsMetaQuestion reports whether question asks about earlier conversation.
func IsMetaQuestion(question string) bool {
	s := officeai.FoldAccents(strings.ToLower(question))
	for _, p := range metaPatterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}

// Resolver decides how each question is answered and applies feedback.
// Store and search faults are logged and absorbed; no method returns an error.
type Resolver struct {
	store     officeai.KnowledgeService
	searcher  officeai.Searcher
	intents   *intent.Classifier
	retriever *Retriever
	session   *Session
	cfg       Config
	logger    *slog.Logger
}

// NewResolver creates a Resolver with a fresh session. A nil searcher
// disables the web fallback.
func NewResolver(store officeai.KnowledgeService, searcher officeai.Searcher, cfg Config, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		store:     store,
		searcher:  searcher,
		intents:   intent.NewClassifier(),
		retriever: NewRetriever(store, cfg.FuzzyThreshold),
		session:   NewSession(cfg.ContextTurns),
		cfg:       cfg,
		logger:    logger,
	}
}

// Session returns the resolver's session state.
func (r *Resolver) Session() *Session {
	return r.session
}

// CanSearchWeb reports whether a web fallback is configured.
func (r *Resolver) CanSearchWeb() bool {
	return r.searcher != nil
}

// ProcessQuestion resolves a question from small talk, conversation memory
// or the knowledge base.
func (r *Resolver) ProcessQuestion(ctx context.Context, question string) Resolution {
	if strings.TrimSpace(question) == "" {
		return Resolution{Source: SourceUnknown}
	}

	s := r.session
	s.LastQuestion = question

	if resp, _ := r.intents.Process(question); resp != "" {
		r.setSingle(SourceConversational, resp)
		return Resolution{Source: SourceConversational, Text: resp}
	}

	if IsMetaQuestion(question) {
		text := r.metaAnswer(ctx)
		r.setSingle(SourceMeta, text)
		return Resolution{Source: SourceMeta, Text: text}
	}

	answers, err := r.retriever.FindAnswers(ctx, question)
	if err != nil {
		r.logger.Warn("retrieval failed", "question", question, "err", err)
		answers = nil
	}

	if len(answers) == 0 {
		s.LastSource = SourceUnknown
		return Resolution{Source: SourceUnknown}
	}

	if len(answers) == 1 || answers[0].Score > r.cfg.ConfidenceThreshold {
		answer := answers[0].Answer
		r.setSingle(SourceLocal, answer)
		r.reward(ctx, question, answer, RewardLocalAnswer)
		r.history(ctx, question, answer, officeai.SourceLocal, nil)
		return Resolution{Source: SourceLocal, Text: answer}
	}

	s.LastAnswer = ""
	s.LastCandidates = answers
	s.LastSource = SourceLocalMulti
	return Resolution{Source: SourceLocalMulti, Candidates: answers}
}

// metaAnswer describes the previous question, from session context when
// available and from stored history otherwise.
func (r *Resolver) metaAnswer(ctx context.Context) string {
	turns := r.session.Context()

	if len(turns) > 0 {
		idx := len(turns) - 1
		if turns[idx].Question == r.session.LastQuestion {
			if idx == 0 {
				return MetaJustAsked
			}
			idx--
		}

		target := turns[idx]
		text := fmt.Sprintf("Your last question was: %q. And I answered: %s...", target.Question, clip(target.Answer, 50))
		if idx > 0 {
			text += fmt.Sprintf(" Before that you asked: %q.", turns[idx-1].Question)
		}
		return text
	}

	entries, err := r.store.FindHistory(ctx, 2)
	if err != nil {
		r.logger.Warn("history lookup failed", "err", err)
		return MetaNoHistory
	}
	if len(entries) > 1 {
		return fmt.Sprintf("Earlier you asked me: %q.", entries[1].Question)
	}
	return MetaNoHistory
}

// SearchWeb asks the web fallback. On success the answer is optionally
// saved to the knowledge base and logged to history.
func (r *Resolver) SearchWeb(ctx context.Context, question string) (answer string, sources []string, ok bool) {
	if r.searcher == nil || strings.TrimSpace(question) == "" {
		return "", nil, false
	}

	req := &officeai.SearchRequest{
		Question: question,
		Keywords: intent.RefineQuery(question),
	}
	result, err := r.search(ctx, req)
	if err != nil {
		r.logger.Warn("web search failed", "question", question, "err", err)
		return "", nil, false
	}
	if result == nil || strings.TrimSpace(result.Answer) == "" {
		return "", nil, false
	}

	r.setSingle(SourceGemini, result.Answer)
	r.session.LastCacheKey = CacheKey(req)

	if r.cfg.AutoSave {
		id, err := r.store.AddKnowledge(ctx, question, result.Answer, officeai.ClassifyTopic(question))
		if err != nil {
			r.logger.Warn("saving web answer failed", "question", question, "err", err)
		} else {
			r.session.LastLearnedID = id
			r.reward(ctx, question, result.Answer, RewardWebAnswer)
		}
	}

	r.history(ctx, question, result.Answer, officeai.SourceGeminiSearch, nil)
	return result.Answer, result.Sources, true
}

// search bounds the searcher call by SearchTimeout. Persistence afterwards
// runs on the caller's context.
func (r *Resolver) search(ctx context.Context, req *officeai.SearchRequest) (*officeai.SearchResult, error) {
	if r.cfg.SearchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.SearchTimeout)
		defer cancel()
	}
	return r.searcher.Search(ctx, req)
}

// HandleUserCorrection stores correct as the answer to question, penalizing
// the previous single answer. An empty question means the last question.
// Returns false if there is no question to correct.
func (r *Resolver) HandleUserCorrection(ctx context.Context, correct, question string) bool {
	if question == "" {
		question = r.session.LastQuestion
	}
	if question == "" || strings.TrimSpace(correct) == "" {
		return false
	}

	if _, err := r.store.AddKnowledge(ctx, question, correct, officeai.ClassifyTopic(question)); err != nil {
		r.logger.Warn("saving correction failed", "question", question, "err", err)
		return false
	}

	if prev := r.session.LastAnswer; prev != "" && r.session.LastCandidates == nil {
		r.reward(ctx, question, prev, PenaltyCorrected)
		r.recordSelection(ctx, question, prev, false)
	}
	r.reward(ctx, question, correct, RewardCorrection)
	r.history(ctx, question, correct, officeai.SourceUserCorrection, boolRef(true))
	return true
}

// HandleAnswerSelection applies the user's verdict on a candidate chosen
// from a disambiguation list.
func (r *Resolver) HandleAnswerSelection(ctx context.Context, question, answer string, correct bool) {
	delta := PenaltySelectedWrong
	if correct {
		delta = RewardSelectedCorrect
	}
	r.reward(ctx, question, answer, delta)
	r.recordSelection(ctx, question, answer, correct)
	r.history(ctx, question, answer, officeai.SourceLocal, boolRef(correct))
}

// ConfirmAnswer records that a single answer was correct.
func (r *Resolver) ConfirmAnswer(ctx context.Context, question, answer string) {
	r.reward(ctx, question, answer, RewardConfirmed)
	r.recordSelection(ctx, question, answer, true)
}

// AddAlternativeAnswer stores another valid answer without disputing the
// existing ones.
func (r *Resolver) AddAlternativeAnswer(ctx context.Context, question, answer string) {
	if _, err := r.store.AddKnowledge(ctx, question, answer, officeai.ClassifyTopic(question)); err != nil {
		r.logger.Warn("saving alternative failed", "question", question, "err", err)
		return
	}
	r.reward(ctx, question, answer, RewardAlternative)
	r.history(ctx, question, answer, officeai.SourceUserAlternative, nil)
}

// ForgetLastInteraction deletes the knowledge saved by the last web answer,
// drops its web cache entry and pops the latest turn from the context.
func (r *Resolver) ForgetLastInteraction(ctx context.Context) (ForgetOutcome, string) {
	s := r.session
	if s.LastLearnedID == "" {
		return ForgetNothing, "I have nothing recent to forget."
	}

	if err := r.store.DeleteKnowledge(ctx, s.LastLearnedID); err != nil {
		r.logger.Warn("forget failed", "id", s.LastLearnedID, "err", err)
		return ForgetFailed, "Something went wrong while forgetting the last answer."
	}

	if s.LastCacheKey != "" {
		if err := r.store.DeleteCachedResults(ctx, s.LastCacheKey); err != nil {
			r.logger.Warn("dropping cached answer failed", "query", s.LastCacheKey, "err", err)
		}
	}

	s.LastLearnedID = ""
	s.LastCacheKey = ""
	s.popContext()
	return ForgetDone, "Understood. I have forgotten the last learned answer."
}

// AddToContext records a completed turn.
func (r *Resolver) AddToContext(question, answer string) {
	r.session.AddToContext(question, answer)
}

// SkipFeedback stops feedback prompts for question.
func (r *Resolver) SkipFeedback(question string) {
	r.session.SkipFeedback(question)
}

// ShouldAskFeedback reports whether to prompt for feedback on question.
func (r *Resolver) ShouldAskFeedback(question string) bool {
	return r.session.ShouldAskFeedback(question)
}

// ContextSummary renders the recent turns.
func (r *Resolver) ContextSummary() string {
	return r.session.ContextSummary()
}

func (r *Resolver) setSingle(source Source, text string) {
	r.session.LastSource = source
	r.session.LastAnswer = text
	r.session.LastCandidates = nil
}

func (r *Resolver) reward(ctx context.Context, question, answer string, delta float64) {
	if err := r.store.UpdateScore(ctx, question, answer, delta); err != nil {
		r.logger.Warn("score update failed", "question", question, "delta", delta, "err", err)
	}
}

func (r *Resolver) recordSelection(ctx context.Context, question, answer string, correct bool) {
	if err := r.store.RecordSelection(ctx, question, answer, correct); err != nil {
		r.logger.Warn("selection update failed", "question", question, "err", err)
	}
}

func (r *Resolver) history(ctx context.Context, question, answer string, source officeai.Source, correct *bool) {
	err := r.store.AddHistory(ctx, &officeai.HistoryEntry{
		Question:   question,
		Answer:     answer,
		Source:     source,
		WasCorrect: correct,
	})
	if err != nil {
		r.logger.Warn("history append failed", "question", question, "err", err)
	}
}

func boolRef(b bool) *bool {
	return &b
}
