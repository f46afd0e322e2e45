package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/fwojciec/officeai"
	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

const (
	// DefaultModel is the primary model.
	DefaultModel = "gemini-flash-latest"

	// DefaultFallbackModel is tried when the primary model is not found.
	DefaultFallbackModel = "gemini-2.5-flash"
)

// Default provider throttling, sized for the free tier.
const (
	DefaultRate  rate.Limit = 1
	DefaultBurst            = 2
)

// Ensure Searcher implements officeai.Searcher at compile time.
var _ officeai.Searcher = (*Searcher)(nil)

// Models is the subset of the genai client used by Searcher.
// *genai.Models satisfies it.
type Models interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Failure classifies a provider error for the degrade chain.
type Failure int

// Failure classes.
const (
	FailureOther Failure = iota
	FailureQuota
	FailureNotFound
)

func (f Failure) String() string {
	switch f {
	case FailureQuota:
		return "quota"
	case FailureNotFound:
		return "not_found"
	default:
		return "other"
	}
}

// Attempt is one step of the degrade chain. The first attempt always runs;
// later ones run only if the previous attempt failed with class After.
type Attempt struct {
	Model    string
	Grounded bool
	After    Failure
}

// DefaultAttempts returns the standard chain: grounded primary, then
// ungrounded primary on quota exhaustion, then grounded fallback when the
// primary model does not exist.
func DefaultAttempts(model, fallback string) []Attempt {
	return []Attempt{
		{Model: model, Grounded: true},
		{Model: model, Grounded: false, After: FailureQuota},
		{Model: fallback, Grounded: true, After: FailureNotFound},
	}
}

// Searcher answers office questions with Gemini and Google Search grounding.
type Searcher struct {
	models   Models
	attempts []Attempt
	limiter  *rate.Limiter
}

// Option configures a Searcher.
type Option func(*Searcher)

// WithAttempts replaces the degrade chain.
func WithAttempts(attempts ...Attempt) Option {
	return func(s *Searcher) {
		s.attempts = attempts
	}
}

// WithLimiter replaces the provider rate limiter. A nil limiter disables
// throttling.
func WithLimiter(l *rate.Limiter) Option {
	return func(s *Searcher) {
		s.limiter = l
	}
}

// NewSearcher creates a new Searcher. Pass client.Models for a real client.
func NewSearcher(models Models, opts ...Option) *Searcher {
	s := &Searcher{
		models:   models,
		attempts: DefaultAttempts(DefaultModel, DefaultFallbackModel),
		limiter:  rate.NewLimiter(DefaultRate, DefaultBurst),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search runs the degrade chain and returns the first non-empty answer.
// Returns EUNAVAILABLE once the chain is exhausted.
func (s *Searcher) Search(ctx context.Context, req *officeai.SearchRequest) (*officeai.SearchResult, error) {
	if req == nil || strings.TrimSpace(req.Question) == "" {
		return nil, officeai.Errorf(officeai.EINVALID, "question required")
	}

	contents := []*genai.Content{genai.NewContentFromText(BuildPrompt(req), genai.RoleUser)}

	var lastErr error
	var last Failure
	for i, a := range s.attempts {
		if i > 0 && a.After != last {
			continue
		}

		if s.limiter != nil {
			if err := s.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		result, err := s.models.GenerateContent(ctx, a.Model, contents, BuildConfig(a.Grounded))
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			last = Classify(err)
			continue
		}
		if result == nil {
			lastErr = officeai.Errorf(officeai.EINTERNAL, "gemini returned nil result")
			last = FailureOther
			continue
		}

		answer := strings.TrimSpace(result.Text())
		if answer == "" {
			lastErr = officeai.Errorf(officeai.EINTERNAL, "gemini returned an empty answer")
			last = FailureOther
			continue
		}

		return &officeai.SearchResult{Answer: answer, Sources: Sources(result)}, nil
	}

	if lastErr == nil {
		return nil, officeai.Errorf(officeai.EUNAVAILABLE, "no model attempts configured")
	}
	return nil, officeai.Errorf(officeai.EUNAVAILABLE, "web search unavailable: %v", lastErr)
}

// Classify maps a provider error to a failure class.
func Classify(err error) Failure {
	if err == nil {
		return FailureOther
	}

	var apiErr genai.APIError
	var apiErrPtr *genai.APIError
	switch {
	case errors.As(err, &apiErr):
		return classifyAPIError(apiErr.Code, apiErr.Status)
	case errors.As(err, &apiErrPtr) && apiErrPtr != nil:
		return classifyAPIError(apiErrPtr.Code, apiErrPtr.Status)
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "429"), strings.Contains(msg, "RESOURCE_EXHAUSTED"):
		return FailureQuota
	case strings.Contains(msg, "404"), strings.Contains(msg, "NOT_FOUND"):
		return FailureNotFound
	}
	return FailureOther
}

func classifyAPIError(code int, status string) Failure {
	switch {
	case code == http.StatusTooManyRequests, status == "RESOURCE_EXHAUSTED":
		return FailureQuota
	case code == http.StatusNotFound, status == "NOT_FOUND":
		return FailureNotFound
	}
	return FailureOther
}

// BuildConfig returns the GenerateContentConfig for one attempt.
func BuildConfig(grounded bool) *genai.GenerateContentConfig {
	temp := float32(0.4)
	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: "You are a Microsoft Office assistant. Answer the question precisely and concisely, in the language it was asked in. Use live search results when available. Do not add greetings, summaries or closing remarks.",
			}},
		},
		Temperature: &temp,
	}
	if grounded {
		config.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	}
	return config
}

// BuildPrompt builds the user prompt from the question and its keywords.
func BuildPrompt(req *officeai.SearchRequest) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Question: %s\n", req.Question)
	if req.Keywords != "" && req.Keywords != req.Question {
		fmt.Fprintf(&sb, "Search keywords: %s\n", req.Keywords)
	}
	sb.WriteString("Give a direct answer with the steps or facts needed.")
	return sb.String()
}

// Sources returns the grounding citation URIs of the first candidate,
// deduplicated in order.
func Sources(result *genai.GenerateContentResponse) []string {
	if result == nil || len(result.Candidates) == 0 {
		return nil
	}
	meta := result.Candidates[0].GroundingMetadata
	if meta == nil {
		return nil
	}

	var sources []string
	seen := make(map[string]bool)
	for _, chunk := range meta.GroundingChunks {
		if chunk == nil || chunk.Web == nil || chunk.Web.URI == "" {
			continue
		}
		if seen[chunk.Web.URI] {
			continue
		}
		seen[chunk.Web.URI] = true
		sources = append(sources, chunk.Web.URI)
	}
	return sources
}
