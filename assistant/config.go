// Package assistant resolves user questions against the knowledge base,
// the web search fallback and the current conversation, and feeds user
// feedback back into answer scores.
package assistant

import "time"

// Score rewards applied on feedback events.
const (
	RewardLocalAnswer     = 0.5
	RewardWebAnswer       = 1.5
	RewardCorrection      = 2.0
	PenaltyCorrected      = -2.0
	RewardSelectedCorrect = 1.5
	PenaltySelectedWrong  = -0.5
	RewardAlternative     = 1.0
	RewardConfirmed       = 2.0
	RewardLearnedFromURL  = 2.0
)

// Config holds resolver tunables.
type Config struct {
	// ConfidenceThreshold is the score above which the best of several
	// candidates is answered directly instead of asking the user to pick.
	ConfidenceThreshold float64

	// ContextTurns is the number of recent turns kept in the session.
	ContextTurns int

	// FuzzyThreshold is the minimum token-set similarity for a stored
	// question to be considered a match.
	FuzzyThreshold float64

	// AutoSave stores web answers in the knowledge base.
	AutoSave bool

	// SearchTimeout bounds a single web search. Zero means no timeout.
	SearchTimeout time.Duration
}

// DefaultConfig returns the standard resolver configuration.
func DefaultConfig() Config {
	return Config{
		ConfidenceThreshold: 5.0,
		ContextTurns:        5,
		FuzzyThreshold:      0.7,
		AutoSave:            true,
		SearchTimeout:       8 * time.Second,
	}
}
