// Package suggest is the core: it corrects the typed text, decides whether the user is
// finishing a word or starting a new one, and fuses corrections with model predictions.
package suggest

import "github.com/bastiangx/typeahead/pkg/ngram"

// Predictor supplies next word candidates for a context.
type Predictor interface {
	// PredictNext returns at most topK candidates, best first.
	PredictNext(context []string, topK int) []ngram.Candidate
}

// Corrector fixes single tokens.
type Corrector interface {
	// Correct returns the best guess for token, or token itself.
	Correct(token string) string

	// Candidates returns ranked alternatives, never including token.
	Candidates(token string) []string

	// AddWord makes token known to the corrector.
	AddWord(token string)
}

// Suggestion is one ranked word in a response.
type Suggestion struct {
	Word  string  `json:"word" msgpack:"w"`
	Score float64 `json:"score" msgpack:"s"`
}

// Result is the corrected input and its suggestions, highest score first.
type Result struct {
	Corrected   string       `json:"corrected"`
	Suggestions []Suggestion `json:"suggestions"`
}
