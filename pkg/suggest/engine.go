package suggest

import (
	"errors"
	"strings"

	"github.com/bastiangx/typeahead/internal/utils"
	"github.com/bastiangx/typeahead/pkg/ngram"
	"github.com/charmbracelet/log"
)

// ErrNotInitialized is returned when the engine was built without a model.
var ErrNotInitialized = errors.New("suggest: engine has no model")

// Weights control how corrections and completions are fused in partial word mode.
type Weights struct {
	BestCorrection        float64 `toml:"best_correction"`
	AlternativeCorrection float64 `toml:"alternative_correction"`
	CompletionBonus       float64 `toml:"completion_bonus"`
	// CompletionPool is how many predictions are searched for completions.
	CompletionPool int `toml:"completion_pool"`
	// MaxAlternatives caps the corrector alternatives added to the list. Only
	// words not already scored count, so a candidate equal to the best
	// correction is skipped without using a slot and up to MaxAlternatives
	// new words are still added.
	MaxAlternatives int `toml:"max_alternatives"`
}

// DefaultWeights returns 50 for the best correction, 20 for alternatives and a
// completion bonus of 10 over a pool of 100 predictions.
func DefaultWeights() Weights {
	return Weights{
		BestCorrection:        50,
		AlternativeCorrection: 20,
		CompletionBonus:       10,
		CompletionPool:        100,
		MaxAlternatives:       3,
	}
}

// Engine answers suggestion requests. It holds no per request state, so one engine
// serves any number of goroutines as long as its model and corrector do.
type Engine struct {
	model     Predictor
	corrector Corrector
	weights   Weights
}

// NewEngine wires a model and a corrector. A nil model makes every request fail with
// ErrNotInitialized; a nil corrector leaves words as typed.
func NewEngine(model Predictor, corrector Corrector, weights Weights) *Engine {
	if corrector == nil {
		corrector = passthrough{}
	}
	return &Engine{model: model, corrector: corrector, weights: weights}
}

// Ready reports whether the engine has a model.
func (e *Engine) Ready() bool {
	return e != nil && e.model != nil
}

// GetSuggestions corrects text and returns at most topK suggestions.
//
// Text ending in whitespace, or correcting to nothing, asks the model for the next
// word. Otherwise the last token is a partial word: its correction, the corrector
// alternatives and model predictions starting with it are merged into one list.
func (e *Engine) GetSuggestions(text string, topK int) (Result, error) {
	if !e.Ready() {
		return Result{}, ErrNotInitialized
	}

	corrected := CorrectSentence(text, e.corrector)
	result := Result{Corrected: corrected, Suggestions: []Suggestion{}}
	if topK <= 0 {
		return result, nil
	}

	tokens := utils.Tokens(corrected)
	if utils.EndsWithSpace(text) || len(tokens) == 0 {
		log.Debugf("new word after %q", tokens)
		result.Suggestions = fromCandidates(e.model.PredictNext(tokens, topK))
		return result, nil
	}

	partial := tokens[len(tokens)-1]
	context := tokens[:len(tokens)-1]
	log.Debugf("partial word %q after %q", partial, context)
	result.Suggestions = fromCandidates(ngram.Rank(e.fuse(partial, context), topK))
	return result, nil
}

func (e *Engine) fuse(partial string, context []string) map[string]float64 {
	scores := make(map[string]float64)

	if best := e.corrector.Correct(partial); best != partial {
		scores[best] = e.weights.BestCorrection
	}

	added := 0
	for _, alt := range e.corrector.Candidates(partial) {
		if added >= e.weights.MaxAlternatives {
			break
		}
		if _, ok := scores[alt]; ok || alt == partial {
			continue
		}
		scores[alt] = e.weights.AlternativeCorrection
		added++
	}

	for _, c := range e.model.PredictNext(context, e.weights.CompletionPool) {
		if c.Word == partial || !strings.HasPrefix(c.Word, partial) {
			continue
		}
		score := c.Score + e.weights.CompletionBonus
		if existing, ok := scores[c.Word]; !ok || score > existing {
			scores[c.Word] = score
		}
	}
	return scores
}

// AddWord adds word to the corrector vocabulary.
func (e *Engine) AddWord(word string) {
	e.corrector.AddWord(word)
}

// Stats merges the model and corrector statistics that are available.
func (e *Engine) Stats() map[string]int {
	stats := map[string]int{}
	if s, ok := e.model.(interface{ Stats() map[string]int }); ok {
		for k, v := range s.Stats() {
			stats[k] = v
		}
	}
	if s, ok := e.corrector.(interface{ Size() int }); ok {
		stats["corrector_words"] = s.Size()
	}
	return stats
}

func fromCandidates(cands []ngram.Candidate) []Suggestion {
	out := make([]Suggestion, len(cands))
	for i, c := range cands {
		out[i] = Suggestion{Word: c.Word, Score: c.Score}
	}
	return out
}

type passthrough struct{}

func (passthrough) Correct(token string) string     { return token }
func (passthrough) Candidates(token string) []string { return []string{} }
func (passthrough) AddWord(string)                   {}
