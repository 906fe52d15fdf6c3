// Package spell corrects single tokens against a known vocabulary by edit distance.
package spell

import (
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/bastiangx/typeahead/internal/utils"
	"github.com/charmbracelet/log"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/hbollon/go-edlib"
	"github.com/sajari/fuzzy"
)

// Options tune candidate generation.
type Options struct {
	// Depth is the largest edit distance a candidate may have.
	Depth int `toml:"depth"`
	// MinLength is the shortest token that gets corrected.
	MinLength int `toml:"min_length"`
	// MaxCandidates caps Candidates. Zero means no cap.
	MaxCandidates int `toml:"max_candidates"`
	// Exhaustive makes the fuzzy model search every edit instead of stopping at the first hit.
	Exhaustive bool `toml:"exhaustive"`
}

// DefaultOptions returns depth 2, min length 2, 10 candidates, exhaustive search.
func DefaultOptions() Options {
	return Options{Depth: 2, MinLength: 2, MaxCandidates: 10, Exhaustive: true}
}

// Corrector suggests known words close to a typed token.
// The fuzzy model generates candidates; ranking is by OSA distance, then frequency, then word.
type Corrector struct {
	mu    sync.RWMutex
	model *fuzzy.Model
	freq  map[string]int
	opts  Options
}

// New creates an empty corrector.
func New(opts Options) *Corrector {
	if opts.Depth <= 0 {
		opts.Depth = DefaultOptions().Depth
	}
	model := fuzzy.NewModel()
	// threshold must be set before training, suggest keys are only built when a count reaches it
	model.SetThreshold(1)
	model.SetDepth(opts.Depth)
	model.SetUseAutocomplete(false)

	return &Corrector{
		model: model,
		freq:  make(map[string]int),
		opts:  opts,
	}
}

// Seed adds counts for many words at once.
func (c *Corrector) Seed(counts map[string]int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	added := 0
	for word, n := range counts {
		word = strings.ToLower(strings.TrimSpace(word))
		if word == "" || n <= 0 {
			continue
		}
		if c.freq[word] == 0 {
			c.model.TrainWord(word)
			added++
		}
		c.freq[word] += n
	}
	log.Debugf("Corrector seeded with %d new words, %d known", added, len(c.freq))
}

// AddWord makes word known, or bumps its count when it already is.
func (c *Corrector) AddWord(word string) {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.freq[word] == 0 {
		c.model.TrainWord(word)
	}
	c.freq[word]++
}

// Known reports whether word is in the vocabulary, ignoring case.
func (c *Corrector) Known(word string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.freq[strings.ToLower(word)] > 0
}

// Size returns the vocabulary size.
func (c *Corrector) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.freq)
}

// Correct returns the best known replacement for token, keeping its capitalization.
// Short tokens, known tokens and tokens with no candidate are returned unchanged.
func (c *Corrector) Correct(token string) string {
	if utf8.RuneCountInString(token) < c.opts.MinLength {
		return token
	}
	lower := strings.ToLower(token)

	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.freq[lower] > 0 {
		return token
	}
	ranked := c.rank(lower)
	if len(ranked) == 0 {
		return token
	}
	return utils.ApplyCapitalization(ranked[0], utils.CapitalPositions(token))
}

// Candidates lists lowercase alternatives for token, best first. It never contains the token.
func (c *Corrector) Candidates(token string) []string {
	if utf8.RuneCountInString(token) < c.opts.MinLength {
		return []string{}
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	ranked := c.rank(strings.ToLower(token))
	if c.opts.MaxCandidates > 0 && len(ranked) > c.opts.MaxCandidates {
		ranked = ranked[:c.opts.MaxCandidates]
	}
	return ranked
}

type scored struct {
	word     string
	distance int
	freq     int
}

// rank must be called with the read lock held.
func (c *Corrector) rank(lower string) []string {
	seen := mapset.NewThreadUnsafeSet[string]()
	var found []scored
	for _, s := range c.model.Suggestions(lower, c.opts.Exhaustive) {
		if s == lower || seen.Contains(s) {
			continue
		}
		seen.Add(s)
		d := edlib.OSADamerauLevenshteinDistance(lower, s)
		if d > c.opts.Depth {
			continue
		}
		found = append(found, scored{word: s, distance: d, freq: c.freq[s]})
	}

	sort.Slice(found, func(i, j int) bool {
		a, b := found[i], found[j]
		if a.distance != b.distance {
			return a.distance < b.distance
		}
		if a.freq != b.freq {
			return a.freq > b.freq
		}
		return a.word < b.word
	})

	out := make([]string, len(found))
	for i, s := range found {
		out[i] = s.word
	}
	return out
}
