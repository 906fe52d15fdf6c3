// Package ngram holds the unigram, bigram and trigram frequency tables, trains them
// from a corpus and predicts the next word with trigram to bigram to unigram backoff.
package ngram

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"github.com/bastiangx/typeahead/internal/utils"
	"github.com/charmbracelet/log"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Order is the longest sequence the model counts.
const Order = 3

// DefaultCacheSize is the number of memoized predictions kept per model.
const DefaultCacheSize = 1024

// Candidate is one predicted word. Scores only rank candidates within one response.
type Candidate struct {
	Word  string  `json:"word" msgpack:"w"`
	Score float64 `json:"score" msgpack:"s"`
}

// Weights scale each backoff stage. Defaults keep trigram > bigram > unigram.
type Weights struct {
	Trigram float64 `toml:"trigram"`
	Bigram  float64 `toml:"bigram"`
	Unigram float64 `toml:"unigram"`
}

// DefaultWeights returns 100/10/1.
func DefaultWeights() Weights {
	return Weights{Trigram: 100, Bigram: 10, Unigram: 1}
}

// Model owns the three tables. Tables are written only by Train and Load;
// predictions take the read lock.
type Model struct {
	Order    int
	Unigrams FrequencyTable
	Bigrams  FrequencyTable
	Trigrams FrequencyTable

	weights Weights
	mu      sync.RWMutex
	idx     *index
	cache   *lru.Cache[string, []Candidate]
}

// Option configures a Model.
type Option func(*Model)

// WithWeights overrides the backoff weights.
func WithWeights(w Weights) Option {
	return func(m *Model) { m.weights = w }
}

// WithCacheSize sets the prediction cache size. Zero or less disables the cache.
func WithCacheSize(n int) Option {
	return func(m *Model) {
		if n <= 0 {
			m.cache = nil
			return
		}
		cache, err := lru.New[string, []Candidate](n)
		if err != nil {
			log.Warnf("Prediction cache disabled: %v", err)
			m.cache = nil
			return
		}
		m.cache = cache
	}
}

// NewModel creates an empty model.
func NewModel(opts ...Option) *Model {
	m := &Model{
		Order:    Order,
		Unigrams: FrequencyTable{},
		Bigrams:  FrequencyTable{},
		Trigrams: FrequencyTable{},
		weights:  DefaultWeights(),
	}
	WithCacheSize(DefaultCacheSize)(m)
	for _, opt := range opts {
		opt(m)
	}
	m.idx = buildIndex(m.Unigrams, m.Bigrams, m.Trigrams)
	return m
}

// Weights returns the backoff weights in use.
func (m *Model) Weights() Weights {
	return m.weights
}

// Train replaces the tables with counts from r, one sentence per line.
// Lines that normalize to nothing are skipped. Context never crosses lines.
func (m *Model) Train(r io.Reader) error {
	uni, bi, tri := FrequencyTable{}, FrequencyTable{}, FrequencyTable{}
	reader := bufio.NewReader(r)
	lines := 0

	for {
		line, err := reader.ReadString('\n')
		if line != "" {
			lines++
			countLine(utils.Tokens(line), uni, bi, tri)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("read corpus: %w", err)
		}
	}

	m.replace(uni, bi, tri)
	log.Debugf("Trained on %d lines: %d unigrams, %d bigrams, %d trigrams",
		lines, len(uni), len(bi), len(tri))
	return nil
}

// TrainFile trains from the corpus at path.
func (m *Model) TrainFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open corpus: %w", err)
	}
	defer f.Close()
	return m.Train(f)
}

func countLine(tokens []string, uni, bi, tri FrequencyTable) {
	for i, tok := range tokens {
		uni.Add(tok)
		if i >= 1 {
			bi.Add(tokens[i-1], tok)
		}
		if i >= 2 {
			tri.Add(tokens[i-2], tokens[i-1], tok)
		}
	}
}

// replace swaps in new tables, rebuilds the index and drops memoized predictions.
func (m *Model) replace(uni, bi, tri FrequencyTable) {
	idx := buildIndex(uni, bi, tri)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.Unigrams, m.Bigrams, m.Trigrams = uni, bi, tri
	m.idx = idx
	if m.cache != nil {
		m.cache.Purge()
	}
}

// PredictNext ranks likely next words after context.
//
// Trigram successors of the last two tokens come first, scaled by the trigram
// weight. Bigram successors of the last token are added when there are fewer
// than topK*3 candidates, summing with any trigram score. The most frequent
// unigrams fill in when fewer than topK remain, without overwriting.
// Ties are broken by word.
func (m *Model) PredictNext(context []string, topK int) []Candidate {
	if topK <= 0 {
		return []Candidate{}
	}
	if len(context) > 2 {
		context = context[len(context)-2:]
	}
	key := fmt.Sprintf("%d|%s", topK, Key(context...))
	if m.cache != nil {
		if cached, ok := m.cache.Get(key); ok {
			return append([]Candidate(nil), cached...)
		}
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	scores := make(map[string]float64)
	if len(context) >= 2 {
		matches, sum := successors(m.idx.trigrams, Key(context...))
		for _, e := range matches {
			scores[e.word] = float64(e.count) / float64(sum) * m.weights.Trigram
		}
	}
	if len(scores)/3 < topK && len(context) >= 1 {
		matches, sum := successors(m.idx.bigrams, context[len(context)-1])
		for _, e := range matches {
			scores[e.word] += float64(e.count) / float64(sum) * m.weights.Bigram
		}
	}
	if len(scores) < topK && m.idx.total > 0 {
		// topK*5 reaches the whole list once topK passes its length.
		for _, e := range m.idx.topUnigrams(min(topK, len(m.idx.unigrams)) * 5) {
			if _, ok := scores[e.word]; ok {
				continue
			}
			scores[e.word] = float64(e.count) / float64(m.idx.total) * m.weights.Unigram
		}
	}

	ranked := Rank(scores, topK)
	if m.cache != nil {
		m.cache.Add(key, append([]Candidate(nil), ranked...))
	}
	return ranked
}

// Rank sorts scores descending with ties broken by word and keeps at most topK.
func Rank(scores map[string]float64, topK int) []Candidate {
	out := make([]Candidate, 0, len(scores))
	for w, s := range scores {
		out = append(out, Candidate{Word: w, Score: s})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Word < out[j].Word
	})
	if topK >= 0 && len(out) > topK {
		out = out[:topK]
	}
	return out
}

// UnigramCounts returns a copy of the unigram table.
func (m *Model) UnigramCounts() map[string]int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.Unigrams.clone()
}

// Empty reports whether the model has no counts at all.
func (m *Model) Empty() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.Unigrams) == 0
}

// Stats returns table sizes for health reporting.
func (m *Model) Stats() map[string]int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := map[string]int{
		"unigrams":   len(m.Unigrams),
		"bigrams":    len(m.Bigrams),
		"trigrams":   len(m.Trigrams),
		"tokens":     m.idx.total,
		"vocabulary": len(m.Unigrams),
		"order":      m.Order,
	}
	if m.cache != nil {
		stats["cache_entries"] = m.cache.Len()
	}
	return stats
}

// String is a short summary used in debug logs.
func (m *Model) String() string {
	s := m.Stats()
	return fmt.Sprintf("ngram model: %s unigrams, %s bigrams, %s trigrams",
		utils.FormatWithCommas(s["unigrams"]),
		utils.FormatWithCommas(s["bigrams"]),
		utils.FormatWithCommas(s["trigrams"]))
}
