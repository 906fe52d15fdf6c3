package ngram

import (
	"sort"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

type entry struct {
	word  string
	count int
}

// index is derived from the tables after every Train or Load and never persisted.
// The tries are keyed by the full n-gram key, so the successors of a context are
// the subtree under "context ".
type index struct {
	bigrams  *patricia.Trie
	trigrams *patricia.Trie
	unigrams []entry
	total    int
}

func buildIndex(uni, bi, tri FrequencyTable) *index {
	idx := &index{
		bigrams:  patricia.NewTrie(),
		trigrams: patricia.NewTrie(),
		unigrams: make([]entry, 0, len(uni)),
	}
	for k, c := range bi {
		idx.bigrams.Insert(patricia.Prefix(k), c)
	}
	for k, c := range tri {
		idx.trigrams.Insert(patricia.Prefix(k), c)
	}
	for w, c := range uni {
		idx.unigrams = append(idx.unigrams, entry{word: w, count: c})
		idx.total += c
	}
	sort.Slice(idx.unigrams, func(i, j int) bool {
		a, b := idx.unigrams[i], idx.unigrams[j]
		if a.count != b.count {
			return a.count > b.count
		}
		return a.word < b.word
	})
	return idx
}

// successors lists the words that follow context in trie, with the sum of their counts.
func successors(trie *patricia.Trie, context string) ([]entry, int) {
	prefix := context + " "
	var out []entry
	sum := 0
	err := trie.VisitSubtree(patricia.Prefix(prefix), func(p patricia.Prefix, item patricia.Item) error {
		word := string(p)[len(prefix):]
		count, ok := item.(int)
		if !ok {
			log.Errorf("Unknown item type: %T for key %s", item, p)
			return nil
		}
		out = append(out, entry{word: word, count: count})
		sum += count
		return nil
	})
	if err != nil {
		log.Errorf("Error visiting trie subtree: %v", err)
	}
	return out, sum
}

// topUnigrams returns at most n unigrams, most frequent first.
func (idx *index) topUnigrams(n int) []entry {
	if n <= 0 {
		return nil
	}
	if n > len(idx.unigrams) {
		n = len(idx.unigrams)
	}
	return idx.unigrams[:n]
}
