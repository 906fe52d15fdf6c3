package ngram

import "strings"

// FrequencyTable counts token sequences of one fixed length.
// Keys are the tokens joined with a single space.
type FrequencyTable map[string]int

// Key builds the table key for a token sequence.
func Key(tokens ...string) string {
	return strings.Join(tokens, " ")
}

// Add increments the count of the sequence by one.
func (t FrequencyTable) Add(tokens ...string) {
	t[Key(tokens...)]++
}

// Count returns the count of the sequence, zero when unseen.
func (t FrequencyTable) Count(tokens ...string) int {
	return t[Key(tokens...)]
}

func (t FrequencyTable) clone() FrequencyTable {
	out := make(FrequencyTable, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}
