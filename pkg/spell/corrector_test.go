package spell

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seeded(t *testing.T) *Corrector {
	t.Helper()
	c := New(DefaultOptions())
	c.Seed(map[string]int{
		"hello": 10,
		"help":  5,
		"world": 8,
		"pizza": 3,
		"love":  4,
	})
	return c
}

func TestCorrect(t *testing.T) {
	c := seeded(t)

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"known word", "hello", "hello"},
		{"known word keeps case", "Hello", "Hello"},
		{"single edit", "wrold", "world"},
		{"frequency breaks distance tie", "helo", "hello"},
		{"capitalization restored", "Helo", "Hello"},
		{"too short", "p", "p"},
		{"nothing close", "zzzzzzzz", "zzzzzzzz"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Correct(tt.input))
		})
	}
}

func TestCandidates(t *testing.T) {
	c := seeded(t)

	got := c.Candidates("helo")
	require.NotEmpty(t, got)
	assert.Equal(t, "hello", got[0])
	assert.Contains(t, got, "help")
	assert.NotContains(t, got, "helo")

	assert.NotContains(t, c.Candidates("hello"), "hello")
	assert.Empty(t, c.Candidates("x"))
}

func TestCandidatesCapped(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxCandidates = 1
	c := New(opts)
	c.Seed(map[string]int{"cat": 1, "car": 1, "cap": 1})

	got := c.Candidates("caz")
	assert.Equal(t, []string{"cap"}, got)
}

func TestAddWord(t *testing.T) {
	c := seeded(t)
	assert.False(t, c.Known("typeahead"))
	assert.Equal(t, "typeahed", c.Correct("typeahed"))

	c.AddWord("Typeahead")
	assert.True(t, c.Known("typeahead"))
	assert.Equal(t, "typeahead", c.Correct("typeahed"))
	assert.Equal(t, 6, c.Size())

	c.AddWord("typeahead")
	assert.Equal(t, 6, c.Size())
}

func TestSeedSkipsInvalid(t *testing.T) {
	c := New(DefaultOptions())
	c.Seed(map[string]int{"": 3, "zero": 0, "Ok": 2})
	assert.Equal(t, 1, c.Size())
	assert.True(t, c.Known("ok"))
}

func TestConcurrentAccess(t *testing.T) {
	c := seeded(t)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				c.Correct("helo")
				c.Candidates("wrld")
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				c.AddWord("extra")
			}
		}()
	}
	wg.Wait()
	assert.True(t, c.Known("extra"))
}
