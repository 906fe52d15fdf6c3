package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"lowercase and punctuation", "Hello, World!", "hello world"},
		{"accents folded", "Café ÀÉÎ", "cafe aei"},
		{"apostrophe kept", "Don't stop", "don't stop"},
		{"symbols dropped", "au-lait #42", "aulait 42"},
		{"only whitespace", "  \t ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanText(tt.in))
		})
	}
}

func TestTokens(t *testing.T) {
	assert.Equal(t, []string{"i", "love", "cafe"}, Tokens("I  love\tcafé!"))
	assert.Empty(t, Tokens("?!"))
}

func TestSplitPunctuation(t *testing.T) {
	tests := []struct {
		in                   string
		prefix, core, suffix string
	}{
		{"helo,", "", "helo", ","},
		{"Hello!", "", "Hello", "!"},
		{"..wat?!", "..", "wat", "?!"},
		{"plain", "", "plain", ""},
		{"!!!", "!!!", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			p, c, s := SplitPunctuation(tt.in)
			assert.Equal(t, tt.prefix, p)
			assert.Equal(t, tt.core, c)
			assert.Equal(t, tt.suffix, s)
			assert.Equal(t, tt.in, p+c+s)
		})
	}
}

func TestIsAlpha(t *testing.T) {
	assert.True(t, IsAlpha("hello"))
	assert.True(t, IsAlpha("Ünïcode"))
	assert.False(t, IsAlpha(""))
	assert.False(t, IsAlpha("abc1"))
	assert.False(t, IsAlpha("42"))
}

func TestEndsWithSpace(t *testing.T) {
	assert.True(t, EndsWithSpace("i love "))
	assert.True(t, EndsWithSpace("tab\t"))
	assert.False(t, EndsWithSpace("i love p"))
	assert.False(t, EndsWithSpace(""))
}

func TestCapitalization(t *testing.T) {
	assert.Nil(t, CapitalPositions("helo"))
	assert.Equal(t, "Hello", ApplyCapitalization("hello", CapitalPositions("Helo")))
	assert.Equal(t, "WOrld", ApplyCapitalization("world", CapitalPositions("WOrd")))
	assert.Equal(t, "hi", ApplyCapitalization("hi", nil))
}

func TestFormatWithCommas(t *testing.T) {
	assert.Equal(t, "0", FormatWithCommas(0))
	assert.Equal(t, "999", FormatWithCommas(999))
	assert.Equal(t, "1,000", FormatWithCommas(1000))
	assert.Equal(t, "1,234,567", FormatWithCommas(1234567))
	assert.Equal(t, "-12,345", FormatWithCommas(-12345))
}
