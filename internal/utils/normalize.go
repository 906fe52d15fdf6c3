package utils

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldAccents decomposes runes and drops the combining marks, so "café" becomes "cafe"
// before the alphabet filter runs instead of losing the whole letter.
// Chained transformers keep state, so a new one is built per call.
func foldAccents() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}

// CleanText lowercases the input, folds accents and removes every rune that is
// not in [a-z0-9'] or whitespace. The result is trimmed.
func CleanText(text string) string {
	if text == "" {
		return ""
	}
	lower := strings.ToLower(text)
	if folded, _, err := transform.String(foldAccents(), lower); err == nil {
		lower = folded
	}

	var b strings.Builder
	b.Grow(len(lower))
	for _, r := range lower {
		if isTokenRune(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// Tokenize splits cleaned text on whitespace.
func Tokenize(text string) []string {
	return strings.Fields(text)
}

// Tokens is CleanText followed by Tokenize.
func Tokens(text string) []string {
	return Tokenize(CleanText(text))
}

func isTokenRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '\''
}
