package utils

import (
	"strconv"
	"strings"
	"unicode"
)

// SentencePunctuation is the set of characters stripped from the edges of a
// word before it is spell checked.
const SentencePunctuation = ".,?!;:"

// SplitPunctuation separates leading and trailing sentence punctuation from a word.
// prefix+core+suffix always equals the input.
func SplitPunctuation(word string) (prefix, core, suffix string) {
	left := strings.TrimLeft(word, SentencePunctuation)
	prefix = word[:len(word)-len(left)]
	core = strings.TrimRight(left, SentencePunctuation)
	suffix = left[len(core):]
	return prefix, core, suffix
}

// IsAlpha reports whether s is non-empty and made only of letters.
func IsAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// EndsWithSpace reports whether the last rune of s is whitespace.
func EndsWithSpace(s string) bool {
	if s == "" {
		return false
	}
	r := []rune(s)
	return unicode.IsSpace(r[len(r)-1])
}

// CapitalPositions remembers which rune positions of s are upper case.
// Returns nil when s has no capitals.
func CapitalPositions(s string) []bool {
	var positions []bool
	i := 0
	for _, r := range s {
		if unicode.IsUpper(r) {
			if positions == nil {
				positions = make([]bool, len([]rune(s)))
			}
			positions[i] = true
		}
		i++
	}
	return positions
}

// ApplyCapitalization upper-cases the runes of word at the positions that were
// capitalized in the typed input.
func ApplyCapitalization(word string, capitalPositions []bool) string {
	if len(capitalPositions) == 0 {
		return word
	}

	wordRunes := []rune(word)
	for i := 0; i < len(wordRunes) && i < len(capitalPositions); i++ {
		if capitalPositions[i] {
			wordRunes[i] = unicode.ToUpper(wordRunes[i])
		}
	}
	return string(wordRunes)
}

// FormatWithCommas formats an integer with comma separators
func FormatWithCommas(n int) string {
	if n < 0 {
		return "-" + FormatWithCommas(-n)
	}
	str := strconv.Itoa(n)
	if len(str) <= 3 {
		return str
	}

	var b strings.Builder
	for i, char := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(char)
	}
	return b.String()
}
