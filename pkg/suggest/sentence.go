package suggest

import (
	"strings"

	"github.com/bastiangx/typeahead/internal/utils"
)

// CorrectSentence corrects every alphabetic word of text, keeping the punctuation
// around it. Words with digits or symbols pass through untouched. The result is
// joined with single spaces.
func CorrectSentence(text string, c Corrector) string {
	units := strings.Fields(text)
	for i, unit := range units {
		prefix, core, suffix := utils.SplitPunctuation(unit)
		if !utils.IsAlpha(core) {
			continue
		}
		units[i] = prefix + c.Correct(core) + suffix
	}
	return strings.Join(units, " ")
}
