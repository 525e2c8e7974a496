// Package tokens approximates token counts for fine-tuning examples.
//
// The estimate is a heuristic for relative comparison against context-limit
// thresholds. It is not calibrated to any model's real tokenizer and must
// not be treated as one.
package tokens

import (
	"regexp"
	"unicode/utf8"
)

// DefaultOverhead is the per-character correction factor that approximates
// punctuation and formatting tokens on top of the word count.
const DefaultOverhead = 0.1

// wordRuns matches maximal runs of word characters (Unicode letters, digits,
// underscore), the equivalent of \b\w+\b word extraction.
var wordRuns = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// Estimator counts approximate tokens in text. The zero value uses
// DefaultOverhead.
type Estimator struct {
	// Overhead is added as floor(Overhead × rune count) to the word count.
	// Zero means DefaultOverhead.
	Overhead float64
}

// Count returns the approximate token count for text: the number of word
// runs plus the overhead correction. Pure and deterministic; any input,
// including empty, yields a count ≥ 0.
func (e Estimator) Count(text string) int {
	overhead := e.Overhead
	if overhead == 0 {
		overhead = DefaultOverhead
	}
	words := len(wordRuns.FindAllStringIndex(text, -1))
	return words + int(overhead*float64(utf8.RuneCountInString(text)))
}
