package metrics

import (
	"strings"
	"unicode/utf8"
)

// Features holds basic local text features derived from an input string.
type Features struct {
	Bytes int
	Runes int
	Words int
	Lines int
}

// CountFeatures computes byte, rune, word, and line counts for s.
func CountFeatures(s string) Features {
	return Features{
		Bytes: len(s),
		Runes: utf8.RuneCountInString(s),
		Words: len(strings.Fields(s)),
		Lines: countLines(s),
	}
}

// countLines returns 0 for empty strings; otherwise 1 plus the number of '\n' runes.
func countLines(s string) int {
	if s == "" {
		return 0
	}
	return 1 + strings.Count(s, "\n")
}

// messageOverhead approximates role and framing tokens per message.
const messageOverhead = 4

// runesPerToken is a coarse ratio for English-ish text.
const runesPerToken = 4

// EstimateTokens returns a deterministic, provider-independent token estimate
// for a sequence of message contents. It is only used for telemetry.
func EstimateTokens(contents ...string) int {
	total := 0
	for _, c := range contents {
		r := utf8.RuneCountInString(c)
		total += (r+runesPerToken-1)/runesPerToken + messageOverhead
	}
	return total
}
