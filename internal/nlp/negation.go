package nlp

import (
	"regexp"
	"strings"

	"github.com/mitch9727/mksap-statement-gen/internal/mksaptypes"
)

// negationTriggers is the lexical trigger list from spec.md §4.1.
var negationTriggers = []string{
	"absence of", "not indicated", "ruled out", "denies",
	"without", "no", "not",
}

// scopeBoundary matches the next clause boundary: comma, semicolon, or a
// coordinating conjunction.
var scopeBoundary = regexp.MustCompile(`(?i)[,;]|\b(and|but|or)\b`)

const maxScopeTokens = 6

// detectNegations scans each sentence for a negation trigger and extends the
// scope to the next clause boundary or maxScopeTokens tokens, whichever
// comes first (spec.md §4.1).
func detectNegations(_ string, sentences []mksaptypes.Sentence) []mksaptypes.Negation {
	var out []mksaptypes.Negation
	for _, sent := range sentences {
		lower := strings.ToLower(sent.Text)
		for _, trigger := range negationTriggers {
			idx := findWholeWord(lower, trigger)
			if idx < 0 {
				continue
			}
			after := sent.Text[idx+len(trigger):]
			scope := extractScope(after)
			neg := mksaptypes.Negation{
				Trigger:   trigger,
				ScopeText: strings.TrimSpace(scope),
			}
			if entity := firstEntityLike(scope); entity != "" {
				e := entity
				neg.NegatedEntity = &e
			}
			out = append(out, neg)
		}
	}
	return out
}

func findWholeWord(haystack, needle string) int {
	re := regexp.MustCompile(`\b` + regexp.QuoteMeta(needle) + `\b`)
	loc := re.FindStringIndex(haystack)
	if loc == nil {
		return -1
	}
	return loc[0]
}

func extractScope(after string) string {
	boundary := scopeBoundary.FindStringIndex(after)
	tokens := strings.Fields(after)

	var tokenLimited string
	if len(tokens) > maxScopeTokens {
		tokenLimited = strings.Join(tokens[:maxScopeTokens], " ")
	} else {
		tokenLimited = strings.Join(tokens, " ")
	}

	if boundary == nil {
		return tokenLimited
	}
	boundaryLimited := strings.TrimSpace(after[:boundary[0]])
	boundaryTokens := strings.Fields(boundaryLimited)
	if len(boundaryTokens) <= maxScopeTokens {
		return boundaryLimited
	}
	return tokenLimited
}

// firstEntityLike returns the first capitalized-or-lexicon word in scope, a
// cheap proxy for "the entity the negation attaches to" (spec.md allows
// negated_entity to be absent when not attributable).
func firstEntityLike(scope string) string {
	for _, word := range strings.Fields(scope) {
		clean := strings.Trim(word, ".,;:!?")
		lower := strings.ToLower(clean)
		if _, ok := classify(lower); ok {
			return clean
		}
	}
	return ""
}
