package validate

import (
	"regexp"
	"strings"

	"github.com/mitch9727/mksap-statement-gen/internal/mksaptypes"
)

func clozeCount(stmt mksaptypes.Statement, ctx Context) []mksaptypes.ValidationIssue {
	n := len(stmt.ClozeCandidates)
	if n == 0 {
		return []mksaptypes.ValidationIssue{issue(ctx, "cloze", "cloze_count", mksaptypes.SeverityError,
			"statement has no cloze candidates")}
	}
	if n > 3 {
		return []mksaptypes.ValidationIssue{issue(ctx, "cloze", "cloze_count", mksaptypes.SeverityWarning,
			"statement has more than three cloze candidates")}
	}
	return nil
}

func clozeIsSubstring(stmt mksaptypes.Statement, ctx Context) []mksaptypes.ValidationIssue {
	var issues []mksaptypes.ValidationIssue
	for _, c := range stmt.ClozeCandidates {
		if !strings.Contains(stmt.Text, c) {
			issues = append(issues, issue(ctx, "cloze", "cloze_is_substring", mksaptypes.SeverityError,
				"cloze candidate \""+c+"\" is not an exact substring of the statement"))
		}
	}
	return issues
}

var grammarWords = map[string]bool{
	"the": true, "a": true, "an": true, "is": true, "are": true, "of": true,
	"in": true, "to": true, "and": true, "or": true, "with": true, "for": true,
}

var bareNumberPattern = regexp.MustCompile(`^[0-9.]+$`)

func clozeTriviality(stmt mksaptypes.Statement, ctx Context) []mksaptypes.ValidationIssue {
	var issues []mksaptypes.ValidationIssue
	for _, c := range stmt.ClozeCandidates {
		lower := strings.ToLower(strings.TrimSpace(c))
		if grammarWords[lower] {
			issues = append(issues, issue(ctx, "cloze", "cloze_triviality", mksaptypes.SeverityError,
				"cloze candidate \""+c+"\" is a grammar word"))
			continue
		}
		if bareNumberPattern.MatchString(lower) {
			issues = append(issues, issue(ctx, "cloze", "cloze_triviality", mksaptypes.SeverityError,
				"cloze candidate \""+c+"\" is a bare number without comparator or unit"))
		}
	}
	return issues
}

var genericClozeTerms = map[string]bool{
	"diagnosis": true, "treatment": true, "patient": true, "condition": true,
}

func clozeGeneric(stmt mksaptypes.Statement, ctx Context) []mksaptypes.ValidationIssue {
	var issues []mksaptypes.ValidationIssue
	for _, c := range stmt.ClozeCandidates {
		if genericClozeTerms[strings.ToLower(strings.TrimSpace(c))] {
			issues = append(issues, issue(ctx, "cloze", "cloze_generic", mksaptypes.SeverityError,
				"cloze candidate \""+c+"\" is too generic to test"))
		}
	}
	return issues
}
