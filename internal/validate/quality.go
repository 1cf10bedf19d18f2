package validate

import (
	"regexp"
	"strings"

	"github.com/mitch9727/mksap-statement-gen/internal/mksaptypes"
)

var coordinatingConjunctionPattern = regexp.MustCompile(`(?i)\s+(and|but|or|while|whereas)\s+`)

func atomicityCheck(stmt mksaptypes.Statement, ctx Context) []mksaptypes.ValidationIssue {
	matches := coordinatingConjunctionPattern.FindAllString(stmt.Text, -1)
	if len(matches) <= 1 {
		return nil
	}
	return []mksaptypes.ValidationIssue{issue(ctx, "quality", "atomicity", mksaptypes.SeverityError,
		"statement joins more than one independent clause with a coordinating conjunction")}
}

var vagueWords = []string{
	"often", "usually", "sometimes", "may", "might", "can", "could",
	"various", "several", "multiple",
}

// vagueQualifiers are clinical qualifiers that rescue an otherwise-vague
// word (e.g. "may require urgent surgery" is a clinical statement, not hedging).
var vagueQualifiers = []string{"urgent", "emergent", "immediate", "mg", "mmhg", "%"}

func vagueLanguage(stmt mksaptypes.Statement, ctx Context) []mksaptypes.ValidationIssue {
	lower := strings.ToLower(stmt.Text)
	for _, w := range vagueWords {
		if !containsWord(lower, w) {
			continue
		}
		if hasAny(lower, vagueQualifiers) {
			continue
		}
		return []mksaptypes.ValidationIssue{issue(ctx, "quality", "vague_language", mksaptypes.SeverityWarning,
			"statement hedges with \""+w+"\" without a clinical qualifier")}
	}
	return nil
}

var patientPhrases = []string{"this patient", "the patient's", "the patient is", "her symptoms", "his symptoms"}

func boardRelevance(stmt mksaptypes.Statement, ctx Context) []mksaptypes.ValidationIssue {
	lower := strings.ToLower(stmt.Text)
	if hasAny(lower, patientPhrases) {
		return []mksaptypes.ValidationIssue{issue(ctx, "quality", "board_relevance", mksaptypes.SeverityError,
			"statement is patient-anecdotal rather than generalized")}
	}
	return nil
}

var patientPronouns = []string{" he ", " she ", " his ", " her ", " him "}

func patientSpecific(stmt mksaptypes.Statement, ctx Context) []mksaptypes.ValidationIssue {
	lower := " " + strings.ToLower(stmt.Text) + " "
	if hasAny(lower, patientPronouns) {
		return []mksaptypes.ValidationIssue{issue(ctx, "quality", "patient_specific", mksaptypes.SeverityWarning,
			"statement retains a patient-specific pronoun")}
	}
	return nil
}

var metaPhrases = []string{"this critique", "this question", "the vignette", "this vignette", "the critique above"}

func sourceReferences(stmt mksaptypes.Statement, ctx Context) []mksaptypes.ValidationIssue {
	lower := strings.ToLower(stmt.Text)
	if hasAny(lower, metaPhrases) {
		return []mksaptypes.ValidationIssue{issue(ctx, "quality", "source_references", mksaptypes.SeverityError,
			"statement refers to the source material instead of stating the fact directly")}
	}
	return nil
}

func statementLength(stmt mksaptypes.Statement, ctx Context) []mksaptypes.ValidationIssue {
	n := len(strings.Fields(stmt.Text))
	if n < 4 || n > 40 {
		return []mksaptypes.ValidationIssue{issue(ctx, "quality", "statement_length", mksaptypes.SeverityWarning,
			"statement is outside the expected 4-40 token range")}
	}
	return nil
}

func containsWord(haystack, word string) bool {
	return hasAny(haystack, []string{" " + word + " ", " " + word + "."}) ||
		strings.HasPrefix(haystack, word+" ")
}

func hasAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}
