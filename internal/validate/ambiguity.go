package validate

import (
	"regexp"
	"strings"

	"github.com/mitch9727/mksap-statement-gen/internal/mksaptypes"
	"github.com/mitch9727/mksap-statement-gen/internal/nlp"
)

// medicationClassTerms signal that a class or mechanism co-occurs with a
// named medication, satisfying medication_specificity.
var medicationClassTerms = []string{
	"inhibitor", "blocker", "agonist", "antagonist", "diuretic", "statin",
	"beta-blocker", "ace inhibitor", "anticoagulant", "antibiotic",
	"biguanide",
}

func medicationSpecificity(stmt mksaptypes.Statement, ctx Context) []mksaptypes.ValidationIssue {
	entities := nlp.ExtractEntities(stmt.Text)
	hasMedication := false
	for _, e := range entities {
		if e.Type == mksaptypes.EntityMedication {
			hasMedication = true
			break
		}
	}
	if !hasMedication {
		return nil
	}
	lower := strings.ToLower(stmt.Text)
	if hasAny(lower, medicationClassTerms) {
		return nil
	}
	return []mksaptypes.ValidationIssue{issue(ctx, "ambiguity", "medication_specificity", mksaptypes.SeverityWarning,
		"statement names a medication without its class or mechanism")}
}

var bareNumericClozePattern = regexp.MustCompile(`^[0-9.]+$`)

func numericUnits(stmt mksaptypes.Statement, ctx Context) []mksaptypes.ValidationIssue {
	var issues []mksaptypes.ValidationIssue
	for _, c := range stmt.ClozeCandidates {
		trimmed := strings.TrimSpace(c)
		if bareNumericClozePattern.MatchString(trimmed) {
			issues = append(issues, issue(ctx, "ambiguity", "numeric_units", mksaptypes.SeverityError,
				"numeric cloze \""+c+"\" lacks a comparator or unit"))
		}
	}
	return issues
}
