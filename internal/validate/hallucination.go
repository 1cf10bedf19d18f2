package validate

import (
	"strings"

	"github.com/agext/levenshtein"
	"github.com/mitch9727/mksap-statement-gen/internal/mksaptypes"
	"github.com/mitch9727/mksap-statement-gen/internal/nlp"
)

const sourceFidelityThreshold = 0.8

// sourceFidelity checks that the entities named in the statement are
// detectable in the source text via fuzzy surface-form matching, guarding
// against the LLM introducing facts the source never stated.
func sourceFidelity(stmt mksaptypes.Statement, ctx Context) []mksaptypes.ValidationIssue {
	if ctx.SourceText == "" {
		return nil
	}
	return entitiesGroundedIn(stmt.Text, ctx.SourceText, "hallucination", "source_fidelity", ctx)
}

// enhancedContextGrounding requires every entity in extra_field_enhanced to
// be attributable to the source text, since that field is the one LLM
// output never directly copied from source (spec.md §4.3.4).
func enhancedContextGrounding(stmt mksaptypes.Statement, ctx Context) []mksaptypes.ValidationIssue {
	if stmt.ExtraFieldEnhanced == nil || ctx.SourceText == "" {
		return nil
	}
	return entitiesGroundedIn(*stmt.ExtraFieldEnhanced, ctx.SourceText, "hallucination", "enhanced_context_grounding", ctx)
}

func entitiesGroundedIn(text, sourceText, category, name string, ctx Context) []mksaptypes.ValidationIssue {
	var issues []mksaptypes.ValidationIssue
	sourceWords := strings.Fields(strings.ToLower(sourceText))
	for _, e := range nlp.ExtractEntities(text) {
		if fuzzyFoundIn(e.Text, sourceWords) {
			continue
		}
		issues = append(issues, issue(ctx, category, name, mksaptypes.SeverityError,
			"entity \""+e.Text+"\" is not detectable in the source text"))
	}
	return issues
}

func fuzzyFoundIn(entity string, sourceWords []string) bool {
	lower := strings.ToLower(entity)
	for _, w := range sourceWords {
		w = strings.Trim(w, ".,;:()\"'")
		if levenshtein.Similarity(lower, w, nil) >= sourceFidelityThreshold {
			return true
		}
	}
	return false
}
