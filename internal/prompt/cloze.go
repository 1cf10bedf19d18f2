package prompt

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/mitch9727/mksap-statement-gen/internal/llm"
	"github.com/mitch9727/mksap-statement-gen/internal/mksaptypes"
)

const stageCloze = "cloze"

type clozeData struct {
	Statements []string
}

// IdentifyCloze runs spec.md §4.3.3 over the merged critique+key_points
// statement list (in that order, 1-indexed). Candidates that are not an
// exact, contiguous substring of their statement are dropped rather than
// failing the stage; duplicates are removed, preserving first occurrence.
func (e *Extractor) IdentifyCloze(ctx context.Context, statements []mksaptypes.Statement) ([]mksaptypes.Statement, bool, error) {
	if len(statements) == 0 {
		return statements, false, nil
	}

	texts := make([]string, len(statements))
	for i, s := range statements {
		texts[i] = s.Text
	}

	prompt, err := render(e.templates.Cloze, clozeData{Statements: texts})
	if err != nil {
		return nil, false, err
	}

	raw, cacheHit, err := e.client.Generate(ctx, prompt, e.temperature)
	if err != nil {
		return nil, cacheHit, err
	}

	parsed, err := e.client.ParseJSON(raw)
	if err != nil {
		return nil, cacheHit, &llm.ExtractionError{Stage: stageCloze, RawText: raw, Cause: err}
	}

	rawMapping, ok := parsed["cloze_mapping"]
	if !ok {
		return nil, cacheHit, &llm.ExtractionError{Stage: stageCloze, RawText: raw,
			Cause: fmt.Errorf("missing top-level key %q", "cloze_mapping")}
	}

	mapping, ok := rawMapping.(map[string]any)
	if !ok {
		return nil, cacheHit, &llm.ExtractionError{Stage: stageCloze, RawText: raw,
			Cause: fmt.Errorf("key %q is not an object", "cloze_mapping")}
	}

	out := make([]mksaptypes.Statement, len(statements))
	copy(out, statements)

	for key, rawCandidates := range mapping {
		idx, err := strconv.Atoi(key)
		if err != nil || idx < 1 || idx > len(out) {
			continue
		}
		candidates, ok := rawCandidates.([]any)
		if !ok {
			continue
		}
		out[idx-1].ClozeCandidates = validateClozeCandidates(out[idx-1].Text, candidates)
	}

	return out, cacheHit, nil
}

// validateClozeCandidates keeps only candidates that are an exact,
// contiguous substring of statement, deduplicated with first occurrence
// preserved.
func validateClozeCandidates(statement string, raw []any) []string {
	seen := make(map[string]bool, len(raw))
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		cand, ok := r.(string)
		if !ok || cand == "" {
			continue
		}
		if !strings.Contains(statement, cand) {
			continue
		}
		if seen[cand] {
			continue
		}
		seen[cand] = true
		out = append(out, cand)
	}
	return out
}
