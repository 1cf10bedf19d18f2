package prompt

import (
	"context"
	"fmt"

	"github.com/mitch9727/mksap-statement-gen/internal/llm"
	"github.com/mitch9727/mksap-statement-gen/internal/mksaptypes"
)

const stageCritique = "critique"

type critiqueData struct {
	SourceText           string
	EducationalObjective string
	Guidance             string
}

// ExtractCritique runs spec.md §4.3.1: extracts 3-7 atomic, source-faithful
// statements from the critique text. Returns the statements tagged
// provenance=critique with empty cloze_candidates, plus whether the call
// was served from cache.
func (e *Extractor) ExtractCritique(ctx context.Context, critique, educationalObjective string, bundle *mksaptypes.NLPBundle) ([]mksaptypes.Statement, bool, error) {
	prompt, err := render(e.templates.Critique, critiqueData{
		SourceText:           critique,
		EducationalObjective: educationalObjective,
		Guidance:             buildGuidance(critique, bundle),
	})
	if err != nil {
		return nil, false, err
	}

	raw, cacheHit, err := e.client.Generate(ctx, prompt, e.temperature)
	if err != nil {
		return nil, cacheHit, err
	}

	parsed, err := e.client.ParseJSON(raw)
	if err != nil {
		return nil, cacheHit, &llm.ExtractionError{Stage: stageCritique, RawText: raw, Cause: err}
	}

	rawStatements, ok := parsed["statements"]
	if !ok {
		return nil, cacheHit, &llm.ExtractionError{Stage: stageCritique, RawText: raw,
			Cause: fmt.Errorf("missing top-level key %q", "statements")}
	}

	items, ok := rawStatements.([]any)
	if !ok {
		return nil, cacheHit, &llm.ExtractionError{Stage: stageCritique, RawText: raw,
			Cause: fmt.Errorf("key %q is not an array", "statements")}
	}

	statements := make([]mksaptypes.Statement, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		text, _ := obj["statement"].(string)
		if text == "" {
			continue
		}
		st := mksaptypes.Statement{
			Text:            text,
			ClozeCandidates: []string{},
			Provenance:      mksaptypes.ProvenanceCritique,
		}
		if extra, ok := obj["extra_field"].(string); ok && extra != "" {
			st.ExtraFieldVerbatim = &extra
		}
		st.EffectiveContext()
		statements = append(statements, st)
	}

	return statements, cacheHit, nil
}
