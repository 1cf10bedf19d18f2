package prompt

import (
	"context"
	"fmt"

	"github.com/mitch9727/mksap-statement-gen/internal/llm"
	"github.com/mitch9727/mksap-statement-gen/internal/mksaptypes"
)

const stageKeyPoints = "key_points"

type keyPointsData struct {
	KeyPoints []string
	Guidance  string
}

// ExtractKeyPoints runs spec.md §4.3.2. An empty key_points input is a
// no-op: no LLM call is made and an empty statement list is returned,
// matching the rest of the pipeline's "nothing in, nothing out" rule for
// this stream.
func (e *Extractor) ExtractKeyPoints(ctx context.Context, keyPoints []string, bundle *mksaptypes.NLPBundle) ([]mksaptypes.Statement, bool, error) {
	if len(keyPoints) == 0 {
		return nil, false, nil
	}

	joined := ""
	for _, kp := range keyPoints {
		joined += kp + "\n"
	}

	prompt, err := render(e.templates.KeyPoints, keyPointsData{
		KeyPoints: keyPoints,
		Guidance:  buildGuidance(joined, bundle),
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
		return nil, cacheHit, &llm.ExtractionError{Stage: stageKeyPoints, RawText: raw, Cause: err}
	}

	rawStatements, ok := parsed["statements"]
	if !ok {
		return nil, cacheHit, &llm.ExtractionError{Stage: stageKeyPoints, RawText: raw,
			Cause: fmt.Errorf("missing top-level key %q", "statements")}
	}

	items, ok := rawStatements.([]any)
	if !ok {
		return nil, cacheHit, &llm.ExtractionError{Stage: stageKeyPoints, RawText: raw,
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
			Provenance:      mksaptypes.ProvenanceKeyPoints,
		}
		if extra, ok := obj["extra_field"].(string); ok && extra != "" {
			st.ExtraFieldVerbatim = &extra
		}
		st.EffectiveContext()
		statements = append(statements, st)
	}

	return statements, cacheHit, nil
}
