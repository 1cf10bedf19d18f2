package prompt

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/mitch9727/mksap-statement-gen/internal/llm"
	"github.com/mitch9727/mksap-statement-gen/internal/mksaptypes"
)

const stageEnhance = "enhance"

// enhancementGateLength is the fixed threshold from SPEC_FULL.md §9
// resolving the enhancement-gating Open Question: enhancement runs when no
// verbatim explanation was found, or the one found is too short to stand
// alone on a flashcard.
const enhancementGateLength = 60

// explanatoryParagraphPattern looks for a sentence in the source text that
// itself explains a mechanism or rationale, signaled by one of a small set
// of explanatory connectives. This is the non-LLM "Stage A verbatim" scan
// of spec.md §4.3.4: it never invents text, only locates text already
// present.
var explanatoryParagraphPattern = regexp.MustCompile(`(?i)\b(because|due to|as a result of|leads to|causes?|is (?:caused|mediated|characterized) by)\b`)

// FindVerbatimContext scans sourceText for a sentence containing the
// statement's key terms alongside an explanatory connective, and returns it
// verbatim if found. No LLM call is made.
func FindVerbatimContext(statement, sourceText string) *string {
	for _, sentence := range splitSentences(sourceText) {
		if !explanatoryParagraphPattern.MatchString(sentence) {
			continue
		}
		if !sharesKeyTerm(statement, sentence) {
			continue
		}
		trimmed := strings.TrimSpace(sentence)
		if trimmed == "" {
			continue
		}
		return &trimmed
	}
	return nil
}

func splitSentences(text string) []string {
	raw := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '\n'
	})
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		if t := strings.TrimSpace(s); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// sharesKeyTerm is a coarse heuristic: the sentence must contain at least
// one word of 5+ characters also present in the statement.
func sharesKeyTerm(statement, sentence string) bool {
	lowerSentence := strings.ToLower(sentence)
	for _, word := range strings.Fields(strings.ToLower(statement)) {
		word = strings.Trim(word, ".,;:()\"'")
		if len(word) >= 5 && strings.Contains(lowerSentence, word) {
			return true
		}
	}
	return false
}

// NeedsEnhancement applies the fixed gating policy: enhancement runs when
// there is no verbatim context, or the verbatim context found is too short
// to be useful on its own.
func NeedsEnhancement(verbatim *string) bool {
	return verbatim == nil || len(*verbatim) < enhancementGateLength
}

type enhanceData struct {
	Statement  string
	SourceText string
}

// Enhance runs spec.md §4.3.4 Stage B: asks the LLM to explain why the
// statement is true using only the source text, with no outside knowledge.
// A null extra_field_enhanced in the response is a valid, non-error
// outcome — the source simply doesn't support an explanation.
func (e *Extractor) Enhance(ctx context.Context, statement, sourceText string) (*string, bool, error) {
	prompt, err := render(e.templates.Enhance, enhanceData{
		Statement:  statement,
		SourceText: sourceText,
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
		return nil, cacheHit, &llm.ExtractionError{Stage: stageEnhance, RawText: raw, Cause: err}
	}

	rawValue, ok := parsed["extra_field_enhanced"]
	if !ok {
		return nil, cacheHit, &llm.ExtractionError{Stage: stageEnhance, RawText: raw,
			Cause: fmt.Errorf("missing top-level key %q", "extra_field_enhanced")}
	}
	if rawValue == nil {
		return nil, cacheHit, nil
	}
	text, ok := rawValue.(string)
	if !ok {
		return nil, cacheHit, &llm.ExtractionError{Stage: stageEnhance, RawText: raw,
			Cause: fmt.Errorf("key %q is not a string or null", "extra_field_enhanced")}
	}
	if text == "" {
		return nil, cacheHit, nil
	}
	return &text, cacheHit, nil
}

// ApplyContext runs both stages of §4.3.4 against statement in place: if
// the extraction stage didn't already set ExtraFieldVerbatim from its own
// raw extra_field (spec.md §4.3.1), it fills it from a verbatim scan of
// sourceText, then — gated by the fixed policy — calls Enhance, and
// finally recomputes the effective context.
func (e *Extractor) ApplyContext(ctx context.Context, statement *mksaptypes.Statement, sourceText string) (bool, error) {
	if statement.ExtraFieldVerbatim == nil {
		statement.ExtraFieldVerbatim = FindVerbatimContext(statement.Text, sourceText)
	}

	var cacheHit bool
	if NeedsEnhancement(statement.ExtraFieldVerbatim) {
		enhanced, hit, err := e.Enhance(ctx, statement.Text, sourceText)
		if err != nil {
			return hit, err
		}
		statement.ExtraFieldEnhanced = enhanced
		cacheHit = hit
	}

	statement.EffectiveContext()
	return cacheHit, nil
}
