// Package mksaptypes holds the data model shared by every stage of the
// statement-generation pipeline: question records, statements, NLP bundles,
// validation issues, and processing results.
package mksaptypes

import "encoding/json"

// ContextSource identifies which of the two extra-field variants is the
// effective explanation for a Statement.
type ContextSource string

const (
	ContextSourceVerbatim ContextSource = "verbatim"
	ContextSourceEnhanced ContextSource = "enhanced"
	ContextSourceHybrid   ContextSource = "hybrid"
	ContextSourceNone     ContextSource = "none"
)

// Provenance identifies which extraction stream produced a Statement.
type Provenance string

const (
	ProvenanceCritique  Provenance = "critique"
	ProvenanceKeyPoints Provenance = "key_points"
)

// Statement is a single declarative fact extracted from a question, carrying
// its cloze candidates and context provenance.
type Statement struct {
	Text                string        `json:"statement"`
	ExtraFieldVerbatim  *string       `json:"extra_field_verbatim"`
	ExtraFieldEnhanced  *string       `json:"extra_field_enhanced"`
	ExtraField          *string       `json:"extra_field"`
	ContextSource       ContextSource `json:"context_source"`
	ClozeCandidates     []string      `json:"cloze_candidates"`
	Provenance          Provenance    `json:"provenance"`
}

// EffectiveContext recomputes ExtraField/ContextSource from the two raw
// context fields per the invariant in spec.md §3:
//
//	context_source == hybrid ⇔ (verbatim ≠ null ∧ enhanced ≠ null)
func (s *Statement) EffectiveContext() {
	switch {
	case s.ExtraFieldVerbatim != nil && s.ExtraFieldEnhanced != nil:
		s.ContextSource = ContextSourceHybrid
		s.ExtraField = s.ExtraFieldEnhanced
	case s.ExtraFieldVerbatim != nil:
		s.ContextSource = ContextSourceVerbatim
		s.ExtraField = s.ExtraFieldVerbatim
	case s.ExtraFieldEnhanced != nil:
		s.ContextSource = ContextSourceEnhanced
		s.ExtraField = s.ExtraFieldEnhanced
	default:
		s.ContextSource = ContextSourceNone
		s.ExtraField = nil
	}
}

// TrueStatements is the output container split by extraction stream.
type TrueStatements struct {
	FromCritique  []Statement `json:"from_critique"`
	FromKeyPoints []Statement `json:"from_key_points"`
}

// EntityType is the coarse, closed medical-entity taxonomy.
type EntityType string

const (
	EntityCondition  EntityType = "condition"
	EntityMedication EntityType = "medication"
	EntityTest       EntityType = "test"
	EntityAnatomy    EntityType = "anatomy"
	EntityOther      EntityType = "other"
)

// Entity is a surface mention tagged with a coarse type.
type Entity struct {
	Text  string     `json:"text"`
	Type  EntityType `json:"type"`
	Start int        `json:"start"`
	End   int        `json:"end"`
}

// Negation is a negation trigger and the scope it governs.
type Negation struct {
	Trigger        string  `json:"trigger"`
	ScopeText       string  `json:"scope_text"`
	NegatedEntity  *string `json:"negated_entity"`
}

// NumericUnit is a captured comparator+number+unit token, e.g. ">140/90 mmHg".
type NumericUnit struct {
	Raw        string `json:"raw"`
	Comparator string `json:"comparator"`
	Number     string `json:"number"`
	Unit       string `json:"unit"`
}

// Sentence is one segmented sentence with its character-offset span.
type Sentence struct {
	Text           string  `json:"text"`
	Start          int     `json:"start"`
	End            int     `json:"end"`
	Atomicity      float64 `json:"atomicity"`
	SplitCandidate bool    `json:"split_candidate"`
}

// NLPBundle is the structured output of preprocessing one piece of source
// text (critique or key_points).
type NLPBundle struct {
	Sentences    []Sentence    `json:"sentences"`
	Entities     []Entity      `json:"entities"`
	Negations    []Negation    `json:"negations"`
	NumericUnits []NumericUnit `json:"numeric_units"`
}

// Empty reports whether the bundle carries no analysis (legacy-mode stub).
func (b *NLPBundle) Empty() bool {
	return b == nil || (len(b.Sentences) == 0 && len(b.Entities) == 0 &&
		len(b.Negations) == 0 && len(b.NumericUnits) == 0)
}

// Analysis is the compact, counts-only summary persisted alongside
// true_statements (spec.md §6 nlp_analysis).
type Analysis struct {
	EntityCount     int `json:"entity_count"`
	NegationCount   int `json:"negation_count"`
	SentenceCount   int `json:"sentence_count"`
	SplitCandidates int `json:"split_candidates"`
}

// SummarizeAnalysis reduces a bundle to its counts-only summary.
func SummarizeAnalysis(b *NLPBundle) Analysis {
	if b == nil {
		return Analysis{}
	}
	a := Analysis{
		EntityCount:   len(b.Entities),
		NegationCount: len(b.Negations),
		SentenceCount: len(b.Sentences),
	}
	for _, s := range b.Sentences {
		if s.SplitCandidate {
			a.SplitCandidates++
		}
	}
	return a
}

// NLPAnalysis bundles the critique- and key-points-side summaries.
type NLPAnalysis struct {
	Critique  Analysis `json:"critique"`
	KeyPoints Analysis `json:"key_points"`
}

// Severity grades a ValidationIssue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// ValidationIssue is one finding raised by a validator.
type ValidationIssue struct {
	Category   string   `json:"category"`
	Name       string   `json:"name"`
	Severity   Severity `json:"severity"`
	Message    string   `json:"message"`
	Location   string   `json:"location"` // statement index (as string) or "global"
	Suggestion *string  `json:"suggestion,omitempty"`
}

// ProcessingResult is the orchestrator's per-question outcome.
type ProcessingResult struct {
	QuestionID          string
	Success             bool
	StatementsExtracted int
	Error               string
	APICalls            int
	CacheHits           int
	// ValidationPass is the validate.Verdict over this question's
	// statements; already-processed questions that short-circuited skip
	// validation and report true. Distinct from Success, which tracks
	// whether processing itself completed without error.
	ValidationPass bool
}

// Question is the input/output question record. Known fields are typed;
// Extra keeps the raw top-level fields and is never interpreted by the core.
// Unknown fields round-trip because writes splice into the original file
// bytes (see package question), not through Extra.
type Question struct {
	QuestionID           string          `json:"question_id"`
	Category             string          `json:"category"`
	Critique             string          `json:"critique"`
	KeyPoints            []string        `json:"key_points"`
	EducationalObjective string          `json:"educational_objective,omitempty"`
	TrueStatements       *TrueStatements `json:"true_statements,omitempty"`
	ValidationPass       *bool           `json:"validation_pass,omitempty"`
	NLPAnalysisSummary   *NLPAnalysis    `json:"nlp_analysis,omitempty"`

	// Extra holds every top-level field of the loaded file as raw JSON, the
	// typed fields above included; question.Load fills it (the json:"-" tag
	// keeps a plain Unmarshal from doing so). It exists so in-memory callers
	// can inspect opaque metadata without re-parsing.
	Extra map[string]json.RawMessage `json:"-"`
}

// HasTrueStatements reports whether the question already carries output.
func (q *Question) HasTrueStatements() bool {
	return q.TrueStatements != nil
}
