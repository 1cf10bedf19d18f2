// Package validate implements C5: the validator registry (spec.md §4.5).
// Each validator is an independent function identified by (category, name)
// that inspects one statement and returns zero or more ValidationIssue
// records. Enabling and disabling work per category (Registry.Disable,
// Registry.Enable); a single validator cannot be switched off on its own.
package validate

import (
	"strconv"

	"github.com/mitch9727/mksap-statement-gen/internal/mksaptypes"
)

// Context is what a validator receives alongside the statement and its
// location: the surrounding material it may need to cross-check against.
type Context struct {
	SourceText string
	Bundle     *mksaptypes.NLPBundle
	Siblings   []mksaptypes.Statement
	Index      int
}

// Func is one validator's signature.
type Func func(stmt mksaptypes.Statement, ctx Context) []mksaptypes.ValidationIssue

// entry pairs a validator with its registration identity.
type entry struct {
	category string
	name     string
	fn       Func
}

// Registry holds the fixed registration order from spec.md §4.5.
// Hallucination-category validators are appended last regardless of the
// order they were registered in, since they consume the other validators'
// groundwork (entity extraction) rather than running independently.
type Registry struct {
	entries  []entry
	disabled map[string]bool
}

// NewRegistry builds the canonical registry with every validator from
// spec.md §4.5's table registered and enabled.
func NewRegistry() *Registry {
	r := &Registry{disabled: make(map[string]bool)}

	r.register("structure", "required_fields", requiredFields)

	r.register("quality", "atomicity", atomicityCheck)
	r.register("quality", "vague_language", vagueLanguage)
	r.register("quality", "board_relevance", boardRelevance)
	r.register("quality", "patient_specific", patientSpecific)
	r.register("quality", "source_references", sourceReferences)
	r.register("quality", "statement_length", statementLength)

	r.register("context", "extra_field_quality", extraFieldQuality)

	r.register("cloze", "cloze_count", clozeCount)
	r.register("cloze", "cloze_is_substring", clozeIsSubstring)
	r.register("cloze", "cloze_triviality", clozeTriviality)
	r.register("cloze", "cloze_generic", clozeGeneric)

	r.register("ambiguity", "medication_specificity", medicationSpecificity)
	r.register("ambiguity", "numeric_units", numericUnits)

	r.register("enumeration", "list_handling", listHandling)

	r.register("hallucination", "source_fidelity", sourceFidelity)
	r.register("hallucination", "enhanced_context_grounding", enhancedContextGrounding)

	return r
}

func (r *Registry) register(category, name string, fn Func) {
	r.entries = append(r.entries, entry{category: category, name: name, fn: fn})
}

// Disable turns off every validator in category. Disabled categories are
// skipped entirely, per spec.md §4.5.
func (r *Registry) Disable(category string) {
	r.disabled[category] = true
}

// Enable re-enables a previously disabled category.
func (r *Registry) Enable(category string) {
	delete(r.disabled, category)
}

// Run executes every enabled validator against stmt in the registry's fixed
// order, with hallucination validators run last. A validator that panics is
// converted into a single error-severity issue with category
// validator_exception rather than aborting the batch.
func (r *Registry) Run(stmt mksaptypes.Statement, ctx Context) []mksaptypes.ValidationIssue {
	var normal, hallucination []entry
	for _, e := range r.entries {
		if r.disabled[e.category] {
			continue
		}
		if e.category == "hallucination" {
			hallucination = append(hallucination, e)
		} else {
			normal = append(normal, e)
		}
	}

	var issues []mksaptypes.ValidationIssue
	for _, e := range append(normal, hallucination...) {
		issues = append(issues, r.runOne(e, stmt, ctx)...)
	}
	return issues
}

func (r *Registry) runOne(e entry, stmt mksaptypes.Statement, ctx Context) (issues []mksaptypes.ValidationIssue) {
	defer func() {
		if rec := recover(); rec != nil {
			issues = []mksaptypes.ValidationIssue{{
				Category: "validator_exception",
				Name:     e.name,
				Severity: mksaptypes.SeverityError,
				Message:  "validator panicked",
				Location: locationOf(ctx),
			}}
		}
	}()
	return e.fn(stmt, ctx)
}

func locationOf(ctx Context) string {
	return strconv.Itoa(ctx.Index)
}

// Verdict computes validation_pass: true unless any error-severity issue is
// present (spec.md §4.5).
func Verdict(issues []mksaptypes.ValidationIssue) bool {
	for _, i := range issues {
		if i.Severity == mksaptypes.SeverityError {
			return false
		}
	}
	return true
}
