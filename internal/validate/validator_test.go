package validate

import (
	"testing"

	"github.com/mitch9727/mksap-statement-gen/internal/mksaptypes"
	"github.com/stretchr/testify/assert"
)

func validStatement() mksaptypes.Statement {
	return mksaptypes.Statement{
		Text:            "Metformin is the first-line agent for type 2 diabetes mellitus",
		ClozeCandidates: []string{"Metformin"},
		Provenance:      mksaptypes.ProvenanceCritique,
	}
}

func TestVerdict(t *testing.T) {
	assert.True(t, Verdict(nil))
	assert.True(t, Verdict([]mksaptypes.ValidationIssue{{Severity: mksaptypes.SeverityWarning}}))
	assert.False(t, Verdict([]mksaptypes.ValidationIssue{{Severity: mksaptypes.SeverityError}}))
}

func TestRegistry_RunOnValidStatement(t *testing.T) {
	r := NewRegistry()
	issues := r.Run(validStatement(), Context{SourceText: "Metformin is preferred in type 2 diabetes mellitus."})
	assert.True(t, Verdict(issues))
}

func TestRegistry_CatchesNonSubstringCloze(t *testing.T) {
	r := NewRegistry()
	stmt := validStatement()
	stmt.ClozeCandidates = []string{"nonexistent phrase"}

	issues := r.Run(stmt, Context{SourceText: stmt.Text})

	found := false
	for _, i := range issues {
		if i.Name == "cloze_is_substring" && i.Severity == mksaptypes.SeverityError {
			found = true
		}
	}
	assert.True(t, found, "expected a cloze_is_substring error")
	assert.False(t, Verdict(issues))
}

func TestRegistry_DisableSkipsCategory(t *testing.T) {
	r := NewRegistry()
	r.Disable("cloze")

	stmt := validStatement()
	stmt.ClozeCandidates = []string{"nonexistent phrase"}
	issues := r.Run(stmt, Context{SourceText: stmt.Text})

	for _, i := range issues {
		assert.NotEqual(t, "cloze", i.Category)
	}

	r.Enable("cloze")
	issues = r.Run(stmt, Context{SourceText: stmt.Text})
	assert.NotEmpty(t, issues)
}

func TestRegistry_HallucinationValidatorsRunLast(t *testing.T) {
	r := NewRegistry()
	var lastCategory string
	for _, e := range r.entries {
		if e.category == "hallucination" {
			continue
		}
		lastCategory = e.category
	}
	assert.NotEqual(t, "hallucination", lastCategory)
	assert.Equal(t, "hallucination", r.entries[len(r.entries)-1].category)
}

func TestRegistry_PanicBecomesIssue(t *testing.T) {
	r := &Registry{disabled: make(map[string]bool)}
	r.register("quality", "boom", func(mksaptypes.Statement, Context) []mksaptypes.ValidationIssue {
		panic("unexpected")
	})

	issues := r.Run(validStatement(), Context{Index: 2})

	assert.Len(t, issues, 1)
	assert.Equal(t, "validator_exception", issues[0].Category)
	assert.Equal(t, mksaptypes.SeverityError, issues[0].Severity)
	assert.Equal(t, "2", issues[0].Location)
}
