package validate

import (
	"testing"

	"github.com/mitch9727/mksap-statement-gen/internal/mksaptypes"
	"github.com/stretchr/testify/assert"
)

func TestAtomicityCheck(t *testing.T) {
	ctx := Context{}

	single := mksaptypes.Statement{Text: "Metformin is first-line therapy and reduces hepatic glucose output"}
	assert.Empty(t, atomicityCheck(single, ctx))

	multi := mksaptypes.Statement{Text: "Metformin is first-line and it lowers HbA1c but it can cause lactic acidosis"}
	issues := atomicityCheck(multi, ctx)
	assert.Len(t, issues, 1)
	assert.Equal(t, mksaptypes.SeverityError, issues[0].Severity)
}

func TestVagueLanguage(t *testing.T) {
	ctx := Context{}

	hedged := mksaptypes.Statement{Text: "Patients may develop lactic acidosis with metformin"}
	issues := vagueLanguage(hedged, ctx)
	assert.Len(t, issues, 1)
	assert.Equal(t, mksaptypes.SeverityWarning, issues[0].Severity)

	qualified := mksaptypes.Statement{Text: "Patients may require urgent dialysis for severe lactic acidosis"}
	assert.Empty(t, vagueLanguage(qualified, ctx))

	plain := mksaptypes.Statement{Text: "Metformin is first-line therapy for type 2 diabetes mellitus"}
	assert.Empty(t, vagueLanguage(plain, ctx))
}

func TestBoardRelevance(t *testing.T) {
	ctx := Context{}

	anecdotal := mksaptypes.Statement{Text: "This patient's creatinine rose after starting metformin"}
	issues := boardRelevance(anecdotal, ctx)
	assert.Len(t, issues, 1)
	assert.Equal(t, mksaptypes.SeverityError, issues[0].Severity)

	general := mksaptypes.Statement{Text: "Metformin can elevate creatinine in renal impairment"}
	assert.Empty(t, boardRelevance(general, ctx))
}

func TestPatientSpecific(t *testing.T) {
	ctx := Context{}

	pronoun := mksaptypes.Statement{Text: "She developed lactic acidosis after starting metformin"}
	issues := patientSpecific(pronoun, ctx)
	assert.Len(t, issues, 1)
	assert.Equal(t, mksaptypes.SeverityWarning, issues[0].Severity)

	general := mksaptypes.Statement{Text: "Metformin can cause lactic acidosis in renal impairment"}
	assert.Empty(t, patientSpecific(general, ctx))
}

func TestSourceReferences(t *testing.T) {
	ctx := Context{}

	meta := mksaptypes.Statement{Text: "This vignette describes a classic presentation of sepsis"}
	issues := sourceReferences(meta, ctx)
	assert.Len(t, issues, 1)
	assert.Equal(t, mksaptypes.SeverityError, issues[0].Severity)

	direct := mksaptypes.Statement{Text: "Sepsis presents with fever, tachycardia, and hypotension"}
	assert.Empty(t, sourceReferences(direct, ctx))
}

func TestStatementLength(t *testing.T) {
	ctx := Context{}

	tooShort := mksaptypes.Statement{Text: "Metformin helps"}
	assert.Len(t, statementLength(tooShort, ctx), 1)

	justRight := mksaptypes.Statement{Text: "Metformin is first-line therapy for type 2 diabetes mellitus"}
	assert.Empty(t, statementLength(justRight, ctx))
}
