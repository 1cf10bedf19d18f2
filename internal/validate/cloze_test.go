package validate

import (
	"testing"

	"github.com/mitch9727/mksap-statement-gen/internal/mksaptypes"
	"github.com/stretchr/testify/assert"
)

func TestClozeIsSubstring(t *testing.T) {
	stmt := mksaptypes.Statement{Text: "Warfarin requires INR monitoring"}
	ctx := Context{}

	assert.Empty(t, clozeIsSubstring(mksaptypes.Statement{Text: stmt.Text, ClozeCandidates: []string{"Warfarin"}}, ctx))

	issues := clozeIsSubstring(mksaptypes.Statement{Text: stmt.Text, ClozeCandidates: []string{"Heparin"}}, ctx)
	assert.Len(t, issues, 1)
	assert.Equal(t, mksaptypes.SeverityError, issues[0].Severity)
}

func TestClozeCount(t *testing.T) {
	ctx := Context{}
	assert.NotEmpty(t, clozeCount(mksaptypes.Statement{ClozeCandidates: nil}, ctx))
	assert.Empty(t, clozeCount(mksaptypes.Statement{ClozeCandidates: []string{"a"}}, ctx))
	assert.NotEmpty(t, clozeCount(mksaptypes.Statement{ClozeCandidates: []string{"a", "b", "c", "d"}}, ctx))
}

func TestClozeTriviality(t *testing.T) {
	ctx := Context{}
	issues := clozeTriviality(mksaptypes.Statement{ClozeCandidates: []string{"the", "140", "Metformin"}}, ctx)
	assert.Len(t, issues, 2)
}

func TestClozeGeneric(t *testing.T) {
	ctx := Context{}
	issues := clozeGeneric(mksaptypes.Statement{ClozeCandidates: []string{"diagnosis"}}, ctx)
	assert.Len(t, issues, 1)
}
