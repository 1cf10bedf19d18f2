package validate

import (
	"testing"

	"github.com/mitch9727/mksap-statement-gen/internal/mksaptypes"
	"github.com/stretchr/testify/assert"
)

func TestExtraFieldQuality_NilSkips(t *testing.T) {
	assert.Empty(t, extraFieldQuality(mksaptypes.Statement{}, Context{}))
}

func TestExtraFieldQuality_TooShort(t *testing.T) {
	short := "too brief"
	issues := extraFieldQuality(mksaptypes.Statement{ExtraField: &short}, Context{})
	assert.Len(t, issues, 1)
	assert.Equal(t, mksaptypes.SeverityWarning, issues[0].Severity)
}

func TestExtraFieldQuality_Filler(t *testing.T) {
	filler := "This is important because it is worth noting the underlying mechanism here"
	issues := extraFieldQuality(mksaptypes.Statement{ExtraField: &filler}, Context{})
	assert.Len(t, issues, 1)
}

func TestExtraFieldQuality_Passes(t *testing.T) {
	good := "Metformin reduces hepatic gluconeogenesis and improves peripheral insulin sensitivity in type 2 diabetes"
	assert.Empty(t, extraFieldQuality(mksaptypes.Statement{ExtraField: &good}, Context{}))
}
