package normalize

import (
	"testing"

	"github.com/mitch9727/mksap-statement-gen/internal/mksaptypes"
	"github.com/stretchr/testify/assert"
)

func TestStatements_NormalizesEveryField(t *testing.T) {
	verbatim := "BP greater than or equal to 140"
	enhanced := "readings less than or equal to 90 are normal"
	statements := []mksaptypes.Statement{
		{
			Text:               "HR greater than 100 suggests tachycardia",
			ExtraFieldVerbatim: &verbatim,
			ExtraFieldEnhanced: &enhanced,
			ClozeCandidates:    []string{"greater than 100"},
		},
	}

	Statements(statements)

	s := statements[0]
	assert.Equal(t, "HR > 100 suggests tachycardia", s.Text)
	assert.Equal(t, "BP ≥ 140", *s.ExtraFieldVerbatim)
	assert.Equal(t, "readings ≤ 90 are normal", *s.ExtraFieldEnhanced)
	assert.Equal(t, "> 100", s.ClozeCandidates[0])
	assert.Equal(t, mksaptypes.ContextSourceHybrid, s.ContextSource)
}
