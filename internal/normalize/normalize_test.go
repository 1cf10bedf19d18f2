package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestText_SymbolSubstitution(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"greater than or equal to", "BP greater than or equal to 140", "BP ≥ 140"},
		{"less than or equal to", "eGFR less than or equal to 60", "eGFR ≤ 60"},
		{"greater than", "HR greater than 100", "HR > 100"},
		{"less than", "K less than 3.5", "K < 3.5"},
		{"approximately", "affects approximately 10% of patients", "affects ~ 10% of patients"},
		{"plus or minus", "120 plus or minus 5 mmHg", "120 ± 5 mmHg"},
		{"collapses whitespace", "A   statement   with   gaps", "A statement with gaps"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Text(tt.in))
		})
	}
}

func TestText_IdiomExceptionsSurviveUntouched(t *testing.T) {
	in := "Risk is greater than normal in older adults"
	got := Text(in)
	assert.Contains(t, got, "greater than normal")
	assert.NotContains(t, got, ">")
}

func TestText_Idempotent(t *testing.T) {
	in := "Treat when BP is greater than or equal to 140/90 mmHg"
	once := Text(in)
	twice := Text(once)
	assert.Equal(t, once, twice)
}
