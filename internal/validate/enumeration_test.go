package validate

import (
	"testing"

	"github.com/mitch9727/mksap-statement-gen/internal/mksaptypes"
	"github.com/stretchr/testify/assert"
)

func TestListHandling_FewItemsSkips(t *testing.T) {
	stmt := mksaptypes.Statement{Text: "Metformin and insulin lower blood glucose"}
	assert.Empty(t, listHandling(stmt, Context{}))
}

func TestListHandling_ManyItemsFewClozeFlagged(t *testing.T) {
	stmt := mksaptypes.Statement{
		Text:            "Fever, tachycardia, hypotension, and altered mentation suggest sepsis",
		ClozeCandidates: []string{"sepsis"},
	}
	issues := listHandling(stmt, Context{})
	assert.Len(t, issues, 1)
	assert.Equal(t, mksaptypes.SeverityWarning, issues[0].Severity)
}

func TestListHandling_ManyItemsEnoughClozePasses(t *testing.T) {
	stmt := mksaptypes.Statement{
		Text:            "Fever, tachycardia, hypotension, and altered mentation suggest sepsis",
		ClozeCandidates: []string{"tachycardia", "hypotension"},
	}
	assert.Empty(t, listHandling(stmt, Context{}))
}

func TestNonEmpty(t *testing.T) {
	got := nonEmpty([]string{"a", "", " ", "bb"})
	assert.Equal(t, []string{"a", "bb"}, got)
}
