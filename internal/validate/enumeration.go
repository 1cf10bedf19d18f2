package validate

import (
	"regexp"
	"strings"

	"github.com/mitch9727/mksap-statement-gen/internal/mksaptypes"
)

var listSeparatorPattern = regexp.MustCompile(`,\s+|\s+and\s+|\s+or\s+`)

// listHandling flags statements that enumerate three or more parallel items
// with a single blanket cloze rather than splitting or overlapping clozes.
func listHandling(stmt mksaptypes.Statement, ctx Context) []mksaptypes.ValidationIssue {
	parts := listSeparatorPattern.Split(stmt.Text, -1)
	if len(nonEmpty(parts)) < 3 {
		return nil
	}
	if len(stmt.ClozeCandidates) >= 2 {
		return nil
	}
	return []mksaptypes.ValidationIssue{issue(ctx, "enumeration", "list_handling", mksaptypes.SeverityWarning,
		"statement enumerates three or more items but uses fewer than two cloze candidates")}
}

func nonEmpty(parts []string) []string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return out
}
