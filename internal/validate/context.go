package validate

import (
	"strings"

	"github.com/mitch9727/mksap-statement-gen/internal/mksaptypes"
)

const minExtraFieldLength = 40

var fillerPhrases = []string{
	"this is important", "this is a key fact", "it is worth noting",
	"this helps explain", "as mentioned",
}

func extraFieldQuality(stmt mksaptypes.Statement, ctx Context) []mksaptypes.ValidationIssue {
	if stmt.ExtraField == nil {
		return nil
	}
	text := strings.TrimSpace(*stmt.ExtraField)
	if len(text) < minExtraFieldLength {
		return []mksaptypes.ValidationIssue{issue(ctx, "context", "extra_field_quality", mksaptypes.SeverityWarning,
			"extra_field is shorter than the minimum useful length")}
	}
	lower := strings.ToLower(text)
	if hasAny(lower, fillerPhrases) {
		return []mksaptypes.ValidationIssue{issue(ctx, "context", "extra_field_quality", mksaptypes.SeverityWarning,
			"extra_field consists largely of filler")}
	}
	return nil
}
