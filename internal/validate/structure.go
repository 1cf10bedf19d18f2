package validate

import "github.com/mitch9727/mksap-statement-gen/internal/mksaptypes"

func requiredFields(stmt mksaptypes.Statement, ctx Context) []mksaptypes.ValidationIssue {
	var issues []mksaptypes.ValidationIssue
	if stmt.Text == "" {
		issues = append(issues, issue(ctx, "structure", "required_fields", mksaptypes.SeverityError,
			"statement text is empty"))
	}
	if stmt.ClozeCandidates == nil {
		issues = append(issues, issue(ctx, "structure", "required_fields", mksaptypes.SeverityError,
			"cloze_candidates field is missing"))
	}
	return issues
}

func issue(ctx Context, category, name string, severity mksaptypes.Severity, message string) mksaptypes.ValidationIssue {
	return mksaptypes.ValidationIssue{
		Category: category,
		Name:     name,
		Severity: severity,
		Message:  message,
		Location: locationOf(ctx),
	}
}
