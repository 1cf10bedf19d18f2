// Package normalize implements C4: the deterministic text normalizer and
// the near-duplicate statement consolidator (spec.md §4.4).
package normalize

import (
	"regexp"
	"strings"
)

// substitution is one word-boundary-anchored symbol replacement.
type substitution struct {
	pattern *regexp.Regexp
	replace string
}

// idiomExceptions are phrases that must survive substitution untouched,
// checked before the replacement table runs. "greater than normal" is the
// canonical example from spec.md §4.4: the comparator reads as prose here,
// not a numeric relation.
var idiomExceptions = []string{
	"greater than normal",
	"less than normal",
	"greater than expected",
	"less than expected",
}

var substitutions = []substitution{
	{regexp.MustCompile(`(?i)\bgreater than or equal to\b`), "≥"},
	{regexp.MustCompile(`(?i)\bless than or equal to\b`), "≤"},
	{regexp.MustCompile(`(?i)\bgreater than\b`), ">"},
	{regexp.MustCompile(`(?i)\bless than\b`), "<"},
	{regexp.MustCompile(`(?i)\bapproximately\b`), "~"},
	{regexp.MustCompile(`(?i)\bplus or minus\b`), "±"},
}

var whitespacePattern = regexp.MustCompile(`\s+`)

// Text applies the deterministic substitution table to s, collapsing
// whitespace and trimming the result. Idiom exceptions are protected by
// swapping them out for a placeholder before substitution runs and
// restoring them afterward.
func Text(s string) string {
	protected := make(map[string]string, len(idiomExceptions))
	out := s
	for i, idiom := range idiomExceptions {
		re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(idiom))
		if !re.MatchString(out) {
			continue
		}
		placeholder := placeholderFor(i)
		protected[placeholder] = re.FindString(out)
		out = re.ReplaceAllString(out, placeholder)
	}

	for _, sub := range substitutions {
		out = sub.pattern.ReplaceAllString(out, sub.replace)
	}

	for placeholder, original := range protected {
		out = strings.ReplaceAll(out, placeholder, original)
	}

	out = whitespacePattern.ReplaceAllString(out, " ")
	return strings.TrimSpace(out)
}

func placeholderFor(i int) string {
	return "\x00IDIOM" + string(rune('A'+i)) + "\x00"
}
