package nlp

import (
	"regexp"

	"github.com/mitch9727/mksap-statement-gen/internal/mksaptypes"
)

// numericUnitPattern captures an optional comparator, a number (integer,
// decimal, or ratio like 150/90), and an adjacent unit token, per spec.md
// §4.1: "a regex that captures an optional comparator (<, >, ≤, ≥, =), a
// number ..., and an adjacent unit token."
var numericUnitPattern = regexp.MustCompile(
	`(?P<cmp>[<>≤≥=]|<=|>=)?\s*(?P<num>\d+(?:\.\d+)?(?:/\d+(?:\.\d+)?)?)\s*(?P<unit>%|mmHg|mg/dL|mg|mcg|mL|L|bpm|kg|cm|mEq/L|units?|years?|yo|days?|weeks?|months?)?`,
)

// extractNumericUnits finds every numeric token in the text that carries a
// comparator and/or a recognized unit; bare numbers with neither are
// dropped, since spec.md §4.3.3 forbids selecting them as cloze candidates
// and there is no value in surfacing them to the prompt composer.
func extractNumericUnits(text string) []mksaptypes.NumericUnit {
	names := numericUnitPattern.SubexpNames()
	matches := numericUnitPattern.FindAllStringSubmatchIndex(text, -1)

	var out []mksaptypes.NumericUnit
	for _, m := range matches {
		var cmp, num, unit string
		var rawStart, rawEnd = -1, -1
		for i, name := range names {
			if m[2*i] < 0 {
				continue
			}
			val := text[m[2*i]:m[2*i+1]]
			switch name {
			case "cmp":
				cmp = val
				if rawStart < 0 || m[2*i] < rawStart {
					rawStart = m[2*i]
				}
			case "num":
				num = val
				if rawStart < 0 || m[2*i] < rawStart {
					rawStart = m[2*i]
				}
				if m[2*i+1] > rawEnd {
					rawEnd = m[2*i+1]
				}
			case "unit":
				unit = val
				if m[2*i+1] > rawEnd {
					rawEnd = m[2*i+1]
				}
			}
		}
		if num == "" {
			continue
		}
		if cmp == "" && unit == "" {
			continue
		}
		if rawStart < 0 {
			rawStart = m[0]
		}
		if rawEnd < 0 {
			rawEnd = m[1]
		}
		out = append(out, mksaptypes.NumericUnit{
			Raw:        text[rawStart:rawEnd],
			Comparator: cmp,
			Number:     num,
			Unit:       unit,
		})
	}
	return out
}
