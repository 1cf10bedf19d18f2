package prompt

import (
	"fmt"
	"strings"

	"github.com/mitch9727/mksap-statement-gen/internal/mksaptypes"
	"github.com/mitch9727/mksap-statement-gen/internal/nlp"
)

// buildGuidance renders the NLP-derived guidance block appended to the
// critique and key-points prompts (spec.md §4.3.5). It never fails: an
// empty NLPBundle simply produces an empty string, and the stage proceeds
// without NLP guidance rather than blocking on it.
func buildGuidance(sourceText string, bundle *mksaptypes.NLPBundle) string {
	if bundle.Empty() {
		return ""
	}

	var b strings.Builder

	if entities := nlp.EntitySalience(sourceText, bundle.Entities); len(entities) > 0 {
		b.WriteString("Entities observed in the source (for reference, do not invent new ones):\n")
		for _, e := range entities {
			fmt.Fprintf(&b, "- %s (%s)\n", e.Text, e.Type)
		}
	}

	if len(bundle.Negations) > 0 {
		b.WriteString("\nCRITICAL — preserve these negations exactly as stated, do not drop or invert them:\n")
		for _, n := range bundle.Negations {
			fmt.Fprintf(&b, "- %q negates %q\n", n.Trigger, n.ScopeText)
		}
	}

	if len(bundle.NumericUnits) > 0 {
		b.WriteString("\nNumeric values and units present in the source (preserve exactly, do not round):\n")
		for _, u := range bundle.NumericUnits {
			fmt.Fprintf(&b, "- %s\n", u.Raw)
		}
	}

	if averageAtomicity(bundle) < 0.5 {
		b.WriteString("\nThe source is dense and compound; split thoroughly into atomic facts.\n")
	}

	return b.String()
}

func averageAtomicity(bundle *mksaptypes.NLPBundle) float64 {
	if len(bundle.Sentences) == 0 {
		return 1.0
	}
	var sum float64
	for _, s := range bundle.Sentences {
		sum += s.Atomicity
	}
	return sum / float64(len(bundle.Sentences))
}
