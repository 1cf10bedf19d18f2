package normalize

import (
	"strings"

	"github.com/agext/levenshtein"
	"github.com/mitch9727/mksap-statement-gen/internal/mksaptypes"
	"github.com/mitch9727/mksap-statement-gen/internal/nlp"
)

// similarityThreshold and entityOverlapThreshold are the fixed duplicate
// thresholds from spec.md §4.4.
const (
	similarityThreshold    = 0.80
	entityOverlapThreshold = 0.5
)

// Consolidate merges near-duplicate statements drawn from the critique and
// key-points extraction streams. It is O(n²) over the input, which spec.md
// §4.4 notes is acceptable since per-question statement counts stay under
// 20.
func Consolidate(statements []mksaptypes.Statement) []mksaptypes.Statement {
	merged := make([]mksaptypes.Statement, 0, len(statements))

	for _, candidate := range statements {
		dupIdx := -1
		for i, existing := range merged {
			if isDuplicate(existing, candidate) {
				dupIdx = i
				break
			}
		}
		if dupIdx == -1 {
			merged = append(merged, candidate)
			continue
		}
		merged[dupIdx] = mergeStatements(merged[dupIdx], candidate)
	}

	return merged
}

func isDuplicate(a, b mksaptypes.Statement) bool {
	if lcsRatio(a.Text, b.Text) < similarityThreshold {
		return false
	}
	return entityOverlap(a.Text, b.Text) >= entityOverlapThreshold
}

// lcsRatio is the length of the longest common subsequence of a and b,
// normalized by the longer string's length. No pack library implements
// LCS directly (agext/levenshtein gives edit distance, not subsequence
// length), so this is a direct, standard-library dynamic-programming
// implementation — justified in DESIGN.md as the one algorithmic piece
// with no ecosystem substitute in the corpus.
func lcsRatio(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for i := 1; i <= len(ra); i++ {
		for j := 1; j <= len(rb); j++ {
			if ra[i-1] == rb[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	lcsLen := prev[len(rb)]
	maxLen := len(ra)
	if len(rb) > maxLen {
		maxLen = len(rb)
	}
	return float64(lcsLen) / float64(maxLen)
}

// entityOverlap extracts coarse entity surface forms from both statements
// and returns the fraction that fuzzy-match across the two sets. Fuzzy
// matching (rather than exact) absorbs the extraction streams' minor
// surface variation (pluralization, hyphenation) between otherwise
// identical mentions.
func entityOverlap(a, b string) float64 {
	entsA := nlp.ExtractEntities(a)
	entsB := nlp.ExtractEntities(b)
	if len(entsA) == 0 && len(entsB) == 0 {
		return 1.0
	}
	if len(entsA) == 0 || len(entsB) == 0 {
		return 0
	}

	matched := 0
	used := make([]bool, len(entsB))
	for _, ea := range entsA {
		for j, eb := range entsB {
			if used[j] {
				continue
			}
			if fuzzyMatch(ea.Text, eb.Text) {
				used[j] = true
				matched++
				break
			}
		}
	}

	union := len(entsA) + len(entsB) - matched
	if union == 0 {
		return 1.0
	}
	return float64(matched) / float64(union)
}

func fuzzyMatch(a, b string) bool {
	a, b = strings.ToLower(a), strings.ToLower(b)
	if a == b {
		return true
	}
	return levenshtein.Similarity(a, b, nil) >= 0.8
}

// mergeStatements applies the merge rules of spec.md §4.4: keep the longer
// text, union cloze candidates preserving first-occurrence order, prefer
// the non-null verbatim context and the longer enhanced context, and set
// provenance to critique if either side had it.
func mergeStatements(existing, incoming mksaptypes.Statement) mksaptypes.Statement {
	out := existing
	if len(incoming.Text) > len(out.Text) {
		out.Text = incoming.Text
	}

	out.ClozeCandidates = unionPreservingOrder(existing.ClozeCandidates, incoming.ClozeCandidates)

	if out.ExtraFieldVerbatim == nil && incoming.ExtraFieldVerbatim != nil {
		out.ExtraFieldVerbatim = incoming.ExtraFieldVerbatim
	}
	if incoming.ExtraFieldEnhanced != nil &&
		(out.ExtraFieldEnhanced == nil || len(*incoming.ExtraFieldEnhanced) > len(*out.ExtraFieldEnhanced)) {
		out.ExtraFieldEnhanced = incoming.ExtraFieldEnhanced
	}

	if existing.Provenance == mksaptypes.ProvenanceCritique || incoming.Provenance == mksaptypes.ProvenanceCritique {
		out.Provenance = mksaptypes.ProvenanceCritique
	} else {
		out.Provenance = mksaptypes.ProvenanceKeyPoints
	}

	out.EffectiveContext()
	return out
}

func unionPreservingOrder(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, s := range list {
			if seen[s] {
				continue
			}
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
