// Package nlp implements the medical NLP preprocessor (spec.md §4.1, C1):
// sentence segmentation, coarse medical entity tagging, negation detection,
// numeric-unit extraction, and per-sentence atomicity scoring.
//
// Tokenization and sentence boundaries are delegated to
// github.com/tsawler/prose/v3, a general-purpose Go NLP library (retrieved
// in the corpus via other_examples/vthunder-bud2, which imports
// github.com/tsawler/prose/v3 directly). Prose's shipped entity tagger is
// trained on general-domain labels (PERSON/ORG/GPE/...), not clinical ones;
// no clinical/biomedical NER library exists anywhere in the retrieved
// corpus, so the coarse five-type medical taxonomy is produced by a curated
// lexicon/suffix matcher layered on prose's token stream. This is a
// deliberate simplification of "a medical-domain statistical model",
// recorded in DESIGN.md.
package nlp

import (
	"regexp"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/tsawler/prose/v3"

	"github.com/mitch9727/mksap-statement-gen/internal/mksaptypes"
)

// Role labels the source text being preprocessed.
type Role string

const (
	RoleCritique  Role = "critique"
	RoleKeyPoints Role = "key_points"
)

const parseCacheSize = 1000

// Preprocessor is the process-global singleton described in spec.md §4.1's
// performance contract: the model is loaded once, each parsed bundle is
// LRU-cached under the exact input text passed to Process, and auxiliary
// analyzers are cheap after first construction.
type Preprocessor struct {
	once         sync.Once
	cache        *lru.Cache[string, *mksaptypes.NLPBundle]
	legacyMode   bool
	legacyLogged sync.Once
}

var (
	singleton     *Preprocessor
	singletonOnce sync.Once
)

// Get returns the process-global Preprocessor, constructing it on first use.
// modelPath is MKSAP_NLP_MODEL (spec.md §6); an empty path puts the
// preprocessor into legacy mode (spec.md §4.1 "Degradation"). A non-empty
// path is not opened or checked.
func Get(modelPath string) *Preprocessor {
	singletonOnce.Do(func() {
		singleton = newPreprocessor(modelPath)
	})
	return singleton
}

func newPreprocessor(modelPath string) *Preprocessor {
	p := &Preprocessor{}
	cache, err := lru.New[string, *mksaptypes.NLPBundle](parseCacheSize)
	if err != nil {
		// lru.New only errors on non-positive size, which parseCacheSize never is.
		panic(err)
	}
	p.cache = cache
	if modelPath == "" {
		p.legacyMode = true
	}
	return p
}

// Process runs the full NLP pipeline over text, returning an empty bundle
// for empty input and never raising on well-formed text (spec.md §4.1
// Failure contract). In legacy mode it returns an empty stub bundle and logs
// the degradation exactly once across the process lifetime.
func (p *Preprocessor) Process(text string, role Role) *mksaptypes.NLPBundle {
	if strings.TrimSpace(text) == "" {
		return &mksaptypes.NLPBundle{}
	}

	if p.legacyMode {
		p.legacyLogged.Do(func() {
			logLegacyModeWarning()
		})
		return &mksaptypes.NLPBundle{}
	}

	if cached, ok := p.cache.Get(text); ok {
		return cached
	}

	bundle := p.parse(text)
	p.cache.Add(text, bundle)
	return bundle
}

func (p *Preprocessor) parse(text string) *mksaptypes.NLPBundle {
	doc, err := prose.NewDocument(text)
	if err != nil {
		// Model/parse failure on otherwise well-formed text: degrade to an
		// empty bundle rather than raising, per spec.md §4.1.
		return &mksaptypes.NLPBundle{}
	}

	sentences := segmentSentences(text, doc)
	entities := tagMedicalEntities(doc)
	negations := detectNegations(text, sentences)
	numerics := extractNumericUnits(text)

	scoreAtomicity(sentences, entities)

	return &mksaptypes.NLPBundle{
		Sentences:    sentences,
		Entities:     entities,
		Negations:    negations,
		NumericUnits: numerics,
	}
}

func segmentSentences(text string, doc *prose.Document) []mksaptypes.Sentence {
	out := make([]mksaptypes.Sentence, 0, 8)
	cursor := 0
	for _, s := range doc.Sentences() {
		trimmed := strings.TrimSpace(s.Text)
		if trimmed == "" {
			continue
		}
		idx := strings.Index(text[cursor:], trimmed)
		if idx < 0 {
			// Prose occasionally normalizes whitespace inside a sentence;
			// fall back to searching from the start of the text.
			idx = strings.Index(text, trimmed)
			if idx < 0 {
				continue
			}
			out = append(out, mksaptypes.Sentence{Text: trimmed, Start: idx, End: idx + len(trimmed)})
			continue
		}
		start := cursor + idx
		end := start + len(trimmed)
		out = append(out, mksaptypes.Sentence{Text: trimmed, Start: start, End: end})
		cursor = end
	}
	return out
}

var coordinatingConjunctions = []string{" and ", " but ", " or ", " while ", " whereas "}

// scoreAtomicity computes the per-sentence atomicity score from token count,
// coordinating-conjunction count, and entity density (spec.md §4.1).
func scoreAtomicity(sentences []mksaptypes.Sentence, entities []mksaptypes.Entity) {
	for i := range sentences {
		s := &sentences[i]
		tokens := strings.Fields(s.Text)
		tokenCount := len(tokens)
		if tokenCount == 0 {
			s.Atomicity = 1
			continue
		}

		conjCount := 0
		lower := " " + strings.ToLower(s.Text) + " "
		for _, conj := range coordinatingConjunctions {
			conjCount += strings.Count(lower, conj)
		}

		entitiesInSentence := 0
		independentClausesWithEntity := 0
		if conjCount > 0 {
			clauses := splitOnConjunctions(s.Text)
			for _, clause := range clauses {
				if clauseHasEntity(clause, s.Start, entities) {
					independentClausesWithEntity++
				}
			}
		}
		for _, e := range entities {
			if e.Start >= s.Start && e.End <= s.End {
				entitiesInSentence++
			}
		}
		density := float64(entitiesInSentence) / float64(tokenCount)

		lengthPenalty := 0.0
		if tokenCount > 25 {
			lengthPenalty = 0.3
		} else if tokenCount > 15 {
			lengthPenalty = 0.15
		}
		conjPenalty := float64(conjCount) * 0.25

		score := 1.0 - lengthPenalty - conjPenalty + minFloat(density, 0.2)
		score = clamp01(score)
		s.Atomicity = score
		s.SplitCandidate = score < 0.5 || independentClausesWithEntity >= 2
	}
}

func splitOnConjunctions(text string) []string {
	re := regexp.MustCompile(`(?i)\s+(and|but|or|while|whereas)\s+`)
	return re.Split(text, -1)
}

func clauseHasEntity(clause string, sentenceStart int, entities []mksaptypes.Entity) bool {
	for _, e := range entities {
		if strings.Contains(strings.ToLower(clause), strings.ToLower(e.Text)) {
			return true
		}
	}
	return false
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
