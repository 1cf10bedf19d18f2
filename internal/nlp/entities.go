package nlp

import (
	"strings"

	"github.com/tsawler/prose/v3"

	"github.com/mitch9727/mksap-statement-gen/internal/mksaptypes"
)

// Curated lexicons standing in for a clinical NER model (see package doc).
// These are intentionally small and biased toward MKSAP-style internal
// medicine vocabulary rather than exhaustive.

var conditionSuffixes = []string{"itis", "osis", "emia", "pathy", "trophy", "algia", "oma", "plasia"}

var conditionWords = map[string]bool{
	"hypertension": true, "diabetes": true, "anemia": true, "sepsis": true,
	"stroke": true, "infarction": true, "fibrillation": true, "failure": true,
	"pneumonia": true, "copd": true, "asthma": true, "cirrhosis": true,
	"hyperlipidemia": true, "hypercalcemia": true, "hypokalemia": true,
	"hyperkalemia": true, "hyponatremia": true, "hypernatremia": true,
}

var medicationSuffixes = []string{"pril", "olol", "statin", "cillin", "mycin", "azole", "sartan", "pine", "oxetine", "azepam"}

var medicationWords = map[string]bool{
	"aspirin": true, "insulin": true, "metformin": true, "warfarin": true,
	"heparin": true, "furosemide": true, "prednisone": true, "albuterol": true,
}

var testWords = map[string]bool{
	"ecg": true, "ekg": true, "mri": true, "ct": true, "biopsy": true,
	"echocardiogram": true, "colonoscopy": true, "x-ray": true, "xray": true,
	"ultrasound": true, "culture": true, "spirometry": true, "angiography": true,
	"creatinine": true, "hemoglobin": true, "a1c": true, "troponin": true,
}

var anatomyWords = map[string]bool{
	"heart": true, "lung": true, "liver": true, "kidney": true, "brain": true,
	"colon": true, "pancreas": true, "spleen": true, "thyroid": true,
	"aorta": true, "artery": true, "vein": true, "bone": true, "joint": true,
}

// ExtractEntities tags the coarse medical entities in a short string (a
// single statement, typically) without going through the full Preprocessor
// cache. Used by the consolidator's entity-overlap scoring, where the
// input is always small and re-parsing per call is cheap.
func ExtractEntities(text string) []mksaptypes.Entity {
	doc, err := prose.NewDocument(text)
	if err != nil {
		return nil
	}
	return tagMedicalEntities(doc)
}

// tagMedicalEntities walks prose's tokenizer output and classifies each
// single token as condition, medication, test or anatomy. Tokens that match
// none of these are dropped; multi-word runs are not joined, and the
// taxonomy's "other" type is never assigned.
func tagMedicalEntities(doc *prose.Document) []mksaptypes.Entity {
	var entities []mksaptypes.Entity
	for _, tok := range doc.Tokens() {
		word := strings.TrimFunc(tok.Text, isPunct)
		if word == "" {
			continue
		}
		lower := strings.ToLower(word)
		typ, ok := classify(lower)
		if !ok {
			continue
		}
		entities = append(entities, mksaptypes.Entity{
			Text: word,
			Type: typ,
			// Start and End stay zero: prose does not expose byte offsets
			// on tokens and nothing fills them in later (consolidator /
			// validators only need entity text, not spans).
		})
	}
	return entities
}

func classify(lower string) (mksaptypes.EntityType, bool) {
	if conditionWords[lower] {
		return mksaptypes.EntityCondition, true
	}
	if medicationWords[lower] {
		return mksaptypes.EntityMedication, true
	}
	if testWords[lower] {
		return mksaptypes.EntityTest, true
	}
	if anatomyWords[lower] {
		return mksaptypes.EntityAnatomy, true
	}
	for _, suf := range conditionSuffixes {
		if strings.HasSuffix(lower, suf) && len(lower) > len(suf)+2 {
			return mksaptypes.EntityCondition, true
		}
	}
	for _, suf := range medicationSuffixes {
		if strings.HasSuffix(lower, suf) && len(lower) > len(suf)+2 {
			return mksaptypes.EntityMedication, true
		}
	}
	return "", false
}

func isPunct(r rune) bool {
	switch r {
	case '.', ',', ';', ':', '!', '?', '"', '\'', '(', ')':
		return true
	}
	return false
}

// EntitySalience ranks entities for prompt injection (spec.md §4.3.1 caps
// at 15 by salience). Frequency of the surface form is used as the salience
// proxy in the absence of a real statistical model.
func EntitySalience(text string, entities []mksaptypes.Entity) []mksaptypes.Entity {
	counts := make(map[string]int)
	seen := make(map[string]mksaptypes.Entity)
	for _, e := range entities {
		key := strings.ToLower(e.Text)
		counts[key] += strings.Count(strings.ToLower(text), key)
		seen[key] = e
	}
	ranked := make([]mksaptypes.Entity, 0, len(seen))
	for key, e := range seen {
		_ = key
		ranked = append(ranked, e)
	}
	// Stable selection by descending frequency, then lexical order for
	// determinism (spec.md requires deterministic output for a given text).
	for i := 1; i < len(ranked); i++ {
		for j := i; j > 0; j-- {
			a, b := ranked[j-1], ranked[j]
			ca, cb := counts[strings.ToLower(a.Text)], counts[strings.ToLower(b.Text)]
			if ca < cb || (ca == cb && a.Text > b.Text) {
				ranked[j-1], ranked[j] = ranked[j], ranked[j-1]
			} else {
				break
			}
		}
	}
	const cap = 15
	if len(ranked) > cap {
		ranked = ranked[:cap]
	}
	return ranked
}
