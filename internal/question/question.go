// Package question implements C7: question discovery, tolerant JSON read,
// non-destructive augmentation, and atomic write (spec.md §4.7).
package question

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/mitch9727/mksap-statement-gen/internal/mksaptypes"
)

// IDPattern is the question_id shape from spec.md §6: system + type + two-
// digit year + three-digit sequence.
var IDPattern = regexp.MustCompile(`^[a-z]{2}[a-z]{2,3}\d{2}\d{3}$`)

// SchemaError is raised when a question file fails the minimum schema
// check or is not valid JSON.
type SchemaError struct {
	Path   string
	Offset int64
	Cause  error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema error in %s (offset %d): %v", e.Path, e.Offset, e.Cause)
}
func (e *SchemaError) Unwrap() error { return e.Cause }

// IOError wraps a filesystem failure reading or writing a question file.
type IOError struct {
	Path  string
	Op    string
	Cause error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Cause)
}
func (e *IOError) Unwrap() error { return e.Cause }

// Record is a discovered question file: its path, system code, and
// question ID.
type Record struct {
	Path       string
	System     string
	QuestionID string
}

// Discover walks root two levels deep collecting files matching
// <system>/<question_id>/<question_id>.json. If systemFilter is non-empty,
// only that system code is collected. If idFilter is non-empty, only those
// exact question IDs are collected.
func Discover(root, systemFilter string, idFilter []string) ([]Record, error) {
	allowed := make(map[string]bool, len(idFilter))
	for _, id := range idFilter {
		allowed[id] = true
	}

	systemEntries, err := os.ReadDir(root)
	if err != nil {
		return nil, &IOError{Path: root, Op: "read root", Cause: err}
	}

	var records []Record
	for _, sysEntry := range systemEntries {
		if !sysEntry.IsDir() {
			continue
		}
		system := sysEntry.Name()
		if systemFilter != "" && system != systemFilter {
			continue
		}

		systemDir := filepath.Join(root, system)
		questionEntries, err := os.ReadDir(systemDir)
		if err != nil {
			return nil, &IOError{Path: systemDir, Op: "read system dir", Cause: err}
		}

		for _, qEntry := range questionEntries {
			if !qEntry.IsDir() {
				continue
			}
			qid := qEntry.Name()
			if len(allowed) > 0 && !allowed[qid] {
				continue
			}
			path := filepath.Join(systemDir, qid, qid+".json")
			if _, err := os.Stat(path); err != nil {
				continue
			}
			records = append(records, Record{Path: path, System: system, QuestionID: qid})
		}
	}

	sort.Slice(records, func(i, j int) bool { return records[i].QuestionID < records[j].QuestionID })
	return records, nil
}

// Load reads and schema-checks a question file, returning the typed
// Question and the original file bytes unchanged (the latter is what
// Augment splices new fields into, to preserve the on-disk key order of
// every pre-existing field).
func Load(path string) (*mksaptypes.Question, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, &IOError{Path: path, Op: "read", Cause: err}
		}
		return nil, nil, &IOError{Path: path, Op: "read", Cause: err}
	}

	raw := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil, &SchemaError{Path: path, Offset: offsetOf(err), Cause: err}
	}

	for _, required := range []string{"question_id", "category", "critique", "key_points"} {
		if _, ok := raw[required]; !ok {
			return nil, nil, &SchemaError{Path: path, Cause: fmt.Errorf("missing required field %q", required)}
		}
	}

	q := &mksaptypes.Question{Extra: raw}
	if err := unmarshalField(raw, "question_id", &q.QuestionID); err != nil || q.QuestionID == "" {
		return nil, nil, &SchemaError{Path: path, Cause: fmt.Errorf("invalid required field %q", "question_id")}
	}
	if err := unmarshalField(raw, "category", &q.Category); err != nil || q.Category == "" {
		return nil, nil, &SchemaError{Path: path, Cause: fmt.Errorf("invalid required field %q", "category")}
	}
	if err := unmarshalField(raw, "critique", &q.Critique); err != nil {
		return nil, nil, &SchemaError{Path: path, Cause: fmt.Errorf("invalid required field %q", "critique")}
	}
	if err := unmarshalField(raw, "key_points", &q.KeyPoints); err != nil {
		return nil, nil, &SchemaError{Path: path, Cause: fmt.Errorf("invalid required field %q", "key_points")}
	}
	_ = unmarshalField(raw, "educational_objective", &q.EducationalObjective)

	if existing, ok := raw["true_statements"]; ok {
		var ts mksaptypes.TrueStatements
		if err := json.Unmarshal(existing, &ts); err == nil {
			q.TrueStatements = &ts
		}
	}

	return q, data, nil
}

func unmarshalField(raw map[string]json.RawMessage, key string, dest any) error {
	v, ok := raw[key]
	if !ok {
		return nil
	}
	return json.Unmarshal(v, dest)
}

func offsetOf(err error) int64 {
	if se, ok := err.(*json.SyntaxError); ok {
		return se.Offset
	}
	return 0
}
