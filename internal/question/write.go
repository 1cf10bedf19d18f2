package question

import (
	"encoding/json"
	"os"

	"github.com/tidwall/sjson"

	"github.com/mitch9727/mksap-statement-gen/internal/mksaptypes"
)

// Augment computes the updated document for path by setting
// true_statements, validation_pass, and nlp_analysis on top of the
// original raw bytes, preserving every other field's value and key order —
// sjson rewrites only the paths given, splicing new values into the
// existing byte stream rather than re-encoding the whole document (spec.md
// §4.7's "preserve existing order for pre-existing fields" contract).
func Augment(original []byte, statements mksaptypes.TrueStatements, validationPass bool, analysis mksaptypes.NLPAnalysis) ([]byte, error) {
	out := original

	tsBytes, err := json.Marshal(statements)
	if err != nil {
		return nil, err
	}
	out, err = sjson.SetRawBytes(out, "true_statements", tsBytes)
	if err != nil {
		return nil, err
	}

	out, err = sjson.SetBytes(out, "validation_pass", validationPass)
	if err != nil {
		return nil, err
	}

	analysisBytes, err := json.Marshal(analysis)
	if err != nil {
		return nil, err
	}
	out, err = sjson.SetRawBytes(out, "nlp_analysis", analysisBytes)
	if err != nil {
		return nil, err
	}

	return out, nil
}

// Write commits data to path via the tmp-file-plus-rename discipline of
// spec.md §4.7: write to <path>.tmp in the same directory, fsync, then
// rename over the target. The rename is the commit point — a crash before
// it leaves the original file untouched.
func Write(path string, data []byte) error {
	tmpPath := path + ".tmp"

	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return &IOError{Path: tmpPath, Op: "create", Cause: err}
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return &IOError{Path: tmpPath, Op: "write", Cause: err}
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return &IOError{Path: tmpPath, Op: "fsync", Cause: err}
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return &IOError{Path: tmpPath, Op: "close", Cause: err}
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return &IOError{Path: path, Op: "rename", Cause: err}
	}
	return nil
}
