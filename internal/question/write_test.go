package question

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitch9727/mksap-statement-gen/internal/mksaptypes"
)

func TestAugment_PreservesExistingKeyOrderAndAddsFields(t *testing.T) {
	original := []byte(`{"question_id":"ca001","category":"cardiology","critique":"Statins reduce LDL.","key_points":["Statins are first-line."]}`)

	ts := mksaptypes.TrueStatements{
		FromCritique: []mksaptypes.Statement{{Text: "Statins reduce LDL cholesterol", Provenance: mksaptypes.ProvenanceCritique}},
	}
	analysis := mksaptypes.NLPAnalysis{Critique: mksaptypes.Analysis{EntityCount: 2}}

	out, err := Augment(original, ts, true, analysis)
	require.NoError(t, err)

	var keys []string
	dec := json.NewDecoder(bytes.NewReader(out))
	tok, err := dec.Token()
	require.NoError(t, err)
	_ = tok
	for dec.More() {
		keyTok, err := dec.Token()
		require.NoError(t, err)
		if k, ok := keyTok.(string); ok {
			keys = append(keys, k)
			var discard json.RawMessage
			require.NoError(t, dec.Decode(&discard))
		}
	}

	assert.Equal(t, []string{"question_id", "category", "critique", "key_points", "true_statements", "validation_pass", "nlp_analysis"}, keys)

	var roundTrip map[string]any
	require.NoError(t, json.Unmarshal(out, &roundTrip))
	assert.Equal(t, "ca001", roundTrip["question_id"])
	assert.Equal(t, true, roundTrip["validation_pass"])
}

func TestWrite_AtomicCommit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "question.json")

	require.NoError(t, Write(path, []byte(`{"a":1}`)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(data))

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestWrite_OverwritesExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "question.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"a":0}`), 0o644))

	require.NoError(t, Write(path, []byte(`{"a":2}`)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":2}`, string(data))
}
