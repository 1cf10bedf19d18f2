package pipeline

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitch9727/mksap-statement-gen/internal/llm"
	"github.com/mitch9727/mksap-statement-gen/internal/nlp"
	"github.com/mitch9727/mksap-statement-gen/internal/prompt"
	"github.com/mitch9727/mksap-statement-gen/internal/validate"
)

// scriptedProvider answers each stage's prompt based on a marker unique to
// that stage's template, since every stage shares one Client.Generate entry
// point.
type scriptedProvider struct{}

func (scriptedProvider) Name() string { return "test" }

func (scriptedProvider) Generate(ctx context.Context, p string, temperature float64) (string, error) {
	switch {
	case strings.Contains(p, "Critique:"):
		return `{"statements":[{"statement":"Metformin is first-line therapy for type 2 diabetes mellitus","extra_field":null}]}`, nil
	case strings.Contains(p, "Key points:"):
		return `{"statements":[{"statement":"Warfarin requires INR monitoring","extra_field":null}]}`, nil
	case strings.Contains(p, "cloze_mapping"):
		return `{"cloze_mapping": {"1": ["Metformin"], "2": ["Warfarin"]}}`, nil
	case strings.Contains(p, "extra_field_enhanced"):
		return `{"extra_field_enhanced": null}`, nil
	default:
		return `{}`, nil
	}
}

func newTestOrchestrator(t *testing.T) *Orchestrator {
	t.Helper()
	tmpls, err := prompt.LoadTemplates("")
	require.NoError(t, err)

	reg := llm.NewRegistry()
	reg.Register("test", scriptedProvider{})
	client := llm.NewClient(reg, llm.NewResponseCache(time.Minute, 10), "test", "model", 0, false)

	return &Orchestrator{
		NLP:       nlp.Get(""),
		Extractor: prompt.NewExtractor(tmpls, client, 0.2),
		Validator: validate.NewRegistry(),
	}
}

func writeFixtureQuestion(t *testing.T, path string) {
	t.Helper()
	body := `{"question_id":"cvqa12001","category":"cardiology","critique":"Metformin remains the preferred first agent for type 2 diabetes mellitus in most patients.","key_points":["Warfarin needs INR monitoring during therapy."]}`
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestProcess_FullRunProducesStatementsAndWritesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cvqa12001.json")
	writeFixtureQuestion(t, path)

	o := newTestOrchestrator(t)
	result, err := o.Process(context.Background(), path, Options{UseNLP: false})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 2, result.StatementsExtracted)
	// critique + key points + cloze + one enhance call per statement (neither
	// source sentence contains an explanatory connective, so both need it)
	assert.Equal(t, 5, result.APICalls)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Contains(t, doc, "true_statements")
	assert.Contains(t, doc, "validation_pass")
	assert.Contains(t, doc, "nlp_analysis")
	// original fields survive
	assert.Equal(t, "cvqa12001", doc["question_id"])
}

func TestProcess_AlreadyProcessedShortCircuits(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cvqa12001.json")
	body := `{"question_id":"cvqa12001","category":"cardiology","critique":"c","key_points":["k"],"true_statements":{"from_critique":[],"from_key_points":[]}}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	o := newTestOrchestrator(t)
	result, err := o.Process(context.Background(), path, Options{})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 0, result.APICalls)
}

func TestProcess_DryRunMakesNoProviderCalls(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cvqa12001.json")
	writeFixtureQuestion(t, path)
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	o := newTestOrchestrator(t)
	result, err := o.Process(context.Background(), path, Options{DryRun: true})
	require.NoError(t, err)
	assert.True(t, result.Success)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after), "dry run must not write the file")
}

func TestProcess_MissingFileReturnsError(t *testing.T) {
	o := newTestOrchestrator(t)
	_, err := o.Process(context.Background(), filepath.Join(t.TempDir(), "missing.json"), Options{})
	assert.Error(t, err)
}

type erroringProvider struct{ err error }

func (p erroringProvider) Name() string { return "test" }
func (p erroringProvider) Generate(ctx context.Context, prompt string, temperature float64) (string, error) {
	return "", p.err
}

func TestProcess_PropagatesLimitErrorUntouched(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cvqa12001.json")
	writeFixtureQuestion(t, path)

	tmpls, err := prompt.LoadTemplates("")
	require.NoError(t, err)
	reg := llm.NewRegistry()
	limitErr := &llm.ProviderLimitError{Provider: "test", Detail: "quota exceeded"}
	reg.Register("test", erroringProvider{err: limitErr})
	client := llm.NewClient(reg, llm.NewResponseCache(time.Minute, 10), "test", "model", 0, false)

	o := &Orchestrator{
		NLP:       nlp.Get(""),
		Extractor: prompt.NewExtractor(tmpls, client, 0.2),
		Validator: validate.NewRegistry(),
	}

	result, err := o.Process(context.Background(), path, Options{})
	require.Error(t, err)
	assert.False(t, result.Success)

	var gotLimitErr *llm.ProviderLimitError
	assert.ErrorAs(t, err, &gotLimitErr)

	data, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.NotContains(t, doc, "true_statements", "failed processing must leave the file untouched")
}
