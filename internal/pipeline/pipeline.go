// Package pipeline implements C6, the fixed ten-step pipeline orchestrator
// (spec.md §4.6) that drives every other component through one question.
package pipeline

import (
	"context"

	"github.com/mitch9727/mksap-statement-gen/internal/logging"
	"github.com/mitch9727/mksap-statement-gen/internal/mksaptypes"
	"github.com/mitch9727/mksap-statement-gen/internal/nlp"
	"github.com/mitch9727/mksap-statement-gen/internal/normalize"
	"github.com/mitch9727/mksap-statement-gen/internal/prompt"
	"github.com/mitch9727/mksap-statement-gen/internal/question"
	"github.com/mitch9727/mksap-statement-gen/internal/validate"
)

// Options configures one run through Process. Force/resume (whether to
// re-process a question the checkpoint already marks processed) are the
// run driver's concern and are applied before Process is ever called.
type Options struct {
	Overwrite bool // augment even if true_statements already present
	DryRun    bool // run NLP only: no prompts are rendered, no provider calls or writes are made
	UseNLP    bool // spec.md §6 USE_HYBRID_PIPELINE
}

// Orchestrator holds the component handles Process needs. Checkpoint
// bookkeeping is the run driver's (C9) responsibility, invoked against the
// ProcessingResult Process returns.
type Orchestrator struct {
	NLP       *nlp.Preprocessor
	Extractor *prompt.Extractor
	Validator *validate.Registry
}

// Process runs the ten-step sequence of spec.md §4.6 over one question
// file. Errors from any stage terminate the flow and are returned as both
// a failed ProcessingResult and the original typed error (so the run
// driver can classify it with errors.As, e.g. for ProviderLimitError); the
// question JSON is left untouched in that case.
func (o *Orchestrator) Process(ctx context.Context, path string, opts Options) (mksaptypes.ProcessingResult, error) {
	q, raw, err := question.Load(path)
	if err != nil {
		return mksaptypes.ProcessingResult{Error: err.Error()}, err
	}
	result := mksaptypes.ProcessingResult{QuestionID: q.QuestionID}

	// Step 1: already-processed short circuit.
	if q.HasTrueStatements() && !opts.Overwrite {
		result.Success = true
		result.ValidationPass = true
		return result, nil
	}

	// Step 2: NLP bundles.
	var critiqueBundle, keyPointsBundle *mksaptypes.NLPBundle
	if opts.UseNLP {
		critiqueBundle = o.NLP.Process(q.Critique, nlp.RoleCritique)
		keyPointsBundle = o.NLP.Process(joinKeyPoints(q.KeyPoints), nlp.RoleKeyPoints)
	} else {
		critiqueBundle = &mksaptypes.NLPBundle{}
		keyPointsBundle = &mksaptypes.NLPBundle{}
	}

	if opts.DryRun {
		result.Success = true
		result.ValidationPass = true
		return result, nil
	}

	apiCalls, cacheHits := 0, 0
	countCall := func(cacheHit bool) {
		if cacheHit {
			cacheHits++
		} else {
			apiCalls++
		}
	}

	// Step 3: critique extraction.
	fromCritique, hit, err := o.Extractor.ExtractCritique(ctx, q.Critique, q.EducationalObjective, critiqueBundle)
	if err != nil {
		return failure(q.QuestionID, err), err
	}
	countCall(hit)

	// Step 4: key-points extraction.
	fromKeyPoints, hit, err := o.Extractor.ExtractKeyPoints(ctx, q.KeyPoints, keyPointsBundle)
	if err != nil {
		return failure(q.QuestionID, err), err
	}
	countCall(hit)

	// Step 5: cloze identification over A+B combined, then split back.
	combined := append(append([]mksaptypes.Statement{}, fromCritique...), fromKeyPoints...)
	combined, hit, err = o.Extractor.IdentifyCloze(ctx, combined)
	if err != nil {
		return failure(q.QuestionID, err), err
	}
	countCall(hit)
	fromCritique, fromKeyPoints = combined[:len(fromCritique)], combined[len(fromCritique):]

	// Step 6: context enhancement.
	for i := range fromCritique {
		cacheHit, err := o.Extractor.ApplyContext(ctx, &fromCritique[i], q.Critique)
		if err != nil {
			return failure(q.QuestionID, err), err
		}
		countCall(cacheHit)
	}
	keyPointsSource := joinKeyPoints(q.KeyPoints)
	for i := range fromKeyPoints {
		cacheHit, err := o.Extractor.ApplyContext(ctx, &fromKeyPoints[i], keyPointsSource)
		if err != nil {
			return failure(q.QuestionID, err), err
		}
		countCall(cacheHit)
	}

	// Step 7: normalize per stream, then consolidate across the combined
	// A+B list so a near-duplicate spanning both streams merges into one
	// statement (spec.md §4.4), and split the result back out by the
	// merged provenance (mergeStatements prefers critique on a cross-stream
	// merge, per spec.md §8 scenario 4).
	normalize.Statements(fromCritique)
	normalize.Statements(fromKeyPoints)
	combinedForConsolidation := append(append([]mksaptypes.Statement{}, fromCritique...), fromKeyPoints...)
	consolidated := normalize.Consolidate(combinedForConsolidation)
	fromCritique, fromKeyPoints = splitByProvenance(consolidated)

	// Step 8: validation.
	issues, pass := o.runValidators(fromCritique, fromKeyPoints, q.Critique)

	// Step 9: augment and write.
	ts := mksaptypes.TrueStatements{FromCritique: fromCritique, FromKeyPoints: fromKeyPoints}
	analysis := mksaptypes.NLPAnalysis{
		Critique:  mksaptypes.SummarizeAnalysis(critiqueBundle),
		KeyPoints: mksaptypes.SummarizeAnalysis(keyPointsBundle),
	}
	augmented, err := question.Augment(raw, ts, pass, analysis)
	if err != nil {
		return failure(q.QuestionID, err), err
	}
	if err := question.Write(path, augmented); err != nil {
		return failure(q.QuestionID, err), err
	}

	logValidationIssues(ctx, q.QuestionID, issues)

	// Step 10.
	result.Success = true
	result.ValidationPass = pass
	result.StatementsExtracted = len(fromCritique) + len(fromKeyPoints)
	result.APICalls = apiCalls
	result.CacheHits = cacheHits
	return result, nil
}

func (o *Orchestrator) runValidators(fromCritique, fromKeyPoints []mksaptypes.Statement, sourceText string) ([]mksaptypes.ValidationIssue, bool) {
	var issues []mksaptypes.ValidationIssue
	run := func(statements []mksaptypes.Statement) {
		for i, s := range statements {
			ctx := validate.Context{SourceText: sourceText, Siblings: statements, Index: i}
			issues = append(issues, o.Validator.Run(s, ctx)...)
		}
	}
	run(fromCritique)
	run(fromKeyPoints)
	return issues, validate.Verdict(issues)
}

func failure(questionID string, err error) mksaptypes.ProcessingResult {
	return mksaptypes.ProcessingResult{QuestionID: questionID, Success: false, Error: err.Error()}
}

// logValidationIssues emits one log line per issue; validation_issues
// themselves are not part of the output JSON contract (spec.md §6), only
// the counts-derived validation_pass boolean is.
func logValidationIssues(ctx context.Context, questionID string, issues []mksaptypes.ValidationIssue) {
	if len(issues) == 0 {
		return
	}
	logger := logging.WithQuestion(ctx, questionID)
	for _, issue := range issues {
		logger.Warn("validation issue",
			"category", issue.Category, "name", issue.Name,
			"severity", issue.Severity, "message", issue.Message, "location", issue.Location)
	}
}

// splitByProvenance partitions a consolidated statement list back into the
// two output streams by each statement's (possibly merge-updated)
// Provenance, since consolidation can no longer be undone positionally
// once cross-stream merges have collapsed the list.
func splitByProvenance(statements []mksaptypes.Statement) (fromCritique, fromKeyPoints []mksaptypes.Statement) {
	for _, s := range statements {
		if s.Provenance == mksaptypes.ProvenanceCritique {
			fromCritique = append(fromCritique, s)
		} else {
			fromKeyPoints = append(fromKeyPoints, s)
		}
	}
	return fromCritique, fromKeyPoints
}

func joinKeyPoints(keyPoints []string) string {
	out := ""
	for _, kp := range keyPoints {
		out += kp + "\n"
	}
	return out
}

