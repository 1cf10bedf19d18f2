// Package rundriver implements C9: selection modes, resume/force/dry-run
// options, and the end-of-run summary (spec.md §4.9).
package rundriver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/mitch9727/mksap-statement-gen/internal/checkpoint"
	"github.com/mitch9727/mksap-statement-gen/internal/llm"
	"github.com/mitch9727/mksap-statement-gen/internal/pipeline"
	"github.com/mitch9727/mksap-statement-gen/internal/question"
)

// Mode selects which questions a run covers (spec.md §4.9).
type Mode string

const (
	ModeSingle     Mode = "single"
	ModeSystem     Mode = "system"
	ModeAll        Mode = "all"
	ModeProduction Mode = "production"
)

// Options configures one invocation of Run.
type Options struct {
	DataRoot   string
	Mode       Mode
	QuestionID string // ModeSingle
	System     string // ModeSystem
	Resume     bool
	Force      bool
	Overwrite  bool
	DryRun     bool
	UseNLP     bool
}

// Summary is the end-of-run report spec.md §4.9 requires.
type Summary struct {
	TotalProcessed     int
	Failed             int
	AvgAPICallsPerQ    float64
	CacheHitRate       float64
	AvgWallTimePerQ    time.Duration
	PassRateByCategory map[string]float64
	LimitReached       bool
}

// Driver ties the pipeline orchestrator, checkpoint manager, and question
// discovery together into one run.
type Driver struct {
	Orchestrator    *pipeline.Orchestrator
	Checkpoint      *checkpoint.Manager
	Client          *llm.Client
	CheckpointsDir  string // where run_summary.json is written after Run
}

// runSummaryFile is the supplemented persistence of Summary alongside the
// per-provider checkpoint, so `stats` can report on the last completed run
// without re-scanning the corpus.
const runSummaryFile = "run_summary.json"

func (d *Driver) writeSummary(s Summary) {
	if d.CheckpointsDir == "" {
		return
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		slog.Error("marshaling run summary failed", "error", err)
		return
	}
	path := filepath.Join(d.CheckpointsDir, runSummaryFile)
	if err := os.WriteFile(path+".tmp", data, 0o644); err != nil {
		slog.Error("writing run summary failed", "error", err)
		return
	}
	if err := os.Rename(path+".tmp", path); err != nil {
		slog.Error("committing run summary failed", "error", err)
	}
}

// Run executes every question Options selects, in discovery order, and
// returns the summary. A ProviderLimitError from any question stops the
// run gracefully: the checkpoint is flushed and the partial summary is
// returned with Summary.LimitReached set (spec.md §7).
func (d *Driver) Run(ctx context.Context, opts Options) (Summary, error) {
	var idFilter []string
	var systemFilter string
	switch opts.Mode {
	case ModeSingle:
		idFilter = []string{opts.QuestionID}
	case ModeSystem:
		systemFilter = opts.System
	case ModeAll, ModeProduction:
		// no filter: whole corpus
	default:
		return Summary{}, fmt.Errorf("unknown run mode %q", opts.Mode)
	}

	records, err := question.Discover(opts.DataRoot, systemFilter, idFilter)
	if err != nil {
		return Summary{}, err
	}

	// Production mode implies resume+skip_existing (spec.md §4.9).
	resume := opts.Resume || opts.Mode == ModeProduction

	summary := Summary{PassRateByCategory: make(map[string]float64)}
	categoryTotal := make(map[string]int)
	categoryPass := make(map[string]int)

	var totalAPICalls, totalCacheHits int
	var totalWall time.Duration

	pipelineOpts := pipeline.Options{Overwrite: opts.Overwrite, DryRun: opts.DryRun, UseNLP: opts.UseNLP}

	// finish finalizes the summary and, unless this is a dry run, flushes
	// the checkpoint and persists run_summary.json. Dry-run performs no
	// writes at all (spec.md §4.9), so its checkpoint state and the
	// provider's on-disk summary are left exactly as they were found.
	finish := func() {
		finalize(&summary, categoryTotal, categoryPass, totalAPICalls, totalCacheHits, totalWall)
		if opts.DryRun {
			return
		}
		d.Checkpoint.Flush()
		d.writeSummary(summary)
	}

	for _, rec := range records {
		select {
		case <-ctx.Done():
			finish()
			return summary, ctx.Err()
		default:
		}

		if resume && !opts.Force && d.Checkpoint.IsProcessed(rec.QuestionID) {
			continue
		}

		start := time.Now()
		result, procErr := d.Orchestrator.Process(ctx, rec.Path, pipelineOpts)
		totalWall += time.Since(start)

		summary.TotalProcessed++
		categoryTotal[rec.System]++
		totalAPICalls += result.APICalls
		totalCacheHits += result.CacheHits

		if procErr == nil {
			if result.ValidationPass {
				categoryPass[rec.System]++
			}
			if !opts.DryRun {
				if err := d.Checkpoint.MarkProcessed(rec.QuestionID, true); err != nil {
					slog.Error("checkpoint flush failed", "error", err)
				}
			}
			continue
		}

		summary.Failed++
		if !opts.DryRun {
			if err := d.Checkpoint.MarkFailed(rec.QuestionID, true); err != nil {
				slog.Error("checkpoint flush failed", "error", err)
			}
		}

		var limitErr *llm.ProviderLimitError
		if errors.As(procErr, &limitErr) {
			summary.LimitReached = true
			finish()
			return summary, procErr
		}

		var authErr *llm.ProviderAuthError
		if errors.As(procErr, &authErr) {
			finish()
			return summary, procErr
		}
	}

	finish()
	return summary, nil
}

func finalize(summary *Summary, categoryTotal, categoryPass map[string]int, totalAPICalls, totalCacheHits int, totalWall time.Duration) {
	if summary.TotalProcessed > 0 {
		summary.AvgAPICallsPerQ = float64(totalAPICalls) / float64(summary.TotalProcessed)
		summary.AvgWallTimePerQ = totalWall / time.Duration(summary.TotalProcessed)
	}
	for system, total := range categoryTotal {
		if total == 0 {
			continue
		}
		summary.PassRateByCategory[system] = float64(categoryPass[system]) / float64(total)
	}
	if total := totalAPICalls + totalCacheHits; total > 0 {
		summary.CacheHitRate = float64(totalCacheHits) / float64(total)
	}
}
