// Command mksapgen is the CLI for the statement-generation pipeline.
//
// Usage:
//
//	mksapgen process --data-root ./questions --mode production
//	mksapgen process --question-id mkcard24001 --data-root ./questions
//	mksapgen stats --data-root ./questions
//	mksapgen reset --data-root ./questions
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/alecthomas/kong"

	mksapstatementgen "github.com/mitch9727/mksap-statement-gen"
	"github.com/mitch9727/mksap-statement-gen/internal/checkpoint"
	"github.com/mitch9727/mksap-statement-gen/internal/config"
	"github.com/mitch9727/mksap-statement-gen/internal/llm"
	"github.com/mitch9727/mksap-statement-gen/internal/logging"
	"github.com/mitch9727/mksap-statement-gen/internal/nlp"
	"github.com/mitch9727/mksap-statement-gen/internal/pipeline"
	"github.com/mitch9727/mksap-statement-gen/internal/prompt"
	"github.com/mitch9727/mksap-statement-gen/internal/rundriver"
	"github.com/mitch9727/mksap-statement-gen/internal/validate"
)

// Exit codes (spec.md §6/§7).
const (
	exitSuccess = 0
	exitRunErr  = 1
	exitConfig  = 2
	exitSignal  = 3
)

// CLI is the top-level command surface.
type CLI struct {
	Process   ProcessCmd   `cmd:"" help:"Run the pipeline over a selection of questions."`
	Stats     StatsCmd     `cmd:"" help:"Print checkpoint and cache statistics."`
	Reset     ResetCmd     `cmd:"" help:"Clear the active provider's checkpoint."`
	CleanLogs CleanLogsCmd `cmd:"" name:"clean-logs" help:"Remove log files older than --keep-days."`
	CleanAll  CleanAllCmd  `cmd:"" name:"clean-all" help:"Reset checkpoints and logs."`
	Version   VersionCmd   `cmd:"" help:"Show version information."`

	Config    string `short:"c" help:"Path to YAML config overlay." type:"path"`
	LogLevel  string `help:"Log level (debug, info, warn, error)." default:"info"`
	LogFile   string `help:"Log file path (empty = stderr)." type:"path"`
	LogFormat string `help:"Log format (simple or verbose)." default:"simple"`
}

// ProcessCmd runs the pipeline, spec.md §6's CLI surface.
type ProcessCmd struct {
	DataRoot    string  `name:"data-root" help:"Question corpus root." type:"path"`
	QuestionID  string  `name:"question-id" help:"Process exactly this question."`
	System      string  `help:"Process only this system's questions."`
	Mode        string  `help:"Run mode: test or production." default:"test" enum:"test,production"`
	Provider    string  `help:"LLM provider override."`
	Temperature float64 `help:"Sampling temperature." default:"0.2"`
	Force       bool    `help:"Re-process questions already marked processed."`
	Overwrite   bool    `name:"overwrite" help:"Re-augment even if true_statements already present."`
	DryRun      bool    `name:"dry-run" help:"Run NLP only: render no prompts and make no provider calls or writes."`
	Resume      bool    `help:"Skip questions the checkpoint already marks processed." default:"true" negatable:""`
	BatchSize   int     `name:"batch-size" help:"Checkpoint flush batch size." default:"10"`
}

func (c *ProcessCmd) Run(cli *CLI) error {
	cfg, err := loadConfig(cli)
	if err != nil {
		return &configError{err}
	}
	if c.DataRoot != "" {
		cfg.DataRoot = c.DataRoot
	}
	if c.Provider != "" {
		cfg.LLMProvider = c.Provider
	}
	if err := cfg.Validate(); err != nil {
		return &configError{err}
	}

	ctx, stop := signalContext()
	defer stop()

	driver, err := buildDriver(cfg, c.Temperature, c.BatchSize)
	if err != nil {
		return &configError{err}
	}

	mode := rundriver.ModeAll
	switch {
	case c.QuestionID != "":
		mode = rundriver.ModeSingle
	case c.System != "":
		mode = rundriver.ModeSystem
	case c.Mode == "production":
		mode = rundriver.ModeProduction
	}

	summary, err := driver.Run(ctx, rundriver.Options{
		DataRoot:   cfg.DataRoot,
		Mode:       mode,
		QuestionID: c.QuestionID,
		System:     c.System,
		Resume:     c.Resume,
		Force:      c.Force,
		Overwrite:  c.Overwrite,
		DryRun:     c.DryRun,
		UseNLP:     cfg.UseHybridPipeline,
	})

	printSummary(summary)

	if ctx.Err() != nil {
		return &interruptedError{ctx.Err()}
	}

	var authErr *llm.ProviderAuthError
	if errors.As(err, &authErr) {
		return &configError{err}
	}

	var limitErr *llm.ProviderLimitError
	if errors.As(err, &limitErr) || summary.Failed > 0 {
		return &runError{fmt.Errorf("%d of %d questions failed", summary.Failed, summary.TotalProcessed)}
	}

	return nil
}

// StatsCmd prints the active provider's checkpoint and cache counts.
type StatsCmd struct {
	DataRoot string `name:"data-root" help:"Question corpus root." type:"path"`
	Provider string `help:"LLM provider override."`
}

func (c *StatsCmd) Run(cli *CLI) error {
	cfg, err := loadConfig(cli)
	if err != nil {
		return &configError{err}
	}
	if c.Provider != "" {
		cfg.LLMProvider = c.Provider
	}

	driver, err := buildDriver(cfg, 0, 0)
	if err != nil {
		return &configError{err}
	}
	processed, failed := driver.Checkpoint.Stats()

	fmt.Printf("provider:   %s\n", cfg.LLMProvider)
	fmt.Printf("processed:  %d\n", processed)
	fmt.Printf("failed:     %d\n", failed)
	fmt.Printf("cache size: %d\n", driver.Client.CacheStats())

	if data, err := os.ReadFile(filepath.Join(checkpointDir(cfg), "run_summary.json")); err == nil {
		fmt.Println("last run summary:")
		fmt.Println(string(data))
	}
	return nil
}

// ResetCmd clears the active provider's checkpoint.
type ResetCmd struct {
	DataRoot string `name:"data-root" help:"Question corpus root." type:"path"`
	Provider string `help:"LLM provider override."`
}

func (c *ResetCmd) Run(cli *CLI) error {
	cfg, err := loadConfig(cli)
	if err != nil {
		return &configError{err}
	}
	if c.Provider != "" {
		cfg.LLMProvider = c.Provider
	}
	mgr, err := checkpoint.New(checkpointDir(cfg), cfg.LLMProvider, 0)
	if err != nil {
		return &configError{err}
	}
	return mgr.Reset()
}

// CleanLogsCmd removes log files older than --keep-days.
type CleanLogsCmd struct {
	DataRoot string `name:"data-root" help:"Question corpus root." type:"path"`
	KeepDays int    `name:"keep-days" help:"Remove log files older than this many days." default:"30"`
	DryRun   bool   `name:"dry-run" help:"Report what would be removed without removing it."`
}

func (c *CleanLogsCmd) Run(cli *CLI) error {
	cfg, err := loadConfig(cli)
	if err != nil {
		return &configError{err}
	}
	logsDir := filepath.Join(cfg.DataRoot, ".mksapgen", "logs")
	cutoff := time.Now().AddDate(0, 0, -c.KeepDays)

	entries, err := os.ReadDir(logsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, e := range entries {
		info, err := e.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(logsDir, e.Name())
		if c.DryRun {
			fmt.Printf("would remove %s\n", path)
			continue
		}
		if err := os.Remove(path); err != nil {
			slog.Error("removing log file failed", "path", path, "error", err)
		}
	}
	return nil
}

// CleanAllCmd resets checkpoints and removes all logs.
type CleanAllCmd struct {
	DataRoot string `name:"data-root" help:"Question corpus root." type:"path"`
	Provider string `help:"LLM provider override."`
}

func (c *CleanAllCmd) Run(cli *CLI) error {
	if err := (&ResetCmd{DataRoot: c.DataRoot, Provider: c.Provider}).Run(cli); err != nil {
		return err
	}
	return (&CleanLogsCmd{DataRoot: c.DataRoot, KeepDays: 0}).Run(cli)
}

// VersionCmd prints build version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Println(mksapstatementgen.GetVersion().String())
	return nil
}

func main() {
	cli := CLI{}
	kctx := kong.Parse(&cli,
		kong.Name("mksapgen"),
		kong.Description("Extracts board-review true statements from MKSAP-style question records."),
		kong.UsageOnError(),
	)

	var logFile *os.File
	if cli.LogFile != "" {
		f, err := os.OpenFile(cli.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "opening log file: %v\n", err)
			os.Exit(exitConfig)
		}
		defer f.Close()
		logFile = f
	}
	logging.Init(logging.ParseLevel(cli.LogLevel), cli.LogFormat, logFile)

	err := kctx.Run(&cli)
	os.Exit(exitCodeFor(err))
}

func exitCodeFor(err error) int {
	if err == nil {
		return exitSuccess
	}
	var cfgErr *configError
	if errors.As(err, &cfgErr) {
		slog.Error("configuration error", "error", cfgErr.Unwrap())
		return exitConfig
	}
	var intErr *interruptedError
	if errors.As(err, &intErr) {
		slog.Info("interrupted")
		return exitSignal
	}
	var runErr *runError
	if errors.As(err, &runErr) {
		slog.Error("run completed with failures", "error", runErr.Unwrap())
		return exitRunErr
	}
	slog.Error("command failed", "error", err)
	return exitRunErr
}

// configError signals spec.md §7's fatal configuration-error kind (exit 2).
type configError struct{ cause error }

func (e *configError) Error() string { return e.cause.Error() }
func (e *configError) Unwrap() error { return e.cause }

// runError signals spec.md §7's run-error kind: the run completed but some
// questions failed (exit 1).
type runError struct{ cause error }

func (e *runError) Error() string { return e.cause.Error() }
func (e *runError) Unwrap() error { return e.cause }

// interruptedError signals a graceful SIGINT/SIGTERM stop (exit 3).
type interruptedError struct{ cause error }

func (e *interruptedError) Error() string { return e.cause.Error() }
func (e *interruptedError) Unwrap() error { return e.cause }

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		slog.Info("shutting down...")
		cancel()
	}()
	return ctx, cancel
}

func loadConfig(cli *CLI) (*config.Config, error) {
	return config.Load(cli.Config)
}

func checkpointDir(cfg *config.Config) string {
	return filepath.Join(cfg.DataRoot, ".mksapgen", "checkpoints")
}

// buildDriver wires every component from SPEC_FULL.md's component map into
// one rundriver.Driver: the NLP preprocessor, the LLM client (registry +
// response cache), the prompt extractor, the validator registry, and the
// per-provider checkpoint manager.
func buildDriver(cfg *config.Config, temperature float64, batchSize int) (*rundriver.Driver, error) {
	registry := llm.BuildRegistry(cfg.ProviderAPIKey, cfg.ProviderModel, "", 3, 60*time.Second)

	var cache *llm.ResponseCache
	if cfg.CacheEnabled {
		cache = llm.NewResponseCache(time.Duration(cfg.CacheTTLSeconds)*time.Second, 10000)
	} else {
		cache = llm.NewResponseCache(0, 1)
	}
	client := llm.NewClient(registry, cache, cfg.LLMProvider, cfg.ProviderModel, 3, cfg.CacheEnabled)

	templates, err := prompt.LoadTemplates("")
	if err != nil {
		return nil, fmt.Errorf("loading prompt templates: %w", err)
	}
	extractor := prompt.NewExtractor(templates, client, temperature)

	preprocessor := nlp.Get(cfg.NLPModelPath)

	checkpointsDir := checkpointDir(cfg)
	mgr, err := checkpoint.New(checkpointsDir, cfg.LLMProvider, batchSize)
	if err != nil {
		return nil, fmt.Errorf("opening checkpoint: %w", err)
	}

	return &rundriver.Driver{
		Orchestrator: &pipeline.Orchestrator{
			NLP:       preprocessor,
			Extractor: extractor,
			Validator: validate.NewRegistry(),
		},
		Checkpoint:     mgr,
		Client:         client,
		CheckpointsDir: checkpointsDir,
	}, nil
}

func printSummary(s rundriver.Summary) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		fmt.Printf("%+v\n", s)
		return
	}
	fmt.Println(string(data))
}
