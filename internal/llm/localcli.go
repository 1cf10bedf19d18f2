package llm

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// InputMode selects how the prompt reaches the CLI subprocess.
type InputMode int

const (
	InputStdin InputMode = iota
	InputFlag
)

// limitSignals are stderr substrings that identify a usage-limit condition
// (spec.md §4.2 "usage-limit reached" signal), distinct from ordinary
// transient failures.
var limitSignals = []string{"usage limit", "quota exceeded", "rate limit exceeded for today"}

// authSignals are stderr substrings identifying a non-retryable
// authentication failure.
var authSignals = []string{"unauthorized", "invalid api key", "authentication failed", "not logged in"}

// LocalCLIProvider spawns a stateless CLI subprocess per call: each
// invocation is independent, matching spec.md §4.2's "Local CLI A/B/C"
// description. Grounded on the teacher's pkg/tools/command.go
// (exec.CommandContext, context-scoped timeout, CombinedOutput, stderr
// substring classification into retryable/non-retryable).
type LocalCLIProvider struct {
	name    string
	bin     string
	args    []string
	mode    InputMode
	timeout time.Duration
}

// NewLocalCLIProvider builds a provider that shells out to bin. extraArgs
// are passed before the prompt argument/stdin (e.g. model selection flags).
func NewLocalCLIProvider(name, bin string, extraArgs []string, mode InputMode, timeout time.Duration) *LocalCLIProvider {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &LocalCLIProvider{name: name, bin: bin, args: extraArgs, mode: mode, timeout: timeout}
}

func (p *LocalCLIProvider) Name() string { return p.name }

// Generate spawns the subprocess, feeds it the prompt, and returns stdout.
// temperature is accepted for interface symmetry; local CLI wrappers in
// this family do not expose a temperature flag.
func (p *LocalCLIProvider) Generate(ctx context.Context, prompt string, _ float64) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	args := append([]string{}, p.args...)
	var stdin *bytes.Buffer
	switch p.mode {
	case InputFlag:
		args = append(args, "-p", prompt)
	default:
		stdin = bytes.NewBufferString(prompt)
	}

	cmd := exec.CommandContext(ctx, p.bin, args...)
	if stdin != nil {
		cmd.Stdin = stdin
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return stdout.String(), nil
	}

	stderrLower := strings.ToLower(stderr.String())
	for _, sig := range limitSignals {
		if strings.Contains(stderrLower, sig) {
			return "", &ProviderLimitError{Provider: p.name, Detail: strings.TrimSpace(stderr.String())}
		}
	}
	for _, sig := range authSignals {
		if strings.Contains(stderrLower, sig) {
			return "", &ProviderAuthError{Provider: p.name, Cause: fmt.Errorf("%s", strings.TrimSpace(stderr.String()))}
		}
	}

	if ctx.Err() != nil {
		return "", &ProviderTransientError{Provider: p.name, Cause: ctx.Err()}
	}

	// Unclassified non-zero exit: treat as transient, matching spec.md's
	// "transient subprocess failure" retry category.
	return "", &ProviderTransientError{Provider: p.name, Cause: fmt.Errorf("%s: %w (stderr: %s)", p.bin, err, truncate(stderr.String(), 200))}
}
