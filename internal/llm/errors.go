package llm

import "fmt"

// ProviderTransientError is a retryable failure: rate limit, timeout, 5xx,
// or a transient subprocess failure (spec.md §7).
type ProviderTransientError struct {
	Provider string
	Cause    error
}

func (e *ProviderTransientError) Error() string {
	return fmt.Sprintf("provider %s: transient error: %v", e.Provider, e.Cause)
}

func (e *ProviderTransientError) Unwrap() error { return e.Cause }

// ProviderLimitError is the distinguished "usage-limit reached" signal. The
// run driver flushes the checkpoint and terminates gracefully with exit
// code 1 on receiving it (spec.md §7).
type ProviderLimitError struct {
	Provider string
	Detail   string
}

func (e *ProviderLimitError) Error() string {
	return fmt.Sprintf("provider %s: usage limit reached: %s", e.Provider, e.Detail)
}

// ProviderAuthError is a fatal, non-retryable authentication failure
// (spec.md §7): invalid credentials, no per-question retry.
type ProviderAuthError struct {
	Provider string
	Cause    error
}

func (e *ProviderAuthError) Error() string {
	return fmt.Sprintf("provider %s: authentication error: %v", e.Provider, e.Cause)
}

func (e *ProviderAuthError) Unwrap() error { return e.Cause }

// ExtractionError wraps an LLM response that lacks the expected top-level
// key (spec.md §4.3.6): a question-level failure, not retried.
type ExtractionError struct {
	Stage   string
	RawText string
	Cause   error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction stage %s: %v (raw: %.200s)", e.Stage, e.Cause, e.RawText)
}

func (e *ExtractionError) Unwrap() error { return e.Cause }
