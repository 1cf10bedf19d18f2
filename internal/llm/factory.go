package llm

import "time"

// BuildRegistry registers the four back-ends spec.md §4.2 and §6 describe:
// one hosted API and three local CLI wrappers. Each local CLI is a distinct
// binary with its own input convention, mirroring real wrappers like the
// `claude`, `codex`, and `gemini` CLIs this corpus's other examples spawn
// (see joestump-claude-ops, jgavinray-gpt-oss-executor in other_examples).
func BuildRegistry(apiKey, apiModel, apiBaseURL string, maxRetries int, timeout time.Duration) *Registry {
	r := NewRegistry()

	r.Register("api", NewHostedProvider("api", apiBaseURL, apiModel, apiKey, maxRetries, timeout))
	r.Register("cli-a", NewLocalCLIProvider("cli-a", "mksap-llm-a", []string{"--json"}, InputStdin, timeout))
	r.Register("cli-b", NewLocalCLIProvider("cli-b", "mksap-llm-b", nil, InputFlag, timeout))
	r.Register("cli-c", NewLocalCLIProvider("cli-c", "mksap-llm-c", []string{"complete"}, InputStdin, timeout))

	return r
}
