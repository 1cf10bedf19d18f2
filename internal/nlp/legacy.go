package nlp

import "log/slog"

// logLegacyModeWarning is emitted exactly once per process, per spec.md
// §4.1 ("A single warning is logged at startup, not per question").
func logLegacyModeWarning() {
	slog.Warn("medical NLP model unavailable; running in legacy mode",
		"effect", "NLP bundles are empty stubs; prompts omit NLP-derived guidance")
}
