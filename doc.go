// Package mksapstatementgen turns MKSAP-style board-review question records
// into discrete, cloze-ready true statements.
//
// # Overview
//
// Each question file carries a critique and a list of key points written in
// prose. The pipeline runs both through an NLP preprocessing pass (sentence
// segmentation, entity tagging, negation scope, numeric-unit capture), then
// extracts declarative statements via an LLM, identifies cloze-deletion
// candidates within them, attaches source-grounded context, normalizes and
// deduplicates near-identical statements, and validates the result against
// board-relevance and hallucination checks before writing it back into the
// original question file.
//
// # Quick Start
//
//	mksapgen process --data-root ./questions --mode production
//	mksapgen stats --data-root ./questions
//
// # Architecture
//
//	question.Discover → pipeline.Process (per question):
//	  nlp.Preprocessor → prompt.Extractor (LLM) → normalize → validate → question.Write
//
// Selection mode, resume/force/dry-run, and the end-of-run summary are
// rundriver's concern; pipeline.Process implements the fixed ten-step
// sequence over one question.
//
// # Providers
//
// One hosted API and three local CLI wrappers are registered behind a single
// Provider interface (internal/llm), selected by name at runtime.
package mksapstatementgen
