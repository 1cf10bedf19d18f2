package prompt

import "github.com/mitch9727/mksap-statement-gen/internal/llm"

// Extractor holds the dependencies the four prompt-stage extractors share:
// the templates, the LLM client, and the sampling temperature.
type Extractor struct {
	templates   *Templates
	client      *llm.Client
	temperature float64
}

// NewExtractor builds an Extractor bound to a template set and LLM client.
func NewExtractor(templates *Templates, client *llm.Client, temperature float64) *Extractor {
	return &Extractor{templates: templates, client: client, temperature: temperature}
}
