package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var codeFencePattern = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")

// ParseJSONResponse robustly strips markdown code fences and surrounding
// narration from a provider's raw text and decodes it as JSON (spec.md
// §4.2's parse_json_response contract).
func ParseJSONResponse(raw string) (map[string]any, error) {
	candidate := strings.TrimSpace(raw)

	if m := codeFencePattern.FindStringSubmatch(candidate); m != nil {
		candidate = strings.TrimSpace(m[1])
	} else {
		// No fence: narrow to the outermost {...} span, since models often
		// prepend or append prose around the JSON object.
		if start := strings.IndexByte(candidate, '{'); start >= 0 {
			if end := strings.LastIndexByte(candidate, '}'); end > start {
				candidate = candidate[start : end+1]
			}
		}
	}

	var out map[string]any
	if err := json.Unmarshal([]byte(candidate), &out); err != nil {
		return nil, fmt.Errorf("parsing JSON response: %w", err)
	}
	return out, nil
}
