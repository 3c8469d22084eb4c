package pipeline

import (
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"
)

// errNoJSONObject reports that an LLM reply contained no {...} span at all.
// Callers distinguish it from a syntax error inside a span; the two map to
// different degraded records.
var errNoJSONObject = eris.New("no JSON object in response")

// stripFences removes a leading ``` or ```json marker and the closing fence.
// Replies without a leading fence pass through untouched, so stripping is
// idempotent.
func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimPrefix(text, "json")
	text = strings.TrimSpace(text)
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

// extractJSONObject pulls the structured object out of an LLM reply: fences
// are stripped, the widest {...} span is taken, and the span is decoded into
// a map. Returns errNoJSONObject when no span exists, or the decode error
// verbatim when a span exists but is not valid JSON.
func extractJSONObject(text string) (map[string]any, error) {
	text = stripFences(text)

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, errNoJSONObject
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(text[start:end+1]), &obj); err != nil {
		return nil, err
	}
	return obj, nil
}
