package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sells-group/bizintel/internal/cost"
	"github.com/sells-group/bizintel/pkg/gemini"
)

// GenerateOutreach drafts a personalized outreach email from the
// intelligence verdict. Like the verdict itself, the draft is returned
// exactly as the model shaped it; failures degrade to an error object.
func GenerateOutreach(ctx context.Context, llm gemini.Client, costs *cost.Tracker, businessAnalysis map[string]any, businessName string) map[string]any {
	if businessAnalysis == nil {
		businessAnalysis = map[string]any{}
	}

	analysisJSON, err := json.Marshal(businessAnalysis)
	if err != nil {
		return map[string]any{"error": "Outreach generation failed: " + err.Error()}
	}

	text, err := generateText(ctx, llm, costs,
		outreachSystemMessage,
		fmt.Sprintf(outreachPrompt, businessName, analysisJSON))
	if err != nil {
		return map[string]any{"error": "Outreach generation failed: " + err.Error()}
	}

	parsed, err := extractJSONObject(text)
	switch {
	case err == nil:
		return parsed
	case errors.Is(err, errNoJSONObject):
		return map[string]any{"error": "Could not parse outreach generation response", "raw_response": text}
	default:
		return map[string]any{"error": "Invalid JSON in outreach response: " + err.Error(), "raw_response": text}
	}
}
