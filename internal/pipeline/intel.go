package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sells-group/bizintel/internal/cost"
	"github.com/sells-group/bizintel/internal/model"
	"github.com/sells-group/bizintel/pkg/gemini"
)

// SynthesizeIntelligence asks the model for the multi-section intelligence
// verdict over the normalized business record and the website quality
// report. The verdict is schema-by-convention: once the reply parses it is
// returned untouched, with no field-level validation or defaulting. Failures
// degrade to an error object — with the raw reply attached when there was a
// reply to attach.
func SynthesizeIntelligence(ctx context.Context, llm gemini.Client, costs *cost.Tracker, businessData map[string]any, websiteAnalysis *model.WebsiteAnalysis) map[string]any {
	if businessData == nil {
		businessData = map[string]any{}
	}

	businessJSON, err := json.Marshal(businessData)
	if err != nil {
		return map[string]any{"error": "Business analysis failed: " + err.Error()}
	}
	analysisJSON, err := json.Marshal(websiteAnalysis)
	if err != nil {
		return map[string]any{"error": "Business analysis failed: " + err.Error()}
	}

	text, err := generateText(ctx, llm, costs,
		intelligenceSystemMessage,
		fmt.Sprintf(intelligencePrompt, businessJSON, analysisJSON))
	if err != nil {
		return map[string]any{"error": "Business analysis failed: " + err.Error()}
	}

	parsed, err := extractJSONObject(text)
	switch {
	case err == nil:
		return parsed
	case errors.Is(err, errNoJSONObject):
		return map[string]any{"error": "Could not parse AI analysis response", "raw_response": text}
	default:
		return map[string]any{"error": "Invalid JSON in AI response: " + err.Error(), "raw_response": text}
	}
}
