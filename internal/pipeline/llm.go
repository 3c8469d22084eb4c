package pipeline

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/bizintel/internal/cost"
	"github.com/sells-group/bizintel/pkg/gemini"
)

// generateText sends one system+user exchange to the model and returns the
// reply text. A nil client means no API key was configured; that surfaces as
// an error so each stage can record its own degraded result.
func generateText(ctx context.Context, llm gemini.Client, costs *cost.Tracker, system, prompt string) (string, error) {
	if llm == nil {
		return "", eris.New("gemini client not configured")
	}

	resp, err := llm.GenerateContent(ctx, gemini.GenerateContentRequest{
		SystemInstruction: &gemini.Content{Parts: []gemini.Part{{Text: system}}},
		Contents:          []gemini.Content{{Role: "user", Parts: []gemini.Part{{Text: prompt}}}},
	})
	if err != nil {
		return "", err
	}

	recordUsage(costs, resp)
	return resp.Text(), nil
}

// recordUsage books the call's token counts against the run's cost tracker.
func recordUsage(costs *cost.Tracker, resp *gemini.GenerateContentResponse) {
	if resp == nil || resp.UsageMetadata == nil {
		return
	}
	model := resp.ModelVersion
	if model == "" {
		model = gemini.DefaultModel
	}
	costs.AddGeneration(model, resp.UsageMetadata.PromptTokenCount, resp.UsageMetadata.CandidatesTokenCount)
}
