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

// requiredContactFields are backfilled with null when the model omits them,
// so the canonical record always carries all five keys.
var requiredContactFields = []string{"business_name", "email", "phone", "website", "address"}

// NormalizeBusinessData turns one query's raw search bundle into the
// canonical business record via the extraction prompt. It never fails:
// unusable model output degrades to a placeholder record whose
// confidence_score and error fields tell downstream consumers how far
// processing got — 0.3 when the reply held no JSON object, 0.1 when the
// object would not parse, 0.0 when the model call itself failed.
func NormalizeBusinessData(ctx context.Context, llm gemini.Client, costs *cost.Tracker, api model.APIResults, scraped model.ScrapedResults, businessName string) map[string]any {
	allData := map[string]any{
		"api_data":      api,
		"scraped_data":  scraped,
		"business_name": businessName,
	}
	searchJSON, err := json.Marshal(allData)
	if err != nil {
		return degradedExtraction(businessName, 0.0, "AI processing failed", "AI processing failed: "+err.Error())
	}

	text, err := generateText(ctx, llm, costs,
		extractionSystemMessage,
		fmt.Sprintf(extractionPrompt, businessName, searchJSON))
	if err != nil {
		return degradedExtraction(businessName, 0.0, "AI processing failed", "AI processing failed: "+err.Error())
	}

	parsed, err := extractJSONObject(text)
	switch {
	case err == nil:
		for _, field := range requiredContactFields {
			if _, ok := parsed[field]; !ok {
				parsed[field] = nil
			}
		}
		return parsed
	case errors.Is(err, errNoJSONObject):
		return degradedExtraction(businessName, 0.3, "Business data extraction in progress", "Could not parse AI response")
	default:
		return degradedExtraction(businessName, 0.1, "Business data extraction failed", "JSON parsing error: "+err.Error())
	}
}

// degradedExtraction is the placeholder record returned when normalization
// cannot produce real data. Contact fields are explicit nulls, never omitted.
func degradedExtraction(businessName string, confidence float64, description, errMsg string) map[string]any {
	return map[string]any{
		"business_name":    businessName,
		"email":            nil,
		"phone":            nil,
		"website":          nil,
		"address":          nil,
		"social_media":     map[string]any{},
		"description":      description,
		"services":         []string{},
		"confidence_score": confidence,
		"error":            errMsg,
	}
}
