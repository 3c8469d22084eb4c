package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/bizintel/internal/model"
	"github.com/sells-group/bizintel/pkg/gemini"
	geminimocks "github.com/sells-group/bizintel/pkg/gemini/mocks"
)

func TestNormalizeBusinessData_BackfillsContactFields(t *testing.T) {
	llm := geminimocks.NewMockClient(t)
	llm.On("GenerateContent", mock.Anything, mock.Anything).
		Return(textResponse(`{"business_name": "Acme Plumbing", "website": "https://acme.com", "confidence_score": 0.85}`), nil)

	rec := NormalizeBusinessData(context.Background(), llm, nil, model.APIResults{}, model.ScrapedResults{}, "Acme Plumbing")

	assert.Equal(t, "Acme Plumbing", rec["business_name"])
	assert.Equal(t, "https://acme.com", rec["website"])
	// Omitted contact fields come back as explicit nulls, never missing keys.
	for _, field := range []string{"email", "phone", "address"} {
		v, ok := rec[field]
		require.True(t, ok, "field %s", field)
		assert.Nil(t, v, "field %s", field)
	}
	assert.NotContains(t, rec, "error")
}

func TestNormalizeBusinessData_PassesParsedRecordThrough(t *testing.T) {
	reply := "```json\n" + `{
		"business_name": "Acme Plumbing",
		"email": "office@acme.com",
		"phone": "555-0100",
		"website": "https://acme.com",
		"address": "1 Main St",
		"social_media": {"facebook": "fb.com/acme"},
		"description": "Residential plumbing",
		"services": ["repairs"],
		"confidence_score": 0.92
	}` + "\n```"

	llm := geminimocks.NewMockClient(t)
	llm.On("GenerateContent", mock.Anything, mock.Anything).Return(textResponse(reply), nil)

	rec := NormalizeBusinessData(context.Background(), llm, nil, model.APIResults{}, model.ScrapedResults{}, "Acme Plumbing")

	assert.Equal(t, "office@acme.com", rec["email"])
	assert.Equal(t, 0.92, rec["confidence_score"])
	assert.NotContains(t, rec, "error")
}

func TestNormalizeBusinessData_ReplyWithoutJSON(t *testing.T) {
	llm := geminimocks.NewMockClient(t)
	llm.On("GenerateContent", mock.Anything, mock.Anything).
		Return(textResponse("Sorry, I cannot extract anything from this."), nil)

	rec := NormalizeBusinessData(context.Background(), llm, nil, model.APIResults{}, model.ScrapedResults{}, "Acme Plumbing")

	assert.Equal(t, "Acme Plumbing", rec["business_name"])
	assert.Equal(t, 0.3, rec["confidence_score"])
	assert.Equal(t, "Business data extraction in progress", rec["description"])
	assert.Equal(t, "Could not parse AI response", rec["error"])
	assert.Nil(t, rec["email"])
	assert.Equal(t, map[string]any{}, rec["social_media"])
	assert.Equal(t, []string{}, rec["services"])
}

func TestNormalizeBusinessData_MalformedJSON(t *testing.T) {
	llm := geminimocks.NewMockClient(t)
	llm.On("GenerateContent", mock.Anything, mock.Anything).
		Return(textResponse(`{"business_name": "Acme",}`), nil)

	rec := NormalizeBusinessData(context.Background(), llm, nil, model.APIResults{}, model.ScrapedResults{}, "Acme Plumbing")

	assert.Equal(t, 0.1, rec["confidence_score"])
	assert.Equal(t, "Business data extraction failed", rec["description"])
	errMsg, _ := rec["error"].(string)
	assert.Contains(t, errMsg, "JSON parsing error: ")
}

func TestNormalizeBusinessData_CallFailure(t *testing.T) {
	llm := geminimocks.NewMockClient(t)
	llm.On("GenerateContent", mock.Anything, mock.Anything).Return(nil, assert.AnError)

	rec := NormalizeBusinessData(context.Background(), llm, nil, model.APIResults{}, model.ScrapedResults{}, "Acme Plumbing")

	assert.Equal(t, 0.0, rec["confidence_score"])
	assert.Equal(t, "AI processing failed", rec["description"])
	errMsg, _ := rec["error"].(string)
	assert.Contains(t, errMsg, "AI processing failed: ")
}

func TestNormalizeBusinessData_UnconfiguredClient(t *testing.T) {
	rec := NormalizeBusinessData(context.Background(), nil, nil, model.APIResults{}, model.ScrapedResults{}, "Acme Plumbing")

	assert.Equal(t, 0.0, rec["confidence_score"])
	assert.Equal(t, "AI processing failed: gemini client not configured", rec["error"])
}

func TestNormalizeBusinessData_PromptCarriesSearchData(t *testing.T) {
	var got gemini.GenerateContentRequest
	llm := geminimocks.NewMockClient(t)
	llm.On("GenerateContent", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { got = args.Get(1).(gemini.GenerateContentRequest) }).
		Return(textResponse(`{"business_name": "Acme"}`), nil)

	api := model.APIResults{
		Source:  model.SourceGoogleAPI,
		Results: []model.SearchItem{{Title: "Acme Plumbing", Link: "https://acme.com", Snippet: "Call 555-0100"}},
	}
	scraped := model.ScrapedResults{
		Source:         model.SourceCustomScraping,
		BusinessName:   "Acme Plumbing",
		SearchSnippets: []string{"Best plumber in town"},
	}
	NormalizeBusinessData(context.Background(), llm, nil, api, scraped, "Acme Plumbing")

	require.NotNil(t, got.SystemInstruction)
	assert.Equal(t, extractionSystemMessage, got.SystemInstruction.Parts[0].Text)

	prompt := got.Contents[0].Parts[0].Text
	assert.Contains(t, prompt, "Acme Plumbing")
	assert.Contains(t, prompt, "api_data")
	assert.Contains(t, prompt, "Best plumber in town")
	assert.Contains(t, prompt, "Call 555-0100")
}
