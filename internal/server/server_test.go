package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/bizintel/internal/config"
	"github.com/sells-group/bizintel/internal/model"
	"github.com/sells-group/bizintel/internal/store"
)

func testConfig() *config.Config {
	return &config.Config{Server: config.ServerConfig{CORSOrigins: []string{"*"}}}
}

func newSQLiteStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "bizintel.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func testRecord(id, name string, createdAt time.Time) *model.AnalysisRecord {
	return &model.AnalysisRecord{
		AnalysisID:      id,
		BusinessInput:   model.BusinessInput{BusinessName: name, BusinessCount: 1},
		OutreachMessage: model.OutreachPlaceholder(),
		AnalysisOptions: model.AnalysisOptions{TechStackMethod: model.MethodBoth, WebsiteAnalysisMethod: model.MethodBoth},
		CreatedAt:       createdAt,
		ProcessingTime:  model.ProcessingCompleted,
	}
}

func doRequest(t *testing.T, h http.Handler, method, target string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestAnalyzeBusiness_Success(t *testing.T) {
	rec := testRecord("id-1", "Acme Plumbing", time.Now().UTC())

	var got model.BusinessInput
	runner := &mockRunner{}
	runner.On("Run", mock.Anything, mock.AnythingOfType("model.BusinessInput")).
		Run(func(args mock.Arguments) { got = args.Get(1).(model.BusinessInput) }).
		Return(rec, nil)

	router := New(testConfig(), newSQLiteStore(t), runner).Router()
	rr := doRequest(t, router, http.MethodPost, "/api/analyze-business",
		[]byte(`{"business_name": "Acme Plumbing", "business_count": 2}`))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "application/json")
	assert.Equal(t, "Acme Plumbing", got.BusinessName)
	assert.Equal(t, 2, got.BusinessCount)

	var body struct {
		Success    bool                 `json:"success"`
		AnalysisID string               `json:"analysis_id"`
		Data       model.AnalysisRecord `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "id-1", body.AnalysisID)
	assert.Equal(t, "id-1", body.Data.AnalysisID)
}

func TestAnalyzeBusiness_DegradedRecordStillSucceeds(t *testing.T) {
	// A run with nothing configured produces a record full of stage errors;
	// the response is still a 200 with success set.
	rec := testRecord("id-degraded", "Acme Cafe", time.Now().UTC())
	rec.TechStack.Error = "No website URL provided"
	rec.WebsiteAnalysis.Error = "No website URL provided"
	rec.BusinessIntelligence = map[string]any{"error": "Business analysis failed: gemini client not configured"}

	runner := &mockRunner{}
	runner.On("Run", mock.Anything, mock.Anything).Return(rec, nil)

	router := New(testConfig(), newSQLiteStore(t), runner).Router()
	rr := doRequest(t, router, http.MethodPost, "/api/analyze-business",
		[]byte(`{"business_name": "Acme Cafe", "business_count": 1, "location": "Austin, TX"}`))

	assert.Equal(t, http.StatusOK, rr.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	tech, ok := data["tech_stack"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "No website URL provided", tech["error"])
}

func TestAnalyzeBusiness_MissingName(t *testing.T) {
	runner := &mockRunner{}
	router := New(testConfig(), newSQLiteStore(t), runner).Router()

	for _, payload := range []string{`{}`, `{"business_name": "   "}`} {
		rr := doRequest(t, router, http.MethodPost, "/api/analyze-business", []byte(payload))
		assert.Equal(t, http.StatusBadRequest, rr.Code, "payload %s", payload)
		assert.Contains(t, rr.Body.String(), "business_name is required")
	}
	runner.AssertNotCalled(t, "Run", mock.Anything, mock.Anything)
}

func TestAnalyzeBusiness_InvalidJSON(t *testing.T) {
	router := New(testConfig(), newSQLiteStore(t), &mockRunner{}).Router()

	rr := doRequest(t, router, http.MethodPost, "/api/analyze-business", []byte("not json"))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "Invalid request body")
}

func TestAnalyzeBusiness_PipelineError(t *testing.T) {
	runner := &mockRunner{}
	runner.On("Run", mock.Anything, mock.Anything).Return(nil, assert.AnError)

	router := New(testConfig(), newSQLiteStore(t), runner).Router()
	rr := doRequest(t, router, http.MethodPost, "/api/analyze-business",
		[]byte(`{"business_name": "Acme"}`))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Contains(t, body["detail"], "Analysis failed: ")
}

func TestGetAnalysis_Found(t *testing.T) {
	st := newSQLiteStore(t)
	rec := testRecord("id-42", "Acme", time.Now().UTC())
	require.NoError(t, st.InsertAnalysis(context.Background(), rec))

	router := New(testConfig(), st, &mockRunner{}).Router()
	rr := doRequest(t, router, http.MethodGet, "/api/analysis/id-42", nil)

	assert.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Success bool                 `json:"success"`
		Data    model.AnalysisRecord `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "id-42", body.Data.AnalysisID)
	assert.Equal(t, "Acme", body.Data.BusinessInput.BusinessName)
}

func TestGetAnalysis_NotFound(t *testing.T) {
	router := New(testConfig(), newSQLiteStore(t), &mockRunner{}).Router()
	rr := doRequest(t, router, http.MethodGet, "/api/analysis/never-inserted", nil)

	assert.Equal(t, http.StatusNotFound, rr.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "Analysis not found", body["detail"])
	assert.NotContains(t, body, "data")
}

func TestGetAnalysis_StoreError(t *testing.T) {
	st := &mockStore{}
	st.On("GetAnalysis", mock.Anything, "id-x").Return(nil, assert.AnError)

	router := New(testConfig(), st, &mockRunner{}).Router()
	rr := doRequest(t, router, http.MethodGet, "/api/analysis/id-x", nil)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "Failed to retrieve analysis: ")
}

func TestListAnalyses_NewestFirst(t *testing.T) {
	st := newSQLiteStore(t)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"id-a", "id-b", "id-c"} {
		rec := testRecord(id, "Acme", base.Add(time.Duration(i)*time.Hour))
		require.NoError(t, st.InsertAnalysis(context.Background(), rec))
	}

	router := New(testConfig(), st, &mockRunner{}).Router()
	rr := doRequest(t, router, http.MethodGet, "/api/analyses", nil)

	assert.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Success bool                   `json:"success"`
		Data    []model.AnalysisRecord `json:"data"`
		Total   int                    `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, 3, body.Total)
	require.Len(t, body.Data, 3)
	for i := 0; i < len(body.Data)-1; i++ {
		assert.False(t, body.Data[i].CreatedAt.Before(body.Data[i+1].CreatedAt),
			"records out of order at index %d", i)
	}
	assert.Equal(t, "id-c", body.Data[0].AnalysisID)
}

func TestListAnalyses_ReturnsEveryRecord(t *testing.T) {
	st := newSQLiteStore(t)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	const total = 105
	for i := 0; i < total; i++ {
		rec := testRecord(fmt.Sprintf("id-%03d", i), "Acme", base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, st.InsertAnalysis(context.Background(), rec))
	}

	router := New(testConfig(), st, &mockRunner{}).Router()
	rr := doRequest(t, router, http.MethodGet, "/api/analyses", nil)

	assert.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Data  []model.AnalysisRecord `json:"data"`
		Total int                    `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, total, body.Total)
	assert.Len(t, body.Data, total)
}

func TestListAnalyses_EmptyIsArray(t *testing.T) {
	router := New(testConfig(), newSQLiteStore(t), &mockRunner{}).Router()
	rr := doRequest(t, router, http.MethodGet, "/api/analyses", nil)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"data":[]`)
	assert.Contains(t, rr.Body.String(), `"total":0`)
}

func TestListAnalyses_StoreError(t *testing.T) {
	st := &mockStore{}
	st.On("ListAnalyses", mock.Anything, -1).Return(nil, assert.AnError)

	router := New(testConfig(), st, &mockRunner{}).Router()
	rr := doRequest(t, router, http.MethodGet, "/api/analyses", nil)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "Failed to retrieve analyses: ")
}

func TestHealth(t *testing.T) {
	cfg := testConfig()
	cfg.Gemini.APIKey = "key"

	router := New(cfg, newSQLiteStore(t), &mockRunner{}).Router()
	rr := doRequest(t, router, http.MethodGet, "/api/health", nil)

	assert.Equal(t, http.StatusOK, rr.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, true, body["database_connected"])
	assert.Equal(t, true, body["gemini_configured"])
	assert.Equal(t, false, body["google_search_configured"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestHealth_SearchReportsKeyWithoutEngineID(t *testing.T) {
	cfg := testConfig()
	cfg.Google.APIKey = "some-key"

	router := New(cfg, newSQLiteStore(t), &mockRunner{}).Router()
	rr := doRequest(t, router, http.MethodGet, "/api/health", nil)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, true, body["google_search_configured"])
}

func TestHealth_DatabaseDown(t *testing.T) {
	st := &mockStore{}
	st.On("Ping", mock.Anything).Return(assert.AnError)

	router := New(testConfig(), st, &mockRunner{}).Router()
	rr := doRequest(t, router, http.MethodGet, "/api/health", nil)

	assert.Equal(t, http.StatusOK, rr.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, false, body["database_connected"])
}

func TestCORS_Preflight(t *testing.T) {
	cfg := testConfig()
	cfg.Server.CORSOrigins = []string{"https://app.example.com"}

	router := New(cfg, newSQLiteStore(t), &mockRunner{}).Router()

	req := httptest.NewRequest(http.MethodOptions, "/api/analyze-business", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "https://app.example.com", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rr.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORS_ActualRequest(t *testing.T) {
	router := New(testConfig(), newSQLiteStore(t), &mockRunner{}).Router()

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "https://anything.example.com")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}
