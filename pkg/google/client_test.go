package google

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomSearch_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/customsearch/v1", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		assert.Equal(t, "test-cx", r.URL.Query().Get("cx"))
		assert.Equal(t, "Acme Corp Springfield IL contact email website phone", r.URL.Query().Get("q"))
		assert.Equal(t, "10", r.URL.Query().Get("num"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(SearchResponse{
			Items: []SearchItem{
				{
					Title:   "Acme Corp - Home",
					Link:    "https://acmecorp.com",
					Snippet: "Acme Corp is a leading provider of anvils.",
				},
			},
		})
	}))
	defer srv.Close()

	client := NewClient("test-key", "test-cx", WithBaseURL(srv.URL))
	resp, err := client.CustomSearch(context.Background(), "Acme Corp Springfield IL contact email website phone", 10)

	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Acme Corp - Home", resp.Items[0].Title)
	assert.Equal(t, "https://acmecorp.com", resp.Items[0].Link)
	assert.Equal(t, "Acme Corp is a leading provider of anvils.", resp.Items[0].Snippet)
}

func TestCustomSearch_NoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(SearchResponse{Items: nil})
	}))
	defer srv.Close()

	client := NewClient("test-key", "test-cx", WithBaseURL(srv.URL))
	resp, err := client.CustomSearch(context.Background(), "Nonexistent Corp", 10)

	require.NoError(t, err)
	assert.Empty(t, resp.Items)
}

func TestCustomSearch_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error": "invalid API key"}`)) //nolint:errcheck
	}))
	defer srv.Close()

	client := NewClient("bad-key", "test-cx", WithBaseURL(srv.URL))
	resp, err := client.CustomSearch(context.Background(), "test query", 10)

	assert.Error(t, err)
	assert.Nil(t, resp)
	assert.Contains(t, err.Error(), "403")
}

func TestCustomSearch_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		// Simulate slow response — context should cancel first.
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately.

	client := NewClient("test-key", "test-cx", WithBaseURL(srv.URL))
	resp, err := client.CustomSearch(ctx, "test", 10)

	assert.Error(t, err)
	assert.Nil(t, resp)
}

func TestCustomSearch_NumParam(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "5", r.URL.Query().Get("num"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(SearchResponse{})
	}))
	defer srv.Close()

	client := NewClient("test-key", "test-cx", WithBaseURL(srv.URL))
	_, err := client.CustomSearch(context.Background(), `site:linkedin.com/company "Acme Corp"`, 5)
	require.NoError(t, err)
}

func TestCustomSearch_QueryEncoding(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// url.Query decodes the escaped value back to the original.
		assert.Equal(t, `site:linkedin.com "Smith & Sons" company`, r.URL.Query().Get("q"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(SearchResponse{})
	}))
	defer srv.Close()

	client := NewClient("test-key", "test-cx", WithBaseURL(srv.URL))
	_, err := client.CustomSearch(context.Background(), `site:linkedin.com "Smith & Sons" company`, 5)
	require.NoError(t, err)
}
