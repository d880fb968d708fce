package aggregator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spectrumhq/spectrum/internal/core/ports"
)

func newTestLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

func TestNewsAPISearch(t *testing.T) {
	var gotQuery string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get(newsAPIAuthHeader))
		gotQuery = r.URL.Query().Get("q")

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status":       "ok",
			"totalResults": 2,
			"articles": []map[string]interface{}{
				{
					"source":      map[string]string{"name": "Example Times"},
					"title":       "Budget passes",
					"url":         "https://example.com/budget",
					"description": "snippet",
					"publishedAt": "2026-03-14T09:30:00Z",
				},
				{
					// Missing title, must be skipped.
					"source": map[string]string{"name": "Broken"},
					"url":    "https://broken.test/x",
				},
			},
		})
	}))
	defer server.Close()

	a := NewNewsAPI("test-key", newTestLogger())
	a.baseURL = server.URL

	result, err := a.Search(context.Background(), ports.SearchQuery{
		Keywords: []string{"budget", "senate"},
		DaysBack: 7,
		Limit:    10,
	})
	require.NoError(t, err)

	assert.Equal(t, "budget OR senate", gotQuery)
	assert.Equal(t, 2, result.TotalResults)
	require.Len(t, result.Articles, 1)
	assert.Equal(t, "Example Times", result.Articles[0].Source)
	assert.Equal(t, NameNewsAPI, result.SearchSource)
	require.NotNil(t, result.Articles[0].PublishedAt)
	assert.Equal(t, 2026, result.Articles[0].PublishedAt.Year())
}

func TestNewsAPISearchAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "error",
			"message": "apiKeyInvalid",
		})
	}))
	defer server.Close()

	a := NewNewsAPI("bad-key", newTestLogger())
	a.baseURL = server.URL

	_, err := a.Search(context.Background(), ports.SearchQuery{Keywords: []string{"x"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, errNewsAPIError)
}

func TestGNewsSearchFiltersExcludedDomains(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"totalArticles": 2,
			"articles": []map[string]interface{}{
				{
					"title":  "Kept",
					"url":    "https://other.test/a",
					"source": map[string]string{"name": "Other"},
				},
				{
					"title":  "Excluded",
					"url":    "https://www.origin.test/b",
					"source": map[string]string{"name": "Origin"},
				},
			},
		})
	}))
	defer server.Close()

	a := NewGNews("test-key", newTestLogger())
	a.baseURL = server.URL

	result, err := a.Search(context.Background(), ports.SearchQuery{
		Keywords:       []string{"x"},
		ExcludeDomains: []string{"origin.test"},
	})
	require.NoError(t, err)

	require.Len(t, result.Articles, 1)
	assert.Equal(t, "Kept", result.Articles[0].Title)
	assert.Equal(t, NameGNews, result.SearchSource)
}
