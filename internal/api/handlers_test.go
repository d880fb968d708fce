package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spectrumhq/spectrum/internal/cache"
	"github.com/spectrumhq/spectrum/internal/core/domain"
	"github.com/spectrumhq/spectrum/internal/core/ports"
	"github.com/spectrumhq/spectrum/internal/usecase"
)

type stubAI struct{}

func (stubAI) Name() string { return "groq" }

func (stubAI) AnalyzePoliticalLeaning(context.Context, string, string, string) (domain.PoliticalLeaning, error) {
	return domain.PoliticalLeaning{Score: -0.3, Confidence: 0.8, Reasoning: "test"}, nil
}

func (stubAI) ExtractTopics(context.Context, string, string) (domain.TopicAnalysis, error) {
	return domain.TopicAnalysis{PrimaryTopic: "Politics", Keywords: []string{"vote"}}, nil
}

func (stubAI) ExtractKeyPoints(context.Context, string, string, int) ([]domain.ArticlePoint, error) {
	return []domain.ArticlePoint{{ID: "p1", Statement: "claim", Sentiment: domain.SentimentNeutral}}, nil
}

func (stubAI) ComparePoints(context.Context, []domain.ArticlePoint, []domain.ArticlePoint, string, string) ([]domain.PointComparison, error) {
	return nil, nil
}

func (stubAI) HealthCheck(context.Context) bool { return true }

type stubFetcher struct {
	fail bool
}

func (f *stubFetcher) Fetch(_ context.Context, url string) (*domain.Article, error) {
	if f.fail {
		return nil, fmt.Errorf("fetch refused")
	}

	return &domain.Article{
		ID:      domain.ArticleID(url),
		URL:     url,
		Title:   "Fixture",
		Content: "Fixture content long enough to analyze in tests.",
		Source:  domain.Source{Name: "Fixture News", Domain: "fixture.example.com"},
	}, nil
}

func (f *stubFetcher) HealthCheck(context.Context) bool { return !f.fail }

type stubAggregator struct{}

func (stubAggregator) Name() string { return "newsapi" }

func (stubAggregator) Search(context.Context, ports.SearchQuery) (*ports.SearchResult, error) {
	return &ports.SearchResult{Articles: []ports.ArticlePreview{
		{URL: "https://other.example.com/1", Title: "Other take", Source: "Other"},
	}}, nil
}

func (stubAggregator) HealthCheck(context.Context) bool { return true }

func newTestServer(t *testing.T, fetcher ports.ArticleFetcher) *Server {
	t.Helper()

	logger := zerolog.Nop()
	store := cache.NewMemory(100, &logger)
	ai := stubAI{}
	analyze := usecase.NewAnalyzeArticle(ai, fetcher, store, 5, &logger)
	compare := usecase.NewCompareArticles(ai, analyze, store, &logger)
	related := usecase.NewFindRelated(stubAggregator{}, analyze, store, &logger)

	cfg := ServerConfig{Port: 0, RateLimitRequests: 100, RateLimitWindow: time.Minute}

	return NewServer(cfg, analyze, compare, related, fetcher, ai, stubAggregator{}, &logger)
}

func postJSON(t *testing.T, handler http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)

	return recorder
}

func TestAnalyzeEndpoint(t *testing.T) {
	server := newTestServer(t, &stubFetcher{})

	recorder := postJSON(t, server.Router(), "/api/v1/articles/analyze", map[string]interface{}{
		"url": "https://example.com/story",
	})

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.NotEmpty(t, recorder.Header().Get("X-Request-ID"))

	var resp analyzeResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Data)
	assert.InDelta(t, -0.3, resp.Data.PoliticalLeaning.Score, 1e-9)
	assert.False(t, resp.Cached)
}

func TestAnalyzeEndpointUpgradesHTTP(t *testing.T) {
	server := newTestServer(t, &stubFetcher{})

	recorder := postJSON(t, server.Router(), "/api/v1/articles/analyze", map[string]interface{}{
		"url": "http://example.com/story",
	})

	require.Equal(t, http.StatusOK, recorder.Code)

	var resp analyzeResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.Equal(t, "https://example.com/story", resp.Data.ArticleURL)
}

func TestAnalyzeEndpointRejectsBadURL(t *testing.T) {
	server := newTestServer(t, &stubFetcher{})

	recorder := postJSON(t, server.Router(), "/api/v1/articles/analyze", map[string]interface{}{
		"url": "ftp://example.com/story",
	})

	require.Equal(t, http.StatusBadRequest, recorder.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "VALIDATION", resp.Error.Code)
	assert.False(t, resp.Error.Retryable)
	assert.NotEmpty(t, resp.Error.Suggestion)
}

func TestCompareEndpointValidatesCount(t *testing.T) {
	server := newTestServer(t, &stubFetcher{})

	recorder := postJSON(t, server.Router(), "/api/v1/comparisons", map[string]interface{}{
		"article_urls": []string{"https://example.com/only"},
	})

	require.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestCompareEndpointRejectsBadDepth(t *testing.T) {
	server := newTestServer(t, &stubFetcher{})

	recorder := postJSON(t, server.Router(), "/api/v1/comparisons", map[string]interface{}{
		"article_urls":     []string{"https://example.com/a", "https://example.com/b"},
		"comparison_depth": "extreme",
	})

	require.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestCompareEndpoint(t *testing.T) {
	server := newTestServer(t, &stubFetcher{})

	recorder := postJSON(t, server.Router(), "/api/v1/comparisons", map[string]interface{}{
		"article_urls": []string{"https://example.com/a", "https://example.com/b"},
	})

	require.Equal(t, http.StatusOK, recorder.Code)

	var resp compareResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 2, resp.ArticlesAnalyzed)
	require.NotNil(t, resp.Data)
	assert.Len(t, resp.Data.PairwiseComparisons, 1)
}

func TestRelatedEndpointRequiresCriteria(t *testing.T) {
	server := newTestServer(t, &stubFetcher{})

	recorder := postJSON(t, server.Router(), "/api/v1/articles/related", map[string]interface{}{})

	require.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestRelatedEndpoint(t *testing.T) {
	server := newTestServer(t, &stubFetcher{})

	recorder := postJSON(t, server.Router(), "/api/v1/articles/related", map[string]interface{}{
		"topic": "economy",
	})

	require.Equal(t, http.StatusOK, recorder.Code)

	var resp relatedResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 1, resp.TotalFound)
	assert.Equal(t, []string{"economy"}, resp.SearchKeywords)
}

func TestUnclassifiedFailureMapsToInternal(t *testing.T) {
	server := newTestServer(t, &stubFetcher{fail: true})

	recorder := postJSON(t, server.Router(), "/api/v1/articles/analyze", map[string]interface{}{
		"url": "https://example.com/story",
	})

	// A plain fetch error classifies as internal.
	require.Equal(t, http.StatusInternalServerError, recorder.Code)
}

func TestHealthz(t *testing.T) {
	server := newTestServer(t, &stubFetcher{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	recorder := httptest.NewRecorder()
	server.Router().ServeHTTP(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "OK", recorder.Body.String())
}

func TestReadyzUnhealthyFetcher(t *testing.T) {
	server := newTestServer(t, &stubFetcher{fail: true})

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	recorder := httptest.NewRecorder()
	server.Router().ServeHTTP(recorder, req)

	require.Equal(t, http.StatusServiceUnavailable, recorder.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "unhealthy", body["status"])
}

func TestRateLimitRejectsBurst(t *testing.T) {
	logger := zerolog.Nop()
	store := cache.NewMemory(100, &logger)
	fetcher := &stubFetcher{}
	ai := stubAI{}
	analyze := usecase.NewAnalyzeArticle(ai, fetcher, store, 5, &logger)
	compare := usecase.NewCompareArticles(ai, analyze, store, &logger)
	related := usecase.NewFindRelated(stubAggregator{}, analyze, store, &logger)

	cfg := ServerConfig{Port: 0, RateLimitRequests: 2, RateLimitWindow: time.Minute}
	server := NewServer(cfg, analyze, compare, related, fetcher, ai, stubAggregator{}, &logger)
	router := server.Router()

	body := map[string]interface{}{"url": "https://example.com/story"}

	for i := 0; i < 2; i++ {
		recorder := postJSON(t, router, "/api/v1/articles/analyze", body)
		require.Equal(t, http.StatusOK, recorder.Code)
	}

	recorder := postJSON(t, router, "/api/v1/articles/analyze", body)
	require.Equal(t, http.StatusTooManyRequests, recorder.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.True(t, resp.Error.Retryable)
}
