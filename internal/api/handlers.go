// Package api exposes the analysis engine over HTTP with JSON request and
// response envelopes.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/spectrumhq/spectrum/internal/core/domain"
	cerrors "github.com/spectrumhq/spectrum/internal/core/errors"
	"github.com/spectrumhq/spectrum/internal/usecase"
)

// Request body limit. Requests carry URLs and short keyword lists only.
const maxRequestBytes = 64 << 10

// Full-analysis defaults and bounds.
const (
	defaultRelatedCount = 3
	maxRelatedCount     = 5
)

type analyzeRequest struct {
	URL           string `json:"url"`
	IncludePoints *bool  `json:"include_points,omitempty"`
	ForceRefresh  bool   `json:"force_refresh,omitempty"`
}

type analyzeResponse struct {
	Success          bool                    `json:"success"`
	Data             *domain.ArticleAnalysis `json:"data"`
	Cached           bool                    `json:"cached"`
	ProcessingTimeMs int64                   `json:"processing_time_ms"`
}

type relatedRequest struct {
	URL            string   `json:"url,omitempty"`
	Keywords       []string `json:"keywords,omitempty"`
	Topic          string   `json:"topic,omitempty"`
	Limit          int      `json:"limit,omitempty"`
	DaysBack       int      `json:"days_back,omitempty"`
	AnalyzeResults bool     `json:"analyze_results,omitempty"`
}

type relatedResponse struct {
	Success          bool                     `json:"success"`
	OriginalAnalysis *domain.ArticleAnalysis  `json:"original_analysis,omitempty"`
	SearchKeywords   []string                 `json:"search_keywords"`
	Articles         []relatedArticlePreview  `json:"articles"`
	Analyses         []domain.ArticleAnalysis `json:"analyses,omitempty"`
	TotalFound       int                      `json:"total_found"`
}

type relatedArticlePreview struct {
	URL         string     `json:"url"`
	Title       string     `json:"title"`
	Source      string     `json:"source"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	Snippet     string     `json:"snippet,omitempty"`
}

type compareRequest struct {
	ArticleURLs     []string `json:"article_urls"`
	ComparisonDepth string   `json:"comparison_depth,omitempty"`
}

type compareResponse struct {
	Success          bool                           `json:"success"`
	Data             *domain.MultiArticleComparison `json:"data"`
	ArticlesAnalyzed int                            `json:"articles_analyzed"`
	ProcessingTimeMs int64                          `json:"processing_time_ms"`
}

type fullAnalysisRequest struct {
	URL          string `json:"url"`
	FindRelated  *bool  `json:"find_related,omitempty"`
	RelatedCount int    `json:"related_count,omitempty"`
	CompareAll   *bool  `json:"compare_all,omitempty"`
}

type fullAnalysisResponse struct {
	Success               bool                           `json:"success"`
	PrimaryArticle        *domain.ArticleAnalysis        `json:"primary_article"`
	RelatedArticles       []domain.ArticleAnalysis       `json:"related_articles"`
	Comparison            *domain.MultiArticleComparison `json:"comparison,omitempty"`
	TotalProcessingTimeMs int64                          `json:"total_processing_time_ms"`
}

type handlers struct {
	analyze *usecase.AnalyzeArticle
	compare *usecase.CompareArticles
	related *usecase.FindRelated
	logger  *zerolog.Logger
}

func (h *handlers) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req analyzeRequest
	if !h.decode(w, r, &req) {
		return
	}

	url, err := normalizeURL(req.URL)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	includePoints := true
	if req.IncludePoints != nil {
		includePoints = *req.IncludePoints
	}

	analysis, err := h.analyze.Execute(r.Context(), url, req.ForceRefresh, includePoints)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, analyzeResponse{
		Success:          true,
		Data:             analysis,
		Cached:           analysis.Cached,
		ProcessingTimeMs: time.Since(start).Milliseconds(),
	})
}

func (h *handlers) handleRelated(w http.ResponseWriter, r *http.Request) {
	var req relatedRequest
	if !h.decode(w, r, &req) {
		return
	}

	if req.URL != "" {
		url, err := normalizeURL(req.URL)
		if err != nil {
			writeError(w, h.logger, err)
			return
		}

		req.URL = url
	}

	result, err := h.related.Execute(r.Context(), usecase.RelatedParams{
		URL:            req.URL,
		Keywords:       req.Keywords,
		Topic:          req.Topic,
		Limit:          req.Limit,
		DaysBack:       req.DaysBack,
		AnalyzeResults: req.AnalyzeResults,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	previews := make([]relatedArticlePreview, 0, len(result.RelatedArticles))
	for _, article := range result.RelatedArticles {
		previews = append(previews, relatedArticlePreview{
			URL:         article.URL,
			Title:       article.Title,
			Source:      article.Source,
			PublishedAt: article.PublishedAt,
			Snippet:     article.Snippet,
		})
	}

	writeJSON(w, http.StatusOK, relatedResponse{
		Success:          true,
		OriginalAnalysis: result.OriginalAnalysis,
		SearchKeywords:   result.SearchKeywords,
		Articles:         previews,
		Analyses:         result.RelatedAnalyses,
		TotalFound:       len(previews),
	})
}

func (h *handlers) handleCompare(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req compareRequest
	if !h.decode(w, r, &req) {
		return
	}

	urls := make([]string, 0, len(req.ArticleURLs))

	for _, raw := range req.ArticleURLs {
		url, err := normalizeURL(raw)
		if err != nil {
			writeError(w, h.logger, err)
			return
		}

		urls = append(urls, url)
	}

	depth := req.ComparisonDepth
	if depth == "" {
		depth = usecase.DepthFull
	}

	if depth != usecase.DepthQuick && depth != usecase.DepthFull && depth != usecase.DepthDeep {
		writeError(w, h.logger, cerrors.NewValidation(
			fmt.Errorf("comparison_depth must be quick, full, or deep, got %q", depth)))

		return
	}

	comparison, err := h.compare.Execute(r.Context(), urls, depth)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, compareResponse{
		Success:          true,
		Data:             comparison,
		ArticlesAnalyzed: len(comparison.Articles),
		ProcessingTimeMs: time.Since(start).Milliseconds(),
	})
}

// handleFullAnalysis is the convenience workflow: analyze the primary
// article, discover related coverage, then compare the lot.
func (h *handlers) handleFullAnalysis(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req fullAnalysisRequest
	if !h.decode(w, r, &req) {
		return
	}

	url, err := normalizeURL(req.URL)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	findRelated := true
	if req.FindRelated != nil {
		findRelated = *req.FindRelated
	}

	compareAll := true
	if req.CompareAll != nil {
		compareAll = *req.CompareAll
	}

	relatedCount := req.RelatedCount
	if relatedCount <= 0 {
		relatedCount = defaultRelatedCount
	}

	if relatedCount > maxRelatedCount {
		relatedCount = maxRelatedCount
	}

	related, err := h.related.Execute(r.Context(), usecase.RelatedParams{
		URL:            url,
		Limit:          relatedCount,
		AnalyzeResults: findRelated,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	resp := fullAnalysisResponse{
		Success:         true,
		PrimaryArticle:  related.OriginalAnalysis,
		RelatedArticles: related.RelatedAnalyses,
	}

	if compareAll && len(related.RelatedAnalyses) > 0 {
		urls := []string{url}
		for _, analysis := range related.RelatedAnalyses {
			urls = append(urls, analysis.ArticleURL)
		}

		if len(urls) > maxRelatedCount {
			urls = urls[:maxRelatedCount]
		}

		comparison, err := h.compare.Execute(r.Context(), urls, usecase.DepthFull)
		if err != nil {
			writeError(w, h.logger, err)
			return
		}

		resp.Comparison = comparison
	}

	resp.TotalProcessingTimeMs = time.Since(start).Milliseconds()
	writeJSON(w, http.StatusOK, resp)
}

func (h *handlers) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		writeError(w, h.logger, cerrors.NewValidation(fmt.Errorf("invalid request body: %w", err)))
		return false
	}

	return true
}

// normalizeURL validates the scheme and upgrades plain HTTP to HTTPS.
func normalizeURL(raw string) (string, error) {
	if raw == "" {
		return "", cerrors.NewValidation(fmt.Errorf("url is required"))
	}

	if strings.HasPrefix(raw, "http://") {
		return "https://" + strings.TrimPrefix(raw, "http://"), nil
	}

	if !strings.HasPrefix(raw, "https://") {
		return "", cerrors.NewValidation(fmt.Errorf("url must start with http:// or https://, got %q", raw))
	}

	return raw, nil
}
