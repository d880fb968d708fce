// Package aggregator implements the news-search backends used to find
// related coverage of a story.
package aggregator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/spectrumhq/spectrum/internal/core/ports"
	"github.com/spectrumhq/spectrum/internal/platform/observability"
)

// Aggregator names.
const (
	NameNewsAPI = "newsapi"
	NameGNews   = "gnews"
)

const (
	newsAPIBaseURL    = "https://newsapi.org/v2/everything"
	newsAPIAuthHeader = "X-Api-Key"

	defaultTimeout   = 30 * time.Second
	defaultRPS       = 1
	maxResponseBytes = 4 * 1024 * 1024

	statusSuccess = "success"
	statusError   = "error"
)

var (
	errNewsAPIBadStatus = errors.New("newsapi unexpected status")
	errNewsAPIError     = errors.New("newsapi api error")
)

// NewsAPI implements the aggregator port for newsapi.org.
type NewsAPI struct {
	baseURL     string
	apiKey      string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	logger      *zerolog.Logger
}

// NewNewsAPI creates a NewsAPI client.
func NewNewsAPI(apiKey string, logger *zerolog.Logger) *NewsAPI {
	return &NewsAPI{
		baseURL:     newsAPIBaseURL,
		apiKey:      apiKey,
		httpClient:  &http.Client{Timeout: defaultTimeout},
		rateLimiter: rate.NewLimiter(rate.Limit(defaultRPS), 1),
		logger:      logger,
	}
}

// Name returns the aggregator identifier.
func (a *NewsAPI) Name() string {
	return NameNewsAPI
}

type newsAPIResponse struct {
	Status       string `json:"status"`
	TotalResults int    `json:"totalResults"`
	Message      string `json:"message"`
	Articles     []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Title       string `json:"title"`
		URL         string `json:"url"`
		Description string `json:"description"`
		URLToImage  string `json:"urlToImage"`
		PublishedAt string `json:"publishedAt"`
	} `json:"articles"`
}

// Search queries the everything endpoint. Keywords are OR-joined; excluded
// domains are passed server-side.
func (a *NewsAPI) Search(ctx context.Context, query ports.SearchQuery) (*ports.SearchResult, error) {
	if err := a.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("newsapi rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.buildSearchURL(query), nil)
	if err != nil {
		return nil, fmt.Errorf("create newsapi request: %w", err)
	}

	req.Header.Set(newsAPIAuthHeader, a.apiKey)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		observability.AggregatorRequests.WithLabelValues(NameNewsAPI, statusError).Inc()

		return nil, fmt.Errorf("newsapi request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		observability.AggregatorRequests.WithLabelValues(NameNewsAPI, statusError).Inc()

		return nil, fmt.Errorf("read newsapi response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		observability.AggregatorRequests.WithLabelValues(NameNewsAPI, statusError).Inc()

		return nil, fmt.Errorf("%w: %d", errNewsAPIBadStatus, resp.StatusCode)
	}

	var parsed newsAPIResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		observability.AggregatorRequests.WithLabelValues(NameNewsAPI, statusError).Inc()

		return nil, fmt.Errorf("decode newsapi response: %w", err)
	}

	if parsed.Status != "ok" {
		observability.AggregatorRequests.WithLabelValues(NameNewsAPI, statusError).Inc()

		return nil, fmt.Errorf("%w: %s", errNewsAPIError, parsed.Message)
	}

	observability.AggregatorRequests.WithLabelValues(NameNewsAPI, statusSuccess).Inc()

	return a.buildResult(parsed, query.Keywords), nil
}

func (a *NewsAPI) buildSearchURL(query ports.SearchQuery) string {
	params := url.Values{}
	params.Set("q", strings.Join(query.Keywords, " OR "))
	params.Set("from", fromDate(query.DaysBack))
	params.Set("language", "en")
	params.Set("sortBy", "relevancy")
	params.Set("pageSize", fmt.Sprintf("%d", clampLimit(query.Limit, 100)))

	if len(query.ExcludeDomains) > 0 {
		params.Set("excludeDomains", strings.Join(query.ExcludeDomains, ","))
	}

	return a.baseURL + "?" + params.Encode()
}

func (a *NewsAPI) buildResult(parsed newsAPIResponse, keywords []string) *ports.SearchResult {
	articles := make([]ports.ArticlePreview, 0, len(parsed.Articles))

	for _, item := range parsed.Articles {
		if item.URL == "" || item.Title == "" {
			continue
		}

		articles = append(articles, ports.ArticlePreview{
			URL:         item.URL,
			Title:       item.Title,
			Source:      item.Source.Name,
			PublishedAt: parseTime(item.PublishedAt),
			Snippet:     item.Description,
			ImageURL:    item.URLToImage,
		})
	}

	return &ports.SearchResult{
		Articles:      articles,
		TotalResults:  parsed.TotalResults,
		QueryKeywords: keywords,
		SearchSource:  NameNewsAPI,
	}
}

// HealthCheck reports whether the API answers with a valid status for a
// minimal query.
func (a *NewsAPI) HealthCheck(ctx context.Context) bool {
	_, err := a.Search(ctx, ports.SearchQuery{Keywords: []string{"news"}, DaysBack: 1, Limit: 1})
	return err == nil
}

func fromDate(daysBack int) string {
	if daysBack <= 0 {
		daysBack = 7
	}

	return time.Now().UTC().AddDate(0, 0, -daysBack).Format("2006-01-02")
}

func clampLimit(limit, max int) int {
	if limit <= 0 {
		return 10
	}

	if limit > max {
		return max
	}

	return limit
}

func parseTime(s string) *time.Time {
	if s == "" {
		return nil
	}

	t, err := dateparse.ParseAny(s)
	if err != nil {
		return nil
	}

	utc := t.UTC()

	return &utc
}
