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

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/spectrumhq/spectrum/internal/core/ports"
	"github.com/spectrumhq/spectrum/internal/platform/observability"
)

const (
	gnewsBaseURL  = "https://gnews.io/api/v4/search"
	gnewsMaxLimit = 100
)

var errGNewsBadStatus = errors.New("gnews unexpected status")

// GNews implements the aggregator port for gnews.io. GNews has no
// server-side domain exclusion, so excluded domains are filtered locally.
type GNews struct {
	baseURL     string
	apiKey      string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	logger      *zerolog.Logger
}

// NewGNews creates a GNews client.
func NewGNews(apiKey string, logger *zerolog.Logger) *GNews {
	return &GNews{
		baseURL:     gnewsBaseURL,
		apiKey:      apiKey,
		httpClient:  &http.Client{Timeout: defaultTimeout},
		rateLimiter: rate.NewLimiter(rate.Limit(defaultRPS), 1),
		logger:      logger,
	}
}

// Name returns the aggregator identifier.
func (a *GNews) Name() string {
	return NameGNews
}

type gnewsResponse struct {
	TotalArticles int `json:"totalArticles"`
	Articles      []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		Image       string `json:"image"`
		PublishedAt string `json:"publishedAt"`
		Source      struct {
			Name string `json:"name"`
			URL  string `json:"url"`
		} `json:"source"`
	} `json:"articles"`
}

// Search queries the GNews search endpoint.
func (a *GNews) Search(ctx context.Context, query ports.SearchQuery) (*ports.SearchResult, error) {
	if err := a.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("gnews rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.buildSearchURL(query), nil)
	if err != nil {
		return nil, fmt.Errorf("create gnews request: %w", err)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		observability.AggregatorRequests.WithLabelValues(NameGNews, statusError).Inc()

		return nil, fmt.Errorf("gnews request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		observability.AggregatorRequests.WithLabelValues(NameGNews, statusError).Inc()

		return nil, fmt.Errorf("read gnews response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		observability.AggregatorRequests.WithLabelValues(NameGNews, statusError).Inc()

		return nil, fmt.Errorf("%w: %d", errGNewsBadStatus, resp.StatusCode)
	}

	var parsed gnewsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		observability.AggregatorRequests.WithLabelValues(NameGNews, statusError).Inc()

		return nil, fmt.Errorf("decode gnews response: %w", err)
	}

	observability.AggregatorRequests.WithLabelValues(NameGNews, statusSuccess).Inc()

	return a.buildResult(parsed, query), nil
}

func (a *GNews) buildSearchURL(query ports.SearchQuery) string {
	params := url.Values{}
	params.Set("token", a.apiKey)
	params.Set("q", strings.Join(query.Keywords, " OR "))
	params.Set("from", time.Now().UTC().AddDate(0, 0, -daysBackOrDefault(query.DaysBack)).Format("2006-01-02T15:04:05Z"))
	params.Set("lang", "en")
	params.Set("max", fmt.Sprintf("%d", clampLimit(query.Limit, gnewsMaxLimit)))
	params.Set("sortby", "relevance")

	return a.baseURL + "?" + params.Encode()
}

func (a *GNews) buildResult(parsed gnewsResponse, query ports.SearchQuery) *ports.SearchResult {
	excluded := make(map[string]bool, len(query.ExcludeDomains))
	for _, d := range query.ExcludeDomains {
		excluded[strings.ToLower(d)] = true
	}

	articles := make([]ports.ArticlePreview, 0, len(parsed.Articles))

	for _, item := range parsed.Articles {
		if item.URL == "" || item.Title == "" {
			continue
		}

		if excluded[domainOf(item.URL)] {
			continue
		}

		articles = append(articles, ports.ArticlePreview{
			URL:         item.URL,
			Title:       item.Title,
			Source:      item.Source.Name,
			PublishedAt: parseTime(item.PublishedAt),
			Snippet:     item.Description,
			ImageURL:    item.Image,
		})
	}

	return &ports.SearchResult{
		Articles:      articles,
		TotalResults:  parsed.TotalArticles,
		QueryKeywords: query.Keywords,
		SearchSource:  NameGNews,
	}
}

// HealthCheck reports whether the API answers a minimal query.
func (a *GNews) HealthCheck(ctx context.Context) bool {
	_, err := a.Search(ctx, ports.SearchQuery{Keywords: []string{"news"}, DaysBack: 1, Limit: 1})
	return err == nil
}

func daysBackOrDefault(daysBack int) int {
	if daysBack <= 0 {
		return 7
	}

	return daysBack
}

func domainOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	return strings.TrimPrefix(strings.ToLower(u.Host), "www.")
}

// Ensure the backends implement the aggregator port.
var (
	_ ports.NewsAggregator = (*NewsAPI)(nil)
	_ ports.NewsAggregator = (*GNews)(nil)
)
