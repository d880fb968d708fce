// Package ports provides domain-centric interfaces for external dependencies.
// These interfaces follow the ports and adapters (hexagonal) architecture pattern,
// allowing business logic to remain independent of infrastructure concerns.
package ports

import (
	"context"
	"time"

	"github.com/spectrumhq/spectrum/internal/core/domain"
)

// ArticleFetcher retrieves and extracts article content. Retry policy for
// transient network errors belongs to the implementation; the use cases only
// distinguish FetchError from ParseError.
type ArticleFetcher interface {
	Fetch(ctx context.Context, url string) (*domain.Article, error)
	HealthCheck(ctx context.Context) bool
}

// AIProvider is a political-analysis backend. Name is part of the analysis
// cache key because different backends score the same article differently.
type AIProvider interface {
	Name() string
	AnalyzePoliticalLeaning(ctx context.Context, title, content, sourceName string) (domain.PoliticalLeaning, error)
	ExtractTopics(ctx context.Context, title, content string) (domain.TopicAnalysis, error)
	ExtractKeyPoints(ctx context.Context, title, content string, maxPoints int) ([]domain.ArticlePoint, error)
	// ComparePoints returns comparisons referencing point IDs only; article
	// IDs are backfilled by the orchestrator.
	ComparePoints(ctx context.Context, pointsA, pointsB []domain.ArticlePoint, contextA, contextB string) ([]domain.PointComparison, error)
	HealthCheck(ctx context.Context) bool
}

// ArticlePreview is a search-result stub from a news aggregator.
type ArticlePreview struct {
	URL         string     `json:"url"`
	Title       string     `json:"title"`
	Source      string     `json:"source"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	Snippet     string     `json:"snippet,omitempty"`
	ImageURL    string     `json:"image_url,omitempty"`
}

// SearchResult is the outcome of one aggregator query.
type SearchResult struct {
	Articles      []ArticlePreview `json:"articles"`
	TotalResults  int              `json:"total_results"`
	QueryKeywords []string         `json:"query_keywords"`
	SearchSource  string           `json:"search_source"`
}

// SearchQuery carries aggregator search parameters.
type SearchQuery struct {
	Keywords       []string
	DaysBack       int
	Limit          int
	ExcludeDomains []string
}

// NewsAggregator searches external news indexes for article previews.
type NewsAggregator interface {
	Name() string
	Search(ctx context.Context, query SearchQuery) (*SearchResult, error)
	HealthCheck(ctx context.Context) bool
}

// Cache is the process-local store shared by the use cases. Implementations
// route keys into per-type partitions by the prefix before the first colon;
// a zero ttl means "use the default for the key's type". Callers store value
// types, not pointers, so a cached entry is never mutated in place. Cache
// trouble is never a user-visible failure: implementations and callers treat
// unavailability as a miss and fall through to fresh computation.
type Cache interface {
	Get(key string) (interface{}, bool)
	Set(key string, value interface{}, ttl time.Duration)
	Delete(key string)
	Exists(key string) bool
	ClearPrefix(prefix string) int
}
