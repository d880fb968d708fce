package usecase

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/spectrumhq/spectrum/internal/cache"
	"github.com/spectrumhq/spectrum/internal/core/domain"
	cerrors "github.com/spectrumhq/spectrum/internal/core/errors"
	"github.com/spectrumhq/spectrum/internal/core/ports"
)

// Search defaults and bounds.
const (
	defaultRelatedLimit = 5
	maxRelatedLimit     = 20
	defaultDaysBack     = 7

	// Over-fetch headroom so dedup and the per-source cap still leave
	// enough candidates to fill the requested limit.
	searchOverfetch = 5

	// maxPerSource bounds how many results a single outlet may occupy.
	maxPerSource = 2

	// maxSearchKeywords is how many extracted keywords seed the search
	// query when discovering from a source article.
	maxSearchKeywords = 5
)

// RelatedParams selects the discovery mode. Exactly one of URL, Keywords,
// or Topic must be set; URL wins if several are, then Keywords, then Topic.
type RelatedParams struct {
	URL            string
	Keywords       []string
	Topic          string
	Limit          int
	DaysBack       int
	AnalyzeResults bool
}

// RelatedResult bundles the discovery output. OriginalAnalysis is set only
// for URL-seeded searches; RelatedAnalyses only when AnalyzeResults was
// requested.
type RelatedResult struct {
	OriginalAnalysis *domain.ArticleAnalysis  `json:"original_analysis,omitempty"`
	SearchKeywords   []string                 `json:"search_keywords"`
	RelatedArticles  []ports.ArticlePreview   `json:"related_articles"`
	RelatedAnalyses  []domain.ArticleAnalysis `json:"related_analyses,omitempty"`
}

// FindRelated discovers coverage of the same story from other outlets,
// seeded either by a source article, explicit keywords, or a topic.
type FindRelated struct {
	aggregator ports.NewsAggregator
	analyze    *AnalyzeArticle
	cache      ports.Cache
	logger     *zerolog.Logger
}

// NewFindRelated wires the related-articles use case.
func NewFindRelated(aggregator ports.NewsAggregator, analyze *AnalyzeArticle, c ports.Cache, logger *zerolog.Logger) *FindRelated {
	return &FindRelated{
		aggregator: aggregator,
		analyze:    analyze,
		cache:      c,
		logger:     logger,
	}
}

// Execute runs one related-articles search. Results are cached only for
// URL-seeded searches; keyword and topic searches always hit the
// aggregator, whose own search cache absorbs the repeat cost.
func (uc *FindRelated) Execute(ctx context.Context, params RelatedParams) (*RelatedResult, error) {
	if params.URL == "" && len(params.Keywords) == 0 && params.Topic == "" {
		return nil, cerrors.NewValidation(cerrors.ErrMissingSearchCriteria)
	}

	if uc.aggregator == nil {
		return nil, &cerrors.ProviderError{Provider: "aggregator", Op: "search", Err: cerrors.ErrProviderUnavailable}
	}

	limit := clampRelatedLimit(params.Limit)

	daysBack := params.DaysBack
	if daysBack <= 0 {
		daysBack = defaultDaysBack
	}

	var cacheKey string

	if params.URL != "" {
		cacheKey = cache.RelatedKey(params.URL)
		if value, ok := uc.cache.Get(cacheKey); ok {
			if result, ok := value.(RelatedResult); ok {
				uc.logger.Debug().Str("cache_key", cacheKey).Msg("related cache hit")

				return &result, nil
			}
		}
	}

	var (
		original       *domain.ArticleAnalysis
		keywords       []string
		excludeDomains []string
	)

	switch {
	case params.URL != "":
		analysis, err := uc.analyze.Execute(ctx, params.URL, false, false)
		if err != nil {
			return nil, err
		}

		original = analysis
		keywords = searchKeywordsFor(analysis)
		excludeDomains = []string{domainOfURL(params.URL)}
	case len(params.Keywords) > 0:
		keywords = params.Keywords
	default:
		keywords = []string{params.Topic}
	}

	searchResult, err := uc.aggregator.Search(ctx, ports.SearchQuery{
		Keywords:       keywords,
		DaysBack:       daysBack,
		Limit:          limit + searchOverfetch,
		ExcludeDomains: excludeDomains,
	})
	if err != nil {
		return nil, err
	}

	articles := diversify(searchResult.Articles, params.URL, limit)

	result := RelatedResult{
		OriginalAnalysis: original,
		SearchKeywords:   keywords,
		RelatedArticles:  articles,
	}

	if params.AnalyzeResults {
		result.RelatedAnalyses = uc.analyzeResults(ctx, articles)
	}

	if cacheKey != "" {
		uc.cache.Set(cacheKey, result, 0)
	}

	uc.logger.Info().
		Int("found", len(articles)).
		Strs("keywords", keywords).
		Str("aggregator", uc.aggregator.Name()).
		Msg("related search complete")

	return &result, nil
}

// searchKeywordsFor builds the query from an analysis: the primary topic
// first, then the top extracted keywords.
func searchKeywordsFor(analysis *domain.ArticleAnalysis) []string {
	keywords := analysis.Topics.Keywords
	if len(keywords) > maxSearchKeywords {
		keywords = keywords[:maxSearchKeywords]
	}

	combined := make([]string, 0, len(keywords)+1)
	if analysis.Topics.PrimaryTopic != "" {
		combined = append(combined, analysis.Topics.PrimaryTopic)
	}

	return append(combined, keywords...)
}

// diversify drops the seed URL and duplicates, then enforces the
// per-source cap while preserving aggregator ranking order.
func diversify(articles []ports.ArticlePreview, seedURL string, limit int) []ports.ArticlePreview {
	seenURLs := make(map[string]bool)
	perSource := make(map[string]int)
	kept := make([]ports.ArticlePreview, 0, limit)

	for _, article := range articles {
		if len(kept) >= limit {
			break
		}

		if article.URL == "" || article.URL == seedURL || seenURLs[article.URL] {
			continue
		}

		source := strings.ToLower(article.Source)
		if perSource[source] >= maxPerSource {
			continue
		}

		seenURLs[article.URL] = true
		perSource[source]++
		kept = append(kept, article)
	}

	return kept
}

// analyzeResults analyzes the found articles concurrently. A failed
// analysis drops that article from the analyses list without failing the
// search.
func (uc *FindRelated) analyzeResults(ctx context.Context, articles []ports.ArticlePreview) []domain.ArticleAnalysis {
	var wg sync.WaitGroup

	results := make([]*domain.ArticleAnalysis, len(articles))

	for i, article := range articles {
		wg.Add(1)

		go func(i int, url string) {
			defer wg.Done()

			analysis, err := uc.analyze.Execute(ctx, url, false, false)
			if err != nil {
				uc.logger.Warn().Str("url", url).Err(err).Msg("related analysis failed")

				return
			}

			results[i] = analysis
		}(i, article.URL)
	}

	wg.Wait()

	analyses := make([]domain.ArticleAnalysis, 0, len(articles))

	for _, r := range results {
		if r != nil {
			analyses = append(analyses, *r)
		}
	}

	return analyses
}

func clampRelatedLimit(limit int) int {
	if limit <= 0 {
		return defaultRelatedLimit
	}

	if limit > maxRelatedLimit {
		return maxRelatedLimit
	}

	return limit
}

// domainOfURL extracts the host for exclude-domain filtering; scheme and
// a leading www are stripped.
func domainOfURL(rawURL string) string {
	trimmed := rawURL
	if idx := strings.Index(trimmed, "://"); idx >= 0 {
		trimmed = trimmed[idx+3:]
	}

	if idx := strings.IndexAny(trimmed, "/?#"); idx >= 0 {
		trimmed = trimmed[:idx]
	}

	return strings.TrimPrefix(strings.ToLower(trimmed), "www.")
}
