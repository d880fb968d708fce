// Package usecase contains the analysis orchestration: single-article
// analysis, multi-article comparison, and related-article discovery.
package usecase

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/spectrumhq/spectrum/internal/cache"
	"github.com/spectrumhq/spectrum/internal/core/domain"
	"github.com/spectrumhq/spectrum/internal/core/ports"
	"github.com/spectrumhq/spectrum/internal/platform/observability"
)

// AnalyzeArticle orchestrates fetch, AI extraction, and caching for one
// article. It holds no mutable state between invocations, so a single
// instance may serve concurrent requests.
type AnalyzeArticle struct {
	ai           ports.AIProvider
	fetcher      ports.ArticleFetcher
	cache        ports.Cache
	maxKeyPoints int
	logger       *zerolog.Logger
}

// NewAnalyzeArticle wires the analyze use case.
func NewAnalyzeArticle(ai ports.AIProvider, fetcher ports.ArticleFetcher, c ports.Cache, maxKeyPoints int, logger *zerolog.Logger) *AnalyzeArticle {
	if maxKeyPoints <= 0 {
		maxKeyPoints = 5
	}

	return &AnalyzeArticle{
		ai:           ai,
		fetcher:      fetcher,
		cache:        c,
		maxKeyPoints: maxKeyPoints,
		logger:       logger,
	}
}

// Execute analyzes one article. With forceRefresh false a cached result is
// returned as-is except for its Cached flag; the fetcher and provider are
// not touched. Fetch/parse errors and provider errors propagate untouched
// so callers can tell "could not get the article" from "could not analyze
// it".
func (uc *AnalyzeArticle) Execute(ctx context.Context, url string, forceRefresh, includePoints bool) (*domain.ArticleAnalysis, error) {
	log := uc.logger.With().Str("url", url).Str("provider", uc.ai.Name()).Logger()

	analysisKey := cache.AnalysisKey(url, uc.ai.Name())

	if !forceRefresh {
		if value, ok := uc.cache.Get(analysisKey); ok {
			if analysis, ok := value.(domain.ArticleAnalysis); ok {
				log.Debug().Str("cache_key", analysisKey).Msg("analysis cache hit")
				observability.AnalysesCompleted.WithLabelValues(uc.ai.Name(), strconv.FormatBool(true)).Inc()

				analysis.Cached = true

				return &analysis, nil
			}
		}
	}

	article, err := uc.fetchArticle(ctx, url)
	if err != nil {
		return nil, err
	}

	log.Debug().Str("title", article.Title).Int("word_count", article.WordCount).Msg("article fetched")

	leaning, topics, points, err := uc.runExtraction(ctx, article, includePoints)
	if err != nil {
		return nil, err
	}

	analysis := domain.ArticleAnalysis{
		ArticleID:        article.ID,
		ArticleURL:       url,
		ArticleTitle:     article.Title,
		SourceName:       article.Source.Name,
		PoliticalLeaning: leaning,
		Topics:           topics,
		KeyPoints:        points,
		AnalyzedAt:       time.Now().UTC(),
		AIProvider:       uc.ai.Name(),
		Cached:           false,
	}

	uc.cache.Set(analysisKey, analysis, 0)

	log.Info().
		Float64("score", leaning.Score).
		Str("label", leaning.Label()).
		Float64("confidence", leaning.Confidence).
		Msg("analysis complete")
	observability.AnalysesCompleted.WithLabelValues(uc.ai.Name(), strconv.FormatBool(false)).Inc()

	result := analysis

	return &result, nil
}

// fetchArticle is a read-through on the article cache.
func (uc *AnalyzeArticle) fetchArticle(ctx context.Context, url string) (*domain.Article, error) {
	key := cache.ArticleKey(url)

	if value, ok := uc.cache.Get(key); ok {
		if article, ok := value.(domain.Article); ok {
			return &article, nil
		}
	}

	article, err := uc.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	uc.cache.Set(key, *article, 0)

	return article, nil
}

// runExtraction fans the AI calls out. Leaning scoring and topic extraction
// always run concurrently; point extraction joins the same fan-out when
// requested so it cannot serialize the other two.
func (uc *AnalyzeArticle) runExtraction(ctx context.Context, article *domain.Article, includePoints bool) (domain.PoliticalLeaning, domain.TopicAnalysis, []domain.ArticlePoint, error) {
	var (
		wg sync.WaitGroup

		leaning    domain.PoliticalLeaning
		topics     domain.TopicAnalysis
		points     []domain.ArticlePoint
		leaningErr error
		topicsErr  error
		pointsErr  error
	)

	wg.Add(2)

	go func() {
		defer wg.Done()
		leaning, leaningErr = uc.ai.AnalyzePoliticalLeaning(ctx, article.Title, article.Content, article.Source.Name)
	}()

	go func() {
		defer wg.Done()
		topics, topicsErr = uc.ai.ExtractTopics(ctx, article.Title, article.Content)
	}()

	if includePoints {
		wg.Add(1)

		go func() {
			defer wg.Done()
			points, pointsErr = uc.ai.ExtractKeyPoints(ctx, article.Title, article.Content, uc.maxKeyPoints)
		}()
	}

	wg.Wait()

	for _, err := range []error{leaningErr, topicsErr, pointsErr} {
		if err != nil {
			return domain.PoliticalLeaning{}, domain.TopicAnalysis{}, nil, err
		}
	}

	if points == nil {
		points = []domain.ArticlePoint{}
	}

	return leaning, topics, points, nil
}
