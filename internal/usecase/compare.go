package usecase

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/spectrumhq/spectrum/internal/cache"
	"github.com/spectrumhq/spectrum/internal/core/domain"
	cerrors "github.com/spectrumhq/spectrum/internal/core/errors"
	"github.com/spectrumhq/spectrum/internal/core/ports"
	"github.com/spectrumhq/spectrum/internal/platform/observability"
)

// Comparison depths. Quick compares leaning and topics only; full and deep
// additionally compare key points. Full and deep are currently behaviorally
// identical.
const (
	DepthQuick = "quick"
	DepthFull  = "full"
	DepthDeep  = "deep"
)

// URL count bounds for one comparison request.
const (
	minCompareURLs = 2
	maxCompareURLs = 5
)

// Consensus and contested lists are capped regardless of how many
// agreements or disagreements the pairs produced.
const maxAggregatedPoints = 5

// CompareArticles fans single-article analysis out over a batch of URLs,
// cross-compares every pair of successes, and aggregates the point-level
// agreements into consensus and contested buckets.
type CompareArticles struct {
	ai      ports.AIProvider
	analyze *AnalyzeArticle
	cache   ports.Cache
	logger  *zerolog.Logger
}

// NewCompareArticles wires the comparison use case.
func NewCompareArticles(ai ports.AIProvider, analyze *AnalyzeArticle, c ports.Cache, logger *zerolog.Logger) *CompareArticles {
	return &CompareArticles{
		ai:      ai,
		analyze: analyze,
		cache:   c,
		logger:  logger,
	}
}

// Execute compares 2-5 articles at the given depth. One article's failure
// never aborts the batch; the comparison proceeds over the successes as
// long as at least two remain.
func (uc *CompareArticles) Execute(ctx context.Context, urls []string, depth string) (*domain.MultiArticleComparison, error) {
	if len(urls) < minCompareURLs {
		return nil, cerrors.NewValidation(cerrors.ErrTooFewArticles)
	}

	if len(urls) > maxCompareURLs {
		return nil, cerrors.NewValidation(cerrors.ErrTooManyArticles)
	}

	log := uc.logger.With().Int("article_count", len(urls)).Str("depth", depth).Logger()

	cacheKey := cache.ComparisonKey(urls)
	if value, ok := uc.cache.Get(cacheKey); ok {
		if comparison, ok := value.(domain.MultiArticleComparison); ok {
			log.Debug().Str("cache_key", cacheKey).Msg("comparison cache hit")

			return &comparison, nil
		}
	}

	start := time.Now()
	includePoints := depth == DepthFull || depth == DepthDeep

	analyses := uc.analyzeAll(ctx, urls, includePoints, &log)
	if len(analyses) < minCompareURLs {
		return nil, cerrors.NewValidation(cerrors.ErrTooFewAnalyses)
	}

	spectrum := make(map[string]float64, len(analyses))
	for _, a := range analyses {
		spectrum[a.ArticleID] = a.PoliticalLeaning.Score
	}

	pairwise := make([]domain.ArticleComparison, 0, len(analyses)*(len(analyses)-1)/2)

	for i := range analyses {
		for j := i + 1; j < len(analyses); j++ {
			pair, err := uc.comparePair(ctx, &analyses[i], &analyses[j], includePoints)
			if err != nil {
				return nil, err
			}

			pairwise = append(pairwise, *pair)
		}
	}

	consensus, contested := aggregatePoints(pairwise)

	result := domain.MultiArticleComparison{
		Articles:            analyses,
		PairwiseComparisons: pairwise,
		LeaningSpectrum:     spectrum,
		ConsensusPoints:     consensus,
		ContestedPoints:     contested,
		OverallSummary:      overallSummary(analyses, pairwise),
	}

	uc.cache.Set(cacheKey, result, 0)

	observability.ComparisonsCompleted.Inc()
	observability.ComparisonDuration.Observe(time.Since(start).Seconds())
	log.Info().Int("pairs", len(pairwise)).Msg("comparison complete")

	return &result, nil
}

// analyzeAll runs the per-URL analyses concurrently with independent
// failure capture, preserving request order among the successes.
func (uc *CompareArticles) analyzeAll(ctx context.Context, urls []string, includePoints bool, log *zerolog.Logger) []domain.ArticleAnalysis {
	var wg sync.WaitGroup

	results := make([]*domain.ArticleAnalysis, len(urls))
	errs := make([]error, len(urls))

	for i, url := range urls {
		wg.Add(1)

		go func(i int, url string) {
			defer wg.Done()
			results[i], errs[i] = uc.analyze.Execute(ctx, url, false, includePoints)
		}(i, url)
	}

	wg.Wait()

	analyses := make([]domain.ArticleAnalysis, 0, len(urls))

	for i := range results {
		if errs[i] != nil {
			log.Warn().Str("url", urls[i]).Err(errs[i]).Msg("analysis failed")

			continue
		}

		analyses = append(analyses, *results[i])
	}

	return analyses
}

func (uc *CompareArticles) comparePair(ctx context.Context, a, b *domain.ArticleAnalysis, includePoints bool) (*domain.ArticleComparison, error) {
	shared, uniqueA, uniqueB := topicOverlap(a, b)

	var agreements, disagreements []domain.PointComparison

	if includePoints && len(a.KeyPoints) > 0 && len(b.KeyPoints) > 0 {
		comparisons, err := uc.ai.ComparePoints(
			ctx,
			a.KeyPoints,
			b.KeyPoints,
			fmt.Sprintf("%s (%s)", a.ArticleTitle, a.SourceName),
			fmt.Sprintf("%s (%s)", b.ArticleTitle, b.SourceName),
		)
		if err != nil {
			return nil, err
		}

		// The backend only knows point IDs; attach article identity here.
		// Related and unrelated results are computed but not surfaced.
		for _, c := range comparisons {
			c.ArticleAID = a.ArticleID
			c.ArticleBID = b.ArticleID

			switch c.Relationship {
			case domain.RelationshipAgrees:
				agreements = append(agreements, c)
			case domain.RelationshipDisagrees:
				disagreements = append(disagreements, c)
			}
		}
	}

	return &domain.ArticleComparison{
		ArticleAID:        a.ArticleID,
		ArticleBID:        b.ArticleID,
		ArticleATitle:     a.ArticleTitle,
		ArticleBTitle:     b.ArticleTitle,
		LeaningDifference: math.Abs(a.PoliticalLeaning.Score - b.PoliticalLeaning.Score),
		LeaningSummary:    leaningSummary(a, b),
		SharedTopics:      shared,
		UniqueTopicsA:     uniqueA,
		UniqueTopicsB:     uniqueB,
		Agreements:        agreements,
		Disagreements:     disagreements,
		OverallSummary:    pairSummary(a, b, len(agreements), len(disagreements)),
	}, nil
}

// topicOverlap does set algebra over {primary} ∪ secondary for each side.
func topicOverlap(a, b *domain.ArticleAnalysis) (shared, uniqueA, uniqueB []string) {
	setA := topicSet(a)
	setB := topicSet(b)

	shared = make([]string, 0)
	uniqueA = make([]string, 0)
	uniqueB = make([]string, 0)

	for _, t := range topicList(a) {
		if setB[t] {
			shared = append(shared, t)
		} else {
			uniqueA = append(uniqueA, t)
		}
	}

	for _, t := range topicList(b) {
		if !setA[t] {
			uniqueB = append(uniqueB, t)
		}
	}

	return shared, uniqueA, uniqueB
}

func topicList(a *domain.ArticleAnalysis) []string {
	seen := make(map[string]bool)
	list := make([]string, 0, len(a.Topics.SecondaryTopics)+1)

	for _, t := range append([]string{a.Topics.PrimaryTopic}, a.Topics.SecondaryTopics...) {
		if t == "" || seen[t] {
			continue
		}

		seen[t] = true
		list = append(list, t)
	}

	return list
}

func topicSet(a *domain.ArticleAnalysis) map[string]bool {
	set := make(map[string]bool)
	for _, t := range topicList(a) {
		set[t] = true
	}

	return set
}

// leaningSummary picks one of four fixed templates keyed by the absolute
// score difference.
func leaningSummary(a, b *domain.ArticleAnalysis) string {
	diff := math.Abs(a.PoliticalLeaning.Score - b.PoliticalLeaning.Score)

	switch {
	case diff < 0.2:
		return fmt.Sprintf("%s and %s have similar political leanings.", a.SourceName, b.SourceName)
	case diff < 0.5:
		return fmt.Sprintf("%s and %s have moderately different perspectives.", a.SourceName, b.SourceName)
	case diff < 0.8:
		return fmt.Sprintf("%s and %s present notably different viewpoints.", a.SourceName, b.SourceName)
	default:
		return fmt.Sprintf("%s and %s represent opposing ends of the political spectrum.", a.SourceName, b.SourceName)
	}
}

func pairSummary(a, b *domain.ArticleAnalysis, agreementCount, disagreementCount int) string {
	var first string

	if math.Abs(a.PoliticalLeaning.Score-b.PoliticalLeaning.Score) < 0.3 {
		first = "Both articles share a similar political perspective"
	} else {
		first = fmt.Sprintf(
			"The articles differ in political leaning (%s vs %s)",
			a.PoliticalLeaning.Label(), b.PoliticalLeaning.Label(),
		)
	}

	if agreementCount == 0 && disagreementCount == 0 {
		return first + "."
	}

	var second string

	switch {
	case agreementCount > disagreementCount:
		second = fmt.Sprintf("with more points of agreement (%d) than disagreement (%d)", agreementCount, disagreementCount)
	case disagreementCount > agreementCount:
		second = fmt.Sprintf("with more points of disagreement (%d) than agreement (%d)", disagreementCount, agreementCount)
	default:
		second = fmt.Sprintf("with equal points of agreement and disagreement (%d each)", agreementCount)
	}

	return first + ". " + second + "."
}

// aggregatePoints collects agreement statements and disagreement pairings
// across all pairs, deduplicates by exact string match, and caps each list.
// Exact-match dedup under-merges differently worded but semantically equal
// claims; that is a documented limitation of the scheme, not something this
// layer tries to repair.
func aggregatePoints(pairwise []domain.ArticleComparison) (consensus, contested []string) {
	consensus = make([]string, 0, maxAggregatedPoints)
	contested = make([]string, 0, maxAggregatedPoints)
	seenConsensus := make(map[string]bool)
	seenContested := make(map[string]bool)

	for _, pair := range pairwise {
		for _, agreement := range pair.Agreements {
			statement := agreement.PointA.Statement
			if seenConsensus[statement] {
				continue
			}

			seenConsensus[statement] = true

			if len(consensus) < maxAggregatedPoints {
				consensus = append(consensus, statement)
			}
		}

		for _, disagreement := range pair.Disagreements {
			pairing := fmt.Sprintf("%s vs %s", disagreement.PointA.Statement, disagreement.PointB.Statement)
			if seenContested[pairing] {
				continue
			}

			seenContested[pairing] = true

			if len(contested) < maxAggregatedPoints {
				contested = append(contested, pairing)
			}
		}
	}

	return consensus, contested
}

// overallSummary is template-driven by the score spread across the batch
// and the aggregate agreement/disagreement counts.
func overallSummary(analyses []domain.ArticleAnalysis, pairwise []domain.ArticleComparison) string {
	minScore := analyses[0].PoliticalLeaning.Score
	maxScore := minScore

	for _, a := range analyses[1:] {
		score := a.PoliticalLeaning.Score
		if score < minScore {
			minScore = score
		}

		if score > maxScore {
			maxScore = score
		}
	}

	spread := maxScore - minScore

	var first string

	switch {
	case spread < 0.3:
		first = fmt.Sprintf("All %d articles share similar political perspectives", len(analyses))
	case spread < 0.6:
		first = fmt.Sprintf("The %d articles show moderate political diversity", len(analyses))
	default:
		first = fmt.Sprintf("The %d articles span a wide range of political viewpoints", len(analyses))
	}

	totalAgree, totalDisagree := 0, 0
	for _, pair := range pairwise {
		totalAgree += len(pair.Agreements)
		totalDisagree += len(pair.Disagreements)
	}

	if totalAgree+totalDisagree == 0 {
		return first + "."
	}

	var second string

	switch {
	case totalAgree > totalDisagree:
		second = "with more points of agreement than disagreement"
	case totalDisagree > totalAgree:
		second = "with more contested points than consensus"
	default:
		second = "with a balance of agreed and contested points"
	}

	return first + ". " + second + "."
}
