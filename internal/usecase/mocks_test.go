package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/spectrumhq/spectrum/internal/core/domain"
	"github.com/spectrumhq/spectrum/internal/core/ports"
)

func newTestLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

// fakeAI is a configurable in-memory provider. Call counters are guarded
// because the use cases invoke it from multiple goroutines.
type fakeAI struct {
	mu sync.Mutex

	name string

	leaningFn func(title string) (domain.PoliticalLeaning, error)
	topicsFn  func() (domain.TopicAnalysis, error)
	pointsFn  func() ([]domain.ArticlePoint, error)
	compareFn func(pointsA, pointsB []domain.ArticlePoint) ([]domain.PointComparison, error)

	leaningCalls int
	topicsCalls  int
	pointsCalls  int
	compareCalls int

	// lastAnalyzedTitle records the title of the most recent leaning call
	// so tests can route per-article behavior.
	leaningByTitle map[string]domain.PoliticalLeaning
}

func newFakeAI() *fakeAI {
	return &fakeAI{name: "groq"}
}

func (f *fakeAI) Name() string {
	if f.name == "" {
		return "fake"
	}

	return f.name
}

func (f *fakeAI) AnalyzePoliticalLeaning(_ context.Context, title, _, _ string) (domain.PoliticalLeaning, error) {
	f.mu.Lock()
	f.leaningCalls++
	byTitle, ok := f.leaningByTitle[title]
	f.mu.Unlock()

	if ok {
		return byTitle, nil
	}

	if f.leaningFn != nil {
		return f.leaningFn(title)
	}

	return domain.PoliticalLeaning{Score: 0.1, Confidence: 0.9, Reasoning: "test"}, nil
}

func (f *fakeAI) ExtractTopics(_ context.Context, _, _ string) (domain.TopicAnalysis, error) {
	f.mu.Lock()
	f.topicsCalls++
	f.mu.Unlock()

	if f.topicsFn != nil {
		return f.topicsFn()
	}

	return domain.TopicAnalysis{
		PrimaryTopic:    "Politics",
		SecondaryTopics: []string{"Elections"},
		Keywords:        []string{"vote", "ballot"},
	}, nil
}

func (f *fakeAI) ExtractKeyPoints(_ context.Context, _, _ string, maxPoints int) ([]domain.ArticlePoint, error) {
	f.mu.Lock()
	f.pointsCalls++
	f.mu.Unlock()

	if f.pointsFn != nil {
		return f.pointsFn()
	}

	points := make([]domain.ArticlePoint, 0, maxPoints)
	for i := 0; i < 2 && i < maxPoints; i++ {
		points = append(points, domain.ArticlePoint{
			ID:        fmt.Sprintf("p%d", i+1),
			Statement: fmt.Sprintf("statement %d", i+1),
			Sentiment: domain.SentimentNeutral,
		})
	}

	return points, nil
}

func (f *fakeAI) ComparePoints(_ context.Context, pointsA, pointsB []domain.ArticlePoint, _, _ string) ([]domain.PointComparison, error) {
	f.mu.Lock()
	f.compareCalls++
	f.mu.Unlock()

	if f.compareFn != nil {
		return f.compareFn(pointsA, pointsB)
	}

	return nil, nil
}

func (f *fakeAI) HealthCheck(context.Context) bool { return true }

func (f *fakeAI) calls() (leaning, topics, points, compare int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.leaningCalls, f.topicsCalls, f.pointsCalls, f.compareCalls
}

var _ ports.AIProvider = (*fakeAI)(nil)

// fakeFetcher serves canned articles by URL.
type fakeFetcher struct {
	mu sync.Mutex

	articles map[string]*domain.Article
	errs     map[string]error
	calls    int
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		articles: make(map[string]*domain.Article),
		errs:     make(map[string]error),
	}
}

func (f *fakeFetcher) add(url, title, sourceName string) {
	f.articles[url] = &domain.Article{
		ID:        domain.ArticleID(url),
		URL:       url,
		Title:     title,
		Content:   "Lorem ipsum political coverage with enough words to analyze.",
		Source:    domain.Source{Name: sourceName, Domain: sourceName + ".example.com"},
		WordCount: 120,
	}
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (*domain.Article, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if err, ok := f.errs[url]; ok {
		return nil, err
	}

	if article, ok := f.articles[url]; ok {
		copied := *article
		return &copied, nil
	}

	return nil, fmt.Errorf("no fixture for %s", url)
}

func (f *fakeFetcher) HealthCheck(context.Context) bool { return true }

func (f *fakeFetcher) fetchCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.calls
}

var _ ports.ArticleFetcher = (*fakeFetcher)(nil)

// fakeAggregator returns a fixed result and records the last query.
type fakeAggregator struct {
	result    *ports.SearchResult
	err       error
	lastQuery ports.SearchQuery
}

func (f *fakeAggregator) Name() string { return "newsapi" }

func (f *fakeAggregator) Search(_ context.Context, query ports.SearchQuery) (*ports.SearchResult, error) {
	f.lastQuery = query

	if f.err != nil {
		return nil, f.err
	}

	return f.result, nil
}

func (f *fakeAggregator) HealthCheck(context.Context) bool { return true }

var _ ports.NewsAggregator = (*fakeAggregator)(nil)

func preview(url, title, source string) ports.ArticlePreview {
	return ports.ArticlePreview{URL: url, Title: title, Source: source}
}
