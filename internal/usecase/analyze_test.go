package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spectrumhq/spectrum/internal/cache"
)

func newAnalyzeFixture(t *testing.T) (*AnalyzeArticle, *fakeAI, *fakeFetcher) {
	t.Helper()

	ai := newFakeAI()
	fetcher := newFakeFetcher()
	store := cache.NewMemory(100, newTestLogger())

	return NewAnalyzeArticle(ai, fetcher, store, 5, newTestLogger()), ai, fetcher
}

func TestAnalyzeCachesSecondCall(t *testing.T) {
	uc, ai, fetcher := newAnalyzeFixture(t)
	fetcher.add("https://example.com/a", "Story A", "Example")

	first, err := uc.Execute(context.Background(), "https://example.com/a", false, false)
	require.NoError(t, err)
	assert.False(t, first.Cached)
	assert.Equal(t, "groq", first.AIProvider)

	second, err := uc.Execute(context.Background(), "https://example.com/a", false, false)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.ArticleID, second.ArticleID)

	leaning, topics, _, _ := ai.calls()
	assert.Equal(t, 1, leaning)
	assert.Equal(t, 1, topics)
	assert.Equal(t, 1, fetcher.fetchCalls())
}

func TestAnalyzeForceRefreshBypassesCache(t *testing.T) {
	uc, ai, fetcher := newAnalyzeFixture(t)
	fetcher.add("https://example.com/a", "Story A", "Example")

	_, err := uc.Execute(context.Background(), "https://example.com/a", false, false)
	require.NoError(t, err)

	refreshed, err := uc.Execute(context.Background(), "https://example.com/a", true, false)
	require.NoError(t, err)
	assert.False(t, refreshed.Cached)

	leaning, _, _, _ := ai.calls()
	assert.Equal(t, 2, leaning)
}

func TestAnalyzeWithoutPointsSkipsExtraction(t *testing.T) {
	uc, ai, fetcher := newAnalyzeFixture(t)
	fetcher.add("https://example.com/a", "Story A", "Example")

	analysis, err := uc.Execute(context.Background(), "https://example.com/a", false, false)
	require.NoError(t, err)

	assert.NotNil(t, analysis.KeyPoints)
	assert.Empty(t, analysis.KeyPoints)

	_, _, points, _ := ai.calls()
	assert.Zero(t, points)
}

func TestAnalyzeWithPoints(t *testing.T) {
	uc, ai, fetcher := newAnalyzeFixture(t)
	fetcher.add("https://example.com/a", "Story A", "Example")

	analysis, err := uc.Execute(context.Background(), "https://example.com/a", false, true)
	require.NoError(t, err)
	assert.Len(t, analysis.KeyPoints, 2)

	_, _, points, _ := ai.calls()
	assert.Equal(t, 1, points)
}

func TestAnalyzeFetchErrorPropagates(t *testing.T) {
	uc, _, _ := newAnalyzeFixture(t)

	_, err := uc.Execute(context.Background(), "https://example.com/missing", false, false)
	require.Error(t, err)
}

func TestAnalyzeCachedResultNotMutated(t *testing.T) {
	uc, _, fetcher := newAnalyzeFixture(t)
	fetcher.add("https://example.com/a", "Story A", "Example")

	_, err := uc.Execute(context.Background(), "https://example.com/a", false, false)
	require.NoError(t, err)

	// Returning a cached analysis flips Cached on the copy only; a later
	// read starts from the stored value again.
	second, err := uc.Execute(context.Background(), "https://example.com/a", false, false)
	require.NoError(t, err)
	second.ArticleTitle = "mutated"

	third, err := uc.Execute(context.Background(), "https://example.com/a", false, false)
	require.NoError(t, err)
	assert.Equal(t, "Story A", third.ArticleTitle)
	assert.True(t, third.Cached)
}
