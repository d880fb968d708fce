package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSearchKeyOrderAndCaseIndependent(t *testing.T) {
	k1 := SearchKey([]string{"Elections", "vote", "Ballot"}, "newsapi")
	k2 := SearchKey([]string{"ballot", "ELECTIONS", "Vote"}, "newsapi")

	assert.Equal(t, k1, k2)
}

func TestSearchKeySourceScoped(t *testing.T) {
	k1 := SearchKey([]string{"vote"}, "newsapi")
	k2 := SearchKey([]string{"vote"}, "gnews")

	assert.NotEqual(t, k1, k2)
}

func TestComparisonKeyOrderIndependent(t *testing.T) {
	urls := []string{"https://a.test/1", "https://b.test/2", "https://c.test/3"}
	reordered := []string{"https://c.test/3", "https://a.test/1", "https://b.test/2"}

	assert.Equal(t, ComparisonKey(urls), ComparisonKey(reordered))

	// The input slices must not be mutated by key derivation.
	assert.Equal(t, "https://c.test/3", reordered[0])
}

func TestAnalysisKeyProviderScoped(t *testing.T) {
	url := "https://example.com/article"

	assert.NotEqual(t, AnalysisKey(url, "groq"), AnalysisKey(url, "claude"))
}

func TestArticleKeyDistinctPerURL(t *testing.T) {
	assert.NotEqual(t, ArticleKey("https://a.test/1"), ArticleKey("https://a.test/2"))
}

func TestKeyPrefixes(t *testing.T) {
	assert.Equal(t, TypeArticle, KeyType(ArticleKey("https://a.test")))
	assert.Equal(t, TypeAnalysis, KeyType(AnalysisKey("https://a.test", "groq")))
	assert.Equal(t, TypeSearch, KeyType(SearchKey([]string{"x"}, "newsapi")))
	assert.Equal(t, TypeRelated, KeyType(RelatedKey("https://a.test")))
	assert.Equal(t, TypeComparison, KeyType(ComparisonKey([]string{"https://a.test"})))
	assert.Equal(t, TypeDefault, KeyType("nocolon"))
}

func TestTTLFor(t *testing.T) {
	assert.Equal(t, time.Hour, TTLFor(TypeArticle))
	assert.Equal(t, 24*time.Hour, TTLFor(TypeAnalysis))
	assert.Equal(t, 15*time.Minute, TTLFor(TypeSearch))
	assert.Equal(t, 30*time.Minute, TTLFor(TypeRelated))
	assert.Equal(t, time.Hour, TTLFor(TypeComparison))
	assert.Equal(t, time.Hour, TTLFor("unknown"))
}
