// Package cache implements the process-local cache: a deterministic key
// scheme and an in-memory store partitioned by key type.
package cache

import (
	"crypto/md5" //nolint:gosec // short lookup digest, not a security boundary
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Key type prefixes. The substring before the first colon routes a key to
// its partition and selects the default TTL.
const (
	TypeArticle    = "article"
	TypeAnalysis   = "analysis"
	TypeSearch     = "search"
	TypeRelated    = "related"
	TypeComparison = "comparison"
	TypeDefault    = "default"
)

// Default TTLs per key type.
const (
	TTLArticle  = time.Hour
	TTLAnalysis = 24 * time.Hour
	TTLSearch   = 15 * time.Minute
	TTLRelated  = 30 * time.Minute
	TTLDefault  = time.Hour
)

// hashLength is the truncated digest width. Collisions at 12 hex chars are
// an accepted risk for cache lookups, not a correctness requirement.
const hashLength = 12

func shortHash(value string) string {
	sum := md5.Sum([]byte(value)) //nolint:gosec // see package comment
	return hex.EncodeToString(sum[:])[:hashLength]
}

// ArticleKey derives the cache key for fetched article content.
func ArticleKey(url string) string {
	return fmt.Sprintf("%s:%s", TypeArticle, shortHash(url))
}

// AnalysisKey derives the cache key for an analysis result. The provider is
// part of the key because different backends score the same article
// differently.
func AnalysisKey(url, provider string) string {
	return fmt.Sprintf("%s:%s:%s", TypeAnalysis, provider, shortHash(url))
}

// SearchKey derives the cache key for aggregator search results. Keyword
// order and case never affect the key.
func SearchKey(keywords []string, source string) string {
	normalized := make([]string, len(keywords))
	for i, k := range keywords {
		normalized[i] = strings.ToLower(k)
	}

	sort.Strings(normalized)

	return fmt.Sprintf("%s:%s:%s", TypeSearch, source, shortHash(strings.Join(normalized, "|")))
}

// RelatedKey derives the cache key for a related-articles bundle.
func RelatedKey(url string) string {
	return fmt.Sprintf("%s:%s", TypeRelated, shortHash(url))
}

// ComparisonKey derives the cache key for a multi-article comparison. URL
// order in the request never affects the key.
func ComparisonKey(urls []string) string {
	sorted := make([]string, len(urls))
	copy(sorted, urls)
	sort.Strings(sorted)

	return fmt.Sprintf("%s:%s", TypeComparison, shortHash(strings.Join(sorted, "|")))
}

// KeyType extracts the type prefix from a key.
func KeyType(key string) string {
	if idx := strings.Index(key, ":"); idx > 0 {
		return key[:idx]
	}

	return TypeDefault
}

// TTLFor returns the default TTL for a key type.
func TTLFor(keyType string) time.Duration {
	switch keyType {
	case TypeArticle:
		return TTLArticle
	case TypeAnalysis:
		return TTLAnalysis
	case TypeSearch:
		return TTLSearch
	case TypeRelated:
		return TTLRelated
	default:
		return TTLDefault
	}
}
