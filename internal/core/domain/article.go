package domain

import (
	"crypto/md5" //nolint:gosec // short content hash for cache keys, not a security boundary
	"encoding/hex"
	"time"
)

const articleIDLength = 12

// Source describes the publication an article came from.
type Source struct {
	Name string `json:"name"`
	// Domain is the registrable host, without a www. prefix.
	Domain string `json:"domain"`
	// KnownBias is a pre-known bias score in [-1, 1] if the outlet is on a
	// curated list, nil otherwise.
	KnownBias *float64 `json:"known_bias,omitempty"`
}

// Article is a fetched content snapshot. It is immutable once constructed;
// the fetcher builds it and everything downstream only reads it.
type Article struct {
	ID          string     `json:"id"`
	URL         string     `json:"url"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	Source      Source     `json:"source"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	Author      string     `json:"author,omitempty"`
	WordCount   int        `json:"word_count"`
	FetchedAt   time.Time  `json:"fetched_at"`
}

// ArticleID derives a stable identifier from a URL. The same URL always
// yields the same ID, so cache entries and analyses line up across requests.
func ArticleID(url string) string {
	sum := md5.Sum([]byte(url)) //nolint:gosec // see above
	return hex.EncodeToString(sum[:])[:articleIDLength]
}
