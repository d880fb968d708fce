// Package fetch retrieves article pages and extracts readable content.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/spectrumhq/spectrum/internal/core/domain"
	cerrors "github.com/spectrumhq/spectrum/internal/core/errors"
	"github.com/spectrumhq/spectrum/internal/core/ports"
	"github.com/spectrumhq/spectrum/internal/platform/observability"
)

var _ ports.ArticleFetcher = (*Fetcher)(nil)

const (
	maxRedirects    = 5
	maxBodyBytes    = 5 * 1024 * 1024
	minContentChars = 100
	defaultTimeout  = 30 * time.Second
	healthCheckURL  = "https://www.wikipedia.org/"

	statusSuccess = "success"
	statusFetch   = "fetch_error"
	statusParse   = "parse_error"
)

// Fetcher downloads article pages with global and per-domain rate limits and
// turns them into domain.Article snapshots. It does not retry: a transient
// failure surfaces as a FetchError and the caller decides what to do.
type Fetcher struct {
	client         *http.Client
	globalLimiter  *rate.Limiter
	domainLimiters map[string]*rate.Limiter
	mu             sync.RWMutex
	userAgent      string
	logger         *zerolog.Logger
}

// New creates a Fetcher. rps bounds total outbound request rate; each domain
// is additionally limited to 1 req/sec.
func New(rps float64, timeout time.Duration, userAgent string, logger *zerolog.Logger) *Fetcher {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	if rps <= 0 {
		rps = 2
	}

	return &Fetcher{
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(_ *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("too many redirects")
				}

				return nil
			},
		},
		globalLimiter:  rate.NewLimiter(rate.Limit(rps), 5),
		domainLimiters: make(map[string]*rate.Limiter),
		userAgent:      userAgent,
		logger:         logger,
	}
}

// Fetch downloads and extracts one article. Failures are either a FetchError
// (transport/HTTP) or a ParseError (content extraction), distinguishable by
// the caller.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*domain.Article, error) {
	body, err := f.download(ctx, rawURL)
	if err != nil {
		observability.ArticlesFetched.WithLabelValues(statusFetch).Inc()

		return nil, err
	}

	content, err := ExtractContent(body, rawURL)
	if err != nil {
		observability.ArticlesFetched.WithLabelValues(statusParse).Inc()

		return nil, err
	}

	if len(content.Text) < minContentChars {
		observability.ArticlesFetched.WithLabelValues(statusParse).Inc()

		return nil, &cerrors.ParseError{URL: rawURL, Reason: "could not extract meaningful content"}
	}

	article := f.buildArticle(rawURL, content)

	observability.ArticlesFetched.WithLabelValues(statusSuccess).Inc()
	f.logger.Debug().
		Str("url", rawURL).
		Str("title", article.Title).
		Int("word_count", article.WordCount).
		Msg("article fetched")

	return article, nil
}

func (f *Fetcher) download(ctx context.Context, rawURL string) ([]byte, error) {
	if err := f.globalLimiter.Wait(ctx); err != nil {
		return nil, &cerrors.FetchError{URL: rawURL, Err: err}
	}

	domainName := extractDomain(rawURL)
	if err := f.domainLimiter(domainName).Wait(ctx); err != nil {
		return nil, &cerrors.FetchError{URL: rawURL, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &cerrors.FetchError{URL: rawURL, Err: err}
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &cerrors.FetchError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &cerrors.FetchError{
			URL:        rawURL,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status"),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &cerrors.FetchError{URL: rawURL, Err: err}
	}

	return body, nil
}

func (f *Fetcher) buildArticle(rawURL string, content *WebContent) *domain.Article {
	domainName := extractDomain(rawURL)

	sourceName := content.SiteName
	if sourceName == "" {
		sourceName = domainName
	}

	article := &domain.Article{
		ID:      domain.ArticleID(rawURL),
		URL:     rawURL,
		Title:   content.Title,
		Content: content.Text,
		Source: domain.Source{
			Name:   sourceName,
			Domain: domainName,
		},
		Author:    content.Author,
		WordCount: content.WordCount,
		FetchedAt: time.Now().UTC(),
	}

	if !content.PublishedAt.IsZero() {
		published := content.PublishedAt
		article.PublishedAt = &published
	}

	return article
}

// HealthCheck reports whether outbound HTTP is working.
func (f *Fetcher) HealthCheck(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, healthCheckURL, nil)
	if err != nil {
		return false
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode < http.StatusInternalServerError
}

func (f *Fetcher) domainLimiter(domainName string) *rate.Limiter {
	f.mu.RLock()
	limiter, exists := f.domainLimiters[domainName]
	f.mu.RUnlock()

	if exists {
		return limiter
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	// Double check
	if limiter, exists := f.domainLimiters[domainName]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(1, 2) // 1 req/sec per domain
	f.domainLimiters[domainName] = limiter

	return limiter
}

func extractDomain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	return strings.TrimPrefix(strings.ToLower(u.Host), "www.")
}
