package ai

import (
	"context"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/spectrumhq/spectrum/internal/core/domain"
	cerrors "github.com/spectrumhq/spectrum/internal/core/errors"
	"github.com/spectrumhq/spectrum/internal/platform/observability"
)

const (
	anthropicMaxTokens = 2048
	contentTypeText    = "text"
)

// claudeProvider implements the provider interface for Anthropic Claude.
type claudeProvider struct {
	client      anthropic.Client
	model       string
	rateLimiter *rate.Limiter
	logger      *zerolog.Logger
}

// NewClaude creates the Anthropic backend.
func NewClaude(apiKey, model string, rps int, logger *zerolog.Logger) *claudeProvider {
	return &claudeProvider{
		client:      anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:       model,
		rateLimiter: newLimiter(rps),
		logger:      logger,
	}
}

func (p *claudeProvider) Name() string {
	return ProviderClaude
}

func (p *claudeProvider) complete(ctx context.Context, prompt, task string) (string, error) {
	if err := p.rateLimiter.Wait(ctx); err != nil {
		return "", &cerrors.ProviderError{Provider: ProviderClaude, Op: task, Err: err}
	}

	start := time.Now()

	resp, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: anthropicMaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})

	observability.AIRequestDuration.WithLabelValues(ProviderClaude, task).Observe(time.Since(start).Seconds())

	if err != nil {
		observability.AIRequests.WithLabelValues(ProviderClaude, task, statusError).Inc()

		return "", &cerrors.ProviderError{Provider: ProviderClaude, Op: task, Err: err}
	}

	text := extractTextFromResponse(resp)
	if strings.TrimSpace(text) == "" {
		observability.AIRequests.WithLabelValues(ProviderClaude, task, statusError).Inc()

		return "", &cerrors.ProviderError{Provider: ProviderClaude, Op: task, Err: cerrors.ErrEmptyResponse}
	}

	observability.AIRequests.WithLabelValues(ProviderClaude, task, statusSuccess).Inc()

	return text, nil
}

func (p *claudeProvider) AnalyzePoliticalLeaning(ctx context.Context, title, content, sourceName string) (domain.PoliticalLeaning, error) {
	raw, err := p.complete(ctx, buildLeaningPrompt(title, content, sourceName), taskLeaning)
	if err != nil {
		return domain.PoliticalLeaning{}, err
	}

	leaning, err := parseLeaning(raw)
	if err != nil {
		return domain.PoliticalLeaning{}, &cerrors.ProviderError{Provider: ProviderClaude, Op: taskLeaning, Err: err}
	}

	return leaning, nil
}

func (p *claudeProvider) ExtractTopics(ctx context.Context, title, content string) (domain.TopicAnalysis, error) {
	raw, err := p.complete(ctx, buildTopicsPrompt(title, content), taskTopics)
	if err != nil {
		return domain.TopicAnalysis{}, err
	}

	topics, err := parseTopics(raw)
	if err != nil {
		return domain.TopicAnalysis{}, &cerrors.ProviderError{Provider: ProviderClaude, Op: taskTopics, Err: err}
	}

	return topics, nil
}

func (p *claudeProvider) ExtractKeyPoints(ctx context.Context, title, content string, maxPoints int) ([]domain.ArticlePoint, error) {
	raw, err := p.complete(ctx, buildKeyPointsPrompt(title, content, maxPoints), taskKeyPoints)
	if err != nil {
		return nil, err
	}

	points, err := parseKeyPoints(raw, maxPoints)
	if err != nil {
		return nil, &cerrors.ProviderError{Provider: ProviderClaude, Op: taskKeyPoints, Err: err}
	}

	return points, nil
}

func (p *claudeProvider) ComparePoints(ctx context.Context, pointsA, pointsB []domain.ArticlePoint, contextA, contextB string) ([]domain.PointComparison, error) {
	raw, err := p.complete(ctx, buildComparePointsPrompt(pointsA, pointsB, contextA, contextB), taskCompare)
	if err != nil {
		return nil, err
	}

	comparisons, err := parseComparisons(raw, pointsA, pointsB)
	if err != nil {
		return nil, &cerrors.ProviderError{Provider: ProviderClaude, Op: taskCompare, Err: err}
	}

	return comparisons, nil
}

func (p *claudeProvider) HealthCheck(ctx context.Context) bool {
	_, err := p.complete(ctx, `Respond with JSON: {"ok": true}`, "health_check")
	return err == nil
}

// extractTextFromResponse extracts text content from an Anthropic response.
func extractTextFromResponse(resp *anthropic.Message) string {
	var result strings.Builder

	for _, block := range resp.Content {
		if block.Type == contentTypeText {
			result.WriteString(block.Text)
		}
	}

	return result.String()
}
