package ai

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/spectrumhq/spectrum/internal/core/domain"
	cerrors "github.com/spectrumhq/spectrum/internal/core/errors"
	"github.com/spectrumhq/spectrum/internal/platform/observability"
)

const (
	groqBaseURL = "https://api.groq.com/openai/v1"

	chatTemperature  = 0.1
	chatMaxTokens    = 2000
	rateLimiterBurst = 5
)

// openaiProvider serves both OpenAI and Groq: Groq exposes an
// OpenAI-compatible chat API, so only the base URL and model differ.
type openaiProvider struct {
	name        string
	client      *openai.Client
	model       string
	rateLimiter *rate.Limiter
	logger      *zerolog.Logger
}

// NewGroq creates the Groq backend.
func NewGroq(apiKey, model string, rps int, logger *zerolog.Logger) *openaiProvider {
	clientCfg := openai.DefaultConfig(apiKey)
	clientCfg.BaseURL = groqBaseURL

	return &openaiProvider{
		name:        ProviderGroq,
		client:      openai.NewClientWithConfig(clientCfg),
		model:       model,
		rateLimiter: newLimiter(rps),
		logger:      logger,
	}
}

// NewOpenAI creates the OpenAI backend.
func NewOpenAI(apiKey, model string, rps int, logger *zerolog.Logger) *openaiProvider {
	return &openaiProvider{
		name:        ProviderOpenAI,
		client:      openai.NewClient(apiKey),
		model:       model,
		rateLimiter: newLimiter(rps),
		logger:      logger,
	}
}

func newLimiter(rps int) *rate.Limiter {
	if rps <= 0 {
		rps = 1
	}

	return rate.NewLimiter(rate.Limit(float64(rps)), rateLimiterBurst)
}

func (p *openaiProvider) Name() string {
	return p.name
}

func (p *openaiProvider) complete(ctx context.Context, prompt, task string) (string, error) {
	if err := p.rateLimiter.Wait(ctx); err != nil {
		return "", &cerrors.ProviderError{Provider: p.name, Op: task, Err: err}
	}

	start := time.Now()

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature:    chatTemperature,
		MaxTokens:      chatMaxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
	})

	observability.AIRequestDuration.WithLabelValues(p.name, task).Observe(time.Since(start).Seconds())

	if err != nil {
		observability.AIRequests.WithLabelValues(p.name, task, statusError).Inc()

		return "", &cerrors.ProviderError{Provider: p.name, Op: task, Err: err}
	}

	if len(resp.Choices) == 0 {
		observability.AIRequests.WithLabelValues(p.name, task, statusError).Inc()

		return "", &cerrors.ProviderError{Provider: p.name, Op: task, Err: cerrors.ErrEmptyResponse}
	}

	observability.AIRequests.WithLabelValues(p.name, task, statusSuccess).Inc()

	return resp.Choices[0].Message.Content, nil
}

func (p *openaiProvider) AnalyzePoliticalLeaning(ctx context.Context, title, content, sourceName string) (domain.PoliticalLeaning, error) {
	raw, err := p.complete(ctx, buildLeaningPrompt(title, content, sourceName), taskLeaning)
	if err != nil {
		return domain.PoliticalLeaning{}, err
	}

	leaning, err := parseLeaning(raw)
	if err != nil {
		return domain.PoliticalLeaning{}, &cerrors.ProviderError{Provider: p.name, Op: taskLeaning, Err: err}
	}

	return leaning, nil
}

func (p *openaiProvider) ExtractTopics(ctx context.Context, title, content string) (domain.TopicAnalysis, error) {
	raw, err := p.complete(ctx, buildTopicsPrompt(title, content), taskTopics)
	if err != nil {
		return domain.TopicAnalysis{}, err
	}

	topics, err := parseTopics(raw)
	if err != nil {
		return domain.TopicAnalysis{}, &cerrors.ProviderError{Provider: p.name, Op: taskTopics, Err: err}
	}

	return topics, nil
}

func (p *openaiProvider) ExtractKeyPoints(ctx context.Context, title, content string, maxPoints int) ([]domain.ArticlePoint, error) {
	raw, err := p.complete(ctx, buildKeyPointsPrompt(title, content, maxPoints), taskKeyPoints)
	if err != nil {
		return nil, err
	}

	points, err := parseKeyPoints(raw, maxPoints)
	if err != nil {
		return nil, &cerrors.ProviderError{Provider: p.name, Op: taskKeyPoints, Err: err}
	}

	return points, nil
}

func (p *openaiProvider) ComparePoints(ctx context.Context, pointsA, pointsB []domain.ArticlePoint, contextA, contextB string) ([]domain.PointComparison, error) {
	raw, err := p.complete(ctx, buildComparePointsPrompt(pointsA, pointsB, contextA, contextB), taskCompare)
	if err != nil {
		return nil, err
	}

	comparisons, err := parseComparisons(raw, pointsA, pointsB)
	if err != nil {
		return nil, &cerrors.ProviderError{Provider: p.name, Op: taskCompare, Err: err}
	}

	return comparisons, nil
}

func (p *openaiProvider) HealthCheck(ctx context.Context) bool {
	_, err := p.client.ListModels(ctx)
	return err == nil
}
