package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spectrumhq/spectrum/internal/core/domain"
)

// Response DTOs matching the JSON shapes the prompts demand.

type leaningResponse struct {
	Score         float64  `json:"score"`
	Confidence    float64  `json:"confidence"`
	Reasoning     string   `json:"reasoning"`
	EconomicScore *float64 `json:"economic_score"`
	SocialScore   *float64 `json:"social_score"`
}

type topicsResponse struct {
	PrimaryTopic    string   `json:"primary_topic"`
	SecondaryTopics []string `json:"secondary_topics"`
	Keywords        []string `json:"keywords"`
	Entities        []string `json:"entities"`
}

type pointDTO struct {
	ID              string `json:"id"`
	Statement       string `json:"statement"`
	SupportingQuote string `json:"supporting_quote"`
	Sentiment       string `json:"sentiment"`
}

type pointsResponse struct {
	Points []pointDTO `json:"points"`
}

type comparisonDTO struct {
	PointAID     string `json:"point_a_id"`
	PointBID     string `json:"point_b_id"`
	Relationship string `json:"relationship"`
	Explanation  string `json:"explanation"`
}

type comparisonsResponse struct {
	Comparisons []comparisonDTO `json:"comparisons"`
}

const maxKeywords = 10

func parseLeaning(raw string) (domain.PoliticalLeaning, error) {
	var resp leaningResponse
	if err := json.Unmarshal([]byte(extractJSON(raw)), &resp); err != nil {
		return domain.PoliticalLeaning{}, fmt.Errorf("parse leaning response: %w", err)
	}

	return domain.PoliticalLeaning{
		Score:         clamp(resp.Score, -1, 1),
		Confidence:    clamp(resp.Confidence, 0, 1),
		Reasoning:     resp.Reasoning,
		EconomicScore: resp.EconomicScore,
		SocialScore:   resp.SocialScore,
	}, nil
}

func parseTopics(raw string) (domain.TopicAnalysis, error) {
	var resp topicsResponse
	if err := json.Unmarshal([]byte(extractJSON(raw)), &resp); err != nil {
		return domain.TopicAnalysis{}, fmt.Errorf("parse topics response: %w", err)
	}

	keywords := resp.Keywords
	if len(keywords) > maxKeywords {
		keywords = keywords[:maxKeywords]
	}

	return domain.TopicAnalysis{
		PrimaryTopic:    resp.PrimaryTopic,
		SecondaryTopics: resp.SecondaryTopics,
		Keywords:        keywords,
		Entities:        resp.Entities,
	}, nil
}

func parseKeyPoints(raw string, maxPoints int) ([]domain.ArticlePoint, error) {
	var resp pointsResponse
	if err := json.Unmarshal([]byte(extractJSON(raw)), &resp); err != nil {
		return nil, fmt.Errorf("parse key points response: %w", err)
	}

	if len(resp.Points) > maxPoints {
		resp.Points = resp.Points[:maxPoints]
	}

	points := make([]domain.ArticlePoint, 0, len(resp.Points))

	for _, p := range resp.Points {
		points = append(points, domain.ArticlePoint{
			ID:              p.ID,
			Statement:       p.Statement,
			SupportingQuote: p.SupportingQuote,
			Sentiment:       normalizeSentiment(p.Sentiment),
		})
	}

	return points, nil
}

// parseComparisons resolves the backend's point-ID pairs to full points.
// Pairs referencing unknown IDs are dropped; the article IDs stay empty for
// the orchestrator to backfill.
func parseComparisons(raw string, pointsA, pointsB []domain.ArticlePoint) ([]domain.PointComparison, error) {
	var resp comparisonsResponse
	if err := json.Unmarshal([]byte(extractJSON(raw)), &resp); err != nil {
		return nil, fmt.Errorf("parse comparisons response: %w", err)
	}

	byIDA := pointsByID(pointsA)
	byIDB := pointsByID(pointsB)

	comparisons := make([]domain.PointComparison, 0, len(resp.Comparisons))

	for _, c := range resp.Comparisons {
		pa, okA := byIDA[c.PointAID]
		pb, okB := byIDB[c.PointBID]

		if !okA || !okB {
			continue
		}

		comparisons = append(comparisons, domain.PointComparison{
			PointA:       pa,
			PointB:       pb,
			Relationship: normalizeRelationship(c.Relationship),
			Explanation:  c.Explanation,
		})
	}

	return comparisons, nil
}

func pointsByID(points []domain.ArticlePoint) map[string]domain.ArticlePoint {
	byID := make(map[string]domain.ArticlePoint, len(points))
	for _, p := range points {
		byID[p.ID] = p
	}

	return byID
}

func normalizeSentiment(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case domain.SentimentPositive:
		return domain.SentimentPositive
	case domain.SentimentNegative:
		return domain.SentimentNegative
	default:
		return domain.SentimentNeutral
	}
}

func normalizeRelationship(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case domain.RelationshipAgrees:
		return domain.RelationshipAgrees
	case domain.RelationshipDisagrees:
		return domain.RelationshipDisagrees
	case domain.RelationshipRelated:
		return domain.RelationshipRelated
	default:
		return domain.RelationshipUnrelated
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}

	if v > hi {
		return hi
	}

	return v
}

// extractJSON tries to extract JSON from a response that might have extra text.
func extractJSON(text string) string {
	// Look for JSON object
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")

	if start != -1 && end != -1 && end > start {
		return text[start : end+1]
	}

	// Look for JSON array
	start = strings.Index(text, "[")
	end = strings.LastIndex(text, "]")

	if start != -1 && end != -1 && end > start {
		return text[start : end+1]
	}

	return text
}
