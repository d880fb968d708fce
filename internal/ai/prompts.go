package ai

import (
	"fmt"
	"strings"

	"github.com/spectrumhq/spectrum/internal/core/domain"
)

// Content sent to a backend is truncated so a long article cannot blow the
// context window.
const (
	leaningContentLimit = 8000
	topicsContentLimit  = 6000
)

const leaningPromptFmt = `Analyze the political leaning of this news article.

Title: %s
Source: %s
Content: %s

Provide your analysis as JSON with this exact structure:
{
    "score": <float from -1.0 (far left) to 1.0 (far right), 0 is center>,
    "confidence": <float from 0.0 to 1.0>,
    "reasoning": "<brief explanation of why you assigned this score>",
    "economic_score": <float from -1.0 to 1.0 for economic policy stance, null if not applicable>,
    "social_score": <float from -1.0 to 1.0 for social policy stance, null if not applicable>
}

Consider:
- Word choice and framing
- Sources cited
- Topics emphasized or omitted
- Emotional vs factual tone
- Known bias of the source (if any)

Respond ONLY with valid JSON, no additional text.`

const topicsPromptFmt = `Extract topics and keywords from this article.

Title: %s
Content: %s

Respond with JSON:
{
    "primary_topic": "<main topic>",
    "secondary_topics": ["<topic1>", "<topic2>"],
    "keywords": ["<keyword1>", "<keyword2>", ...],
    "entities": ["<person/org name>", ...]
}

Guidelines:
- primary_topic: The main subject of the article (1-3 words)
- secondary_topics: Related but secondary topics (max 3)
- keywords: Important terms for finding related articles (max 10), ranked by relevance
- entities: Named people, organizations, places mentioned

Respond ONLY with valid JSON, no additional text.`

const keyPointsPromptFmt = `Extract the %d most important claims or points from this article.

Title: %s
Content: %s

Respond with JSON:
{
    "points": [
        {
            "id": "p1",
            "statement": "<clear statement of the point/claim>",
            "supporting_quote": "<direct quote from article if available, null otherwise>",
            "sentiment": "positive|negative|neutral"
        }
    ]
}

Guidelines:
- Focus on factual claims and arguments, not descriptive text
- Each point should be a complete, standalone statement
- Include direct quotes when they support the point
- Sentiment refers to the tone of the point

Respond ONLY with valid JSON, no additional text.`

const comparePointsPromptFmt = `Compare these points from two articles on the same topic.

Article A: %s
Article A points:
%s

Article B: %s
Article B points:
%s

Find agreements and disagreements between the articles. Respond with JSON:
{
    "comparisons": [
        {
            "point_a_id": "<id from article A>",
            "point_b_id": "<id from article B>",
            "relationship": "agrees|disagrees|related|unrelated",
            "explanation": "<brief explanation of why they agree/disagree>"
        }
    ]
}

Guidelines:
- Compare points that address similar topics
- "agrees" = both articles make the same or supporting claims
- "disagrees" = articles make contradicting claims
- "related" = points discuss same topic but different aspects
- Don't force comparisons - only include meaningful relationships

Respond ONLY with valid JSON, no additional text.`

func buildLeaningPrompt(title, content, sourceName string) string {
	if sourceName == "" {
		sourceName = "Unknown"
	}

	return fmt.Sprintf(leaningPromptFmt, title, sourceName, truncate(content, leaningContentLimit))
}

func buildTopicsPrompt(title, content string) string {
	return fmt.Sprintf(topicsPromptFmt, title, truncate(content, topicsContentLimit))
}

func buildKeyPointsPrompt(title, content string, maxPoints int) string {
	return fmt.Sprintf(keyPointsPromptFmt, maxPoints, title, truncate(content, topicsContentLimit))
}

func buildComparePointsPrompt(pointsA, pointsB []domain.ArticlePoint, contextA, contextB string) string {
	return fmt.Sprintf(comparePointsPromptFmt, contextA, formatPoints(pointsA), contextB, formatPoints(pointsB))
}

func formatPoints(points []domain.ArticlePoint) string {
	lines := make([]string, len(points))
	for i, p := range points {
		lines[i] = fmt.Sprintf("- [%s] %s", p.ID, p.Statement)
	}

	return strings.Join(lines, "\n")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}

	return s[:max]
}
