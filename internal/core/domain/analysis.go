package domain

import "time"

// Leaning label thresholds. A score lands in the first bucket whose upper
// bound it does not exceed.
const (
	farLeftMax = -0.6
	leftMax    = -0.2
	centerMax  = 0.2
	rightMax   = 0.6
)

// Leaning labels.
const (
	LabelFarLeft  = "Far Left"
	LabelLeft     = "Left"
	LabelCenter   = "Center"
	LabelRight    = "Right"
	LabelFarRight = "Far Right"
)

// Sentiment values for article points.
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// PoliticalLeaning is the scored bias assessment for one article.
type PoliticalLeaning struct {
	// Score is in [-1, 1]: -1 far left, 0 center, 1 far right.
	Score      float64 `json:"score"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
	// Sub-scores are nil when the provider could not assess the axis.
	EconomicScore *float64 `json:"economic_score,omitempty"`
	SocialScore   *float64 `json:"social_score,omitempty"`
}

// Label maps the score onto a human-readable bucket.
func (l PoliticalLeaning) Label() string {
	switch {
	case l.Score <= farLeftMax:
		return LabelFarLeft
	case l.Score <= leftMax:
		return LabelLeft
	case l.Score <= centerMax:
		return LabelCenter
	case l.Score <= rightMax:
		return LabelRight
	default:
		return LabelFarRight
	}
}

// TopicAnalysis is the topic and keyword extraction result. Keyword and
// secondary-topic order is significant: the provider ranks them by relevance
// and callers rely on that ranking, so they must never be resorted.
type TopicAnalysis struct {
	PrimaryTopic    string   `json:"primary_topic"`
	SecondaryTopics []string `json:"secondary_topics"`
	Keywords        []string `json:"keywords"`
	Entities        []string `json:"entities"`
}

// ArticlePoint is one extracted claim. The ID is unique only within the
// point set of its own article.
type ArticlePoint struct {
	ID              string `json:"id"`
	Statement       string `json:"statement"`
	SupportingQuote string `json:"supporting_quote,omitempty"`
	Sentiment       string `json:"sentiment"`
}

// ArticleAnalysis is the full per-article result assembled by the analyze
// use case. Cached is set at read time: false on fresh computation, true
// when the value was served from cache.
type ArticleAnalysis struct {
	ArticleID    string `json:"article_id"`
	ArticleURL   string `json:"article_url"`
	ArticleTitle string `json:"article_title"`
	SourceName   string `json:"source_name"`

	PoliticalLeaning PoliticalLeaning `json:"political_leaning"`
	Topics           TopicAnalysis    `json:"topics"`
	KeyPoints        []ArticlePoint   `json:"key_points"`

	AnalyzedAt time.Time `json:"analyzed_at"`
	AIProvider string    `json:"ai_provider"`
	Cached     bool      `json:"cached"`
}
