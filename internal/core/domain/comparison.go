package domain

// Point comparison relationships as returned by the AI provider.
const (
	RelationshipAgrees    = "agrees"
	RelationshipDisagrees = "disagrees"
	RelationshipRelated   = "related"
	RelationshipUnrelated = "unrelated"
)

// PointComparison relates one point from article A to one from article B.
// The provider only sees point IDs scoped to its own prompt, so the article
// IDs are backfilled by the comparison orchestrator.
type PointComparison struct {
	PointA       ArticlePoint `json:"point_a"`
	PointB       ArticlePoint `json:"point_b"`
	ArticleAID   string       `json:"article_a_id"`
	ArticleBID   string       `json:"article_b_id"`
	Relationship string       `json:"relationship"`
	Explanation  string       `json:"explanation"`
}

// ArticleComparison is the pairwise comparison between two analyzed
// articles. Only agrees/disagrees point comparisons are kept; related and
// unrelated results are dropped at this layer.
type ArticleComparison struct {
	ArticleAID    string `json:"article_a_id"`
	ArticleBID    string `json:"article_b_id"`
	ArticleATitle string `json:"article_a_title"`
	ArticleBTitle string `json:"article_b_title"`

	// LeaningDifference is |scoreA - scoreB|, symmetric by construction.
	LeaningDifference float64 `json:"leaning_difference"`
	LeaningSummary    string  `json:"leaning_summary"`

	SharedTopics  []string `json:"shared_topics"`
	UniqueTopicsA []string `json:"unique_topics_a"`
	UniqueTopicsB []string `json:"unique_topics_b"`

	Agreements    []PointComparison `json:"agreements"`
	Disagreements []PointComparison `json:"disagreements"`

	OverallSummary string `json:"overall_summary"`
}

// MultiArticleComparison is the batch result: one entry per successful
// analysis and one pairwise comparison per unordered pair of those. It is
// assembled atomically and never partially updated.
type MultiArticleComparison struct {
	Articles            []ArticleAnalysis  `json:"articles"`
	PairwiseComparisons []ArticleComparison `json:"pairwise_comparisons"`

	// LeaningSpectrum maps article ID to leaning score for successful
	// analyses only; failed URLs are invisible here.
	LeaningSpectrum map[string]float64 `json:"leaning_spectrum"`

	ConsensusPoints []string `json:"consensus_points"`
	ContestedPoints []string `json:"contested_points"`

	OverallSummary string `json:"overall_summary"`
}
