package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPoliticalLeaningLabel(t *testing.T) {
	cases := []struct {
		score float64
		label string
	}{
		{-1.0, LabelFarLeft},
		{-0.6, LabelFarLeft},
		{-0.59, LabelLeft},
		{-0.2, LabelLeft},
		{0.0, LabelCenter},
		{0.2, LabelCenter},
		{0.21, LabelRight},
		{0.6, LabelRight},
		{0.61, LabelFarRight},
		{1.0, LabelFarRight},
	}

	for _, tc := range cases {
		l := PoliticalLeaning{Score: tc.score}
		assert.Equal(t, tc.label, l.Label(), "score %v", tc.score)
	}
}

func TestArticleIDStable(t *testing.T) {
	id1 := ArticleID("https://example.com/a")
	id2 := ArticleID("https://example.com/a")

	assert.Equal(t, id1, id2)
	assert.Len(t, id1, 12)

	other := ArticleID("https://example.com/b")
	assert.NotEqual(t, id1, other)
}
