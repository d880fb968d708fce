package fetch

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var samplePage = `<!DOCTYPE html>
<html>
<head>
<title>Fallback Title</title>
<meta property="og:title" content="Senate Passes Budget Bill">
<meta property="og:site_name" content="Example Times">
<meta name="author" content="Jane Reporter">
<meta property="article:published_time" content="2026-03-14T09:30:00Z">
</head>
<body>
<article>
<h1>Senate Passes Budget Bill</h1>
<p>` + strings.Repeat("The senate voted on the budget measure after a long debate over spending priorities. ", 10) + `</p>
<p>` + strings.Repeat("Lawmakers from both parties weighed in on the implications for the next fiscal year. ", 10) + `</p>
</article>
</body>
</html>`

func TestExtractContent(t *testing.T) {
	content, err := ExtractContent([]byte(samplePage), "https://www.example.com/senate-budget")
	require.NoError(t, err)

	assert.Equal(t, "Senate Passes Budget Bill", content.Title)
	assert.Contains(t, content.Text, "senate voted on the budget")
	assert.Greater(t, content.WordCount, 50)
	assert.Equal(t, 2026, content.PublishedAt.Year())
}

func TestExtractContentMetaFallbacks(t *testing.T) {
	page := strings.Replace(samplePage, `<meta property="og:title" content="Senate Passes Budget Bill">`, "", 1)

	content, err := ExtractContent([]byte(page), "https://www.example.com/senate-budget")
	require.NoError(t, err)

	// Readability still finds the h1; the point is the result is non-empty.
	assert.NotEmpty(t, content.Title)
}

func TestExtractDomainStripsWWW(t *testing.T) {
	assert.Equal(t, "example.com", extractDomain("https://www.example.com/a/b"))
	assert.Equal(t, "news.example.org", extractDomain("http://news.example.org/x"))
	assert.Equal(t, "", extractDomain("://bad"))
}

func TestParseDate(t *testing.T) {
	assert.True(t, parseDate("").IsZero())
	assert.True(t, parseDate("not a date").IsZero())
	assert.Equal(t, 14, parseDate("2026-03-14T09:30:00Z").Day())
}
