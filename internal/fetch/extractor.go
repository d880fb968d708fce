package fetch

import (
	"bytes"
	"net/url"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/go-shiori/go-readability"
	"golang.org/x/net/html"

	cerrors "github.com/spectrumhq/spectrum/internal/core/errors"
)

// WebContent is the extracted article payload before it becomes a
// domain.Article.
type WebContent struct {
	Title       string
	Text        string
	Author      string
	SiteName    string
	PublishedAt time.Time
	WordCount   int
}

// ExtractContent pulls readable text out of an HTML page using the Firefox
// Reader Mode algorithm, with meta tags filling metadata gaps.
func ExtractContent(htmlBytes []byte, rawURL string) (*WebContent, error) {
	u, _ := url.Parse(rawURL)

	article, err := readability.FromReader(bytes.NewReader(htmlBytes), u)
	if err != nil {
		return nil, &cerrors.ParseError{URL: rawURL, Reason: "readability extraction failed: " + err.Error()}
	}

	meta := extractMetaTags(htmlBytes)
	text := strings.TrimSpace(article.TextContent)

	return &WebContent{
		Title:       coalesce(article.Title, meta.OGTitle, meta.Title),
		Text:        text,
		Author:      coalesce(article.Byline, meta.Author),
		SiteName:    coalesce(article.SiteName, meta.OGSiteName),
		PublishedAt: parseDate(meta.PublishedTime),
		WordCount:   len(strings.Fields(text)),
	}, nil
}

type metaTags struct {
	Title         string
	OGTitle       string
	OGSiteName    string
	Author        string
	PublishedTime string
}

func extractMetaTags(htmlBytes []byte) metaTags {
	var meta metaTags

	doc, err := html.Parse(bytes.NewReader(htmlBytes))
	if err != nil {
		return meta
	}

	var traverse func(*html.Node)

	traverse = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "title":
				if n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
					meta.Title = strings.TrimSpace(n.FirstChild.Data)
				}
			case "meta":
				name, content := getMetaAttrs(n)
				switch strings.ToLower(name) {
				case "author":
					meta.Author = content
				case "og:title":
					meta.OGTitle = content
				case "og:site_name":
					meta.OGSiteName = content
				case "article:published_time":
					meta.PublishedTime = content
				}
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
	}

	traverse(doc)

	return meta
}

func getMetaAttrs(n *html.Node) (string, string) {
	var name, content string

	for _, attr := range n.Attr {
		switch strings.ToLower(attr.Key) {
		case "name", "property":
			name = attr.Val
		case "content":
			content = attr.Val
		}
	}

	return name, content
}

func coalesce(strs ...string) string {
	for _, s := range strs {
		if s != "" {
			return s
		}
	}

	return ""
}

func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}

	t, err := dateparse.ParseAny(s)
	if err != nil {
		return time.Time{}
	}

	return t.UTC()
}
