package livedom

import (
	"strings"
	"sync"

	"github.com/tdewolff/minify/v2"
	minhtml "github.com/tdewolff/minify/v2/html"
)

var (
	minifier *minify.M
	once     sync.Once
)

// getMinifier returns a configured HTML minifier (singleton). Quotes, end
// tags and default attribute values are kept so directive attributes survive
// unchanged.
func getMinifier() *minify.M {
	once.Do(func() {
		minifier = minify.New()
		minifier.Add("text/html", &minhtml.Minifier{
			KeepDefaultAttrVals: true,
			KeepDocumentTags:    true,
			KeepEndTags:         true,
			KeepQuotes:          true,
		})
	})
	return minifier
}

// minifyHTML removes unnecessary whitespace from HTML while preserving content
func minifyHTML(htmlContent string) string {
	if strings.Contains(htmlContent, "<") {
		minified, err := getMinifier().String("text/html", htmlContent)
		if err != nil {
			return htmlContent
		}
		return minified
	}

	return normalizeWhitespace(htmlContent)
}

// normalizeWhitespace removes leading/trailing whitespace and normalizes internal whitespace
func normalizeWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
