package services

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var truncationMarker = regexp.MustCompile(`\s*\[\+\d+ chars\]$`)

// CleanText strips markup, NewsAPI truncation markers and redundant
// whitespace from upstream text.
func CleanText(s string) string {
	if strings.ContainsAny(s, "<&") {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(s)); err == nil {
			s = doc.Text()
		}
	}
	s = truncationMarker.ReplaceAllString(s, "")
	return strings.Join(strings.Fields(s), " ")
}
