package models

import "time"

// Article is a news item passed through from an upstream provider (or
// synthesized) with a computed sentiment score.
type Article struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Source      string    `json:"source"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"publishedAt"`
	Sentiment   int       `json:"sentiment"`
}

// Text returns the title and description joined for scoring and topic matching.
func (a Article) Text() string {
	if a.Description == "" {
		return a.Title
	}
	return a.Title + " " + a.Description
}

// Platform identifies a social-media source
type Platform string

const (
	PlatformReddit  Platform = "reddit"
	PlatformTwitter Platform = "twitter"
)

// Post is a social-media item. It shares the article shape so the same
// scoring and topic extraction apply.
type Post struct {
	Article
	Platform   Platform `json:"platform"`
	Author     string   `json:"author,omitempty"`
	Engagement int      `json:"engagement"`
}
