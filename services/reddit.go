package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"market-sentiment/models"
)

// RedditService searches subreddits through the Reddit OAuth API
type RedditService struct {
	client
	configured bool
	subreddits []string
}

// RedditCredentials identifies a Reddit "script" or "web" application
type RedditCredentials struct {
	ClientID     string
	ClientSecret string
	UserAgent    string
	TokenURL     string
}

// NewRedditService creates a RedditService. Requests are authorized with an
// application-only token obtained through the client credentials grant.
func NewRedditService(creds RedditCredentials, subreddits []string, opts ...Option) *RedditService {
	s := &RedditService{
		client:     newClient(BreakerReddit, "https://oauth.reddit.com", opts),
		configured: creds.ClientID != "" && creds.ClientSecret != "",
		subreddits: subreddits,
	}
	if len(s.subreddits) == 0 {
		s.subreddits = []string{"wallstreetbets", "stocks", "investing"}
	}
	if creds.TokenURL == "" {
		creds.TokenURL = "https://www.reddit.com/api/v1/access_token"
	}

	cc := clientcredentials.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		TokenURL:     creds.TokenURL,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}

	// Reddit rejects requests without a descriptive User-Agent, token
	// requests included.
	base := &http.Client{
		Transport: userAgentTransport{base: s.httpClient.Transport, userAgent: creds.UserAgent},
		Timeout:   s.httpClient.Timeout,
	}
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
	s.httpClient = cc.Client(ctx)

	return s
}

// Configured reports whether the service has credentials.
func (s *RedditService) Configured() bool {
	return s != nil && s.configured
}

type redditListing struct {
	Data struct {
		Children []struct {
			Data struct {
				Title       string  `json:"title"`
				Selftext    string  `json:"selftext"`
				Author      string  `json:"author"`
				Subreddit   string  `json:"subreddit_name_prefixed"`
				Permalink   string  `json:"permalink"`
				CreatedUTC  float64 `json:"created_utc"`
				Score       int     `json:"score"`
				NumComments int     `json:"num_comments"`
				Stickied    bool    `json:"stickied"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

const maxSelftext = 500

// Search returns up to limit recent posts matching query across the
// configured subreddits, newest first.
func (s *RedditService) Search(ctx context.Context, query string, limit int) ([]models.Post, error) {
	if !s.Configured() {
		return nil, ErrNotConfigured
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("restrict_sr", "1")
	params.Set("sort", "new")
	params.Set("t", "week")
	params.Set("limit", strconv.Itoa(clampLimit(limit)))
	params.Set("raw_json", "1")

	path := fmt.Sprintf("%s/r/%s/search?%s", s.baseURL, strings.Join(s.subreddits, "+"), params.Encode())

	var listing redditListing
	if err := s.getJSON(ctx, "search", path, nil, &listing); err != nil {
		return nil, err
	}

	posts := make([]models.Post, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		d := child.Data
		if d.Stickied || d.Title == "" {
			continue
		}
		posts = append(posts, models.Post{
			Article: models.Article{
				Title:       CleanText(d.Title),
				Description: truncate(CleanText(d.Selftext), maxSelftext),
				Source:      d.Subreddit,
				URL:         "https://www.reddit.com" + d.Permalink,
				PublishedAt: time.Unix(int64(d.CreatedUTC), 0).UTC(),
			},
			Platform:   models.PlatformReddit,
			Author:     d.Author,
			Engagement: d.Score + d.NumComments,
		})
	}

	return posts, nil
}

var _ http.RoundTripper = userAgentTransport{}

// userAgentTransport sets a fixed User-Agent on every request
type userAgentTransport struct {
	base      http.RoundTripper
	userAgent string
}

func (t userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	if t.userAgent == "" {
		return base.RoundTrip(req)
	}
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", t.userAgent)
	return base.RoundTrip(req)
}
