package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"market-sentiment/models"
)

// TwitterService searches recent posts through the X (Twitter) API v2
type TwitterService struct {
	client
	configured bool
}

// NewTwitterService creates a TwitterService authorized with an app-only
// bearer token.
func NewTwitterService(bearerToken string, opts ...Option) *TwitterService {
	s := &TwitterService{
		client:     newClient(BreakerTwitter, "https://api.twitter.com/2", opts),
		configured: bearerToken != "",
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: bearerToken, TokenType: "Bearer"})
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, s.httpClient)
	s.httpClient = oauth2.NewClient(ctx, ts)

	return s
}

// Configured reports whether the service has credentials.
func (s *TwitterService) Configured() bool {
	return s != nil && s.configured
}

type twitterSearchResponse struct {
	Data []struct {
		ID            string `json:"id"`
		Text          string `json:"text"`
		AuthorID      string `json:"author_id"`
		CreatedAt     string `json:"created_at"`
		PublicMetrics struct {
			RetweetCount int `json:"retweet_count"`
			ReplyCount   int `json:"reply_count"`
			LikeCount    int `json:"like_count"`
			QuoteCount   int `json:"quote_count"`
		} `json:"public_metrics"`
	} `json:"data"`
	Includes struct {
		Users []struct {
			ID       string `json:"id"`
			Username string `json:"username"`
		} `json:"users"`
	} `json:"includes"`
	Errors []struct {
		Title  string `json:"title"`
		Detail string `json:"detail"`
	} `json:"errors"`
}

// Search returns up to limit recent English posts matching query, excluding
// retweets, newest first.
func (s *TwitterService) Search(ctx context.Context, query string, limit int) ([]models.Post, error) {
	if !s.Configured() {
		return nil, ErrNotConfigured
	}

	params := url.Values{}
	params.Set("query", strings.TrimSpace(query)+" lang:en -is:retweet")
	// the API accepts 10 to 100 results per page
	params.Set("max_results", strconv.Itoa(max(clampLimit(limit), 10)))
	params.Set("tweet.fields", "created_at,public_metrics,author_id")
	params.Set("expansions", "author_id")
	params.Set("user.fields", "username")

	var resp twitterSearchResponse
	if err := s.getJSON(ctx, "search", s.baseURL+"/tweets/search/recent?"+params.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 && len(resp.Errors) > 0 {
		return nil, fmt.Errorf("%w: twitter: %s: %s", ErrProviderReported, resp.Errors[0].Title, resp.Errors[0].Detail)
	}

	usernames := make(map[string]string, len(resp.Includes.Users))
	for _, u := range resp.Includes.Users {
		usernames[u.ID] = u.Username
	}

	posts := make([]models.Post, 0, len(resp.Data))
	for _, t := range resp.Data {
		createdAt, err := time.Parse(time.RFC3339, t.CreatedAt)
		if err != nil {
			createdAt = time.Now().UTC()
		}
		author := usernames[t.AuthorID]
		m := t.PublicMetrics

		posts = append(posts, models.Post{
			Article: models.Article{
				Title:       CleanText(t.Text),
				Source:      "Twitter",
				URL:         tweetURL(author, t.ID),
				PublishedAt: createdAt,
			},
			Platform:   models.PlatformTwitter,
			Author:     author,
			Engagement: m.LikeCount + m.RetweetCount + m.ReplyCount + m.QuoteCount,
		})
	}

	if len(posts) > limit && limit > 0 {
		posts = posts[:limit]
	}
	return posts, nil
}

func tweetURL(username, id string) string {
	if username == "" {
		username = "i/web"
	}
	return fmt.Sprintf("https://x.com/%s/status/%s", username, id)
}
