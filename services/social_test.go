package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"market-sentiment/models"
)

func TestRedditService_Search(t *testing.T) {
	var tokenRequests atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/access_token", func(w http.ResponseWriter, r *http.Request) {
		tokenRequests.Add(1)
		user, pass, ok := r.BasicAuth()
		if !ok || user != "client-id" || pass != "client-secret" {
			t.Errorf("expected client credentials in basic auth")
		}
		if r.Header.Get("User-Agent") != "market-sentiment-test/1.0" {
			t.Errorf("expected custom user agent on token request, got %q", r.Header.Get("User-Agent"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token": "reddit-token", "token_type": "bearer", "expires_in": 3600}`))
	})
	mux.HandleFunc("/r/stocks+investing/search", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer reddit-token" {
			t.Errorf("expected bearer token, got %q", r.Header.Get("Authorization"))
		}
		if r.URL.Query().Get("q") != "NVDA" || r.URL.Query().Get("restrict_sr") != "1" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		w.Write([]byte(`{"data": {"children": [
			{"data": {"title": "Daily discussion", "stickied": true}},
			{"data": {"title": "NVDA to the moon", "selftext": "Bullish on earnings", "author": "trader1",
				"subreddit_name_prefixed": "r/stocks", "permalink": "/r/stocks/comments/abc/", "created_utc": 1791969600,
				"score": 120, "num_comments": 30}}
		]}}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	svc := NewRedditService(RedditCredentials{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		UserAgent:    "market-sentiment-test/1.0",
		TokenURL:     server.URL + "/api/v1/access_token",
	}, []string{"stocks", "investing"}, WithBaseURL(server.URL))

	posts, err := svc.Search(context.Background(), "NVDA", 25)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(posts) != 1 {
		t.Fatalf("expected stickied post skipped, got %d posts", len(posts))
	}
	p := posts[0]
	if p.Platform != models.PlatformReddit || p.Source != "r/stocks" || p.Author != "trader1" {
		t.Errorf("unexpected post: %+v", p)
	}
	if p.Engagement != 150 {
		t.Errorf("expected engagement 150, got %d", p.Engagement)
	}
	if p.URL != "https://www.reddit.com/r/stocks/comments/abc/" {
		t.Errorf("unexpected url %s", p.URL)
	}

	if _, err := svc.Search(context.Background(), "NVDA", 25); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tokenRequests.Load() != 1 {
		t.Errorf("expected token to be reused, got %d token requests", tokenRequests.Load())
	}
}

func TestRedditService_TokenFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": "invalid_client"}`))
	}))
	defer server.Close()

	svc := NewRedditService(RedditCredentials{
		ClientID:     "id",
		ClientSecret: "wrong",
		TokenURL:     server.URL,
	}, nil, WithBaseURL(server.URL))

	if _, err := svc.Search(context.Background(), "SPY", 10); err == nil {
		t.Error("expected error when the token request is rejected")
	}
}

func TestRedditService_NotConfigured(t *testing.T) {
	svc := NewRedditService(RedditCredentials{ClientID: "only-id"}, nil)
	if _, err := svc.Search(context.Background(), "SPY", 10); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
}

func TestTwitterService_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tweets/search/recent" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer twitter-token" {
			t.Errorf("expected bearer token, got %q", r.Header.Get("Authorization"))
		}
		q := r.URL.Query()
		if !strings.Contains(q.Get("query"), "-is:retweet") || q.Get("max_results") != "10" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		w.Write([]byte(`{
			"data": [
				{"id": "1", "text": "$TSLA breaking out, strong buy", "author_id": "u1", "created_at": "2026-10-14T15:00:00.000Z",
					"public_metrics": {"retweet_count": 5, "reply_count": 2, "like_count": 40, "quote_count": 1}},
				{"id": "2", "text": "Selling everything", "author_id": "u2", "created_at": "2026-10-14T14:00:00.000Z",
					"public_metrics": {"retweet_count": 0, "reply_count": 0, "like_count": 1, "quote_count": 0}}
			],
			"includes": {"users": [{"id": "u1", "username": "chartist"}]}
		}`))
	}))
	defer server.Close()

	svc := NewTwitterService("twitter-token", WithBaseURL(server.URL))
	posts, err := svc.Search(context.Background(), "TSLA", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(posts) != 2 {
		t.Fatalf("expected 2 posts, got %d", len(posts))
	}
	if posts[0].Engagement != 48 || posts[0].Author != "chartist" {
		t.Errorf("unexpected first post: %+v", posts[0])
	}
	if posts[0].URL != "https://x.com/chartist/status/1" {
		t.Errorf("unexpected url %s", posts[0].URL)
	}
	if posts[1].URL != "https://x.com/i/web/status/2" {
		t.Errorf("expected fallback url for unknown author, got %s", posts[1].URL)
	}
	if posts[0].Platform != models.PlatformTwitter {
		t.Errorf("expected twitter platform, got %s", posts[0].Platform)
	}
}

func TestTwitterService_ErrorsWithoutData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errors": [{"title": "Invalid Request", "detail": "bad query"}]}`))
	}))
	defer server.Close()

	svc := NewTwitterService("twitter-token", WithBaseURL(server.URL))
	if _, err := svc.Search(context.Background(), "(((", 10); !errors.Is(err, ErrProviderReported) {
		t.Errorf("expected ErrProviderReported, got %v", err)
	}
}

func TestTwitterService_Unauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	svc := NewTwitterService("expired", WithBaseURL(server.URL))
	_, err := svc.Search(context.Background(), "SPY", 10)

	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 APIError, got %v", err)
	}
}
