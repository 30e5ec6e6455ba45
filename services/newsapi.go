package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"market-sentiment/models"
	"market-sentiment/observability"
)

// NewsAPIService handles communication with NewsAPI.org
type NewsAPIService struct {
	client
	apiKey string
}

// NewNewsAPIService creates a new NewsAPIService instance
func NewNewsAPIService(apiKey string, opts ...Option) *NewsAPIService {
	return &NewsAPIService{
		client: newClient(BreakerNewsAPI, "https://newsapi.org/v2", opts),
		apiKey: apiKey,
	}
}

// Configured reports whether the service has credentials.
func (s *NewsAPIService) Configured() bool {
	return s != nil && s.apiKey != ""
}

// NewsAPIResponse represents the response from NewsAPI
type NewsAPIResponse struct {
	Status       string `json:"status"`
	Code         string `json:"code"`
	Message      string `json:"message"`
	TotalResults int    `json:"totalResults"`
	Articles     []struct {
		Source struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"source"`
		Author      string `json:"author"`
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		URLToImage  string `json:"urlToImage"`
		PublishedAt string `json:"publishedAt"`
		Content     string `json:"content"`
	} `json:"articles"`
}

// Europe-focused queries and source domains per country code
var europeanQueries = map[string]string{
	"eu": "(ECB OR eurozone OR \"European stocks\" OR Stoxx)",
	"de": "(DAX OR Bundesbank OR \"German economy\")",
	"fr": "(CAC 40 OR \"French economy\" OR \"Banque de France\")",
	"it": "(FTSE MIB OR \"Italian economy\" OR \"Bank of Italy\")",
	"es": "(IBEX OR \"Spanish economy\" OR \"Bank of Spain\")",
	"nl": "(AEX OR \"Dutch economy\" OR DNB)",
	"uk": "(FTSE 100 OR \"Bank of England\" OR \"UK economy\")",
}

// GetNews returns articles matching query published in the last hours,
// newest first.
func (s *NewsAPIService) GetNews(ctx context.Context, query string, limit, hours int) ([]models.Article, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("language", "en")
	params.Set("sortBy", "publishedAt")
	params.Set("pageSize", strconv.Itoa(clampLimit(limit)))
	if hours > 0 {
		params.Set("from", time.Now().UTC().Add(-time.Duration(hours)*time.Hour).Format(time.RFC3339))
	}
	return s.everything(ctx, params)
}

// GetEuropeanNews returns business news for a European country code.
func (s *NewsAPIService) GetEuropeanNews(ctx context.Context, country string, limit, hours int) ([]models.Article, error) {
	q, ok := europeanQueries[strings.ToLower(country)]
	if !ok {
		q = europeanQueries["eu"]
	}
	return s.GetNews(ctx, q, limit, hours)
}

func (s *NewsAPIService) everything(ctx context.Context, params url.Values) ([]models.Article, error) {
	if !s.Configured() {
		return nil, ErrNotConfigured
	}

	header := http.Header{}
	header.Set("X-Api-Key", s.apiKey)

	var newsResp NewsAPIResponse
	if err := s.getJSON(ctx, "everything", s.baseURL+"/everything?"+params.Encode(), header, &newsResp); err != nil {
		return nil, err
	}
	if newsResp.Status != "ok" {
		return nil, fmt.Errorf("%w: newsapi %s: %s", ErrProviderReported, newsResp.Code, newsResp.Message)
	}

	log := observability.WithProvider(s.name)
	articles := make([]models.Article, 0, len(newsResp.Articles))
	for _, item := range newsResp.Articles {
		title := CleanText(item.Title)
		if title == "" || title == "[Removed]" {
			continue
		}

		publishedAt, err := time.Parse(time.RFC3339, item.PublishedAt)
		if err != nil {
			log.Debug("failed to parse timestamp, using current time", "value", item.PublishedAt, "error", err)
			publishedAt = time.Now().UTC()
		}

		articles = append(articles, models.Article{
			Title:       title,
			Description: CleanText(item.Description),
			URL:         item.URL,
			Source:      item.Source.Name,
			PublishedAt: publishedAt,
		})
	}

	return articles, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return 10
	}
	if limit > 100 {
		return 100
	}
	return limit
}
