package app

import (
	"cmp"
	"context"
	"slices"

	"github.com/samber/lo"

	"market-sentiment/fetch"
	"market-sentiment/models"
	"market-sentiment/sentiment"
	"market-sentiment/services"
)

// News returns scored market news for query from the last hours.
func (a *App) News(ctx context.Context, query string, limit, hours int) (*models.NewsResponse, Resolution) {
	res := a.gatherNews(ctx, "news", limit, func() []models.Article {
		return a.mock.Articles(query, limit, hours)
	}, func(ctx context.Context, src services.NewsSource) ([]models.Article, error) {
		return src.GetNews(ctx, query, limit, hours)
	})

	return buildNews(res.Value, limit, sentiment.NewsLexicon, sentiment.MarketTopics), resultResolution(res)
}

// EuropeanNews returns scored business news for a European country code.
func (a *App) EuropeanNews(ctx context.Context, country string, limit, hours int) (*models.NewsResponse, Resolution) {
	res := a.gatherNews(ctx, "news_europe", limit, func() []models.Article {
		return a.mock.EuropeanArticles(country, limit, hours)
	}, func(ctx context.Context, src services.NewsSource) ([]models.Article, error) {
		return src.GetEuropeanNews(ctx, country, limit, hours)
	})

	return buildNews(res.Value, limit, sentiment.EuropeanLexicon, sentiment.EuropeanTopics), resultResolution(res)
}

// MockNews builds a fully synthetic news payload.
func (a *App) MockNews(query string, limit, hours int) *models.NewsResponse {
	return buildNews(a.mock.Articles(query, limit, hours), limit, sentiment.NewsLexicon, sentiment.MarketTopics)
}

// MockEuropeanNews builds a fully synthetic European news payload.
func (a *App) MockEuropeanNews(country string, limit, hours int) *models.NewsResponse {
	return buildNews(a.mock.EuropeanArticles(country, limit, hours), limit, sentiment.EuropeanLexicon, sentiment.EuropeanTopics)
}

func (a *App) gatherNews(ctx context.Context, dataset string, limit int, fallback func() []models.Article,
	get func(context.Context, services.NewsSource) ([]models.Article, error)) fetch.Result[[]models.Article] {

	providers := make([]fetch.Provider[[]models.Article], 0, len(a.providers.News))
	for _, p := range a.providers.News {
		providers = append(providers, fetch.Provider[[]models.Article]{
			Name:       p.Name,
			Configured: p.Source.Configured(),
			Fetch: func(ctx context.Context) ([]models.Article, error) {
				return get(ctx, p.Source)
			},
		})
	}

	return fetch.Gather[models.Article]{
		Dataset:   dataset,
		Timeout:   a.cfg.Timeouts.News,
		Providers: providers,
		Enough:    fetch.AtLeastDistinct(limit, articleTitle),
		Fallback:  fallback,
	}.Run(ctx)
}

// buildNews deduplicates articles by exact title, orders them newest first,
// keeps limit of them and scores the rest of the payload from them.
func buildNews(articles []models.Article, limit int, lex sentiment.Lexicon, topics sentiment.TopicSet) *models.NewsResponse {
	articles = prepareArticles(articles, limit)
	sentiment.ScoreArticles(lex, articles)

	return &models.NewsResponse{
		Data:    articles,
		Metrics: sentiment.Summarize(sentiment.ArticleScores(articles)),
		Topics:  sentiment.ExtractTopics(articles, topics),
	}
}

func articleTitle(a models.Article) string { return a.Title }

func prepareArticles(articles []models.Article, limit int) []models.Article {
	out := lo.UniqBy(articles, articleTitle)
	slices.SortStableFunc(out, func(x, y models.Article) int {
		return cmp.Compare(y.PublishedAt.UnixNano(), x.PublishedAt.UnixNano())
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	if out == nil {
		out = []models.Article{}
	}
	return out
}
