package app

import (
	"cmp"
	"context"
	"slices"

	"market-sentiment/fetch"
	"market-sentiment/models"
	"market-sentiment/observability"
	"market-sentiment/sentiment"
	"market-sentiment/stats"
)

// PlatformAll selects every social platform.
const PlatformAll = "all"

// socialPlatforms lists platforms in response order.
var socialPlatforms = []models.Platform{models.PlatformReddit, models.PlatformTwitter}

// Platforms expands a platform selector.
func Platforms(selector string) []models.Platform {
	if selector == "" || selector == PlatformAll {
		return socialPlatforms
	}
	return []models.Platform{models.Platform(selector)}
}

// Social returns scored posts for query across the selected platforms. Each
// platform resolves independently; the response quality combines them.
func (a *App) Social(ctx context.Context, platform, query string, limit int) (*models.SocialResponse, Resolution) {
	platforms := Platforms(platform)

	fns := make([]func(context.Context) (fetch.Result[[]models.Post], error), len(platforms))
	for i, p := range platforms {
		fns[i] = func(ctx context.Context) (fetch.Result[[]models.Post], error) {
			return a.platformPosts(ctx, p, query, limit), nil
		}
	}
	outcomes := fetch.Settle(ctx, 0, fns...)

	var (
		posts []models.Post
		parts []Resolution
	)
	for i, o := range outcomes {
		p := platforms[i]
		res := settled(o, func() []models.Post { return a.mock.Posts(p, query, limit) })
		posts = append(posts, res.Value...)
		parts = append(parts, resultResolution(res))
	}

	return buildSocial(posts, platforms, limit), resolutionOf(parts...)
}

// MockSocial builds a fully synthetic social payload.
func (a *App) MockSocial(platform, query string, limit int) *models.SocialResponse {
	platforms := Platforms(platform)
	var posts []models.Post
	for _, p := range platforms {
		posts = append(posts, a.mock.Posts(p, query, limit)...)
	}
	return buildSocial(posts, platforms, limit)
}

func (a *App) platformPosts(ctx context.Context, platform models.Platform, query string, limit int) fetch.Result[[]models.Post] {
	var providers []fetch.Provider[[]models.Post]
	if src, ok := a.providers.Social[platform]; ok {
		providers = append(providers, fetch.Provider[[]models.Post]{
			Name:       src.Name,
			Configured: src.Source.Configured(),
			Fetch: func(ctx context.Context) ([]models.Post, error) {
				return src.Source.Search(ctx, query, limit)
			},
		})
	}

	return fetch.Chain[[]models.Post]{
		Dataset:   "social_" + string(platform),
		Timeout:   a.cfg.Timeouts.Social,
		Providers: providers,
		Accept:    nonEmpty[models.Post],
		Fallback:  func() []models.Post { return a.mock.Posts(platform, query, limit) },
	}.Run(ctx)
}

// buildSocial orders posts newest first, keeps limit of them and derives the
// aggregate, per-platform, trending and topic views.
func buildSocial(posts []models.Post, platforms []models.Platform, limit int) *models.SocialResponse {
	slices.SortStableFunc(posts, func(x, y models.Post) int {
		return cmp.Compare(y.PublishedAt.UnixNano(), x.PublishedAt.UnixNano())
	})
	if limit > 0 && len(posts) > limit {
		posts = posts[:limit]
	}
	if posts == nil {
		posts = []models.Post{}
	}
	sentiment.ScorePosts(sentiment.SocialLexicon, posts)

	scores := make([]int, len(posts))
	byPlatform := make(map[models.Platform][]int, len(platforms))
	for _, p := range platforms {
		byPlatform[p] = []int{}
	}
	for i, p := range posts {
		scores[i] = p.Sentiment
		byPlatform[p.Platform] = append(byPlatform[p.Platform], p.Sentiment)
	}

	perPlatform := make(map[models.Platform]models.SentimentMetrics, len(byPlatform))
	for p, s := range byPlatform {
		perPlatform[p] = sentiment.Summarize(s)
	}

	return &models.SocialResponse{
		Data:      posts,
		Metrics:   sentiment.Summarize(scores),
		Platforms: perPlatform,
		Trending:  sentiment.Trending(posts),
		Topics:    sentiment.ExtractTopics(sentiment.PostArticles(posts), sentiment.MarketTopics),
	}
}

// Sentiment blends news and social sentiment for query.
func (a *App) Sentiment(ctx context.Context, query string, limit int) (*models.SentimentResponse, Resolution) {
	type newsOut struct {
		resp *models.NewsResponse
		res  Resolution
	}
	type socialOut struct {
		resp *models.SocialResponse
		res  Resolution
	}

	n, s := fetch.Pair(ctx,
		func(ctx context.Context) (newsOut, error) {
			resp, res := a.News(ctx, query, limit, defaultSentimentHours)
			return newsOut{resp, res}, nil
		},
		func(ctx context.Context) (socialOut, error) {
			resp, res := a.Social(ctx, PlatformAll, query, limit)
			return socialOut{resp, res}, nil
		},
	)

	if !n.OK() {
		n.Value = newsOut{a.MockNews(query, limit, defaultSentimentHours), a.panicked("news", n.Err)}
	}
	if !s.OK() {
		s.Value = socialOut{a.MockSocial(PlatformAll, query, limit), a.panicked("social", s.Err)}
	}

	return buildSentiment(n.Value.resp, s.Value.resp), resolutionOf(n.Value.res, s.Value.res)
}

// MockSentiment builds a fully synthetic aggregate sentiment payload.
func (a *App) MockSentiment(query string, limit int) *models.SentimentResponse {
	return buildSentiment(a.MockNews(query, limit, defaultSentimentHours), a.MockSocial(PlatformAll, query, limit))
}

const (
	defaultSentimentHours = 24
	newsWeight            = 0.6
	socialWeight          = 0.4
)

func buildSentiment(news *models.NewsResponse, social *models.SocialResponse) *models.SentimentResponse {
	score := stats.Round(news.Metrics.AverageSentiment*newsWeight+social.Metrics.AverageSentiment*socialWeight, 1)

	articles := append(slices.Clone(news.Data), sentiment.PostArticles(social.Data)...)

	return &models.SentimentResponse{
		Overall: models.OverallSentiment{Score: score, Label: models.LabelFor(score)},
		News:    news.Metrics,
		Social:  social.Metrics,
		Topics:  sentiment.ExtractTopics(articles, sentiment.MarketTopics),
	}
}

func (a *App) panicked(branch string, err error) Resolution {
	observability.WithError(err).Error("branch panicked, using synthetic data", "branch", branch)
	return synthetic(fetch.ReasonInternalError)
}

func nonEmpty[T any](items []T) error {
	if len(items) == 0 {
		return fetch.ErrEmpty
	}
	return nil
}
