package sentiment

import (
	"cmp"
	"regexp"
	"slices"
	"strings"

	"market-sentiment/models"
	"market-sentiment/observability"
	"market-sentiment/stats"
)

// MaxTrending caps the number of cashtags returned by Trending.
const MaxTrending = 10

var cashtag = regexp.MustCompile(`\$([A-Za-z]{1,5})\b`)

// ScoreArticles sets Sentiment on every article in place.
func ScoreArticles(lex Lexicon, articles []models.Article) {
	m := observability.GetMetrics()
	for i := range articles {
		articles[i].Sentiment = lex.Score(articles[i].Text())
		m.RecordSentimentScore(lex.Name, articles[i].Sentiment)
	}
}

// ScorePosts sets Sentiment on every post in place.
func ScorePosts(lex Lexicon, posts []models.Post) {
	m := observability.GetMetrics()
	for i := range posts {
		posts[i].Sentiment = lex.Score(posts[i].Text())
		m.RecordSentimentScore(lex.Name, posts[i].Sentiment)
	}
}

// Summarize derives band percentages and the mean from a set of scores.
// An empty set is reported as neutral with zero percentages.
func Summarize(scores []int) models.SentimentMetrics {
	if len(scores) == 0 {
		return models.SentimentMetrics{AverageSentiment: Neutral}
	}

	values := make([]float64, len(scores))
	var bullish, bearish int
	for i, s := range scores {
		values[i] = float64(s)
		switch {
		case s > models.BullishThreshold:
			bullish++
		case s < models.BearishThreshold:
			bearish++
		}
	}

	n := float64(len(scores))
	bullPct := stats.Round(float64(bullish)/n*100, 1)
	bearPct := stats.Round(float64(bearish)/n*100, 1)
	return models.SentimentMetrics{
		AverageSentiment:  stats.Round(stats.Mean(values), 1),
		BullishPercentage: bullPct,
		BearishPercentage: bearPct,
		NeutralPercentage: stats.Round(100-bullPct-bearPct, 1),
		Total:             len(scores),
	}
}

// ArticleScores extracts the sentiment of each article.
func ArticleScores(articles []models.Article) []int {
	out := make([]int, len(articles))
	for i, a := range articles {
		out[i] = a.Sentiment
	}
	return out
}

// PostArticles returns the article view of each post, for topic extraction.
func PostArticles(posts []models.Post) []models.Article {
	out := make([]models.Article, len(posts))
	for i, p := range posts {
		out[i] = p.Article
	}
	return out
}

// Trending counts $TICKER mentions across posts. Each post counts a ticker
// once. Results are ordered by mentions, then symbol.
func Trending(posts []models.Post) []models.TrendingTicker {
	seen := map[string][]float64{}
	for _, p := range posts {
		tags := map[string]bool{}
		for _, m := range cashtag.FindAllStringSubmatch(p.Text(), -1) {
			tags[strings.ToUpper(m[1])] = true
		}
		for sym := range tags {
			seen[sym] = append(seen[sym], float64(p.Sentiment))
		}
	}

	out := make([]models.TrendingTicker, 0, len(seen))
	for sym, scores := range seen {
		out = append(out, models.TrendingTicker{
			Symbol:           sym,
			Mentions:         len(scores),
			AverageSentiment: stats.Round(stats.Mean(scores), 1),
		})
	}
	slices.SortFunc(out, func(a, b models.TrendingTicker) int {
		if c := cmp.Compare(b.Mentions, a.Mentions); c != 0 {
			return c
		}
		return cmp.Compare(a.Symbol, b.Symbol)
	})
	if len(out) > MaxTrending {
		out = out[:MaxTrending]
	}
	return out
}
