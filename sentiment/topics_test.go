package sentiment

import (
	"testing"

	"market-sentiment/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractTopics(t *testing.T) {
	articles := []models.Article{
		{Title: "Apple earnings beat", Description: "Revenue up on AI chip demand", Sentiment: 70},
		{Title: "Fed holds rates", Description: "Powell signals patience", Sentiment: 50},
		{Title: "Oil prices slump", Sentiment: 30},
		{Title: "Quarterly profit falls at bank", Sentiment: 40},
	}

	got := ExtractTopics(articles, MarketTopics)

	want := []models.Topic{
		{Topic: "Earnings", Count: 2, AverageSentiment: 55},
		{Topic: "Federal Reserve", Count: 1, AverageSentiment: 50},
		{Topic: "Technology", Count: 1, AverageSentiment: 70},
		{Topic: "Energy", Count: 1, AverageSentiment: 30},
		{Topic: "Banking", Count: 1, AverageSentiment: 40},
	}
	assert.Equal(t, want, got)
}

func TestExtractTopics_NeverEmitsZeroCount(t *testing.T) {
	articles := []models.Article{
		{Title: "Nothing relevant here", Sentiment: 50},
		{Title: "Bitcoin jumps", Sentiment: 66},
	}

	got := ExtractTopics(articles, MarketTopics)

	require.Len(t, got, 1)
	assert.Equal(t, "Crypto", got[0].Topic)
	for _, topic := range got {
		assert.Positive(t, topic.Count)
	}
}

func TestExtractTopics_CapsAtEight(t *testing.T) {
	articles := []models.Article{{
		Title:     "earnings fed rate inflation tech oil bitcoin jobs merger bank tariff housing war",
		Sentiment: 60,
	}}

	got := ExtractTopics(articles, MarketTopics)

	require.Len(t, got, MaxTopics)
	for i, topic := range got {
		assert.Equal(t, MarketTopics[i].Label, topic.Topic, "ties keep definition order")
	}
}

func TestExtractTopics_CountsCoverMatchedArticles(t *testing.T) {
	articles := []models.Article{
		{Title: "ECB rate cut lifts German stocks", Sentiment: 80},
		{Title: "Energy prices weigh on eurozone", Sentiment: 35},
		{Title: "Unrelated headline", Sentiment: 50},
	}

	got := ExtractTopics(articles, EuropeanTopics)

	total := 0
	for _, topic := range got {
		total += topic.Count
	}
	assert.GreaterOrEqual(t, total, 2)
}

func TestExtractTopics_Empty(t *testing.T) {
	assert.Empty(t, ExtractTopics(nil, MarketTopics))
}
