package models

// Score bands used for aggregate percentages.
const (
	BullishThreshold = 60
	BearishThreshold = 40
)

// SentimentMetrics aggregates a collection of scored items.
type SentimentMetrics struct {
	AverageSentiment  float64 `json:"averageSentiment"`
	BullishPercentage float64 `json:"bullishPercentage"`
	BearishPercentage float64 `json:"bearishPercentage"`
	NeutralPercentage float64 `json:"neutralPercentage"`
	Total             int     `json:"total"`
}

// Topic is a keyword bucket that matched at least one article.
type Topic struct {
	Topic            string  `json:"topic"`
	Count            int     `json:"count"`
	AverageSentiment float64 `json:"averageSentiment"`
}

// SentimentLabel names a score band
type SentimentLabel string

const (
	SentimentBullish SentimentLabel = "Bullish"
	SentimentBearish SentimentLabel = "Bearish"
	SentimentNeutral SentimentLabel = "Neutral"
)

// LabelFor returns the band a score falls into.
func LabelFor(score float64) SentimentLabel {
	switch {
	case score > BullishThreshold:
		return SentimentBullish
	case score < BearishThreshold:
		return SentimentBearish
	default:
		return SentimentNeutral
	}
}
