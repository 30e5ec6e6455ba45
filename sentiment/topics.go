package sentiment

import (
	"slices"
	"strings"

	"market-sentiment/models"
	"market-sentiment/stats"
)

// MaxTopics caps the number of topics returned by ExtractTopics.
const MaxTopics = 8

// TopicDef maps a topic label to lowercase substring keywords.
type TopicDef struct {
	Label    string
	Keywords []string
}

// TopicSet is an ordered list of topic definitions. Order breaks count ties.
type TopicSet []TopicDef

// MarketTopics groups general market news.
var MarketTopics = TopicSet{
	{"Earnings", []string{"earnings", "revenue", "quarterly", "eps", "guidance", "profit"}},
	{"Federal Reserve", []string{"fed ", "federal reserve", "powell", "fomc", "interest rate", "rate hike", "rate cut"}},
	{"Inflation", []string{"inflation", "cpi", "consumer price", "pce"}},
	{"Technology", []string{"tech", "artificial intelligence", "semiconductor", "chip", "software", "nvidia"}},
	{"Energy", []string{"oil", "energy", "crude", "opec", "natural gas"}},
	{"Crypto", []string{"bitcoin", "crypto", "ethereum", "blockchain"}},
	{"Jobs", []string{"jobs", "employment", "payroll", "labor market", "jobless"}},
	{"Mergers & Acquisitions", []string{"merger", "acquisition", "acquire", "buyout", "takeover"}},
	{"Banking", []string{"bank", "lender", "lending", "credit"}},
	{"Trade", []string{"tariff", "trade war", "trade deal", "imports", "exports"}},
	{"Housing", []string{"housing", "mortgage", "real estate", "home sales"}},
	{"Geopolitics", []string{"war", "sanction", "geopolitic", "election"}},
}

// EuropeanTopics groups European financial news.
var EuropeanTopics = TopicSet{
	{"ECB Policy", []string{"ecb", "european central bank", "lagarde", "rate cut", "rate hike"}},
	{"Inflation", []string{"inflation", "hicp", "consumer prices"}},
	{"Energy", []string{"energy", "gas", "electricity", "oil"}},
	{"Germany", []string{"germany", "german", "dax", "bundesbank"}},
	{"France", []string{"france", "french", "cac 40", "paris"}},
	{"United Kingdom", []string{"britain", "british", "ftse", "bank of england", "sterling", "london"}},
	{"Italy", []string{"italy", "italian", "ftse mib", "btp"}},
	{"Euro", []string{"euro ", "eurozone", "euro area", "euro zone"}},
	{"Banking", []string{"bank", "lender", "lending"}},
	{"Trade", []string{"tariff", "export", "import", "trade"}},
	{"Politics", []string{"election", "parliament", "brexit", "commission", "government"}},
	{"Stoxx", []string{"stoxx", "euro stoxx", "european shares", "european stocks"}},
}

// ExtractTopics counts, per topic, the articles whose title and description
// contain any of the topic's keywords. An article may feed several topics.
// Only matched topics are returned, by count descending, at most MaxTopics.
func ExtractTopics(articles []models.Article, set TopicSet) []models.Topic {
	scores := make([][]float64, len(set))
	for _, a := range articles {
		text := strings.ToLower(a.Title + " " + a.Description)
		for i, def := range set {
			if containsAny(text, def.Keywords) {
				scores[i] = append(scores[i], float64(a.Sentiment))
			}
		}
	}

	topics := make([]models.Topic, 0, len(set))
	for i, def := range set {
		if len(scores[i]) == 0 {
			continue
		}
		topics = append(topics, models.Topic{
			Topic:            def.Label,
			Count:            len(scores[i]),
			AverageSentiment: stats.Round(stats.Mean(scores[i]), 1),
		})
	}

	slices.SortStableFunc(topics, func(a, b models.Topic) int {
		return b.Count - a.Count
	})

	if len(topics) > MaxTopics {
		topics = topics[:MaxTopics]
	}
	return topics
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
