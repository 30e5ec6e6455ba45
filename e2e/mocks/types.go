package mocks

// Provider names, matching the path prefix each provider is served under.
const (
	ProviderNewsAPI      = "newsapi"
	ProviderAlphaVantage = "alphavantage"
	ProviderFinnhub      = "finnhub"
	ProviderFMP          = "fmp"
	ProviderAlpaca       = "alpaca"
	ProviderFRED         = "fred"
	ProviderReddit       = "reddit"
	ProviderTwitter      = "twitter"
	ProviderMultpl       = "multpl"
)

// Providers lists every mocked provider.
var Providers = []string{
	ProviderNewsAPI, ProviderAlphaVantage, ProviderFinnhub, ProviderFMP, ProviderAlpaca,
	ProviderFRED, ProviderReddit, ProviderTwitter, ProviderMultpl,
}

// Credentials the mock expects on authorized providers.
const (
	RedditAccessToken  = "mock-reddit-token"
	TwitterBearerToken = "mock-twitter-bearer"
)

// NewsArticle represents a news article from NewsAPI.
type NewsArticle struct {
	Source      map[string]string `json:"source"`
	Author      string            `json:"author"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	URL         string            `json:"url"`
	PublishedAt string            `json:"publishedAt"`
}

// AlphaVantageNewsItem represents an entry of the NEWS_SENTIMENT feed.
type AlphaVantageNewsItem struct {
	Title         string `json:"title"`
	URL           string `json:"url"`
	Summary       string `json:"summary"`
	Source        string `json:"source"`
	TimePublished string `json:"time_published"`
}

// FinnhubQuote represents a quote from Finnhub.
type FinnhubQuote struct {
	Current       float64 `json:"c"`
	Change        float64 `json:"d"`
	ChangePercent float64 `json:"dp"`
	High          float64 `json:"h"`
	Low           float64 `json:"l"`
	Open          float64 `json:"o"`
	PreviousClose float64 `json:"pc"`
	Timestamp     int64   `json:"t"`
}

// FMPQuote represents a quote from FMP.
type FMPQuote struct {
	Symbol            string  `json:"symbol"`
	Name              string  `json:"name"`
	Price             float64 `json:"price"`
	ChangesPercentage float64 `json:"changesPercentage"`
	Change            float64 `json:"change"`
	DayLow            float64 `json:"dayLow"`
	DayHigh           float64 `json:"dayHigh"`
	Open              float64 `json:"open"`
	PreviousClose     float64 `json:"previousClose"`
	Volume            int64   `json:"volume"`
	Timestamp         int64   `json:"timestamp"`
}

// FMPProfile represents a company profile from FMP.
type FMPProfile struct {
	Symbol            string `json:"symbol"`
	CompanyName       string `json:"companyName"`
	MktCap            int64  `json:"mktCap"`
	ExchangeShortName string `json:"exchangeShortName"`
	Sector            string `json:"sector"`
	Industry          string `json:"industry"`
	Country           string `json:"country"`
	Website           string `json:"website"`
}

// AlpacaBar represents OHLCV bar data from Alpaca.
type AlpacaBar struct {
	Timestamp string  `json:"t"`
	Open      float64 `json:"o"`
	High      float64 `json:"h"`
	Low       float64 `json:"l"`
	Close     float64 `json:"c"`
	Volume    int64   `json:"v"`
}

// FREDObservation represents a FRED series observation. Missing values are
// reported as ".".
type FREDObservation struct {
	Date  string `json:"date"`
	Value string `json:"value"`
}

// RedditPost represents the data of a Reddit listing child.
type RedditPost struct {
	Title       string  `json:"title"`
	Selftext    string  `json:"selftext"`
	Author      string  `json:"author"`
	Subreddit   string  `json:"subreddit_name_prefixed"`
	Permalink   string  `json:"permalink"`
	CreatedUTC  float64 `json:"created_utc"`
	Score       int     `json:"score"`
	NumComments int     `json:"num_comments"`
	Stickied    bool    `json:"stickied"`
}

// Tweet represents a post from the X API v2 recent search.
type Tweet struct {
	ID            string         `json:"id"`
	Text          string         `json:"text"`
	AuthorID      string         `json:"author_id"`
	CreatedAt     string         `json:"created_at"`
	PublicMetrics map[string]int `json:"public_metrics"`
}
