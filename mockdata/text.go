package mockdata

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"market-sentiment/models"
)

var newsTemplates = []struct{ title, description string }{
	{"%s rally as investors cheer strong earnings", "Major indexes climbed after several large companies beat profit expectations."},
	{"%s slump amid recession fears", "Traders sold risk assets as weak manufacturing data raised concerns about growth."},
	{"Fed holds rates steady, %s react", "The Federal Reserve left its benchmark interest rate unchanged and signaled patience."},
	{"Tech leads %s higher on AI optimism", "Semiconductor and software shares gained on robust demand for artificial intelligence chips."},
	{"Oil prices weigh on %s", "Crude climbed after OPEC signaled supply cuts, pressuring transport stocks."},
	{"Inflation data leaves %s mixed", "Consumer price growth came in line with forecasts, keeping rate expectations stable."},
	{"Analysts upgrade outlook for %s", "Several banks raised their year-end targets, citing resilient consumer spending."},
	{"%s tumble as bond yields jump", "A rise in long-dated Treasury yields hit growth stocks and real estate shares."},
	{"Merger activity boosts %s", "A wave of acquisition announcements lifted sentiment across financials."},
	{"Jobs report sends %s lower", "Payroll growth missed estimates, stoking worries about a slowdown in hiring."},
	{"%s edge higher in quiet trading", "Volumes were light ahead of a busy week of corporate earnings."},
	{"Bank shares drag on %s", "Lenders fell after credit quality concerns resurfaced at regional banks."},
}

var newsSources = []string{"Reuters", "Bloomberg", "MarketWatch", "CNBC", "Financial Times", "Barron's", "The Wall Street Journal", "Yahoo Finance"}

var europeanTemplates = []struct{ title, description string }{
	{"ECB signals rate cut as %s markets rally", "Policymakers hinted at easing as inflation in the euro area cooled."},
	{"%s shares slip on energy crisis worries", "Gas prices rose again, stoking concerns over industrial output."},
	{"%s stocks gain on strong export data", "Manufacturers reported robust orders from Asia and North America."},
	{"Inflation in %s economy eases further", "Harmonised consumer prices rose less than expected last month."},
	{"%s banks rally after stress test results", "Lenders showed resilient capital positions under the adverse scenario."},
	{"Political uncertainty weighs on %s bonds", "Spreads widened as investors priced in a fragmented parliament."},
	{"ECB holds rates, %s investors cautious", "Lagarde said the governing council would remain data dependent."},
	{"%s industrial output falls in recession warning", "Factory production declined for a third straight month."},
	{"Stoxx 600 climbs as %s equities recover", "European shares rebounded on optimism over a trade agreement."},
	{"%s energy groups surge on higher oil prices", "Oil majors led gains after crude rose to a six-month high."},
}

var europeanSources = []string{"Reuters", "Financial Times", "Handelsblatt", "Les Echos", "Il Sole 24 Ore", "Expansión", "Het Financieele Dagblad", "Bloomberg"}

var countryAdjectives = map[string]string{
	"eu": "European",
	"de": "German",
	"fr": "French",
	"it": "Italian",
	"es": "Spanish",
	"nl": "Dutch",
	"uk": "UK",
}

var redditTemplates = []string{
	"$%s to the moon, diamond hands all the way",
	"Loaded up on $%s calls before earnings, bullish",
	"$%s puts printing, this thing is going to dump",
	"Is $%s overvalued here? Feels like a bubble",
	"DD: why $%s is undervalued and ready for a squeeze",
	"Bagholding $%s since last year, getting rekt",
	"$%s breakout confirmed, holding long",
	"Thoughts on $%s? Market feels weak today",
}

var twitterTemplates = []string{
	"$%s ripping today, strong volume on the breakout",
	"$%s looking weak, selling into this rally",
	"Watching $%s closely, could squeeze higher",
	"$%s red again, panic selling everywhere",
	"Bullish on $%s into earnings",
	"$%s tanking after guidance, this is a scam",
}

var socialTickers = []string{"AAPL", "TSLA", "NVDA", "AMZN", "MSFT", "GME", "AMD", "META", "SPY", "PLTR"}

var subreddits = []string{"r/wallstreetbets", "r/stocks", "r/investing", "r/StockMarket"}

// Articles returns n synthetic market news articles published within the
// last hours, newest first. Sentiment is left for the caller to score.
func (g *Generator) Articles(query string, n, hours int) []models.Article {
	subject := titleCase(query)
	if subject == "" {
		subject = "Stocks"
	}
	return g.articles(n, hours, subject, newsTemplates, newsSources)
}

// EuropeanArticles returns n synthetic European news articles for country.
func (g *Generator) EuropeanArticles(country string, n, hours int) []models.Article {
	subject, ok := countryAdjectives[strings.ToLower(country)]
	if !ok {
		subject = countryAdjectives["eu"]
	}
	return g.articles(n, hours, subject, europeanTemplates, europeanSources)
}

func (g *Generator) articles(n, hours int, subject string, templates []struct{ title, description string }, sources []string) []models.Article {
	if n <= 0 {
		return []models.Article{}
	}
	now := g.now().UTC()
	window := time.Duration(max(hours, 1)) * time.Hour
	seen := make(map[string]int, n)

	out := make([]models.Article, n)
	for i := range n {
		tpl := templates[(g.intn(len(templates))+i)%len(templates)]
		title := fmt.Sprintf(tpl.title, subject)
		seen[title]++
		if c := seen[title]; c > 1 {
			title = fmt.Sprintf("%s (update %d)", title, c-1)
		}
		out[i] = models.Article{
			Title:       title,
			Description: tpl.description,
			Source:      pick(g, sources),
			URL:         "https://news.example.com/" + slug(title),
			PublishedAt: now.Add(-time.Duration(g.float(0, 1) * float64(window))).Truncate(time.Second),
		}
	}
	sortNewestFirst(out)
	return out
}

// Posts returns n synthetic social posts for platform.
func (g *Generator) Posts(platform models.Platform, query string, n int) []models.Post {
	if n <= 0 {
		return []models.Post{}
	}
	templates := redditTemplates
	if platform == models.PlatformTwitter {
		templates = twitterTemplates
	}

	now := g.now().UTC()
	out := make([]models.Post, n)
	articles := make([]models.Article, n)
	for i := range n {
		ticker := pick(g, socialTickers)
		if q, ok := strings.CutPrefix(strings.TrimSpace(query), "$"); ok && isTicker(strings.ToUpper(q)) {
			ticker = strings.ToUpper(q)
		}
		title := fmt.Sprintf(pick(g, templates), ticker)
		source := "Twitter"
		if platform == models.PlatformReddit {
			source = pick(g, subreddits)
		}
		articles[i] = models.Article{
			Title:       title,
			Source:      source,
			URL:         fmt.Sprintf("https://%s.example.com/post/%d", platform, 100000+g.intn(900000)),
			PublishedAt: now.Add(-time.Duration(g.float(0, 24) * float64(time.Hour))).Truncate(time.Second),
		}
		out[i] = models.Post{
			Platform:   platform,
			Author:     fmt.Sprintf("user_%d", 1000+g.intn(9000)),
			Engagement: g.intn(5000),
		}
	}
	sortNewestFirst(articles)
	for i := range out {
		out[i].Article = articles[i]
	}
	return out
}

func isTicker(s string) bool {
	if len(s) == 0 || len(s) > 5 {
		return false
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

func sortNewestFirst(articles []models.Article) {
	slices.SortStableFunc(articles, func(a, b models.Article) int {
		return b.PublishedAt.Compare(a.PublishedAt)
	})
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

func slug(s string) string {
	return url.PathEscape(strings.ToLower(strings.ReplaceAll(s, " ", "-")))
}
