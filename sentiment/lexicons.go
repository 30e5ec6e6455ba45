package sentiment

var marketPositive = []string{
	"bullish", "rally", "rallies", "rallied", "surge", "surges", "surged",
	"gain", "gains", "gained", "rise", "rises", "rising", "rose", "jump",
	"jumps", "jumped", "soar", "soars", "soared", "climb", "climbs",
	"record", "high", "highs", "growth", "grow", "grows", "strong",
	"stronger", "beat", "beats", "upgrade", "upgraded", "upgrades",
	"outperform", "outperforms", "profit", "profits", "profitable",
	"boost", "boosts", "boosted", "optimism", "optimistic", "positive",
	"recovery", "recover", "rebound", "rebounds", "breakout", "buy",
	"expansion", "robust", "momentum", "upside", "confidence", "exceeds",
	"exceeded",
}

var marketNegative = []string{
	"bearish", "crash", "crashes", "crashed", "plunge", "plunges",
	"plunged", "fall", "falls", "fell", "falling", "drop", "drops",
	"dropped", "decline", "declines", "declined", "loss", "losses",
	"lose", "losing", "slump", "slumps", "tumble", "tumbles", "tumbled",
	"sink", "sinks", "sank", "weak", "weaker", "weakness", "miss",
	"misses", "missed", "downgrade", "downgraded", "downgrades",
	"underperform", "recession", "fear", "fears", "worry", "worries",
	"concern", "concerns", "risk", "risks", "selloff", "sell", "volatile",
	"volatility", "uncertainty", "negative", "pessimism", "pessimistic",
	"layoffs", "bankruptcy", "default", "warning", "warns", "inflation",
	"slowdown", "downturn", "correction",
}

var socialPositive = []string{
	"bullish", "moon", "mooning", "rocket", "tendies", "diamond",
	"hodl", "hold", "holding", "calls", "gains", "gain", "lambo", "yolo",
	"buy", "buying", "long", "squeeze", "rally", "breakout", "green",
	"pump", "pumping", "undervalued", "winning", "win", "profit",
	"ath", "ripping", "rip", "printing", "beat", "strong", "love",
}

var socialNegative = []string{
	"bearish", "puts", "dump", "dumping", "crash", "crashing", "rekt",
	"bagholder", "bagholders", "bagholding", "rug", "rugpull", "fud",
	"drill", "drilling", "tank", "tanking", "red", "loss", "losses",
	"sell", "selling", "short", "shorts", "overvalued", "scam", "fraud",
	"bubble", "dead", "broke", "panic", "capitulation", "weak", "hate",
}

var europeanPositive = []string{
	"bullish", "rally", "rallies", "surge", "surges", "surged", "gain",
	"gains", "rise", "rises", "rising", "rose", "jump", "jumps", "climb",
	"climbs", "record", "growth", "strong", "stronger", "beat", "beats",
	"upgrade", "outperform", "profit", "profits", "boost", "optimism",
	"optimistic", "positive", "recovery", "rebound", "stimulus",
	"easing", "dovish", "accommodative", "stability", "stabilise",
	"stabilize", "resilient", "resilience", "integration", "agreement",
	"expansion", "confidence",
}

var europeanNegative = []string{
	"bearish", "crash", "plunge", "plunges", "fall", "falls", "fell",
	"drop", "drops", "decline", "declines", "loss", "losses", "slump",
	"tumble", "weak", "weaker", "weakness", "miss", "downgrade",
	"recession", "stagnation", "contraction", "fear", "fears", "worry",
	"worries", "concern", "concerns", "risk", "risks", "selloff",
	"uncertainty", "negative", "pessimism", "hawkish", "tightening",
	"inflation", "austerity", "deficit", "debt", "strike", "strikes",
	"fragmentation", "brexit", "sanctions", "shortage", "downturn",
}

// NewsLexicon scores general market news.
var NewsLexicon = Lexicon{
	Name:             "news",
	Positive:         wordSet(marketPositive...),
	Negative:         wordSet(marketNegative...),
	AmplificationCap: 25,
}

// SocialLexicon scores Reddit and Twitter posts, with trading slang.
var SocialLexicon = Lexicon{
	Name:     "social",
	Positive: wordSet(socialPositive...),
	Negative: wordSet(socialNegative...),
	Phrases: []PhraseRule{
		{All: []string{"to the moon"}, Delta: 10},
		{All: []string{"diamond hands"}, Delta: 8},
		{All: []string{"paper hands"}, Delta: -8},
		{All: []string{"rug pull"}, Delta: -10},
	},
	AmplificationCap: 20,
}

// EuropeanLexicon scores European financial news, including ECB policy terms.
var EuropeanLexicon = Lexicon{
	Name:     "europe",
	Positive: wordSet(europeanPositive...),
	Negative: wordSet(europeanNegative...),
	Phrases: []PhraseRule{
		{All: []string{"ecb", "rate cut"}, Delta: 10},
		{All: []string{"ecb", "rate hike"}, Delta: -10},
		{All: []string{"energy crisis"}, Delta: -15},
		{All: []string{"debt crisis"}, Delta: -15},
		{All: []string{"soft landing"}, Delta: 8},
	},
	AmplificationCap: 25,
}

// Lexicons indexes the built-in variants by name.
var Lexicons = map[string]Lexicon{
	NewsLexicon.Name:     NewsLexicon,
	SocialLexicon.Name:   SocialLexicon,
	EuropeanLexicon.Name: EuropeanLexicon,
}
