package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`
	HTTP   HTTPConfig   `yaml:"http"`

	// Synthetic data configuration
	Mock MockConfig `yaml:"mock"`

	// External service configurations
	NewsAPI      NewsAPIConfig      `yaml:"newsapi"`
	AlphaVantage AlphaVantageConfig `yaml:"alphavantage"`
	Finnhub      FinnhubConfig      `yaml:"finnhub"`
	FMP          FMPConfig          `yaml:"fmp"`
	Alpaca       AlpacaConfig       `yaml:"alpaca"`
	FRED         FREDConfig         `yaml:"fred"`
	Reddit       RedditConfig       `yaml:"reddit"`
	Twitter      TwitterConfig      `yaml:"twitter"`
	Multpl       MultplConfig       `yaml:"multpl"`

	// Per-dataset provider timeouts
	Timeouts TimeoutConfig `yaml:"timeouts"`

	CircuitBreaker CircuitBreakerConfig `yaml:"circuit_breaker"`
}

// ServerConfig holds HTTP listener configuration
type ServerConfig struct {
	Port            int           `yaml:"port" default:"8080" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" default:"15s" validate:"gt=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" default:"60s" validate:"gt=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s" validate:"gt=0"`
	// SymbolConcurrency bounds how many symbols are resolved at once
	SymbolConcurrency int `yaml:"symbol_concurrency" default:"5" validate:"min=1,max=50"`
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level      string `yaml:"level" default:"info" validate:"oneof=debug info warn warning error"`
	Production bool   `yaml:"production"`
}

// HTTPConfig holds HTTP response configuration
type HTTPConfig struct {
	CORSAllowedOrigins string `yaml:"cors_allowed_origins" default:"*"`
}

// MockConfig controls the synthetic data generator
type MockConfig struct {
	// Seed makes synthetic payloads reproducible. Zero picks a random seed.
	Seed uint64 `yaml:"seed"`
}

// NewsAPIConfig holds NewsAPI configuration
type NewsAPIConfig struct {
	APIKey            string  `yaml:"api_key"`
	BaseURL           string  `yaml:"base_url" default:"https://newsapi.org/v2" validate:"url"`
	RequestsPerSecond float64 `yaml:"requests_per_second" default:"1" validate:"gt=0"`
	Burst             int     `yaml:"burst" default:"2" validate:"min=1"`
}

// AlphaVantageConfig holds Alpha Vantage API configuration
type AlphaVantageConfig struct {
	APIKey            string  `yaml:"api_key"`
	BaseURL           string  `yaml:"base_url" default:"https://www.alphavantage.co/query" validate:"url"`
	RequestsPerSecond float64 `yaml:"requests_per_second" default:"1" validate:"gt=0"`
	Burst             int     `yaml:"burst" default:"5" validate:"min=1"`
}

// FinnhubConfig holds Finnhub REST configuration
type FinnhubConfig struct {
	APIKey            string  `yaml:"api_key"`
	BaseURL           string  `yaml:"base_url" default:"https://finnhub.io/api/v1" validate:"url"`
	RequestsPerSecond float64 `yaml:"requests_per_second" default:"1" validate:"gt=0"`
	Burst             int     `yaml:"burst" default:"10" validate:"min=1"`
}

// FMPConfig holds Financial Modeling Prep API configuration
type FMPConfig struct {
	APIKey            string  `yaml:"api_key"`
	BaseURL           string  `yaml:"base_url" default:"https://financialmodelingprep.com/api/v3" validate:"url"`
	RequestsPerSecond float64 `yaml:"requests_per_second" default:"5" validate:"gt=0"`
	Burst             int     `yaml:"burst" default:"5" validate:"min=1"`
}

// AlpacaConfig holds Alpaca market data configuration
type AlpacaConfig struct {
	APIKey            string  `yaml:"api_key"`
	APISecret         string  `yaml:"api_secret"`
	DataURL           string  `yaml:"data_url" default:"https://data.alpaca.markets" validate:"url"`
	Feed              string  `yaml:"feed" default:"iex" validate:"oneof=iex sip delayed_sip"`
	RequestsPerSecond float64 `yaml:"requests_per_second" default:"3" validate:"gt=0"`
	Burst             int     `yaml:"burst" default:"5" validate:"min=1"`
}

// FREDConfig holds St. Louis Fed FRED API configuration
type FREDConfig struct {
	APIKey            string  `yaml:"api_key"`
	BaseURL           string  `yaml:"base_url" default:"https://api.stlouisfed.org/fred" validate:"url"`
	RequestsPerSecond float64 `yaml:"requests_per_second" default:"2" validate:"gt=0"`
	Burst             int     `yaml:"burst" default:"5" validate:"min=1"`
}

// RedditConfig holds Reddit OAuth application credentials
type RedditConfig struct {
	ClientID          string  `yaml:"client_id"`
	ClientSecret      string  `yaml:"client_secret"`
	UserAgent         string  `yaml:"user_agent" default:"market-sentiment/1.0"`
	TokenURL          string  `yaml:"token_url" default:"https://www.reddit.com/api/v1/access_token" validate:"url"`
	BaseURL           string  `yaml:"base_url" default:"https://oauth.reddit.com" validate:"url"`
	Subreddits        string  `yaml:"subreddits" default:"wallstreetbets,stocks,investing"`
	RequestsPerSecond float64 `yaml:"requests_per_second" default:"1" validate:"gt=0"`
	Burst             int     `yaml:"burst" default:"5" validate:"min=1"`
}

// SubredditList returns the configured subreddits without blanks.
func (c RedditConfig) SubredditList() []string {
	var out []string
	for _, s := range strings.Split(c.Subreddits, ",") {
		if s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "r/")); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// TwitterConfig holds X/Twitter API v2 configuration
type TwitterConfig struct {
	BearerToken       string  `yaml:"bearer_token"`
	BaseURL           string  `yaml:"base_url" default:"https://api.twitter.com/2" validate:"url"`
	RequestsPerSecond float64 `yaml:"requests_per_second" default:"0.5" validate:"gt=0"`
	Burst             int     `yaml:"burst" default:"2" validate:"min=1"`
}

// MultplConfig holds the Shiller P/E table source
type MultplConfig struct {
	Enabled           bool    `yaml:"enabled" default:"true"`
	URL               string  `yaml:"url" default:"https://www.multpl.com/shiller-pe/table/by-month" validate:"url"`
	RequestsPerSecond float64 `yaml:"requests_per_second" default:"1" validate:"gt=0"`
	Burst             int     `yaml:"burst" default:"1" validate:"min=1"`
}

// TimeoutConfig holds the per-provider call timeout for each dataset
type TimeoutConfig struct {
	News       time.Duration `yaml:"news" default:"10s" validate:"gt=0"`
	Social     time.Duration `yaml:"social" default:"10s" validate:"gt=0"`
	Quote      time.Duration `yaml:"quote" default:"8s" validate:"gt=0"`
	Profile    time.Duration `yaml:"profile" default:"8s" validate:"gt=0"`
	Technicals time.Duration `yaml:"technicals" default:"8s" validate:"gt=0"`
	History    time.Duration `yaml:"history" default:"15s" validate:"gt=0"`
	Macro      time.Duration `yaml:"macro" default:"12s" validate:"gt=0"`
	CAPE       time.Duration `yaml:"cape" default:"15s" validate:"gt=0"`
}

// CircuitBreakerConfig holds the settings shared by every provider breaker
type CircuitBreakerConfig struct {
	MaxRequests  uint32        `yaml:"max_requests" default:"5" validate:"min=1"`
	Interval     time.Duration `yaml:"interval" default:"1m" validate:"gt=0"`
	Timeout      time.Duration `yaml:"timeout" default:"30s" validate:"gt=0"`
	MinRequests  uint32        `yaml:"min_requests" default:"5" validate:"min=1"`
	FailureRatio float64       `yaml:"failure_ratio" default:"0.5" validate:"gt=0,lte=1"`
}

var validate = validator.New()

// Load builds the configuration. Defaults come first, then the optional
// YAML file at path, then environment variables (a .env file in the working
// directory is loaded if present). The result is validated.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("applying defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnv overrides fields whose environment variable is set.
func (c *Config) applyEnv() {
	c.Server.Port = getEnvInt("PORT", c.Server.Port)
	c.Server.ReadTimeout = getEnvDuration("SERVER_READ_TIMEOUT", c.Server.ReadTimeout)
	c.Server.WriteTimeout = getEnvDuration("SERVER_WRITE_TIMEOUT", c.Server.WriteTimeout)
	c.Server.ShutdownTimeout = getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", c.Server.ShutdownTimeout)
	c.Server.SymbolConcurrency = getEnvInt("SYMBOL_CONCURRENCY", c.Server.SymbolConcurrency)

	c.Log.Level = getEnvString("LOG_LEVEL", c.Log.Level)
	c.Log.Production = getEnvBool("PRODUCTION", c.Log.Production)

	c.HTTP.CORSAllowedOrigins = getEnvString("CORS_ALLOWED_ORIGINS", c.HTTP.CORSAllowedOrigins)
	c.Mock.Seed = getEnvUint("MOCK_SEED", c.Mock.Seed)

	c.NewsAPI.APIKey = getEnvString("NEWS_API_KEY", c.NewsAPI.APIKey)
	c.NewsAPI.BaseURL = getEnvString("NEWS_API_BASE_URL", c.NewsAPI.BaseURL)

	c.AlphaVantage.APIKey = getEnvString("ALPHA_VANTAGE_API_KEY", c.AlphaVantage.APIKey)
	c.AlphaVantage.BaseURL = getEnvString("ALPHA_VANTAGE_BASE_URL", c.AlphaVantage.BaseURL)

	c.Finnhub.APIKey = getEnvString("FINNHUB_API_KEY", c.Finnhub.APIKey)
	c.Finnhub.BaseURL = getEnvString("FINNHUB_BASE_URL", c.Finnhub.BaseURL)

	c.FMP.APIKey = getEnvString("FMP_API_KEY", c.FMP.APIKey)
	c.FMP.BaseURL = getEnvString("FMP_BASE_URL", c.FMP.BaseURL)

	c.Alpaca.APIKey = getEnvString("ALPACA_API_KEY", c.Alpaca.APIKey)
	c.Alpaca.APISecret = getEnvString("ALPACA_API_SECRET", c.Alpaca.APISecret)
	c.Alpaca.DataURL = getEnvString("ALPACA_DATA_URL", c.Alpaca.DataURL)
	c.Alpaca.Feed = getEnvString("ALPACA_FEED", c.Alpaca.Feed)

	c.FRED.APIKey = getEnvString("FRED_API_KEY", c.FRED.APIKey)
	c.FRED.BaseURL = getEnvString("FRED_BASE_URL", c.FRED.BaseURL)

	c.Reddit.ClientID = getEnvString("REDDIT_CLIENT_ID", c.Reddit.ClientID)
	c.Reddit.ClientSecret = getEnvString("REDDIT_CLIENT_SECRET", c.Reddit.ClientSecret)
	c.Reddit.UserAgent = getEnvString("REDDIT_USER_AGENT", c.Reddit.UserAgent)
	c.Reddit.TokenURL = getEnvString("REDDIT_TOKEN_URL", c.Reddit.TokenURL)
	c.Reddit.BaseURL = getEnvString("REDDIT_BASE_URL", c.Reddit.BaseURL)
	c.Reddit.Subreddits = getEnvString("REDDIT_SUBREDDITS", c.Reddit.Subreddits)

	c.Twitter.BearerToken = getEnvString("TWITTER_BEARER_TOKEN", c.Twitter.BearerToken)
	c.Twitter.BaseURL = getEnvString("TWITTER_BASE_URL", c.Twitter.BaseURL)

	c.Multpl.Enabled = getEnvBool("MULTPL_ENABLED", c.Multpl.Enabled)
	c.Multpl.URL = getEnvString("MULTPL_URL", c.Multpl.URL)

	c.Timeouts.News = getEnvDuration("NEWS_TIMEOUT", c.Timeouts.News)
	c.Timeouts.Social = getEnvDuration("SOCIAL_TIMEOUT", c.Timeouts.Social)
	c.Timeouts.Quote = getEnvDuration("QUOTE_TIMEOUT", c.Timeouts.Quote)
	c.Timeouts.Profile = getEnvDuration("PROFILE_TIMEOUT", c.Timeouts.Profile)
	c.Timeouts.Technicals = getEnvDuration("TECHNICALS_TIMEOUT", c.Timeouts.Technicals)
	c.Timeouts.History = getEnvDuration("HISTORY_TIMEOUT", c.Timeouts.History)
	c.Timeouts.Macro = getEnvDuration("MACRO_TIMEOUT", c.Timeouts.Macro)
	c.Timeouts.CAPE = getEnvDuration("CAPE_TIMEOUT", c.Timeouts.CAPE)

	c.CircuitBreaker.Timeout = getEnvDuration("CIRCUIT_BREAKER_TIMEOUT", c.CircuitBreaker.Timeout)
	c.CircuitBreaker.FailureRatio = getEnvFloatRange("CIRCUIT_BREAKER_FAILURE_RATIO", c.CircuitBreaker.FailureRatio, 0.01, 1)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, errorMessage(fe))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Credential pairs are all or nothing
	if (c.Alpaca.APIKey == "") != (c.Alpaca.APISecret == "") {
		return fmt.Errorf("ALPACA_API_KEY and ALPACA_API_SECRET must be set together")
	}
	if (c.Reddit.ClientID == "") != (c.Reddit.ClientSecret == "") {
		return fmt.Errorf("REDDIT_CLIENT_ID and REDDIT_CLIENT_SECRET must be set together")
	}

	if c.Server.WriteTimeout <= c.Timeouts.History {
		return fmt.Errorf("server write timeout (%s) must exceed the history timeout (%s)",
			c.Server.WriteTimeout, c.Timeouts.History)
	}

	return nil
}

func errorMessage(fe validator.FieldError) string {
	field := fe.Namespace()
	switch fe.Tag() {
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "url":
		return fmt.Sprintf("%s must be a valid URL, got %q", field, fe.Value())
	default:
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s failed validation %s: %q", field, fe.Tag(), fe.Value())
		}
		return fmt.Sprintf("%s failed validation: %s", field, fe.Tag())
	}
}

// HasNewsAPI returns true if NewsAPI configuration is available
func (c *Config) HasNewsAPI() bool {
	return c.NewsAPI.APIKey != ""
}

// HasAlphaVantage returns true if Alpha Vantage configuration is available
func (c *Config) HasAlphaVantage() bool {
	return c.AlphaVantage.APIKey != ""
}

// HasFinnhub returns true if Finnhub configuration is available
func (c *Config) HasFinnhub() bool {
	return c.Finnhub.APIKey != ""
}

// HasFMP returns true if Financial Modeling Prep configuration is available
func (c *Config) HasFMP() bool {
	return c.FMP.APIKey != ""
}

// HasAlpaca returns true if Alpaca configuration is available
func (c *Config) HasAlpaca() bool {
	return c.Alpaca.APIKey != "" && c.Alpaca.APISecret != ""
}

// HasFRED returns true if FRED configuration is available
func (c *Config) HasFRED() bool {
	return c.FRED.APIKey != ""
}

// HasReddit returns true if Reddit OAuth credentials are available
func (c *Config) HasReddit() bool {
	return c.Reddit.ClientID != "" && c.Reddit.ClientSecret != ""
}

// HasTwitter returns true if a Twitter bearer token is available
func (c *Config) HasTwitter() bool {
	return c.Twitter.BearerToken != ""
}

// HasMultpl returns true if the Shiller P/E scraper is enabled
func (c *Config) HasMultpl() bool {
	return c.Multpl.Enabled && c.Multpl.URL != ""
}

// ConfiguredProviders lists the providers that can be called.
func (c *Config) ConfiguredProviders() map[string]bool {
	return map[string]bool{
		"newsapi":      c.HasNewsAPI(),
		"alphavantage": c.HasAlphaVantage(),
		"finnhub":      c.HasFinnhub(),
		"fmp":          c.HasFMP(),
		"alpaca":       c.HasAlpaca(),
		"fred":         c.HasFRED(),
		"reddit":       c.HasReddit(),
		"twitter":      c.HasTwitter(),
		"multpl":       c.HasMultpl(),
	}
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Server.Port)
}

func getEnvString(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultValue
}

func getEnvUint(key string, defaultValue uint64) uint64 {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseUint(val, 10, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloatRange(key string, defaultValue, minVal, maxVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil && parsed >= minVal && parsed <= maxVal {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultValue
}

// NewTestConfig creates a Config with default values and no credentials,
// for testing
func NewTestConfig() *Config {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		panic(fmt.Sprintf("config defaults: %v", err))
	}
	cfg.Server.ShutdownTimeout = time.Second
	return cfg
}
