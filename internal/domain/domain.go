package domain

import (
	"regexp"
	"strings"
)

// Sentiment is the coarse buy/sell/neutral label attached to a post.
type Sentiment string

const (
	SentimentBuy     Sentiment = "buy"
	SentimentSell    Sentiment = "sell"
	SentimentNeutral Sentiment = "neutral"
)

// PostUser identifies the author of a post.
type PostUser struct {
	Name       string `json:"name"`
	ScreenName string `json:"screen_name"`
}

// Post is one normalized timeline post that passed the recommendation filter.
type Post struct {
	User         PostUser  `json:"user"`
	Text         string    `json:"text"`
	CreatedAt    string    `json:"created_at"`
	ID           string    `json:"id"`
	StockSymbols []string  `json:"stock_symbols"`
	Sentiment    Sentiment `json:"sentiment"`
}

// SearchQuery is the input contract of the timeline search boundary.
type SearchQuery struct {
	Query string
	Count int
	Type  string
}

// RecommendationEntry is a per-ticker view of a post, the unit joined against a price series.
type RecommendationEntry struct {
	Ticker         string              `json:"ticker"`
	Date           string              `json:"date"`
	Recommendation Sentiment           `json:"recommendation"`
	Text           string              `json:"text"`
	TweetID        string              `json:"tweet_id"`
	CreatedAt      string              `json:"created_at"`
	Author         string              `json:"author"`
	Performance    map[string]*float64 `json:"performance,omitempty"`
}

// JoinedRecord pairs one ticker's price series with the recommendations mentioning it.
type JoinedRecord struct {
	StockData             *PriceSeries          `json:"stock_data"`
	CramerRecommendations []RecommendationEntry `json:"cramer_recommendations"`
}

// DefaultSearchQueries are issued in order by a search run when none are configured.
var DefaultSearchQueries = []string{
	"from:jimcramer buy stock",
	"from:jimcramer sell stock",
	"from:jimcramer bullish on",
	"from:jimcramer bearish on",
	"from:jimcramer recommend",
	"from:jimcramer $",
}

// DefaultSymbols is the batch processed by a stock run when none are configured.
var DefaultSymbols = []string{"AAPL", "TSLA", "AMZN", "NVDA", "NFLX"}

var symbolRx = regexp.MustCompile(`^[A-Za-z0-9.^-]{1,10}$`)

// ValidSymbol reports whether s is safe to use as a ticker key (file names, cache keys, URLs).
func ValidSymbol(s string) bool {
	return symbolRx.MatchString(strings.TrimSpace(s))
}

// NormalizeSymbol trims and upper-cases a ticker.
func NormalizeSymbol(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
