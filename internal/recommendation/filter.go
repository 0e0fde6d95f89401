package recommendation

import "strings"

var RecommendationKeywords = []string{
	"buy", "sell", "bullish", "bearish", "long", "short",
	"recommend", "like", "avoid", "positive", "negative",
}

// IsRecommendation reports whether text both mentions a cashtag and uses
// recommendation vocabulary.
func IsRecommendation(text string) bool {
	if cashtagRx.FindStringIndex(text) == nil {
		return false
	}
	return countMatches(strings.ToLower(text), RecommendationKeywords) > 0
}
