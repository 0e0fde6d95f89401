package recommendation

import (
	"strings"

	"inverse-cramer/internal/domain"
)

var (
	BuyKeywords  = []string{"buy", "bullish", "long", "positive", "up", "recommend", "like", "good"}
	SellKeywords = []string{"sell", "bearish", "short", "negative", "down", "avoid", "bad"}
)

// ClassifySentiment labels text by which keyword list has more members present
// as substrings. Ties, including no hits at all, are neutral.
func ClassifySentiment(text string) domain.Sentiment {
	lower := strings.ToLower(text)
	buy := countMatches(lower, BuyKeywords)
	sell := countMatches(lower, SellKeywords)
	switch {
	case buy > sell:
		return domain.SentimentBuy
	case sell > buy:
		return domain.SentimentSell
	default:
		return domain.SentimentNeutral
	}
}

func countMatches(text string, words []string) int {
	count := 0
	for _, word := range words {
		if strings.Contains(text, word) {
			count++
		}
	}
	return count
}
