package recommendation

import (
	"time"

	"inverse-cramer/internal/domain"
)

// TwitterTimeLayout is the created_at format used by timeline payloads.
const TwitterTimeLayout = "Mon Jan 02 15:04:05 -0700 2006"

// Entries flattens posts into one candidate per mentioned ticker, in post order.
func Entries(posts []domain.Post) []domain.RecommendationEntry {
	out := make([]domain.RecommendationEntry, 0, len(posts))
	for _, p := range posts {
		date := PostDate(p.CreatedAt)
		for _, symbol := range p.StockSymbols {
			out = append(out, domain.RecommendationEntry{
				Ticker:         symbol,
				Date:           date,
				Recommendation: p.Sentiment,
				Text:           p.Text,
				TweetID:        p.ID,
				CreatedAt:      p.CreatedAt,
				Author:         p.User.ScreenName,
			})
		}
	}
	return out
}

// PostDate converts a timeline created_at value to a YYYY-MM-DD calendar
// date. Unparseable values yield "".
func PostDate(createdAt string) string {
	ts, err := time.Parse(TwitterTimeLayout, createdAt)
	if err != nil {
		return ""
	}
	return ts.UTC().Format("2006-01-02")
}
