package recommendation

import (
	"strings"

	"inverse-cramer/internal/domain"
)

// Join pairs series with the candidates whose ticker matches symbol,
// ignoring case and keeping candidate order. A nil series stays nil.
func Join(symbol string, candidates []domain.RecommendationEntry, series *domain.PriceSeries) domain.JoinedRecord {
	matched := make([]domain.RecommendationEntry, 0)
	for _, c := range candidates {
		if strings.EqualFold(c.Ticker, symbol) {
			matched = append(matched, c)
		}
	}
	return domain.JoinedRecord{
		StockData:             series,
		CramerRecommendations: matched,
	}
}
