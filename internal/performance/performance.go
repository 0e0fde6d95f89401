// Package performance measures how a ticker moved after each recommendation
// and whether trading against the recommendations would have paid off.
package performance

import (
	"time"

	"inverse-cramer/internal/domain"
)

const dateLayout = "2006-01-02"

// Horizon is a look-ahead window measured from the recommendation date.
type Horizon struct {
	Key    string
	Years  int
	Months int
	Days   int
}

var Horizons = []Horizon{
	{Key: "1d", Days: 1},
	{Key: "1w", Days: 7},
	{Key: "1m", Months: 1},
	{Key: "3m", Months: 3},
	{Key: "6m", Months: 6},
	{Key: "1y", Years: 1},
}

// VerdictHorizon is the window the inverse verdict is judged on.
const VerdictHorizon = "1m"

// Summary aggregates annotated entries for one ticker.
type Summary struct {
	Symbol             string              `json:"symbol"`
	BuyCount           int                 `json:"buy_count"`
	SellCount          int                 `json:"sell_count"`
	AvgBuy             map[string]*float64 `json:"avg_buy_performance"`
	AvgSell            map[string]*float64 `json:"avg_sell_performance"`
	InverseCramerWorks bool                `json:"inverse_cramer_works"`
}

// Annotate returns a copy of entries with Performance filled in from series.
// The baseline is the first close on or after the entry date; each horizon
// uses the first close on or after date+horizon. Windows that run past the
// series, and entries without a usable date, get nil values.
func Annotate(entries []domain.RecommendationEntry, series *domain.PriceSeries) []domain.RecommendationEntry {
	out := make([]domain.RecommendationEntry, len(entries))
	for i, e := range entries {
		e.Performance = changes(e.Date, series)
		out[i] = e
	}
	return out
}

func changes(date string, series *domain.PriceSeries) map[string]*float64 {
	perf := make(map[string]*float64, len(Horizons))
	for _, h := range Horizons {
		perf[h.Key] = nil
	}
	if series == nil {
		return perf
	}
	start, err := time.Parse(dateLayout, date)
	if err != nil {
		return perf
	}
	base, ok := firstOnOrAfter(series.Prices, date)
	if !ok || base.Close == 0 {
		return perf
	}
	for _, h := range Horizons {
		target := start.AddDate(h.Years, h.Months, h.Days).Format(dateLayout)
		p, ok := firstOnOrAfter(series.Prices, target)
		if !ok {
			continue
		}
		pct := (p.Close - base.Close) / base.Close * 100
		perf[h.Key] = &pct
	}
	return perf
}

func firstOnOrAfter(prices []domain.PricePoint, date string) (domain.PricePoint, bool) {
	for _, p := range prices {
		if p.Date >= date {
			return p, true
		}
	}
	return domain.PricePoint{}, false
}

// Summarize averages buy and sell performance per horizon and decides the
// inverse verdict on the one-month window.
func Summarize(symbol string, entries []domain.RecommendationEntry) Summary {
	var buys, sells []domain.RecommendationEntry
	for _, e := range entries {
		switch e.Recommendation {
		case domain.SentimentBuy:
			buys = append(buys, e)
		case domain.SentimentSell:
			sells = append(sells, e)
		}
	}

	s := Summary{
		Symbol:    symbol,
		BuyCount:  len(buys),
		SellCount: len(sells),
		AvgBuy:    make(map[string]*float64, len(Horizons)),
		AvgSell:   make(map[string]*float64, len(Horizons)),
	}
	for _, h := range Horizons {
		s.AvgBuy[h.Key] = average(buys, h.Key)
		s.AvgSell[h.Key] = average(sells, h.Key)
	}
	s.InverseCramerWorks = InverseWorks(s.AvgBuy[VerdictHorizon], s.AvgSell[VerdictHorizon])
	return s
}

func average(entries []domain.RecommendationEntry, key string) *float64 {
	sum, n := 0.0, 0
	for _, e := range entries {
		v := e.Performance[key]
		if v == nil {
			continue
		}
		sum += *v
		n++
	}
	if n == 0 {
		return nil
	}
	avg := sum / float64(n)
	return &avg
}

// InverseWorks reports whether doing the opposite of the recommendations
// would have won: buys lost while sells gained, or buys trailed sells. With
// only one side it judges that side alone; with neither it is false.
func InverseWorks(buy, sell *float64) bool {
	switch {
	case buy == nil && sell == nil:
		return false
	case sell == nil:
		return *buy < 0
	case buy == nil:
		return *sell > 0
	default:
		return (*buy < 0 && *sell > 0) || *buy < *sell
	}
}
