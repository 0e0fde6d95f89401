// Package chart turns raw price-chart payloads into aligned price series.
package chart

import (
	"time"

	"inverse-cramer/internal/domain"
	"inverse-cramer/internal/jsontree"
)

const dateLayout = "2006-01-02"

// Normalize reads a chart response and emits one point per timestamp whose
// close is a number. A malformed value drops only its own field or index. It
// reports false when the payload is not JSON or carries no chart result.
func Normalize(raw []byte) (*domain.PriceSeries, bool) {
	root, err := jsontree.Parse(raw)
	if err != nil {
		return nil, false
	}
	results, ok := root.Get("chart", "result")
	if !ok {
		return nil, false
	}
	list := results.Array()
	if len(list) == 0 || !list[0].IsObject() {
		return nil, false
	}
	r := list[0]

	timestamps, _ := r.Get("timestamp")
	stamps := timestamps.Array()

	series := &domain.PriceSeries{
		Meta:   readMeta(r),
		Prices: make([]domain.PricePoint, 0, len(stamps)),
	}

	quotes, _ := r.Get("indicators", "quote")
	quoteList := quotes.Array()
	if len(quoteList) == 0 {
		return series, true
	}
	q := quoteList[0]
	closes := numbers(q, "close")
	opens := numbers(q, "open")
	highs := numbers(q, "high")
	lows := numbers(q, "low")
	volumes := numbers(q, "volume")

	var adj []*float64
	if adjList, ok := r.Get("indicators", "adjclose"); ok {
		if first := adjList.Array(); len(first) > 0 {
			adj = numbers(first[0], "adjclose")
		}
	}

	for i, node := range stamps {
		f, ok := node.Float()
		if !ok {
			continue
		}
		c := at(closes, i)
		if c == nil {
			continue
		}
		ts := int64(f)
		series.Prices = append(series.Prices, domain.PricePoint{
			Date:      time.Unix(ts, 0).Local().Format(dateLayout),
			Timestamp: ts,
			Close:     *c,
			Open:      at(opens, i),
			High:      at(highs, i),
			Low:       at(lows, i),
			Volume:    at(volumes, i),
			AdjClose:  at(adj, i),
		})
	}
	return series, true
}

// numbers reads the array under key, leaving nil for every slot that is not a
// number.
func numbers(n jsontree.Node, key string) []*float64 {
	arr, ok := n.Get(key)
	if !ok {
		return nil
	}
	elems := arr.Array()
	out := make([]*float64, len(elems))
	for i, e := range elems {
		if f, ok := e.Float(); ok {
			out[i] = &f
		}
	}
	return out
}

// at returns s[i], or nil when i is past the end or the slot is null.
func at[T any](s []*T, i int) *T {
	if i < 0 || i >= len(s) {
		return nil
	}
	return s[i]
}

func readMeta(r jsontree.Node) domain.SeriesMeta {
	m, _ := r.Get("meta")
	meta := domain.SeriesMeta{
		Symbol:   scalar(m, "symbol"),
		Currency: scalar(m, "currency"),
		Exchange: scalar(m, "exchangeName"),
	}
	meta.CompanyName = scalar(m, "shortName")
	if meta.CompanyName == nil || *meta.CompanyName == "" {
		meta.CompanyName = scalar(m, "longName")
	}
	return meta
}

func scalar(n jsontree.Node, key string) *string {
	v, ok := n.Get(key)
	if !ok {
		return nil
	}
	s, ok := v.Scalar()
	if !ok {
		return nil
	}
	return &s
}
