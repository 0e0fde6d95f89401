package domain

// PriceQuery is the input contract of the price-chart boundary. Range and
// Interval are passed through to the upstream API untouched.
type PriceQuery struct {
	Symbol   string
	Range    string
	Interval string
}

// PricePoint is one bar of a normalized series. Open, High, Low and Volume
// serialize as null when the source had no value at that index; AdjClose is
// omitted entirely unless the source supplied an adjusted close for it.
type PricePoint struct {
	Date      string   `json:"date"`
	Timestamp int64    `json:"timestamp"`
	Close     float64  `json:"close"`
	Open      *float64 `json:"open"`
	High      *float64 `json:"high"`
	Low       *float64 `json:"low"`
	Volume    *float64 `json:"volume"`
	AdjClose  *float64 `json:"adjClose,omitempty"`
}

// SeriesMeta describes the instrument a series belongs to.
type SeriesMeta struct {
	Symbol      *string `json:"symbol"`
	Currency    *string `json:"currency"`
	Exchange    *string `json:"exchange"`
	CompanyName *string `json:"company_name"`
}

// PriceSeries holds price points in source (ascending timestamp) order.
type PriceSeries struct {
	Meta   SeriesMeta   `json:"meta"`
	Prices []PricePoint `json:"prices"`
}
