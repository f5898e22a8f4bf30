package models

import "time"

// PriceBar is one daily OHLCV candle for a traded asset. Date carries no
// time component; bars are normalized to midnight UTC by their source.
type PriceBar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// IntradayReturn is the single-session return (close - open) / open.
// Returns 0 for a bar with a non-positive open.
func (b PriceBar) IntradayReturn() float64 {
	if b.Open <= 0 {
		return 0
	}
	return (b.Close - b.Open) / b.Open
}

// Quote is a point-in-time market snapshot for an asset.
type Quote struct {
	Ticker     string    `json:"ticker"`
	Name       string    `json:"name,omitempty"`
	LastPrice  float64   `json:"last_price"`
	PrevClose  float64   `json:"prev_close"`
	ChangePct  float64   `json:"change_pct"`
	WeekHigh52 float64   `json:"week_high_52,omitempty"`
	Volume     int64     `json:"volume,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// ValuationSummary carries optional analyst fundamentals for an asset.
// TargetPrice is nil when no street consensus is available; callers must
// handle the absence.
type ValuationSummary struct {
	Ticker          string   `json:"ticker"`
	TargetPrice     *float64 `json:"target_price,omitempty"` // analyst mean target
	TrailingPE      float64  `json:"trailing_pe,omitempty"`
	Recommendation  string   `json:"recommendation,omitempty"` // e.g., "BUY", "HOLD"
	BusinessSummary string   `json:"business_summary,omitempty"`
}

// Day truncates a timestamp to its calendar date at midnight UTC.
// Trading days and bar dates are compared through this normalization.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DayKey formats a normalized day for use as a map key.
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}
