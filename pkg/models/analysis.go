package models

import "time"

// DailyAggregate joins one trading day's news sentiment with its price bar.
// Rows exist only for days present in both series (inner join).
type DailyAggregate struct {
	TradingDay    time.Time `json:"trading_day"`
	MeanSentiment float64   `json:"mean_sentiment"` // unweighted arithmetic mean
	DailyReturn   float64   `json:"daily_return"`   // (close - open) / open
	ArticleCount  int       `json:"article_count"`
}

// CorrelationResult is the Pearson correlation between mean sentiment and
// daily return across joined days. Defined is false when fewer than two rows
// exist or either series has zero variance; an undefined result is never
// coerced to 0 outside the presentation and decision boundaries.
type CorrelationResult struct {
	Coefficient float64 `json:"coefficient"`
	Defined     bool    `json:"defined"`
	SampleSize  int     `json:"sample_size"`
}

// OutlookLabel is the discrete investment signal, ordered from most to least
// constructive.
type OutlookLabel string

const (
	OutlookStrongBuy         OutlookLabel = "STRONG_BUY"
	OutlookBuy               OutlookLabel = "BUY"
	OutlookWeakUp            OutlookLabel = "WEAK_UP"   // sentiment-only upward lean
	OutlookHold              OutlookLabel = "HOLD"
	OutlookWeakDown          OutlookLabel = "WEAK_DOWN" // sentiment-only downward lean
	OutlookSellConsideration OutlookLabel = "SELL_CONSIDERATION"
)

// OutlookSignal is the decision procedure's output: a label plus the ordered
// human-readable justifications that produced it. Recomputed fresh on every
// request.
type OutlookSignal struct {
	Label     OutlookLabel `json:"label"`
	Rationale []string     `json:"rationale"` // sensitivity, sentiment, then valuation
	Upside    *float64     `json:"upside,omitempty"`
}

// AnalysisReport is the combined output of one pipeline run.
type AnalysisReport struct {
	Ticker        string            `json:"ticker"`
	Quote         *Quote            `json:"quote,omitempty"`
	Valuation     *ValuationSummary `json:"valuation,omitempty"`
	News          []AlignedNewsItem `json:"news"`
	Dropped       int               `json:"dropped_items"` // items with unparseable timestamps
	Aggregates    []DailyAggregate  `json:"aggregates"`
	Correlation   CorrelationResult `json:"correlation"`
	Outlook       OutlookSignal     `json:"outlook"`
	Narrative     string            `json:"narrative,omitempty"`
	NarrativeErr  string            `json:"narrative_error,omitempty"` // set when every generation attempt failed
	ServedByModel string            `json:"served_by_model,omitempty"`
	GeneratedAt   time.Time         `json:"generated_at"`
}
