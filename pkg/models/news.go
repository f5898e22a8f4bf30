// Package models defines the core data structures used throughout NewsLens.
package models

import "time"

// SentimentLabel classifies the polarity of a single news item.
type SentimentLabel string

const (
	SentimentBullish SentimentLabel = "Bullish"
	SentimentBearish SentimentLabel = "Bearish"
	SentimentNeutral SentimentLabel = "Neutral"
)

// Sentiment label thresholds on the [-1, 1] polarity scale.
const (
	BullishThreshold = 0.1
	BearishThreshold = -0.1
)

// LabelForScore maps a polarity score to its sentiment label.
// Scores above +0.1 are Bullish, below -0.1 Bearish, Neutral otherwise.
func LabelForScore(score float64) SentimentLabel {
	switch {
	case score > BullishThreshold:
		return SentimentBullish
	case score < BearishThreshold:
		return SentimentBearish
	default:
		return SentimentNeutral
	}
}

// NewsItem is a single ingested news article with a pre-scored sentiment.
// Items are constructed once per article and never mutated.
type NewsItem struct {
	PublishedAt    time.Time      `json:"published_at"`
	Title          string         `json:"title"`
	Summary        string         `json:"summary,omitempty"`
	URL            string         `json:"url"`
	Source         string         `json:"source,omitempty"`
	SentimentScore float64        `json:"sentiment_score"` // -1.0 (very bearish) to +1.0 (very bullish)
	SentimentLabel SentimentLabel `json:"sentiment_label"`
}

// AlignedNewsItem is a NewsItem attributed to the trading session it is
// presumed to affect. TradingDay is a pure calendar date (midnight UTC)
// and is never earlier than the calendar date of PublishedAt.
type AlignedNewsItem struct {
	NewsItem
	TradingDay time.Time `json:"trading_day"`
}
