// Package sentiment scores headline polarity with a keyword lexicon.
// Scoring is a collaborator concern, not part of the alignment/correlation
// contracts: any scorer producing values in [-1, 1] can replace this one.
package sentiment

import (
	"math"
	"strings"
)

// bullish / bearish keyword dictionaries (lowercase).
var bullishWords = map[string]float64{
	"bullish": 0.7, "rally": 0.6, "surge": 0.7, "soar": 0.7, "upbeat": 0.5,
	"positive": 0.4, "growth": 0.4, "upgrade": 0.6, "outperform": 0.6,
	"buy": 0.5, "strong": 0.4, "recovery": 0.5, "breakout": 0.6,
	"record high": 0.7, "all-time high": 0.7, "beat": 0.5, "beats": 0.5,
	"exceeds": 0.5, "expansion": 0.4, "profit": 0.3, "dividend": 0.4,
	"jumps": 0.6, "gains": 0.4, "momentum": 0.3, "optimism": 0.5,
}

var bearishWords = map[string]float64{
	"bearish": 0.7, "crash": 0.8, "plunge": 0.7, "slump": 0.6, "tumble": 0.6,
	"negative": 0.4, "downgrade": 0.6, "underperform": 0.6,
	"sell": 0.5, "weak": 0.4, "decline": 0.5, "loss": 0.4, "losses": 0.4,
	"selloff": 0.7, "fall": 0.4, "falls": 0.4, "correction": 0.5,
	"default": 0.7, "fraud": 0.8, "lawsuit": 0.5, "investigation": 0.5,
	"cut": 0.3, "miss": 0.5, "misses": 0.5, "warning": 0.5, "concern": 0.3,
	"recall": 0.5, "layoff": 0.6, "bankruptcy": 0.8,
}

// Score returns the polarity of a piece of text in [-1, 1] along with a
// confidence estimate based on keyword coverage. Text with no signal scores
// 0 at low confidence.
func Score(text string) (score float64, confidence float64) {
	lower := strings.ToLower(text)

	bullScore := 0.0
	bearScore := 0.0
	matches := 0

	for word, weight := range bullishWords {
		if strings.Contains(lower, word) {
			bullScore += weight
			matches++
		}
	}
	for word, weight := range bearishWords {
		if strings.Contains(lower, word) {
			bearScore += weight
			matches++
		}
	}

	if matches == 0 {
		return 0, 0.1
	}
	total := bullScore + bearScore
	if total == 0 {
		return 0, 0.1
	}

	score = (bullScore - bearScore) / total
	confidence = math.Min(float64(matches)*0.15+0.2, 0.85)
	return score, confidence
}
