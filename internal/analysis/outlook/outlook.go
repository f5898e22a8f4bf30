// Package outlook derives a discrete investment signal from correlation,
// recent sentiment, and optional valuation upside. It is a deterministic
// decision tree; the thresholds are calibration constants, not tunables.
package outlook

import (
	"fmt"

	"github.com/newslens/newslens/pkg/models"
)

// Decision thresholds. Every comparison is a strict inequality: an upside of
// exactly 0.20 is BUY, not STRONG_BUY.
const (
	SensitivityThreshold = 0.3  // |correlation| above this is a reliable relationship
	BullishSentiment     = 0.15 // recent mean sentiment above this is bullish
	BearishSentiment     = -0.15
	StrongBuyUpside      = 0.20
	BuyUpside            = 0.05
	HoldUpside           = -0.10
)

// Decide combines the correlation result, the recent mean sentiment, and an
// optional analyst target price into an OutlookSignal. An undefined
// correlation is treated as "no reliable relationship" here — this is the
// decision boundary where undefined may collapse, never earlier. A nil
// targetPrice or non-positive currentPrice degrades to the sentiment/
// correlation-only rule; it never raises.
//
// The rationale list is ordered: sensitivity finding, sentiment finding,
// then the valuation finding when one was computed.
func Decide(corr models.CorrelationResult, recentMeanSentiment, currentPrice float64, targetPrice *float64) models.OutlookSignal {
	sensitive := corr.Defined && abs(corr.Coefficient) > SensitivityThreshold
	positive := corr.Coefficient > 0

	var rationale []string
	switch {
	case sensitive && positive:
		rationale = append(rationale, fmt.Sprintf(
			"Price is news-sensitive: sentiment and same-day returns move together (r=%.2f).", corr.Coefficient))
	case sensitive:
		rationale = append(rationale, fmt.Sprintf(
			"Price is news-sensitive but inverted: positive sentiment coincides with down days (r=%.2f).", corr.Coefficient))
	case corr.Defined:
		rationale = append(rationale, fmt.Sprintf(
			"No reliable sentiment/price relationship (r=%.2f).", corr.Coefficient))
	default:
		rationale = append(rationale,
			"No reliable sentiment/price relationship (not enough joined days).")
	}

	bullish := recentMeanSentiment > BullishSentiment
	bearish := recentMeanSentiment < BearishSentiment
	switch {
	case bullish:
		rationale = append(rationale, fmt.Sprintf(
			"Recent news flow is bullish (mean sentiment %.2f).", recentMeanSentiment))
	case bearish:
		rationale = append(rationale, fmt.Sprintf(
			"Recent news flow is bearish (mean sentiment %.2f).", recentMeanSentiment))
	default:
		rationale = append(rationale, fmt.Sprintf(
			"Recent news flow is neutral (mean sentiment %.2f).", recentMeanSentiment))
	}

	if targetPrice != nil && currentPrice > 0 && *targetPrice > 0 {
		upside := (*targetPrice - currentPrice) / currentPrice
		label := labelForUpside(upside)
		rationale = append(rationale, fmt.Sprintf(
			"Analyst target implies %+.1f%% vs. current price.", upside*100))
		return models.OutlookSignal{Label: label, Rationale: rationale, Upside: &upside}
	}

	// No usable valuation input: fall back to sentiment + correlation only.
	label := models.OutlookHold
	if sensitive && positive {
		if bullish {
			label = models.OutlookWeakUp
		} else if bearish {
			label = models.OutlookWeakDown
		}
	}
	return models.OutlookSignal{Label: label, Rationale: rationale}
}

func labelForUpside(upside float64) models.OutlookLabel {
	switch {
	case upside > StrongBuyUpside:
		return models.OutlookStrongBuy
	case upside > BuyUpside:
		return models.OutlookBuy
	case upside > HoldUpside:
		return models.OutlookHold
	default:
		return models.OutlookSellConsideration
	}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
