// Package correlation measures how per-day news sentiment co-moves with
// intraday price returns.
package correlation

import (
	"math"
	"sort"

	"github.com/newslens/newslens/pkg/models"
)

// Correlate groups aligned news by trading day, inner-joins the per-day mean
// sentiment against the price bars, and computes the Pearson correlation of
// mean sentiment vs. intraday return.
//
// Days without both a news aggregate and a price bar are dropped: the series
// is deliberately restricted to days with an observable market reaction. The
// daily return is (close - open) / open from the joined day's own bar, not a
// close-to-close return. Pure function; aggregates come back sorted by date
// so identical inputs yield identical outputs.
func Correlate(aligned []models.AlignedNewsItem, bars []models.PriceBar) ([]models.DailyAggregate, models.CorrelationResult) {
	type bucket struct {
		sum   float64
		count int
	}
	byDay := make(map[string]*bucket)
	for _, item := range aligned {
		key := models.DayKey(item.TradingDay)
		b, ok := byDay[key]
		if !ok {
			b = &bucket{}
			byDay[key] = b
		}
		b.sum += item.SentimentScore
		b.count++
	}

	aggregates := make([]models.DailyAggregate, 0, len(byDay))
	for _, bar := range bars {
		b, ok := byDay[models.DayKey(bar.Date)]
		if !ok {
			continue
		}
		aggregates = append(aggregates, models.DailyAggregate{
			TradingDay:    models.Day(bar.Date),
			MeanSentiment: b.sum / float64(b.count),
			DailyReturn:   bar.IntradayReturn(),
			ArticleCount:  b.count,
		})
	}
	sort.Slice(aggregates, func(i, j int) bool {
		return aggregates[i].TradingDay.Before(aggregates[j].TradingDay)
	})

	sentiments := make([]float64, len(aggregates))
	returns := make([]float64, len(aggregates))
	for i, agg := range aggregates {
		sentiments[i] = agg.MeanSentiment
		returns[i] = agg.DailyReturn
	}

	return aggregates, Pearson(sentiments, returns)
}

// Pearson computes the correlation coefficient of two equal-length series.
// The result is undefined (Defined=false) for fewer than two points or when
// either series is constant; the caller converts undefined to a displayable
// 0 only at the presentation or decision boundary.
func Pearson(xs, ys []float64) models.CorrelationResult {
	n := len(xs)
	if n != len(ys) || n < 2 {
		return models.CorrelationResult{SampleSize: n}
	}

	var meanX, meanY float64
	for i := 0; i < n; i++ {
		meanX += xs[i]
		meanY += ys[i]
	}
	meanX /= float64(n)
	meanY /= float64(n)

	var cov, varX, varY float64
	for i := 0; i < n; i++ {
		dx := xs[i] - meanX
		dy := ys[i] - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return models.CorrelationResult{SampleSize: n}
	}

	r := cov / math.Sqrt(varX*varY)
	// Guard rounding drift just outside [-1, 1].
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	return models.CorrelationResult{Coefficient: r, Defined: true, SampleSize: n}
}
