// Package report renders an AnalysisReport for humans: the analyst prompt
// handed to the generation cascade, and a plain-text rendering for the CLI.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/newslens/newslens/pkg/models"
)

// FormatCorrelation renders a correlation coefficient for display. An
// undefined correlation collapses to "0.00" here and only here; the
// structured result keeps its Defined flag.
func FormatCorrelation(c models.CorrelationResult) string {
	if !c.Defined {
		return "0.00"
	}
	return fmt.Sprintf("%.2f", c.Coefficient)
}

// BuildAnalystPrompt assembles the instruction handed to the text generator.
// It packs the quote, the valuation figures, the correlation finding, and
// the scored headlines into a single self-contained briefing; the generator
// sees no raw data beyond what is written here.
func BuildAnalystPrompt(rep *models.AnalysisReport) string {
	var sb strings.Builder

	sb.WriteString("You are a financial analyst. Based on the data below, write a concise ")
	sb.WriteString("markdown report covering: the market mood and what the news flow says, ")
	sb.WriteString("a fundamental diagnosis from the valuation figures, and a final ")
	sb.WriteString("[Buy/Sell/Hold] verdict with a 3-line justification. ")
	sb.WriteString("Be specific, cite the numbers given, and do not invent figures.\n\n")

	sb.WriteString(fmt.Sprintf("Ticker: %s\n", rep.Ticker))
	if q := rep.Quote; q != nil {
		if q.Name != "" {
			sb.WriteString(fmt.Sprintf("Company: %s\n", q.Name))
		}
		sb.WriteString(fmt.Sprintf("Last price: %.2f (%+.2f%% on the day)\n", q.LastPrice, q.ChangePct))
		if q.WeekHigh52 > 0 {
			sb.WriteString(fmt.Sprintf("52-week high: %.2f\n", q.WeekHigh52))
		}
	}

	if v := rep.Valuation; v != nil {
		if v.TargetPrice != nil {
			sb.WriteString(fmt.Sprintf("Analyst mean target price: %.2f\n", *v.TargetPrice))
		}
		if v.TrailingPE > 0 {
			sb.WriteString(fmt.Sprintf("Trailing P/E: %.2f\n", v.TrailingPE))
		}
		if v.Recommendation != "" {
			sb.WriteString(fmt.Sprintf("Street recommendation: %s\n", v.Recommendation))
		}
		if v.BusinessSummary != "" {
			sb.WriteString(fmt.Sprintf("Business: %s\n", v.BusinessSummary))
		}
	}

	sb.WriteString(fmt.Sprintf("\nSentiment/return correlation: %s over %d joined trading days.\n",
		FormatCorrelation(rep.Correlation), rep.Correlation.SampleSize))
	sb.WriteString(fmt.Sprintf("Model outlook: %s\n", rep.Outlook.Label))
	for _, r := range rep.Outlook.Rationale {
		sb.WriteString("- " + r + "\n")
	}

	if len(rep.News) > 0 {
		sb.WriteString("\nRecent headlines (sentiment score in [-1, 1]):\n")
		for _, item := range rep.News {
			sb.WriteString(fmt.Sprintf("- [%s %.2f] %s", item.SentimentLabel, item.SentimentScore, item.Title))
			if item.Source != "" {
				sb.WriteString(" (" + item.Source + ")")
			}
			sb.WriteString("\n")
		}
	} else {
		sb.WriteString("\nNo recent news found for this ticker.\n")
	}

	return sb.String()
}

// RenderText renders the report for the terminal.
func RenderText(rep *models.AnalysisReport) string {
	var sb strings.Builder
	line := strings.Repeat("═", 60)
	thinLine := strings.Repeat("─", 60)

	sb.WriteString("\n" + line + "\n")
	title := rep.Ticker
	if rep.Quote != nil && rep.Quote.Name != "" {
		title = fmt.Sprintf("%s (%s)", rep.Quote.Name, rep.Ticker)
	}
	sb.WriteString(fmt.Sprintf("  %s — News Sentiment Analysis\n", title))
	sb.WriteString(fmt.Sprintf("  Generated: %s\n", rep.GeneratedAt.Format("02 Jan 2006, 15:04 MST")))
	sb.WriteString(line + "\n")

	if q := rep.Quote; q != nil {
		sb.WriteString(fmt.Sprintf("  Price: %.2f (%+.2f%%) | 52W High: %.2f | Volume: %d\n",
			q.LastPrice, q.ChangePct, q.WeekHigh52, q.Volume))
		sb.WriteString(thinLine + "\n")
	}

	// Outlook
	sb.WriteString(fmt.Sprintf("\n  ★ OUTLOOK: %s\n", rep.Outlook.Label))
	if rep.Outlook.Upside != nil {
		sb.WriteString(fmt.Sprintf("  Implied upside vs. target: %+.1f%%\n", *rep.Outlook.Upside*100))
	}
	for _, r := range rep.Outlook.Rationale {
		sb.WriteString("    • " + r + "\n")
	}
	sb.WriteString(thinLine + "\n")

	// Correlation table
	sb.WriteString(fmt.Sprintf("\n  ■ SENTIMENT vs. DAILY RETURN (r=%s, n=%d)\n",
		FormatCorrelation(rep.Correlation), rep.Correlation.SampleSize))
	if len(rep.Aggregates) > 0 {
		sb.WriteString(fmt.Sprintf("    %-12s %10s %10s %9s\n", "Day", "Sentiment", "Return", "Articles"))
		for _, agg := range rep.Aggregates {
			sb.WriteString(fmt.Sprintf("    %-12s %10.3f %9.2f%% %9d\n",
				agg.TradingDay.Format("2006-01-02"), agg.MeanSentiment, agg.DailyReturn*100, agg.ArticleCount))
		}
	} else {
		sb.WriteString("    No trading days with both news and price data.\n")
	}
	if rep.Dropped > 0 {
		sb.WriteString(fmt.Sprintf("    (%d item(s) dropped: unparseable timestamps)\n", rep.Dropped))
	}
	sb.WriteString(thinLine + "\n")

	// Headlines
	if len(rep.News) > 0 {
		sb.WriteString("\n  ■ HEADLINES\n")
		for _, item := range rep.News {
			sb.WriteString(fmt.Sprintf("    [%-7s %+.2f] %s\n", item.SentimentLabel, item.SentimentScore, item.Title))
			meta := item.PublishedAt.Format("02 Jan 15:04")
			if item.Source != "" {
				meta += " · " + item.Source
			}
			sb.WriteString("             " + meta + "\n")
		}
		sb.WriteString(thinLine + "\n")
	}

	// Valuation
	if v := rep.Valuation; v != nil {
		sb.WriteString("\n  ■ VALUATION\n")
		if v.TargetPrice != nil {
			sb.WriteString(fmt.Sprintf("    %-22s %.2f\n", "Mean target price", *v.TargetPrice))
		}
		if v.TrailingPE > 0 {
			sb.WriteString(fmt.Sprintf("    %-22s %.2f\n", "Trailing P/E", v.TrailingPE))
		}
		if v.Recommendation != "" {
			sb.WriteString(fmt.Sprintf("    %-22s %s\n", "Street view", v.Recommendation))
		}
		sb.WriteString(thinLine + "\n")
	}

	// Narrative
	if rep.Narrative != "" {
		sb.WriteString("\n  ■ ANALYST NARRATIVE")
		if rep.ServedByModel != "" {
			sb.WriteString(" (" + rep.ServedByModel + ")")
		}
		sb.WriteString("\n")
		for _, ln := range strings.Split(strings.TrimSpace(rep.Narrative), "\n") {
			sb.WriteString("  " + ln + "\n")
		}
		sb.WriteString(thinLine + "\n")
	} else if rep.NarrativeErr != "" {
		sb.WriteString("\n  ■ ANALYST NARRATIVE\n")
		sb.WriteString("    Unavailable: " + rep.NarrativeErr + "\n")
		sb.WriteString(thinLine + "\n")
	}

	sb.WriteString("\n" + line + "\n")
	sb.WriteString("  Disclaimer: Generated for educational purposes. Not financial advice.\n")
	sb.WriteString(line + "\n")

	return sb.String()
}

// FormatDuration formats a duration for display.
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%.1fm", d.Minutes())
	}
	return fmt.Sprintf("%.1fh", d.Hours())
}
