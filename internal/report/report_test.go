package report

import (
	"strings"
	"testing"
	"time"

	"github.com/newslens/newslens/pkg/models"
)

func sampleReport() *models.AnalysisReport {
	target := 250.0
	upside := 0.084
	day := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	return &models.AnalysisReport{
		Ticker: "AAPL",
		Quote: &models.Quote{
			Ticker:     "AAPL",
			Name:       "Apple Inc.",
			LastPrice:  230.5,
			ChangePct:  1.25,
			WeekHigh52: 260.1,
			Volume:     48000000,
		},
		Valuation: &models.ValuationSummary{
			Ticker:          "AAPL",
			TargetPrice:     &target,
			TrailingPE:      35.2,
			Recommendation:  "BUY",
			BusinessSummary: "Apple Inc. designs smartphones.",
		},
		News: []models.AlignedNewsItem{
			{
				NewsItem: models.NewsItem{
					Title:          "Apple shares surge after earnings beat",
					Source:         "Reuters",
					PublishedAt:    day.Add(14 * time.Hour),
					SentimentScore: 0.62,
					SentimentLabel: models.SentimentBullish,
				},
				TradingDay: day,
			},
		},
		Aggregates: []models.DailyAggregate{
			{TradingDay: day, MeanSentiment: 0.62, DailyReturn: 0.015, ArticleCount: 1},
		},
		Correlation: models.CorrelationResult{Coefficient: 0.42, Defined: true, SampleSize: 8},
		Outlook: models.OutlookSignal{
			Label: models.OutlookBuy,
			Rationale: []string{
				"Price is news-sensitive: sentiment and same-day returns move together (r=0.42).",
				"Recent news flow is bullish (mean sentiment 0.62).",
				"Analyst target implies +8.4% vs. current price.",
			},
			Upside: &upside,
		},
		GeneratedAt: time.Date(2025, 6, 3, 12, 0, 0, 0, time.UTC),
	}
}

func TestFormatCorrelation(t *testing.T) {
	if got := FormatCorrelation(models.CorrelationResult{Coefficient: 0.426, Defined: true}); got != "0.43" {
		t.Errorf("defined = %q", got)
	}
	// Undefined collapses to a displayable zero only here.
	if got := FormatCorrelation(models.CorrelationResult{Coefficient: 0.9}); got != "0.00" {
		t.Errorf("undefined = %q", got)
	}
}

func TestBuildAnalystPrompt(t *testing.T) {
	prompt := BuildAnalystPrompt(sampleReport())

	for _, want := range []string{
		"AAPL",
		"Apple Inc.",
		"230.50",
		"250.00",
		"35.20",
		"0.42",
		"BUY",
		"Apple shares surge after earnings beat",
		"Bullish",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildAnalystPromptNoNews(t *testing.T) {
	rep := sampleReport()
	rep.News = nil
	prompt := BuildAnalystPrompt(rep)
	if !strings.Contains(prompt, "No recent news") {
		t.Error("prompt should flag the empty news set")
	}
}

func TestRenderText(t *testing.T) {
	rep := sampleReport()
	rep.Narrative = "A fine quarter for Apple."
	rep.ServedByModel = "gemini-2.0-flash"

	out := RenderText(rep)
	for _, want := range []string{
		"Apple Inc. (AAPL)",
		"OUTLOOK: BUY",
		"r=0.42",
		"2025-06-02",
		"A fine quarter for Apple.",
		"gemini-2.0-flash",
		"Not financial advice",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("rendering missing %q", want)
		}
	}
}

func TestRenderTextNarrativeFailure(t *testing.T) {
	rep := sampleReport()
	rep.NarrativeErr = "llm: all gemini attempts exhausted (4): key[0]/a, key[0]/b, key[1]/a, key[1]/b"

	out := RenderText(rep)
	if !strings.Contains(out, "Unavailable") {
		t.Error("failed narrative should render as unavailable, not vanish")
	}
}

func TestRenderTextDroppedItems(t *testing.T) {
	rep := sampleReport()
	rep.Dropped = 2
	out := RenderText(rep)
	if !strings.Contains(out, "2 item(s) dropped") {
		t.Error("dropped count should be surfaced")
	}
}

func TestFormatDuration(t *testing.T) {
	if got := FormatDuration(1500 * time.Millisecond); got != "1.5s" {
		t.Errorf("seconds = %q", got)
	}
	if got := FormatDuration(90 * time.Second); got != "1.5m" {
		t.Errorf("minutes = %q", got)
	}
	if got := FormatDuration(90 * time.Minute); got != "1.5h" {
		t.Errorf("hours = %q", got)
	}
}
