package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/newslens/newslens/internal/analysis/align"
	"github.com/newslens/newslens/internal/datasource"
	"github.com/newslens/newslens/internal/llm"
	"github.com/newslens/newslens/pkg/models"
)

// --- Fakes ---

type fakePrices struct {
	quote *models.Quote
	bars  []models.PriceBar
	valid bool
}

func (f *fakePrices) Name() string { return "fake prices" }

func (f *fakePrices) GetQuote(context.Context, string) (*models.Quote, error) {
	return f.quote, nil
}

func (f *fakePrices) GetDailyBars(context.Context, string, time.Time, time.Time) ([]models.PriceBar, error) {
	return f.bars, nil
}

func (f *fakePrices) ValidateTicker(context.Context, string) (bool, error) {
	return f.valid, nil
}

type fakeNews struct {
	items []models.NewsItem
	err   error
}

func (f *fakeNews) Name() string { return "fake news" }

func (f *fakeNews) GetNews(context.Context, string, int) ([]models.NewsItem, error) {
	return f.items, f.err
}

type fakeValuation struct {
	val *models.ValuationSummary
	err error
}

func (f *fakeValuation) Name() string { return "fake valuation" }

func (f *fakeValuation) GetValuation(context.Context, string) (*models.ValuationSummary, error) {
	return f.val, f.err
}

type stubGenerator struct {
	text string
	err  error
}

func (g *stubGenerator) Name() string { return "stub" }

func (g *stubGenerator) Generate(context.Context, string, string, string) (string, error) {
	return g.text, g.err
}

// --- Fixture ---

func utcDay(d int) time.Time {
	return time.Date(2025, 6, d, 0, 0, 0, 0, time.UTC)
}

func fixture() (*fakePrices, *fakeNews, *fakeValuation) {
	target := 120.0
	prices := &fakePrices{
		valid: true,
		quote: &models.Quote{Ticker: "TEST", Name: "Test Corp", LastPrice: 100},
		bars: []models.PriceBar{
			{Date: utcDay(2), Open: 100, Close: 102},
			{Date: utcDay(3), Open: 102, Close: 101},
			{Date: utcDay(4), Open: 101, Close: 104},
		},
	}
	news := &fakeNews{items: []models.NewsItem{
		{Title: "surge", PublishedAt: utcDay(2).Add(10 * time.Hour), SentimentScore: 0.7, SentimentLabel: models.SentimentBullish},
		{Title: "slump", PublishedAt: utcDay(3).Add(10 * time.Hour), SentimentScore: -0.4, SentimentLabel: models.SentimentBearish},
		{Title: "rally", PublishedAt: utcDay(4).Add(10 * time.Hour), SentimentScore: 0.9, SentimentLabel: models.SentimentBullish},
		{Title: "undated"}, // dropped
	}}
	valuation := &fakeValuation{val: &models.ValuationSummary{Ticker: "TEST", TargetPrice: &target}}
	return prices, news, valuation
}

func newTestAnalyzer(prices *fakePrices, news *fakeNews, val *fakeValuation, gen llm.TextGenerator) *Analyzer {
	var cascade *llm.Cascade
	if gen != nil {
		cascade, _ = llm.NewCascade(gen, []string{"k"}, []string{"m"})
	}
	return New(prices, news, val, align.New(time.UTC, 16), cascade)
}

// --- Tests ---

func TestAnalyzeEndToEnd(t *testing.T) {
	prices, news, val := fixture()
	a := newTestAnalyzer(prices, news, val, &stubGenerator{text: "narrative text"})

	rep, err := a.Analyze(context.Background(), "test", Options{}, nil)
	if err != nil {
		t.Fatal(err)
	}

	if rep.Ticker != "TEST" {
		t.Errorf("ticker = %s (should be normalized)", rep.Ticker)
	}
	if rep.Dropped != 1 {
		t.Errorf("dropped = %d, want 1", rep.Dropped)
	}
	if len(rep.Aggregates) != 3 {
		t.Errorf("aggregates = %d, want 3", len(rep.Aggregates))
	}
	if !rep.Correlation.Defined {
		t.Error("correlation should be defined for three varied days")
	}
	if rep.Outlook.Label == "" {
		t.Error("outlook missing")
	}
	if rep.Outlook.Upside == nil {
		t.Error("valuation upside missing")
	}
	if rep.Narrative != "narrative text" {
		t.Errorf("narrative = %q", rep.Narrative)
	}
	if rep.ServedByModel != "m" {
		t.Errorf("served by = %q", rep.ServedByModel)
	}
}

func TestAnalyzeUnknownTicker(t *testing.T) {
	prices, news, val := fixture()
	prices.valid = false
	a := newTestAnalyzer(prices, news, val, nil)

	_, err := a.Analyze(context.Background(), "NOSUCH", Options{}, nil)
	if !errors.Is(err, datasource.ErrTickerNotFound) {
		t.Errorf("error = %v, want ErrTickerNotFound", err)
	}
}

func TestAnalyzeNarrativeFailureIsNonFatal(t *testing.T) {
	prices, news, val := fixture()
	a := newTestAnalyzer(prices, news, val, &stubGenerator{err: fmt.Errorf("backend down")})

	rep, err := a.Analyze(context.Background(), "TEST", Options{}, nil)
	if err != nil {
		t.Fatalf("cascade exhaustion must not fail the run: %v", err)
	}
	if rep.Narrative != "" {
		t.Error("narrative should be empty after exhaustion")
	}
	if !strings.Contains(rep.NarrativeErr, "exhausted") {
		t.Errorf("narrative error = %q", rep.NarrativeErr)
	}
	// The quantitative core is intact.
	if len(rep.Aggregates) == 0 || rep.Outlook.Label == "" {
		t.Error("quantitative report should survive generation failure")
	}
}

func TestAnalyzeSkipNarrative(t *testing.T) {
	prices, news, val := fixture()
	gen := &stubGenerator{text: "should not run"}
	a := newTestAnalyzer(prices, news, val, gen)

	rep, err := a.Analyze(context.Background(), "TEST", Options{SkipNarrative: true}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if rep.Narrative != "" {
		t.Error("narrative generated despite SkipNarrative")
	}
}

func TestAnalyzeNewsFailureFailsRun(t *testing.T) {
	prices, news, val := fixture()
	news.err = fmt.Errorf("feed unreachable")
	a := newTestAnalyzer(prices, news, val, nil)

	if _, err := a.Analyze(context.Background(), "TEST", Options{}, nil); err == nil {
		t.Fatal("news failure should fail the run")
	}
}

func TestAnalyzeValuationFailureDegrades(t *testing.T) {
	prices, news, val := fixture()
	val.err = fmt.Errorf("summary unavailable")
	val.val = nil
	a := newTestAnalyzer(prices, news, val, nil)

	rep, err := a.Analyze(context.Background(), "TEST", Options{}, nil)
	if err != nil {
		t.Fatalf("valuation failure should degrade, not fail: %v", err)
	}
	if rep.Valuation != nil {
		t.Error("valuation should be nil")
	}
	if rep.Outlook.Upside != nil {
		t.Error("upside should be absent without a target")
	}
}

func TestAnalyzeProgressStages(t *testing.T) {
	prices, news, val := fixture()
	a := newTestAnalyzer(prices, news, val, &stubGenerator{text: "n"})

	var stages []string
	_, err := a.Analyze(context.Background(), "TEST", Options{}, func(stage, _ string) {
		stages = append(stages, stage)
	})
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"validate", "fetch", "analyze", "narrate"}
	seen := map[string]bool{}
	for _, s := range stages {
		seen[s] = true
	}
	for _, w := range want {
		if !seen[w] {
			t.Errorf("stage %q never reported (got %v)", w, stages)
		}
	}
}

func TestAnalyzeEmptyTicker(t *testing.T) {
	prices, news, val := fixture()
	a := newTestAnalyzer(prices, news, val, nil)
	if _, err := a.Analyze(context.Background(), "  ", Options{}, nil); err == nil {
		t.Fatal("blank ticker should fail")
	}
}
