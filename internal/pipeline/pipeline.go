// Package pipeline orchestrates one full analysis run: fetch quote, bars,
// news, and valuation concurrently, then align, correlate, decide, and
// finally ask the generation cascade for a narrative. Everything except the
// ticker itself is optional: a missing valuation or a dead LLM backend
// degrades the report, it never fails the run.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/newslens/newslens/internal/analysis/align"
	"github.com/newslens/newslens/internal/analysis/correlation"
	"github.com/newslens/newslens/internal/analysis/outlook"
	"github.com/newslens/newslens/internal/datasource"
	"github.com/newslens/newslens/internal/llm"
	"github.com/newslens/newslens/internal/report"
	"github.com/newslens/newslens/pkg/models"
	"github.com/newslens/newslens/pkg/utils"
)

// Options tunes a single analysis run.
type Options struct {
	LookbackDays  int  // price history window; <= 0 uses DefaultLookbackDays
	NewsLimit     int  // max articles; <= 0 uses the source default
	SkipNarrative bool // compute everything except the generated narrative
}

// DefaultLookbackDays is the default price history window.
const DefaultLookbackDays = 30

// ProgressFunc receives coarse stage updates during a run. Used by the
// websocket layer to stream progress; nil is fine.
type ProgressFunc func(stage, detail string)

// Analyzer wires the data sources, the alignment rule, and the generation
// cascade into a reusable pipeline. Safe for concurrent use as long as the
// sources are.
type Analyzer struct {
	Prices    datasource.PriceSource
	News      datasource.NewsSource
	Valuation datasource.ValuationSource
	Aligner   align.Aligner
	Cascade   *llm.Cascade // nil disables narrative generation
}

// New creates an Analyzer with the given collaborators. Cascade may be nil
// when no generation credentials are configured.
func New(prices datasource.PriceSource, news datasource.NewsSource, valuation datasource.ValuationSource, aligner align.Aligner, cascade *llm.Cascade) *Analyzer {
	return &Analyzer{
		Prices:    prices,
		News:      news,
		Valuation: valuation,
		Aligner:   aligner,
		Cascade:   cascade,
	}
}

// Analyze runs the full pipeline for one ticker. The ticker is normalized
// and validated before any heavy fetching. onProgress may be nil.
func (a *Analyzer) Analyze(ctx context.Context, ticker string, opts Options, onProgress ProgressFunc) (*models.AnalysisReport, error) {
	ticker = utils.NormalizeTicker(ticker)
	if ticker == "" {
		return nil, fmt.Errorf("empty ticker")
	}
	progress := onProgress
	if progress == nil {
		progress = func(string, string) {}
	}

	lookback := opts.LookbackDays
	if lookback <= 0 {
		lookback = DefaultLookbackDays
	}

	progress("validate", ticker)
	ok, err := a.Prices.ValidateTicker(ctx, ticker)
	if err != nil {
		return nil, fmt.Errorf("validate %s: %w", ticker, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", datasource.ErrTickerNotFound, ticker)
	}

	// Fan out the independent fetches. Quote, bars, and news are required;
	// valuation is best-effort.
	var (
		quote *models.Quote
		bars  []models.PriceBar
		items []models.NewsItem
		val   *models.ValuationSummary
	)

	progress("fetch", "quote, price history, news")
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		q, err := a.Prices.GetQuote(gctx, ticker)
		if err != nil {
			return fmt.Errorf("quote: %w", err)
		}
		quote = q
		return nil
	})
	g.Go(func() error {
		to := time.Now()
		from := to.AddDate(0, 0, -lookback)
		b, err := a.Prices.GetDailyBars(gctx, ticker, from, to)
		if err != nil {
			return fmt.Errorf("price history: %w", err)
		}
		bars = b
		return nil
	})
	g.Go(func() error {
		n, err := a.News.GetNews(gctx, ticker, opts.NewsLimit)
		if err != nil {
			return fmt.Errorf("news: %w", err)
		}
		items = n
		return nil
	})
	g.Go(func() error {
		if a.Valuation == nil {
			return nil
		}
		v, err := a.Valuation.GetValuation(gctx, ticker)
		if err != nil {
			// Valuation is enrichment, not a requirement.
			log.Printf("pipeline: valuation for %s unavailable: %v", ticker, err)
			return nil
		}
		val = v
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	progress("analyze", fmt.Sprintf("%d articles, %d sessions", len(items), len(bars)))
	aligned, dropped := a.Aligner.AlignAll(items)
	aggregates, corr := correlation.Correlate(aligned, bars)

	var targetPrice *float64
	currentPrice := 0.0
	if quote != nil {
		currentPrice = quote.LastPrice
	}
	if val != nil {
		targetPrice = val.TargetPrice
	}
	signal := outlook.Decide(corr, meanSentiment(aligned), currentPrice, targetPrice)

	rep := &models.AnalysisReport{
		Ticker:      ticker,
		Quote:       quote,
		Valuation:   val,
		News:        aligned,
		Dropped:     dropped,
		Aggregates:  aggregates,
		Correlation: corr,
		Outlook:     signal,
		GeneratedAt: time.Now().UTC(),
	}

	if opts.SkipNarrative || a.Cascade == nil {
		return rep, nil
	}

	progress("narrate", fmt.Sprintf("%d generation attempts available", a.Cascade.Size()))
	prompt := report.BuildAnalystPrompt(rep)
	result, err := a.Cascade.Generate(ctx, prompt, func(att llm.GenerationAttempt) {
		progress("narrate", fmt.Sprintf("key[%d]/%s", att.CredentialIndex, att.Model))
	})
	if err != nil {
		// The quantitative report stands on its own; record the failure and
		// move on.
		rep.NarrativeErr = err.Error()
		log.Printf("pipeline: narrative for %s failed: %v", ticker, err)
		return rep, nil
	}
	rep.Narrative = result.Text
	rep.ServedByModel = result.Model
	return rep, nil
}

// meanSentiment is the unweighted mean score across all aligned items; zero
// when there are none.
func meanSentiment(items []models.AlignedNewsItem) float64 {
	if len(items) == 0 {
		return 0
	}
	sum := 0.0
	for _, it := range items {
		sum += it.SentimentScore
	}
	return sum / float64(len(items))
}
