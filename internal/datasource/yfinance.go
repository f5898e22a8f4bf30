package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/newslens/newslens/pkg/models"
)

// YFinance implements PriceSource and ValuationSource against the public
// Yahoo Finance v7/v8/v10 JSON APIs.
type YFinance struct {
	baseURL string
	cache   *Cache
	limiter *RateLimiter
}

// NewYFinance creates a Yahoo Finance data source.
func NewYFinance() *YFinance {
	return &YFinance{
		baseURL: "https://query1.finance.yahoo.com",
		cache:   NewCache(5 * time.Minute),
		limiter: NewRateLimiter(5, time.Second), // 5 req/s
	}
}

// NewYFinanceWithBaseURL creates a source against a custom endpoint (tests).
func NewYFinanceWithBaseURL(baseURL string) *YFinance {
	y := NewYFinance()
	y.baseURL = strings.TrimRight(baseURL, "/")
	return y
}

// Name returns the data source name.
func (y *YFinance) Name() string { return "Yahoo Finance" }

// --- Yahoo Finance API types ---

type yfError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type yfQuoteResponse struct {
	QuoteResponse struct {
		Result []yfQuoteResult `json:"result"`
		Error  *yfError        `json:"error"`
	} `json:"quoteResponse"`
}

type yfQuoteResult struct {
	Symbol                     string  `json:"symbol"`
	ShortName                  string  `json:"shortName"`
	LongName                   string  `json:"longName"`
	RegularMarketPrice         float64 `json:"regularMarketPrice"`
	RegularMarketChangePercent float64 `json:"regularMarketChangePercent"`
	RegularMarketPreviousClose float64 `json:"regularMarketPreviousClose"`
	RegularMarketVolume        int64   `json:"regularMarketVolume"`
	FiftyTwoWeekHigh           float64 `json:"fiftyTwoWeekHigh"`
	RegularMarketTime          int64   `json:"regularMarketTime"`
}

type yfChartResponse struct {
	Chart struct {
		Result []yfChartResult `json:"result"`
		Error  *yfError        `json:"error"`
	} `json:"chart"`
}

type yfChartResult struct {
	Timestamp  []int64      `json:"timestamp"`
	Indicators yfIndicators `json:"indicators"`
}

type yfIndicators struct {
	Quote []yfOHLCV `json:"quote"`
}

type yfOHLCV struct {
	Open   []*float64 `json:"open"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
	Close  []*float64 `json:"close"`
	Volume []*int64   `json:"volume"`
}

type yfSummaryResponse struct {
	QuoteSummary struct {
		Result []yfSummaryResult `json:"result"`
		Error  *yfError          `json:"error"`
	} `json:"quoteSummary"`
}

type yfSummaryResult struct {
	FinancialData *struct {
		TargetMeanPrice   *yfRawVal `json:"targetMeanPrice"`
		RecommendationKey string    `json:"recommendationKey"`
	} `json:"financialData"`
	SummaryDetail *struct {
		TrailingPE *yfRawVal `json:"trailingPE"`
	} `json:"summaryDetail"`
	SummaryProfile *struct {
		LongBusinessSummary string `json:"longBusinessSummary"`
	} `json:"summaryProfile"`
}

type yfRawVal struct {
	Raw float64 `json:"raw"`
	Fmt string  `json:"fmt"`
}

// --- PriceSource ---

// GetQuote returns a near-real-time quote from the v7 quote API.
func (y *YFinance) GetQuote(ctx context.Context, ticker string) (*models.Quote, error) {
	cacheKey := "quote:" + ticker
	if cached, ok := y.cache.Get(cacheKey); ok {
		return cached.(*models.Quote), nil
	}

	if err := y.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/v7/finance/quote?symbols=%s", y.baseURL, ticker)
	var resp yfQuoteResponse
	if err := y.getJSON(ctx, url, &resp); err != nil {
		return nil, fmt.Errorf("yfinance quote %s: %w", ticker, err)
	}
	if resp.QuoteResponse.Error != nil {
		return nil, fmt.Errorf("yfinance API error: %s", resp.QuoteResponse.Error.Description)
	}
	if len(resp.QuoteResponse.Result) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrTickerNotFound, ticker)
	}

	r := resp.QuoteResponse.Result[0]
	quote := &models.Quote{
		Ticker:     r.Symbol,
		Name:       coalesce(r.LongName, r.ShortName),
		LastPrice:  r.RegularMarketPrice,
		PrevClose:  r.RegularMarketPreviousClose,
		ChangePct:  r.RegularMarketChangePercent,
		WeekHigh52: r.FiftyTwoWeekHigh,
		Volume:     r.RegularMarketVolume,
		Timestamp:  time.Unix(r.RegularMarketTime, 0).UTC(),
	}

	y.cache.Set(cacheKey, quote)
	return quote, nil
}

// GetDailyBars returns daily OHLCV bars from the v8 chart API. Bars are
// normalized to calendar dates at midnight UTC; sessions with missing OHLC
// values are skipped. An empty range yields an empty slice.
func (y *YFinance) GetDailyBars(ctx context.Context, ticker string, from, to time.Time) ([]models.PriceBar, error) {
	cacheKey := fmt.Sprintf("bars:%s:%d:%d", ticker, from.Unix(), to.Unix())
	if cached, ok := y.cache.Get(cacheKey); ok {
		return cached.([]models.PriceBar), nil
	}

	if err := y.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/v8/finance/chart/%s?period1=%d&period2=%d&interval=1d",
		y.baseURL, ticker, from.Unix(), to.Unix())
	var resp yfChartResponse
	if err := y.getJSON(ctx, url, &resp); err != nil {
		return nil, fmt.Errorf("yfinance chart %s: %w", ticker, err)
	}
	if resp.Chart.Error != nil {
		return nil, fmt.Errorf("yfinance chart error: %s", resp.Chart.Error.Description)
	}
	if len(resp.Chart.Result) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrTickerNotFound, ticker)
	}

	bars := parseYFBars(resp.Chart.Result[0])
	y.cache.SetWithTTL(cacheKey, bars, 15*time.Minute)
	return bars, nil
}

// ValidateTicker probes the chart API for a single recent bar, mirroring the
// cheap "does this ticker exist" check run before an analysis.
func (y *YFinance) ValidateTicker(ctx context.Context, ticker string) (bool, error) {
	to := time.Now()
	from := to.AddDate(0, 0, -7)
	bars, err := y.GetDailyBars(ctx, ticker, from, to)
	if err != nil {
		if strings.Contains(err.Error(), ErrTickerNotFound.Error()) {
			return false, nil
		}
		return false, err
	}
	return len(bars) > 0, nil
}

// --- ValuationSource ---

// GetValuation returns analyst fundamentals from the v10 quoteSummary API.
// Assets without street coverage come back with a nil TargetPrice; that is
// an expected state, not an error.
func (y *YFinance) GetValuation(ctx context.Context, ticker string) (*models.ValuationSummary, error) {
	cacheKey := "val:" + ticker
	if cached, ok := y.cache.Get(cacheKey); ok {
		return cached.(*models.ValuationSummary), nil
	}

	if err := y.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=financialData,summaryDetail,summaryProfile",
		y.baseURL, ticker)
	var resp yfSummaryResponse
	if err := y.getJSON(ctx, url, &resp); err != nil {
		return nil, fmt.Errorf("yfinance summary %s: %w", ticker, err)
	}
	if resp.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("yfinance API error: %s", resp.QuoteSummary.Error.Description)
	}
	if len(resp.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrTickerNotFound, ticker)
	}

	r := resp.QuoteSummary.Result[0]
	val := &models.ValuationSummary{Ticker: ticker}
	if r.FinancialData != nil {
		if tp := r.FinancialData.TargetMeanPrice; tp != nil && tp.Raw > 0 {
			price := tp.Raw
			val.TargetPrice = &price
		}
		val.Recommendation = strings.ToUpper(strings.ReplaceAll(r.FinancialData.RecommendationKey, "_", " "))
	}
	if r.SummaryDetail != nil && r.SummaryDetail.TrailingPE != nil {
		val.TrailingPE = r.SummaryDetail.TrailingPE.Raw
	}
	if r.SummaryProfile != nil {
		val.BusinessSummary = truncate(r.SummaryProfile.LongBusinessSummary, 300)
	}

	y.cache.SetWithTTL(cacheKey, val, time.Hour)
	return val, nil
}

// --- Helpers ---

func (y *YFinance) getJSON(ctx context.Context, url string, out any) error {
	body, _, err := doGet(ctx, url, map[string]string{"Accept": "application/json"})
	if err != nil {
		return err
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}

func parseYFBars(result yfChartResult) []models.PriceBar {
	if len(result.Indicators.Quote) == 0 {
		return []models.PriceBar{}
	}
	q := result.Indicators.Quote[0]

	bars := make([]models.PriceBar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(q.Open) || i >= len(q.High) || i >= len(q.Low) || i >= len(q.Close) {
			break
		}
		if q.Open[i] == nil || q.High[i] == nil || q.Low[i] == nil || q.Close[i] == nil {
			continue // non-trading session or data gap
		}
		bar := models.PriceBar{
			Date:  models.Day(time.Unix(ts, 0).UTC()),
			Open:  *q.Open[i],
			High:  *q.High[i],
			Low:   *q.Low[i],
			Close: *q.Close[i],
		}
		if i < len(q.Volume) && q.Volume[i] != nil {
			bar.Volume = *q.Volume[i]
		}
		bars = append(bars, bar)
	}
	return bars
}

func coalesce(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
