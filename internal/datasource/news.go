package datasource

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"github.com/newslens/newslens/internal/analysis/align"
	"github.com/newslens/newslens/internal/analysis/sentiment"
	"github.com/newslens/newslens/pkg/models"
)

// DefaultNewsLimit caps the number of articles fetched per request.
const DefaultNewsLimit = 10

// GoogleNews implements NewsSource over the Google News RSS search feed.
// Each item is scored with the lexicon sentiment scorer before it leaves
// this package, so the analysis core only ever sees scored items.
type GoogleNews struct {
	feedURL string // format string taking the query
	cache   *Cache
	limiter *RateLimiter
	parser  *gofeed.Parser
}

// NewGoogleNews creates a Google News RSS source.
func NewGoogleNews() *GoogleNews {
	return &GoogleNews{
		feedURL: "https://news.google.com/rss/search?q=%s&hl=en-US&gl=US&ceid=US:en",
		cache:   NewCache(10 * time.Minute),
		limiter: NewRateLimiter(2, time.Second), // conservative: 2 req/s
		parser:  gofeed.NewParser(),
	}
}

// NewGoogleNewsWithFeedURL creates a source against a custom feed endpoint
// (tests). feedURL must contain one %s verb for the query.
func NewGoogleNewsWithFeedURL(feedURL string) *GoogleNews {
	n := NewGoogleNews()
	n.feedURL = feedURL
	return n
}

// Name returns the data source name.
func (n *GoogleNews) Name() string { return "Google News" }

// GetNews returns recent scored news items for a ticker, newest first.
// Items whose feed timestamp cannot be parsed keep a zero PublishedAt; the
// caller decides whether to drop them (the pipeline does, counting drops).
func (n *GoogleNews) GetNews(ctx context.Context, ticker string, limit int) ([]models.NewsItem, error) {
	if limit <= 0 {
		limit = DefaultNewsLimit
	}

	cacheKey := fmt.Sprintf("news:%s:%d", ticker, limit)
	if cached, ok := n.cache.Get(cacheKey); ok {
		return cached.([]models.NewsItem), nil
	}

	if err := n.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	query := url.QueryEscape(ticker + " stock")
	feed, err := n.parser.ParseURLWithContext(fmt.Sprintf(n.feedURL, query), ctx)
	if err != nil {
		return nil, fmt.Errorf("parse news feed for %s: %w", ticker, err)
	}

	items := make([]models.NewsItem, 0, len(feed.Items))
	for _, entry := range feed.Items {
		item := models.NewsItem{
			Title:   entry.Title,
			Summary: cleanHTML(entry.Description),
			URL:     entry.Link,
			Source:  feedSource(entry),
		}
		if entry.PublishedParsed != nil {
			item.PublishedAt = entry.PublishedParsed.UTC()
		} else if entry.Published != "" {
			// gofeed could not parse the stamp; one more pass through our
			// own layouts before the item is marked undated.
			if t, perr := align.ParseTimestamp(entry.Published); perr == nil {
				item.PublishedAt = t
			}
		}

		score, _ := sentiment.Score(item.Title + " " + item.Summary)
		item.SentimentScore = score
		item.SentimentLabel = models.LabelForScore(score)

		items = append(items, item)
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].PublishedAt.After(items[j].PublishedAt)
	})
	if len(items) > limit {
		items = items[:limit]
	}

	n.cache.Set(cacheKey, items)
	return items, nil
}

// cleanHTML strips HTML tags from a string using goquery.
func cleanHTML(s string) string {
	if s == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<body>" + s + "</body>"))
	if err != nil {
		return s
	}
	return strings.TrimSpace(doc.Text())
}

// feedSource extracts the publisher name Google News embeds in the item.
func feedSource(entry *gofeed.Item) string {
	if entry.Custom != nil {
		if src, ok := entry.Custom["source"]; ok {
			return src
		}
	}
	// Google News titles end with " - Publisher".
	if idx := strings.LastIndex(entry.Title, " - "); idx > 0 {
		return entry.Title[idx+3:]
	}
	return ""
}
