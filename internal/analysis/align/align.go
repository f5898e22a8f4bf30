// Package align maps news timestamps to the trading session they are
// presumed to affect. An item published at or after the market close is
// attributed to the next session; everything earlier belongs to the same
// calendar day.
package align

import (
	"errors"
	"fmt"
	"time"

	"github.com/newslens/newslens/pkg/models"
)

// ErrInvalidTimestamp is returned when a news timestamp cannot be parsed.
// Callers decide whether to drop the item; the batch is never aborted.
var ErrInvalidTimestamp = errors.New("align: invalid timestamp")

// DefaultCloseHour is the regular-session close for US equities (16:00 local).
const DefaultCloseHour = 16

// Aligner attributes timestamps to trading days for one market. The market
// timezone and close hour are explicit configuration, not hidden constants,
// so other markets and session hours are testable.
type Aligner struct {
	Location  *time.Location
	CloseHour int // local hour-of-day; 16 means 16:00:00
}

// New creates an Aligner for the given market timezone and close hour.
func New(loc *time.Location, closeHour int) Aligner {
	if loc == nil {
		loc = time.UTC
	}
	if closeHour <= 0 || closeHour > 23 {
		closeHour = DefaultCloseHour
	}
	return Aligner{Location: loc, CloseHour: closeHour}
}

// Align maps a publication timestamp to its trading day, returned as a pure
// calendar date (midnight UTC). The timestamp is converted to the market
// timezone first; timestamps parsed without zone information must already be
// in UTC — ParseTimestamp guarantees this, and callers constructing times
// directly are expected to do the same. A local time at or after
// CloseHour:00:00 counts as after close and attributes to the next calendar
// day.
func (a Aligner) Align(t time.Time) time.Time {
	local := t.In(a.Location)
	y, m, d := local.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	if local.Hour() >= a.CloseHour {
		day = day.AddDate(0, 0, 1)
	}
	return day
}

// AlignItem attributes one news item to its trading day.
func (a Aligner) AlignItem(item models.NewsItem) models.AlignedNewsItem {
	return models.AlignedNewsItem{
		NewsItem:   item,
		TradingDay: a.Align(item.PublishedAt),
	}
}

// AlignAll aligns a batch of news items, skipping items whose PublishedAt is
// the zero time (the marker for an unparseable source timestamp). It returns
// the aligned items and the number dropped.
func (a Aligner) AlignAll(items []models.NewsItem) ([]models.AlignedNewsItem, int) {
	aligned := make([]models.AlignedNewsItem, 0, len(items))
	dropped := 0
	for _, item := range items {
		if item.PublishedAt.IsZero() {
			dropped++
			continue
		}
		aligned = append(aligned, a.AlignItem(item))
	}
	return aligned, dropped
}

// timestampLayouts are the wire formats news feeds actually emit. Layouts
// without a zone designator are interpreted as UTC — a documented,
// load-bearing assumption, not a per-input guess.
var timestampLayouts = []struct {
	layout string
	naive  bool
}{
	{time.RFC3339, false},
	{time.RFC1123Z, false},
	{time.RFC1123, false},
	{time.RFC822Z, false},
	{time.RFC822, false},
	{"2006-01-02T15:04:05", true},
	{"2006-01-02 15:04:05", true},
	{"2006-01-02", true},
}

// ParseTimestamp parses a raw feed timestamp. Naive values (no timezone
// designator) are interpreted as UTC. Unparseable input fails with
// ErrInvalidTimestamp rather than defaulting silently.
func ParseTimestamp(raw string) (time.Time, error) {
	for _, l := range timestampLayouts {
		var t time.Time
		var err error
		if l.naive {
			t, err = time.ParseInLocation(l.layout, raw, time.UTC)
		} else {
			t, err = time.Parse(l.layout, raw)
		}
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, raw)
}
