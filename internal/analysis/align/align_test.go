package align

import (
	"errors"
	"testing"
	"time"

	"github.com/newslens/newslens/pkg/models"
)

func mustLoc(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Fatalf("LoadLocation(%s): %v", name, err)
	}
	return loc
}

func TestAlignBeforeClose(t *testing.T) {
	ny := mustLoc(t, "America/New_York")
	a := New(ny, 16)

	// 15:59 local is still the same session.
	ts := time.Date(2025, 3, 10, 15, 59, 59, 0, ny)
	got := a.Align(ts)
	want := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Align(15:59:59) = %v, want %v", got, want)
	}
}

func TestAlignAtCloseRollsForward(t *testing.T) {
	ny := mustLoc(t, "America/New_York")
	a := New(ny, 16)

	// Exactly 16:00:00 counts as after close.
	ts := time.Date(2025, 3, 10, 16, 0, 0, 0, ny)
	got := a.Align(ts)
	want := time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Align(16:00:00) = %v, want %v", got, want)
	}
}

func TestAlignConvertsToMarketTimezone(t *testing.T) {
	ny := mustLoc(t, "America/New_York")
	a := New(ny, 16)

	// 21:00 UTC on 10 Mar is 17:00 in New York (EDT): after close, so the
	// item belongs to the 11 Mar session.
	ts := time.Date(2025, 3, 10, 21, 0, 0, 0, time.UTC)
	got := a.Align(ts)
	want := time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Align(21:00 UTC) = %v, want %v", got, want)
	}

	// 02:00 UTC on 11 Mar is 22:00 on 10 Mar in New York: still the 11 Mar
	// session, reached via the previous local day + rollover.
	ts = time.Date(2025, 3, 11, 2, 0, 0, 0, time.UTC)
	got = a.Align(ts)
	if !got.Equal(want) {
		t.Errorf("Align(02:00 UTC next day) = %v, want %v", got, want)
	}
}

func TestAlignDefaults(t *testing.T) {
	a := New(nil, 0)
	if a.Location != time.UTC {
		t.Errorf("nil location should default to UTC, got %v", a.Location)
	}
	if a.CloseHour != DefaultCloseHour {
		t.Errorf("close hour = %d, want %d", a.CloseHour, DefaultCloseHour)
	}
}

func TestAlignAllDropsUndatedItems(t *testing.T) {
	a := New(time.UTC, 16)
	items := []models.NewsItem{
		{Title: "dated", PublishedAt: time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)},
		{Title: "undated"}, // zero PublishedAt: unparseable upstream
		{Title: "late", PublishedAt: time.Date(2025, 6, 2, 18, 0, 0, 0, time.UTC)},
	}

	aligned, dropped := a.AlignAll(items)
	if dropped != 1 {
		t.Fatalf("dropped = %d, want 1", dropped)
	}
	if len(aligned) != 2 {
		t.Fatalf("aligned = %d items, want 2", len(aligned))
	}
	if got := aligned[0].TradingDay; !got.Equal(time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("dated item trading day = %v", got)
	}
	if got := aligned[1].TradingDay; !got.Equal(time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("after-close item trading day = %v", got)
	}
}

func TestParseTimestampLayouts(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2025-06-02T14:30:00Z", time.Date(2025, 6, 2, 14, 30, 0, 0, time.UTC)},
		{"Mon, 02 Jun 2025 14:30:00 GMT", time.Date(2025, 6, 2, 14, 30, 0, 0, time.UTC)},
		// Naive stamps are interpreted as UTC.
		{"2025-06-02 14:30:00", time.Date(2025, 6, 2, 14, 30, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, err := ParseTimestamp(tt.in)
		if err != nil {
			t.Errorf("ParseTimestamp(%q): %v", tt.in, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("ParseTimestamp(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseTimestampInvalid(t *testing.T) {
	_, err := ParseTimestamp("not a timestamp")
	if err == nil {
		t.Fatal("expected error for garbage input")
	}
	if !errors.Is(err, ErrInvalidTimestamp) {
		t.Errorf("error = %v, want ErrInvalidTimestamp", err)
	}
}
