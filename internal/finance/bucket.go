package finance

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// BucketOptions controls BucketByDay.
type BucketOptions struct {
	Now      time.Time
	Location *time.Location // zone used to resolve "today"; nil means Now's own zone
	// Days is the lookback window: entries dated today-Days through today are kept.
	// Zero disables the window.
	Days int
	// RequireTime drops entries without a recorded time of day.
	RequireTime bool
}

// DayBucket groups the entries of one calendar date.
type DayBucket struct {
	Date     Day             `json:"date"`
	Entries  []Entry         `json:"entries"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
}

// SkippedEntry is an entry BucketByDay could not place.
type SkippedEntry struct {
	Entry Entry
	Err   error
}

// BucketByDay groups entries by calendar date, newest date first. Inside a
// bucket entries are ordered by time of day descending, ties by id descending.
// Entries whose date cannot be parsed are returned in the second value.
func BucketByDay(entries []Entry, opts BucketOptions) ([]DayBucket, []SkippedEntry) {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	if opts.Location != nil {
		now = now.In(opts.Location)
	}
	today := DayOf(now)
	from := today.AddDays(-opts.Days)

	var skipped []SkippedEntry
	byDay := make(map[string]*DayBucket)

	for _, e := range entries {
		d, err := e.Day()
		if err != nil {
			skipped = append(skipped, SkippedEntry{Entry: e, Err: err})
			continue
		}
		if opts.Days > 0 && (d.Before(from) || d.After(today)) {
			continue
		}
		if opts.RequireTime && strings.TrimSpace(e.Time) == "" {
			continue
		}

		b, ok := byDay[d.String()]
		if !ok {
			b = &DayBucket{Date: d, Income: decimal.Zero, Expenses: decimal.Zero}
			byDay[d.String()] = b
		}
		b.Entries = append(b.Entries, e)
		b.Income = b.Income.Add(e.In)
		b.Expenses = b.Expenses.Add(e.Out)
	}

	buckets := make([]DayBucket, 0, len(byDay))
	for _, b := range byDay {
		sortEntries(b.Entries)
		b.Income = Round2(b.Income)
		b.Expenses = Round2(b.Expenses)
		buckets = append(buckets, *b)
	}

	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Date.After(buckets[j].Date)
	})

	return buckets, skipped
}

func sortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		ti, tj := clockSeconds(entries[i].Time), clockSeconds(entries[j].Time)
		if ti != tj {
			return ti > tj
		}
		return entries[i].ID > entries[j].ID
	})
}

// clockSeconds converts "HH:MM[:SS]" to seconds after midnight; -1 when absent or malformed.
func clockSeconds(s string) int {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Hour()*3600 + t.Minute()*60 + t.Second()
		}
	}
	return -1
}

// DayTotals is a calendar cell.
type DayTotals struct {
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
}

// Calendar indexes bucket totals by YYYY-MM-DD.
func Calendar(buckets []DayBucket) map[string]DayTotals {
	cal := make(map[string]DayTotals, len(buckets))
	for _, b := range buckets {
		cal[b.Date.String()] = DayTotals{Income: b.Income, Expenses: b.Expenses}
	}
	return cal
}
