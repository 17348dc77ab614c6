package finance

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DayLayout is the calendar date format written to the store.
const DayLayout = "2006-01-02"

var ErrInvalidDate = errors.New("invalid date")

// accepted date layouts, most common first
var dayLayouts = []string{
	DayLayout,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-1-2",
	"2006/01/02",
	"2006/1/2",
}

// Day is a calendar date without a time of day or zone.
type Day struct {
	t time.Time // midnight UTC
}

// NewDay builds a Day from its components. Out of range values are normalized.
func NewDay(year int, month time.Month, day int) Day {
	return Day{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DayOf returns the calendar date of t in t's own location.
func DayOf(t time.Time) Day {
	y, m, d := t.Date()
	return NewDay(y, m, d)
}

// ParseDay parses a stored date string. Timestamps keep the date as written.
func ParseDay(s string) (Day, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Day{}, fmt.Errorf("%w: empty", ErrInvalidDate)
	}
	for _, layout := range dayLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return DayOf(t), nil
		}
	}
	return Day{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

func (d Day) IsZero() bool { return d.t.IsZero() }

func (d Day) String() string {
	if d.t.IsZero() {
		return ""
	}
	return d.t.Format(DayLayout)
}

func (d Day) Year() int          { return d.t.Year() }
func (d Day) Month() time.Month  { return d.t.Month() }
func (d Day) Before(o Day) bool  { return d.t.Before(o.t) }
func (d Day) After(o Day) bool   { return d.t.After(o.t) }
func (d Day) Equal(o Day) bool   { return d.t.Equal(o.t) }
func (d Day) AddDays(n int) Day  { return Day{t: d.t.AddDate(0, 0, n)} }
func (d Day) MonthKey() string   { return d.t.Format("2006-01") }
func (d Day) Time() time.Time    { return d.t }
func (d Day) SameMonth(o Day) bool {
	return d.t.Year() == o.t.Year() && d.t.Month() == o.t.Month()
}

func (d Day) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Day) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*d = Day{}
		return nil
	}
	p, err := ParseDay(string(b))
	if err != nil {
		return err
	}
	*d = p
	return nil
}

// Clock resolves "today" in the configured location.
type Clock struct {
	Now      func() time.Time
	Location *time.Location
}

// SystemClock uses the wall clock in loc.
func SystemClock(loc *time.Location) Clock {
	return Clock{Now: time.Now, Location: loc}
}

// FixedClock always reports t; used by tests and the CLI.
func FixedClock(t time.Time) Clock {
	return Clock{Now: func() time.Time { return t }, Location: t.Location()}
}

func (c Clock) now() time.Time {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	t := now()
	if c.Location != nil {
		t = t.In(c.Location)
	}
	return t
}

// Time is the current instant in the clock's location.
func (c Clock) Time() time.Time {
	return c.now()
}

// Today is the current calendar date.
func (c Clock) Today() Day {
	return DayOf(c.now())
}

// TimeOfDay is the current wall time formatted HH:MM:SS.
func (c Clock) TimeOfDay() string {
	return c.now().Format("15:04:05")
}

// ParseMonth parses "YYYY-MM" and returns the first day of that month.
func ParseMonth(s string) (Day, error) {
	t, err := time.Parse("2006-01", strings.TrimSpace(s))
	if err != nil {
		return Day{}, fmt.Errorf("%w: month %q", ErrInvalidDate, s)
	}
	return DayOf(t), nil
}
