package finance

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Direction tells whether an entry is money in or money out.
type Direction string

const (
	Income  Direction = "income"
	Expense Direction = "expense"
)

func ParseDirection(s string) (Direction, error) {
	switch Direction(strings.ToLower(strings.TrimSpace(s))) {
	case Income:
		return Income, nil
	case Expense, "expenses":
		return Expense, nil
	}
	return "", fmt.Errorf("invalid direction %q", s)
}

// Entry is a cash-flow record as the aggregation functions see it.
// Date is kept raw so that malformed rows can be reported instead of dropped silently.
type Entry struct {
	ID       uint            `json:"id"`
	In       decimal.Decimal `json:"cash_in"`
	Out      decimal.Decimal `json:"cash_out"`
	Category string          `json:"category"`
	Remark   string          `json:"remark"`
	Date     string          `json:"date"`
	Time     string          `json:"time,omitempty"`
}

// NewEntry builds an entry holding amount on the side given by dir.
func NewEntry(dir Direction, amount decimal.Decimal, category, remark string, day Day, clock string) Entry {
	e := Entry{
		In:       decimal.Zero,
		Out:      decimal.Zero,
		Category: category,
		Remark:   remark,
		Date:     day.String(),
		Time:     clock,
	}
	if dir == Income {
		e.In = amount
	} else {
		e.Out = amount
	}
	return e
}

// Day parses the entry date.
func (e Entry) Day() (Day, error) {
	return ParseDay(e.Date)
}

// Direction reports income when cash in is positive, expense otherwise.
func (e Entry) Direction() Direction {
	if e.In.IsPositive() {
		return Income
	}
	return Expense
}

// Amount returns the side of the entry matching dir.
func (e Entry) Amount(dir Direction) decimal.Decimal {
	if dir == Income {
		return e.In
	}
	return e.Out
}

// FilterDay keeps entries dated day. Entries with bad dates never match.
func FilterDay(entries []Entry, day Day) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		d, err := e.Day()
		if err != nil || !d.Equal(day) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// FilterMonth keeps entries in the same month as day.
func FilterMonth(entries []Entry, day Day) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		d, err := e.Day()
		if err != nil || !d.SameMonth(day) {
			continue
		}
		out = append(out, e)
	}
	return out
}
