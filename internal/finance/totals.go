package finance

import "github.com/shopspring/decimal"

// Summary is the income / expenses / balance triple shown on the home screen.
type Summary struct {
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Balance  decimal.Decimal `json:"balance"`
}

// Totals sums every entry. Each figure is rounded to two decimals and the
// balance is computed from the rounded figures so that it always adds up.
func Totals(entries []Entry) Summary {
	in, out := decimal.Zero, decimal.Zero
	for _, e := range entries {
		in = in.Add(e.In)
		out = out.Add(e.Out)
	}
	in, out = Round2(in), Round2(out)
	return Summary{
		Income:   in,
		Expenses: out,
		Balance:  in.Sub(out),
	}
}

// TotalsOn restricts Totals to a single calendar date.
func TotalsOn(entries []Entry, day Day) Summary {
	return Totals(FilterDay(entries, day))
}
