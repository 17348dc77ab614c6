package finance

import (
	"sort"

	"github.com/shopspring/decimal"
)

// CategoryShare is one slice of the category pie.
type CategoryShare struct {
	Category Category        `json:"category"`
	Label    string          `json:"label"`
	Count    int             `json:"count"`
	Amount   decimal.Decimal `json:"amount"`
	Percent  decimal.Decimal `json:"percent"`
}

var hundred = decimal.NewFromInt(100)

// Breakdown groups entries of one direction by canonical category. Entries
// whose category is outside the direction's allow-list are ignored. Percent
// is the share of the direction total, rounded to two decimals.
// Shares are ordered by amount descending, then by category key.
func Breakdown(entries []Entry, dir Direction, lang Language) []CategoryShare {
	byCat := make(map[Category]*CategoryShare)
	total := decimal.Zero

	for _, e := range entries {
		amount := e.Amount(dir)
		if !amount.IsPositive() {
			continue
		}
		cat := Normalize(e.Category)
		if !Allowed(cat, dir) {
			continue
		}
		s, ok := byCat[cat]
		if !ok {
			s = &CategoryShare{Category: cat, Label: Label(cat, lang), Amount: decimal.Zero}
			byCat[cat] = s
		}
		s.Count++
		s.Amount = s.Amount.Add(amount)
		total = total.Add(amount)
	}

	shares := make([]CategoryShare, 0, len(byCat))
	for _, s := range byCat {
		if total.IsZero() {
			s.Percent = decimal.Zero
		} else {
			s.Percent = Round2(s.Amount.Mul(hundred).Div(total))
		}
		s.Amount = Round2(s.Amount)
		shares = append(shares, *s)
	}

	sort.Slice(shares, func(i, j int) bool {
		if c := shares[i].Amount.Cmp(shares[j].Amount); c != 0 {
			return c > 0
		}
		return shares[i].Category < shares[j].Category
	})
	return shares
}
