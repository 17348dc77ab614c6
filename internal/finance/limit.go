package finance

import "github.com/shopspring/decimal"

// LimitState is the per-user daily spending limit together with the
// "already alerted" flag for Date.
type LimitState struct {
	Limit    decimal.Decimal
	Notified bool
	Date     Day
}

// Rollover clears the flag when the state belongs to an earlier date.
// It reports whether anything changed.
func (s LimitState) Rollover(today Day) (LimitState, bool) {
	if s.Date.Equal(today) {
		return s, false
	}
	return LimitState{Limit: s.Limit, Notified: false, Date: today}, true
}

// Exceeded reports whether spent is strictly above the limit.
func (s LimitState) Exceeded(spent decimal.Decimal) bool {
	return spent.GreaterThan(s.Limit)
}

// LimitOutcome is the result of one AdvanceLimit step.
type LimitOutcome struct {
	State    LimitState
	Reset    bool // the date rolled over
	Alert    bool // the limit was crossed for the first time today
	Exceeded bool
}

// AdvanceLimit moves the limit state to today and applies today's outflow.
// The alert fires only on the transition from not-notified to notified.
func AdvanceLimit(s LimitState, today Day, spent decimal.Decimal) LimitOutcome {
	next, reset := s.Rollover(today)
	out := LimitOutcome{State: next, Reset: reset, Exceeded: next.Exceeded(spent)}
	if out.Exceeded && !next.Notified {
		out.State.Notified = true
		out.Alert = true
	}
	return out
}
