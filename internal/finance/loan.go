package finance

import (
	"errors"
	"math"

	"github.com/shopspring/decimal"
)

var ErrInvalidLoan = errors.New("loan amount, interest rate and term must be positive, term at most 100 years")

// MaxLoanYears bounds the term accepted by MonthlyPayment.
const MaxLoanYears = 100

// Loan describes a fixed-rate amortized loan.
type Loan struct {
	Principal  decimal.Decimal `json:"principal"`
	AnnualRate decimal.Decimal `json:"annual_rate"` // percent, e.g. 5 for 5%
	Years      int             `json:"years"`
}

// LoanQuote is the calculator output.
type LoanQuote struct {
	MonthlyPayment decimal.Decimal `json:"monthly_payment"`
	TotalPayment   decimal.Decimal `json:"total_payment"`
	TotalInterest  decimal.Decimal `json:"total_interest"`
	Months         int             `json:"months"`
}

// MonthlyPayment computes the equal monthly installment
// P*r*(1+r)^n / ((1+r)^n - 1) with r the monthly rate and n the number of months.
func MonthlyPayment(l Loan) (LoanQuote, error) {
	if !l.Principal.IsPositive() || !l.AnnualRate.IsPositive() || l.Years <= 0 || l.Years > MaxLoanYears {
		return LoanQuote{}, ErrInvalidLoan
	}

	p := l.Principal.InexactFloat64()
	r := l.AnnualRate.InexactFloat64() / 12 / 100
	n := l.Years * 12

	growth := math.Pow(1+r, float64(n))
	emi := p * r * growth / (growth - 1)
	if math.IsNaN(emi) || math.IsInf(emi, 0) {
		return LoanQuote{}, ErrInvalidLoan
	}

	monthly := Round2(decimal.NewFromFloat(emi))
	total := monthly.Mul(decimal.NewFromInt(int64(n)))
	return LoanQuote{
		MonthlyPayment: monthly,
		TotalPayment:   total,
		TotalInterest:  total.Sub(l.Principal),
		Months:         n,
	}, nil
}
