package models

import (
	"time"

	"cash-flow/internal/finance"

	"github.com/shopspring/decimal"
)

// CashFlow 表示一笔收入或支出
// created_at 是用户选择的日期（YYYY-MM-DD），不是插入时间；插入时间在 inserted_at
type CashFlow struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	CashIn        decimal.Decimal `gorm:"column:cash_in;type:decimal(14,2);not null;default:0" json:"cash_in"`
	CashOut       decimal.Decimal `gorm:"column:cash_out;type:decimal(14,2);not null;default:0" json:"cash_out"`
	Category      string          `gorm:"size:64;not null" json:"category"`
	Remark        string          `gorm:"size:255" json:"remark"`
	Date          string          `gorm:"column:created_at;size:32;not null;index:idx_cash_flows_email_date,priority:2" json:"created_at"`
	Time          string          `gorm:"size:16" json:"time"`
	Email         string          `gorm:"size:255;not null;index:idx_cash_flows_email_date,priority:1" json:"email"`
	DailyExpenses decimal.Decimal `gorm:"column:daily_expenses;type:decimal(14,2);not null;default:0" json:"daily_expenses"`
	InsertedAt    time.Time       `gorm:"autoCreateTime" json:"-"`
}

func (CashFlow) TableName() string {
	return "cash_flows"
}

// ToEntry converts the row to the form the aggregation functions work on.
func (c CashFlow) ToEntry() finance.Entry {
	return finance.Entry{
		ID:       c.ID,
		In:       c.CashIn,
		Out:      c.CashOut,
		Category: c.Category,
		Remark:   c.Remark,
		Date:     c.Date,
		Time:     c.Time,
	}
}

// CashFlowFromEntry builds a row for email from an entry.
func CashFlowFromEntry(email string, e finance.Entry) CashFlow {
	return CashFlow{
		CashIn:   e.In,
		CashOut:  e.Out,
		Category: e.Category,
		Remark:   e.Remark,
		Date:     e.Date,
		Time:     e.Time,
		Email:    email,
	}
}

// Entries converts a slice of rows.
func Entries(rows []CashFlow) []finance.Entry {
	out := make([]finance.Entry, len(rows))
	for i := range rows {
		out[i] = rows[i].ToEntry()
	}
	return out
}
