package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Plan holds the monthly budget (limit_value) and savings target of a user.
type Plan struct {
	ID          uint            `gorm:"primaryKey" json:"-"`
	Email       string          `gorm:"size:255;uniqueIndex;not null" json:"email"`
	LimitValue  decimal.Decimal `gorm:"column:limit_value;type:decimal(14,2);not null;default:0" json:"limit_value"`
	TargetValue decimal.Decimal `gorm:"column:target_value;type:decimal(14,2);not null;default:0" json:"target_value"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Plan) TableName() string {
	return "planning"
}

// DailyLimit is the per-day spending cap. Notification is true once the
// over-limit alert went out for Date.
type DailyLimit struct {
	ID           uint            `gorm:"primaryKey" json:"-"`
	Email        string          `gorm:"size:255;uniqueIndex;not null" json:"email"`
	LimitValue   decimal.Decimal `gorm:"column:limit_value;type:decimal(14,2);not null;default:0" json:"limit_value"`
	Notification bool            `gorm:"not null;default:false" json:"notification"`
	Date         string          `gorm:"column:date;size:10" json:"date"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (DailyLimit) TableName() string {
	return "daily_expenses"
}
