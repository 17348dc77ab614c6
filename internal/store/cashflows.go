package store

import (
	"context"
	"fmt"

	"cash-flow/internal/finance"
	"cash-flow/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InsertCashFlow stores row and refreshes the daily_expenses rollup of its
// date in the same transaction, so two concurrent inserts cannot leave a stale total.
func (s *Store) InsertCashFlow(ctx context.Context, row *models.CashFlow) error {
	row.Email = NormalizeEmail(row.Email)
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(row).Error; err != nil {
			return fmt.Errorf("insert cash flow: %w", err)
		}
		total, err := refreshRollup(tx, row.Email, row.Date)
		if err != nil {
			return err
		}
		row.DailyExpenses = total
		return nil
	})
}

// DeleteCashFlow removes one of email's rows and refreshes the rollup of its date.
func (s *Store) DeleteCashFlow(ctx context.Context, email string, id uint) error {
	email = NormalizeEmail(email)
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row models.CashFlow
		if err := tx.Where("id = ? AND email = ?", id, email).First(&row).Error; err != nil {
			return notFound(err)
		}
		if err := tx.Delete(&row).Error; err != nil {
			return fmt.Errorf("delete cash flow: %w", err)
		}
		_, err := refreshRollup(tx, email, row.Date)
		return err
	})
}

// refreshRollup writes the day's total outflow onto every row of that day.
func refreshRollup(tx *gorm.DB, email, date string) (decimal.Decimal, error) {
	total, err := sumOutflow(tx, email, date)
	if err != nil {
		return decimal.Zero, err
	}
	if err := tx.Model(&models.CashFlow{}).
		Where("email = ? AND created_at = ?", email, date).
		Update("daily_expenses", total).Error; err != nil {
		return decimal.Zero, fmt.Errorf("update daily rollup: %w", err)
	}
	return total, nil
}

func sumOutflow(tx *gorm.DB, email, date string) (decimal.Decimal, error) {
	var outs []decimal.Decimal
	if err := tx.Model(&models.CashFlow{}).
		Where("email = ? AND created_at = ?", email, date).
		Pluck("cash_out", &outs).Error; err != nil {
		return decimal.Zero, fmt.Errorf("sum outflow: %w", err)
	}
	total := decimal.Zero
	for _, o := range outs {
		total = total.Add(o)
	}
	return finance.Round2(total), nil
}

// OutflowOn is the sum of cash_out for email on day.
func (s *Store) OutflowOn(ctx context.Context, email string, day finance.Day) (decimal.Decimal, error) {
	return sumOutflow(s.db.WithContext(ctx), NormalizeEmail(email), day.String())
}

// CashFlowsByOwner returns all of email's rows, newest date first.
func (s *Store) CashFlowsByOwner(ctx context.Context, email string) ([]models.CashFlow, error) {
	var rows []models.CashFlow
	if err := s.db.WithContext(ctx).
		Where("email = ?", NormalizeEmail(email)).
		Order("created_at DESC, id DESC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list cash flows: %w", err)
	}
	return rows, nil
}

// CashFlowsOn returns email's rows stored under day.
func (s *Store) CashFlowsOn(ctx context.Context, email string, day finance.Day) ([]models.CashFlow, error) {
	var rows []models.CashFlow
	if err := s.db.WithContext(ctx).
		Where("email = ? AND created_at = ?", NormalizeEmail(email), day.String()).
		Order("id DESC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list cash flows on %s: %w", day, err)
	}
	return rows, nil
}
