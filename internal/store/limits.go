package store

import (
	"context"
	"fmt"

	"cash-flow/internal/finance"
	"cash-flow/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm/clause"
)

func (s *Store) DailyLimitFor(ctx context.Context, email string) (*models.DailyLimit, error) {
	var l models.DailyLimit
	if err := s.db.WithContext(ctx).Where("email = ?", NormalizeEmail(email)).First(&l).Error; err != nil {
		return nil, notFound(err)
	}
	return &l, nil
}

// SetDailyLimit upserts the limit value. The notification flag is left as is.
func (s *Store) SetDailyLimit(ctx context.Context, email string, v decimal.Decimal) (*models.DailyLimit, error) {
	l := models.DailyLimit{Email: NormalizeEmail(email), LimitValue: v}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"limit_value", "updated_at"}),
	}).Create(&l).Error
	if err != nil {
		return nil, fmt.Errorf("upsert daily limit: %w", err)
	}
	return s.DailyLimitFor(ctx, l.Email)
}

// ResetDailyLimit clears the notification flag and moves the row to day.
func (s *Store) ResetDailyLimit(ctx context.Context, email string, day finance.Day) error {
	return s.updateDailyLimit(ctx, email, map[string]any{"notification": false, "date": day.String()})
}

// ClaimNotification sets the notification flag for day unless it is already
// set. It reports true only to the caller that flipped it.
func (s *Store) ClaimNotification(ctx context.Context, email string, day finance.Day) (bool, error) {
	res := s.db.WithContext(ctx).Model(&models.DailyLimit{}).
		Where("email = ? AND notification = ?", NormalizeEmail(email), false).
		Updates(map[string]any{"notification": true, "date": day.String()})
	if res.Error != nil {
		return false, fmt.Errorf("claim notification: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (s *Store) updateDailyLimit(ctx context.Context, email string, updates map[string]any) error {
	res := s.db.WithContext(ctx).Model(&models.DailyLimit{}).
		Where("email = ?", NormalizeEmail(email)).
		Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("update daily limit: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ResetStaleLimits clears flags left over from earlier dates. It returns the
// number of rows touched.
func (s *Store) ResetStaleLimits(ctx context.Context, today finance.Day) (int64, error) {
	res := s.db.WithContext(ctx).Model(&models.DailyLimit{}).
		Where("notification = ? AND (date IS NULL OR date <> ?)", true, today.String()).
		Updates(map[string]any{"notification": false, "date": today.String()})
	if res.Error != nil {
		return 0, fmt.Errorf("reset stale limits: %w", res.Error)
	}
	return res.RowsAffected, nil
}
