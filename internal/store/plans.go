package store

import (
	"context"
	"fmt"

	"cash-flow/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm/clause"
)

func (s *Store) PlanFor(ctx context.Context, email string) (*models.Plan, error) {
	var p models.Plan
	if err := s.db.WithContext(ctx).Where("email = ?", NormalizeEmail(email)).First(&p).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

// SetPlanLimit upserts the monthly budget, keeping the target.
func (s *Store) SetPlanLimit(ctx context.Context, email string, v decimal.Decimal) (*models.Plan, error) {
	return s.upsertPlan(ctx, models.Plan{Email: NormalizeEmail(email), LimitValue: v, TargetValue: decimal.Zero}, "limit_value")
}

// SetPlanTarget upserts the savings target, keeping the budget.
func (s *Store) SetPlanTarget(ctx context.Context, email string, v decimal.Decimal) (*models.Plan, error) {
	return s.upsertPlan(ctx, models.Plan{Email: NormalizeEmail(email), LimitValue: decimal.Zero, TargetValue: v}, "target_value")
}

func (s *Store) upsertPlan(ctx context.Context, p models.Plan, column string) (*models.Plan, error) {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{column, "updated_at"}),
	}).Create(&p).Error
	if err != nil {
		return nil, fmt.Errorf("upsert plan %s: %w", column, err)
	}
	return s.PlanFor(ctx, p.Email)
}
