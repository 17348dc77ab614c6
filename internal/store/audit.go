package store

import (
	"context"
	"fmt"
	"time"

	"cash-flow/internal/models"

	"gorm.io/gorm"
)

// AuditFilter selects one page of a user's audit trail. Zero From/To leave
// that side open; To is exclusive.
type AuditFilter struct {
	UserID uint
	From   time.Time
	To     time.Time
	Page   int
	Size   int
}

// RecordAudit appends an audit row.
func (s *Store) RecordAudit(ctx context.Context, entry *models.AuditLog) error {
	return s.db.WithContext(ctx).Create(entry).Error
}

// AuditLogs returns one page of the user's audit rows, newest first, and the
// total number of rows matching the filter.
func (s *Store) AuditLogs(ctx context.Context, f AuditFilter) ([]models.AuditLog, int64, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Size <= 0 {
		f.Size = 20
	}

	base := s.db.WithContext(ctx).Model(&models.AuditLog{}).Where("user_id = ?", f.UserID)
	if !f.From.IsZero() {
		base = base.Where("created_at >= ?", f.From)
	}
	if !f.To.IsZero() {
		base = base.Where("created_at < ?", f.To)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count audit logs: %w", err)
	}

	var logs []models.AuditLog
	err := base.
		Order("created_at DESC, id DESC").
		Limit(f.Size).
		Offset((f.Page - 1) * f.Size).
		Find(&logs).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list audit logs: %w", err)
	}
	return logs, total, nil
}
